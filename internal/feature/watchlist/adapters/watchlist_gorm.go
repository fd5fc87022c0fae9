// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// watchlistGorm はWatchlistRepositoryインターフェースのGORM実装です。
type watchlistGorm struct {
	db *gorm.DB
}

// watchlistGormがWatchlistRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.WatchlistRepository = (*watchlistGorm)(nil)

// NewWatchlistRepository は指定されたDB接続でwatchlistGormリポジトリの
// 新しいインスタンスを生成します。
func NewWatchlistRepository(db *gorm.DB) *watchlistGorm {
	return &watchlistGorm{db: db}
}

// Add はエントリを1文のアトミックなINSERTで追加します。
// (owner_key, symbol)の一意インデックスと ON CONFLICT DO NOTHING の組み合わせで、
// 競合時でも同一ペアの行が2件になる瞬間は存在しません。
// 既存行と衝突した場合（影響行数0）はErrAlreadyInWatchlistを返します。
func (r *watchlistGorm) Add(ctx context.Context, e *entity.WatchlistEntry) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_key"}, {Name: "symbol"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrAlreadyInWatchlist
	}
	return nil
}

// Remove は(owner, symbol)のエントリを削除します。
// 対象が存在しなくても成功します（冪等）。UIからの再試行を想定した仕様です。
func (r *watchlistGorm) Remove(ctx context.Context, owner, symbol string) error {
	res := r.db.WithContext(ctx).
		Where("owner_key = ? AND symbol = ?", owner, symbol).
		Delete(&entity.WatchlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		slog.Debug("watchlist remove: no matching entry", "owner", owner, "symbol", symbol)
	}
	return nil
}

// List はオーナーのエントリを追加日時の降順（新しい順）で返します。
// 同時刻のエントリはIDの降順で安定させます。
func (r *watchlistGorm) List(ctx context.Context, owner string) ([]entity.WatchlistEntry, error) {
	var entries []entity.WatchlistEntry
	if err := r.db.WithContext(ctx).
		Where("owner_key = ?", owner).
		Order("added_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SymbolsOf はオーナーの登録シンボルのみを返します。
func (r *watchlistGorm) SymbolsOf(ctx context.Context, owner string) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&entity.WatchlistEntry{}).
		Where("owner_key = ?", owner).
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
