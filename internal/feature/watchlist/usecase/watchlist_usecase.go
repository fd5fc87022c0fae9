package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// WatchlistRepository はウォッチリストエントリの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type WatchlistRepository interface {
	// Add はエントリを追加します。同じ(owner, symbol)が既に存在する場合、
	// ErrAlreadyInWatchlistを返します。
	Add(ctx context.Context, entry *entity.WatchlistEntry) error

	// Remove は(owner, symbol)のエントリを削除します。存在しない場合も成功します（冪等）。
	Remove(ctx context.Context, owner, symbol string) error

	// List はオーナーのエントリを追加日時の降順で返します。
	List(ctx context.Context, owner string) ([]entity.WatchlistEntry, error)

	// SymbolsOf はオーナーの登録シンボルのみを返します（メンバーシップ判定用）。
	SymbolsOf(ctx context.Context, owner string) ([]string, error)
}

// MarketRepository は市況データの取得層を抽象化します。
type MarketRepository interface {
	// GetStockDetails は1銘柄の表示用スナップショットを返します。
	// シンボルが未知の場合は(nil, nil)を返します。
	GetStockDetails(ctx context.Context, symbol string) (*entity.StockDetails, error)
}

// watchlistUsecase はウォッチリスト操作のビジネスロジックを実装します。
type watchlistUsecase struct {
	entries WatchlistRepository
	market  MarketRepository
}

// NewWatchlistUsecase はwatchlistUsecaseの新しいインスタンスを生成します。
func NewWatchlistUsecase(entries WatchlistRepository, market MarketRepository) *watchlistUsecase {
	return &watchlistUsecase{entries: entries, market: market}
}

// normalizeSymbol はシンボルを正規化（トリム＋大文字化）します。
// 保存・照合・削除のすべてがこの正規化済み表現で行われます。
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Add はウォッチリストに銘柄を追加します。
// companyが空の場合はシンボルを表示名として使います。
func (u *watchlistUsecase) Add(ctx context.Context, owner, symbol, company string) error {
	clean := normalizeSymbol(symbol)
	if clean == "" {
		return ErrEmptySymbol
	}
	company = strings.TrimSpace(company)
	if company == "" {
		company = clean
	}
	return u.entries.Add(ctx, &entity.WatchlistEntry{
		OwnerKey: owner,
		Symbol:   clean,
		Company:  company,
	})
}

// Remove はウォッチリストから銘柄を削除します。未登録でも成功します（冪等）。
func (u *watchlistUsecase) Remove(ctx context.Context, owner, symbol string) error {
	clean := normalizeSymbol(symbol)
	if clean == "" {
		return ErrEmptySymbol
	}
	return u.entries.Remove(ctx, owner, clean)
}

// List はオーナーのウォッチリストを追加日時の降順で返します。
func (u *watchlistUsecase) List(ctx context.Context, owner string) ([]entity.WatchlistEntry, error) {
	return u.entries.List(ctx, owner)
}

// GetEnriched はウォッチリストの各エントリを市況データで補強した表示用の行を返します。
// 各エントリのスナップショットは並行取得し、取得できなかった行はプレースホルダーで
// 埋めます。1銘柄の失敗がリスト全体の失敗になることはありません。
// 返却順はList()の順（追加が新しい順）と一致します。
func (u *watchlistUsecase) GetEnriched(ctx context.Context, owner string) ([]entity.EnrichedEntry, error) {
	items, err := u.entries.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.EnrichedEntry, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item entity.WatchlistEntry) {
			defer wg.Done()
			details, err := u.market.GetStockDetails(ctx, item.Symbol)
			if err != nil {
				// 市況データの欠落はエラーにせず、プレースホルダー行として扱う
				slog.Warn("stock details fetch failed", "symbol", item.Symbol, "error", err)
				details = nil
			}
			rows[i] = enrichedRow(item, details)
		}(i, item)
	}
	wg.Wait()

	return rows, nil
}

// enrichedRow はエントリとスナップショットから表示用の1行を組み立てます。
// スナップショットがnilの場合は保存済みの企業名とプレースホルダーを使います。
func enrichedRow(item entity.WatchlistEntry, details *entity.StockDetails) entity.EnrichedEntry {
	if details == nil {
		return entity.EnrichedEntry{
			Symbol:             item.Symbol,
			Company:            item.Company,
			PriceFormatted:     entity.Placeholder,
			ChangeFormatted:    entity.Placeholder,
			ChangePercent:      nil,
			MarketCapFormatted: entity.Placeholder,
			PERatio:            nil,
		}
	}
	return entity.EnrichedEntry{
		Symbol:             item.Symbol,
		Company:            details.Company,
		PriceFormatted:     details.PriceFormatted,
		ChangeFormatted:    details.ChangeFormatted,
		ChangePercent:      details.ChangePercent,
		MarketCapFormatted: details.MarketCapFormatted,
		PERatio:            details.PERatio,
	}
}

// ExportCSV はウォッチリストを2列のCSV（symbol,company）として出力します。
// 企業名に含まれるカンマはスペースに置換し、連続する空白は1つにまとめるため、
// どんな入力でも行構造は壊れません。末尾に改行は付けません。
func (u *watchlistUsecase) ExportCSV(ctx context.Context, owner string) ([]byte, error) {
	items, err := u.entries.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, "symbol,company")
	for _, item := range items {
		lines = append(lines, item.Symbol+","+csvSafeCompany(item.Company))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// csvSafeCompany はカンマをスペースに置換し、空白の連続をまとめます。
func csvSafeCompany(company string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(company, ",", " ")), " ")
}
