// Package usecase はsearchフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	"watchlist_backend/internal/feature/search/domain/entity"
)

// StockSearcher は銘柄検索の取得層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type StockSearcher interface {
	// Search はクエリに一致する銘柄を返します。IsInWatchlistは常にfalseです。
	Search(ctx context.Context, query string) ([]entity.StockSearchResult, error)
}

// WatchlistSymbols はオーナーの登録シンボル取得を抽象化します。
type WatchlistSymbols interface {
	SymbolsOf(ctx context.Context, owner string) ([]string, error)
}

// searchUsecase は検索結果にウォッチリスト登録状況を重ねるユースケースです。
type searchUsecase struct {
	market    StockSearcher
	watchlist WatchlistSymbols
}

// NewSearchUsecase はsearchUsecaseの新しいインスタンスを生成します。
func NewSearchUsecase(market StockSearcher, watchlist WatchlistSymbols) *searchUsecase {
	return &searchUsecase{market: market, watchlist: watchlist}
}

// Search は銘柄検索を行い、各結果に呼び出しユーザーのウォッチリスト登録状況を
// 付与して返します。オーナーが未解決の場合は空の結果を返します
// （検索には本人確認が必要、という明示的なプロダクト仕様）。
// 市況API側の失敗は空の結果に劣化させ、エラーとしては伝播させません。
func (u *searchUsecase) Search(ctx context.Context, owner, query string) ([]entity.StockSearchResult, error) {
	if owner == "" {
		return []entity.StockSearchResult{}, nil
	}

	results, err := u.market.Search(ctx, query)
	if err != nil {
		slog.Warn("stock search failed", "query", query, "error", err)
		return []entity.StockSearchResult{}, nil
	}

	symbols, err := u.watchlist.SymbolsOf(ctx, owner)
	if err != nil {
		// 永続化層の失敗は市況データと違い、呼び出し元に伝える
		return nil, err
	}

	inWatchlist := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		inWatchlist[s] = struct{}{}
	}

	for i := range results {
		_, ok := inWatchlist[results[i].Symbol]
		results[i].IsInWatchlist = ok
	}
	return results, nil
}
