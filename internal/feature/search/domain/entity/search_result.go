// Package entity はsearchフィーチャーのドメインエンティティを定義します。
package entity

// StockSearchResult は銘柄検索の結果1件です。
// IsInWatchlistはリクエストごとに呼び出しユーザーのウォッチリストと照合して決まります。
type StockSearchResult struct {
	Symbol        string
	Name          string
	Exchange      string
	Type          string
	IsInWatchlist bool
}
