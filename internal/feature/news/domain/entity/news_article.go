// Package entity はnewsフィーチャーのドメインエンティティを定義します。
package entity

// NewsArticle はニュース記事1件です。永続化されません。
type NewsArticle struct {
	ID       int64
	Headline string
	Source   string
	Summary  string
	URL      string
	Image    string
	Category string
	// Related は企業ニュースの場合の関連シンボルです。一般ニュースでは空です。
	Related  string
	Datetime int64 // unix seconds
}

// IsValid は記事が表示に足る最低限のフィールドを持つかを判定します。
func (a NewsArticle) IsValid() bool {
	return a.Headline != "" && a.URL != "" && a.Source != "" && a.Datetime > 0
}
