// Package api はHTTPレイヤーで使用するリクエスト/レスポンスのワイヤ型を定義します。
package api

// ErrorResponse はエラー時の共通レスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は成功時の共通レスポンスボディです。
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse はログイン成功時にJWTトークンを返すレスポンスボディです。
type TokenResponse struct {
	Token string `json:"token"`
}

// SignupRequest は/signupのリクエストボディを表す構造体です。
// Ginのbindingタグで入力チェック（必須・メール形式・パスワード長）を行います。
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest は/loginのリクエストボディを表す構造体です。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AddWatchlistRequest はPOST /watchlistのリクエストボディです。
// symbolは必須、companyは任意（未指定時はシンボルをそのまま表示名にします）。
type AddWatchlistRequest struct {
	Symbol  string `json:"symbol" binding:"required"`
	Company string `json:"company"`
}

// RemoveWatchlistRequest はDELETE /watchlistのリクエストボディです。
type RemoveWatchlistRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// WatchlistItemResponse はウォッチリスト1件分のレスポンスです。
type WatchlistItemResponse struct {
	Symbol  string `json:"symbol"`
	Company string `json:"company"`
	AddedAt string `json:"addedAt"`
}

// WatchlistListResponse はGET /watchlistのレスポンスボディです。
type WatchlistListResponse struct {
	Items []WatchlistItemResponse `json:"items"`
}

// EnrichedEntryResponse は市況データで補強された表示用の1行です。
// 市況データが取得できなかった項目はプレースホルダー（"—"）またはnullになります。
type EnrichedEntryResponse struct {
	Symbol          string   `json:"symbol"`
	Company         string   `json:"company"`
	PriceFormatted  string   `json:"priceFormatted"`
	ChangeFormatted string   `json:"changeFormatted"`
	ChangePercent   *float64 `json:"changePercent"`
	MarketCap       string   `json:"marketCap"`
	PERatio         *float64 `json:"peRatio"`
}

// SearchResultResponse は銘柄検索結果の1件です。
type SearchResultResponse struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Type          string `json:"type"`
	IsInWatchlist bool   `json:"isInWatchlist"`
}

// NewsArticleResponse はニュース記事1件分のレスポンスです。
type NewsArticleResponse struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Related  string `json:"related"`
	Datetime int64  `json:"datetime"`
}
