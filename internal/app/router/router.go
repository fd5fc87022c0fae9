package router

import (
	"github.com/gin-gonic/gin"

	authhandler "watchlist_backend/internal/feature/auth/transport/handler"
	newshandler "watchlist_backend/internal/feature/news/transport/handler"
	searchhandler "watchlist_backend/internal/feature/search/transport/handler"
	watchlisthandler "watchlist_backend/internal/feature/watchlist/transport/handler"
	"watchlist_backend/internal/platform/http/handler"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// NewRouter はアプリケーションのルーティングを構成します。
func NewRouter(auth *authhandler.AuthHandler, watchlist *watchlisthandler.WatchlistHandler,
	search *searchhandler.SearchHandler, news *newshandler.NewsHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", auth.Login)

	// 認証必須のルート
	// リクエストヘッダーのBearer JWTからオーナーキーを解決する
	authed := r.Group("/")
	authed.Use(jwtmw.AuthRequired())
	{
		// ウォッチリスト（?export=csv でファイルダウンロード）
		authed.GET("/watchlist", watchlist.List)
		// 市況データ付きの表示用ウォッチリスト
		authed.GET("/watchlist/quotes", watchlist.Quotes)
		authed.POST("/watchlist", watchlist.Add)
		authed.DELETE("/watchlist", watchlist.Remove)
		// 銘柄検索（空クエリは人気銘柄）
		authed.GET("/search", search.Search)
		// ニュース（symbols指定で企業ニュース）
		authed.GET("/news", news.List)
	}

	return r
}
