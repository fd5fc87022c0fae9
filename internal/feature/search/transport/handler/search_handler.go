// Package handler はsearchフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist_backend/internal/api"
	"watchlist_backend/internal/feature/search/domain/entity"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// SearchUsecase は銘柄検索のユースケースインターフェースを定義します。
type SearchUsecase interface {
	Search(ctx context.Context, owner, query string) ([]entity.StockSearchResult, error)
}

// SearchHandler は銘柄検索のHTTPリクエストを処理します。
type SearchHandler struct {
	uc SearchUsecase
}

// NewSearchHandler は指定されたusecaseでSearchHandlerの新しいインスタンスを生成します。
func NewSearchHandler(uc SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// Search はGET /search?q=... を処理します。
// クエリが空の場合は人気銘柄が返り、各結果に呼び出しユーザーの
// ウォッチリスト登録状況が付与されます。
func (h *SearchHandler) Search(c *gin.Context) {
	owner := jwtmw.OwnerKey(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	results, err := h.uc.Search(c.Request.Context(), owner, c.Query("q"))
	if err != nil {
		slog.Error("search failed", "owner", owner, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
		return
	}

	out := make([]api.SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, api.SearchResultResponse{
			Symbol:        r.Symbol,
			Name:          r.Name,
			Exchange:      r.Exchange,
			Type:          r.Type,
			IsInWatchlist: r.IsInWatchlist,
		})
	}
	c.JSON(http.StatusOK, out)
}
