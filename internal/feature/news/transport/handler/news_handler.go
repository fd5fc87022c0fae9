// Package handler はnewsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"watchlist_backend/internal/api"
	"watchlist_backend/internal/feature/news/domain/entity"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// NewsUsecase はニュース取得のユースケースインターフェースを定義します。
type NewsUsecase interface {
	GetNews(ctx context.Context, symbols []string) ([]entity.NewsArticle, error)
}

// NewsHandler はニュースのHTTPリクエストを処理します。
type NewsHandler struct {
	uc NewsUsecase
}

// NewNewsHandler は指定されたusecaseでNewsHandlerの新しいインスタンスを生成します。
func NewNewsHandler(uc NewsUsecase) *NewsHandler {
	return &NewsHandler{uc: uc}
}

// List はGET /news?symbols=AAPL,MSFT を処理します。
// symbols未指定時は一般ニュースを返します。上流の失敗は空のリストになります。
func (h *NewsHandler) List(c *gin.Context) {
	owner := jwtmw.OwnerKey(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}

	articles, err := h.uc.GetNews(c.Request.Context(), symbols)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
		return
	}

	out := make([]api.NewsArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, api.NewsArticleResponse{
			ID:       a.ID,
			Headline: a.Headline,
			Source:   a.Source,
			Summary:  a.Summary,
			URL:      a.URL,
			Image:    a.Image,
			Category: a.Category,
			Related:  a.Related,
			Datetime: a.Datetime,
		})
	}
	c.JSON(http.StatusOK, out)
}
