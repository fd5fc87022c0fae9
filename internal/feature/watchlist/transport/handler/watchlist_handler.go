// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"watchlist_backend/internal/api"
	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// WatchlistUsecase はウォッチリスト操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type WatchlistUsecase interface {
	Add(ctx context.Context, owner, symbol, company string) error
	Remove(ctx context.Context, owner, symbol string) error
	List(ctx context.Context, owner string) ([]entity.WatchlistEntry, error)
	GetEnriched(ctx context.Context, owner string) ([]entity.EnrichedEntry, error)
	ExportCSV(ctx context.Context, owner string) ([]byte, error)
}

// WatchlistHandler はウォッチリストのHTTPリクエストを処理します。
// すべての操作でオーナーキー（認証ミドルウェアが設定）が必須です。
type WatchlistHandler struct {
	uc WatchlistUsecase
}

// NewWatchlistHandler は指定されたusecaseでWatchlistHandlerの新しいインスタンスを生成します。
func NewWatchlistHandler(uc WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{uc: uc}
}

// List はGET /watchlistを処理します。
// ?export=csv 指定時はCSVファイルとしてダウンロードさせます。
func (h *WatchlistHandler) List(c *gin.Context) {
	owner := jwtmw.OwnerKey(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	if c.Query("export") == "csv" {
		csv, err := h.uc.ExportCSV(c.Request.Context(), owner)
		if err != nil {
			slog.Error("watchlist export failed", "owner", owner, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "watchlist-"+owner+".csv"))
		c.Data(http.StatusOK, "text/csv", csv)
		return
	}

	items, err := h.uc.List(c.Request.Context(), owner)
	if err != nil {
		slog.Error("watchlist list failed", "owner", owner, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
		return
	}

	out := make([]api.WatchlistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, api.WatchlistItemResponse{
			Symbol:  item.Symbol,
			Company: item.Company,
			AddedAt: item.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, api.WatchlistListResponse{Items: out})
}

// Quotes はGET /watchlist/quotesを処理し、市況データで補強した表示用の行を返します。
// 市況データが取得できなかった行はプレースホルダー付きでそのまま返ります。
func (h *WatchlistHandler) Quotes(c *gin.Context) {
	owner := jwtmw.OwnerKey(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	rows, err := h.uc.GetEnriched(c.Request.Context(), owner)
	if err != nil {
		slog.Error("watchlist quotes failed", "owner", owner, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
		return
	}

	out := make([]api.EnrichedEntryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, api.EnrichedEntryResponse{
			Symbol:          row.Symbol,
			Company:         row.Company,
			PriceFormatted:  row.PriceFormatted,
			ChangeFormatted: row.ChangeFormatted,
			ChangePercent:   row.ChangePercent,
			MarketCap:       row.MarketCapFormatted,
			PERatio:         row.PERatio,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Add はPOST /watchlistを処理します。
// - symbol未指定は400（401とは区別される）
// - 既に登録済みの場合は409
// - 成功時は201
func (h *WatchlistHandler) Add(c *gin.Context) {
	owner := jwtmw.OwnerKey(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req api.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
		return
	}

	if err := h.uc.Add(c.Request.Context(), owner, req.Symbol, req.Company); err != nil {
		switch {
		case errors.Is(err, usecase.ErrAlreadyInWatchlist):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "stock already in watchlist"})
		case errors.Is(err, usecase.ErrEmptySymbol):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
		default:
			slog.Error("watchlist add failed", "owner", owner, "symbol", req.Symbol, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
		}
		return
	}

	slog.Info("watchlist add", "owner", owner, "symbol", req.Symbol)
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// Remove はDELETE /watchlistを処理します。削除は冪等で、未登録でも200を返します。
func (h *WatchlistHandler) Remove(c *gin.Context) {
	owner := jwtmw.OwnerKey(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req api.RemoveWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
		return
	}

	if err := h.uc.Remove(c.Request.Context(), owner, req.Symbol); err != nil {
		if errors.Is(err, usecase.ErrEmptySymbol) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
			return
		}
		slog.Error("watchlist remove failed", "owner", owner, "symbol", req.Symbol, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "server error"})
		return
	}

	slog.Info("watchlist remove", "owner", owner, "symbol", req.Symbol)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}
