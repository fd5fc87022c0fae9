// Package usecase はnewsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	"watchlist_backend/internal/feature/news/domain/entity"
)

// NewsRepository はニュース記事の取得層を抽象化します。
type NewsRepository interface {
	// GetNews はシンボル指定時は企業ニュースを、指定なし・結果なしの場合は
	// 一般ニュースを返します。件数は上限までに切り詰められます。
	GetNews(ctx context.Context, symbols []string) ([]entity.NewsArticle, error)
}

// newsUsecase はニュース取得のユースケースです。
type newsUsecase struct {
	news NewsRepository
}

// NewNewsUsecase はnewsUsecaseの新しいインスタンスを生成します。
func NewNewsUsecase(news NewsRepository) *newsUsecase {
	return &newsUsecase{news: news}
}

// GetNews はニュース記事を返します。上流の失敗は空のリストに劣化させます
// （市況データの欠落はユーザー向けエラーにしない方針）。
func (u *newsUsecase) GetNews(ctx context.Context, symbols []string) ([]entity.NewsArticle, error) {
	articles, err := u.news.GetNews(ctx, symbols)
	if err != nil {
		slog.Warn("news fetch failed", "error", err)
		return []entity.NewsArticle{}, nil
	}
	if articles == nil {
		articles = []entity.NewsArticle{}
	}
	return articles, nil
}
