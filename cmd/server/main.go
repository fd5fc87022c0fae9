package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"watchlist_backend/internal/app/di"
	"watchlist_backend/internal/app/router"
	authadapters "watchlist_backend/internal/feature/auth/adapters"
	authhandler "watchlist_backend/internal/feature/auth/transport/handler"
	authusecase "watchlist_backend/internal/feature/auth/usecase"
	newshandler "watchlist_backend/internal/feature/news/transport/handler"
	newsusecase "watchlist_backend/internal/feature/news/usecase"
	searchhandler "watchlist_backend/internal/feature/search/transport/handler"
	searchusecase "watchlist_backend/internal/feature/search/usecase"
	watchlistadapters "watchlist_backend/internal/feature/watchlist/adapters"
	watchlisthandler "watchlist_backend/internal/feature/watchlist/transport/handler"
	watchlistusecase "watchlist_backend/internal/feature/watchlist/usecase"
	infradb "watchlist_backend/internal/platform/db"
	infraredis "watchlist_backend/internal/platform/redis"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

func main() {
	// .envがあれば読み込む（本番は環境変数で注入）
	_ = godotenv.Load()

	// db
	db := infradb.OpenDB()

	// Redis（レスポンスキャッシュ用。なければキャッシュなしで起動）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without response cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 市況データクライアント（APIキー未設定は起動時エラー）
	store := di.NewCacheStore(rdb)
	market, err := di.NewMarket(store)
	if err != nil {
		log.Fatalf("market data client init failed: %v", err)
	}

	// JWT_SECRETチェック
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	jwtGen := jwtmw.NewGenerator(secret, 24*time.Hour)

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	watchlistRepo := watchlistadapters.NewWatchlistRepository(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	watchlistUC := watchlistusecase.NewWatchlistUsecase(watchlistRepo, market)
	searchUC := searchusecase.NewSearchUsecase(market, watchlistRepo)
	newsUC := newsusecase.NewNewsUsecase(market)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	watchlistH := watchlisthandler.NewWatchlistHandler(watchlistUC)
	searchH := searchhandler.NewSearchHandler(searchUC)
	newsH := newshandler.NewNewsHandler(newsUC)

	// ルータ生成
	router := router.NewRouter(authH, watchlistH, searchH, newsH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
