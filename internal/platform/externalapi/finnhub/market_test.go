package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	newsentity "watchlist_backend/internal/feature/news/domain/entity"
)

// newTestMarket spins up a stub Finnhub server and a client pointed at it.
// The cache store is nil, so every call goes straight to the stub.
func newTestMarket(t *testing.T, handler http.HandlerFunc, popular ...string) *FinnhubMarket {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		Timeout:        5 * time.Second,
		PopularSymbols: popular,
	}
	return NewFinnhubMarket(cfg, srv.Client(), nil)
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl "))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestFinnhubMarket_GetStockDetails(t *testing.T) {
	t.Run("assembles and formats the snapshot", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.URL.Query().Get("token"))

			switch r.URL.Path {
			case "/quote":
				fmt.Fprint(w, `{"c":190.12,"d":2.35,"dp":1.25}`)
			case "/stock/profile2":
				fmt.Fprint(w, `{"name":"Apple Inc","marketCapitalization":3000}`)
			case "/stock/metric":
				fmt.Fprint(w, `{"metric":{"peNormalizedAnnual":28.5}}`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		details, err := market.GetStockDetails(context.Background(), " aapl ")

		require.NoError(t, err)
		require.NotNil(t, details)
		assert.Equal(t, "AAPL", details.Symbol)
		assert.Equal(t, "Apple Inc", details.Company)
		assert.Equal(t, "$190.12", details.PriceFormatted)
		assert.Equal(t, "1.25%", details.ChangeFormatted)
		assert.Equal(t, "$3000B", details.MarketCapFormatted)
		require.NotNil(t, details.ChangePercent)
		assert.InDelta(t, 1.25, *details.ChangePercent, 1e-9)
		require.NotNil(t, details.PERatio)
		assert.InDelta(t, 28.5, *details.PERatio, 1e-9)
	})

	t.Run("unknown symbol yields nil without error", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			// Finnhubは未知のシンボルにゼロ値のレスポンスを返す
			switch r.URL.Path {
			case "/quote":
				fmt.Fprint(w, `{"c":0,"d":0,"dp":0}`)
			default:
				fmt.Fprint(w, `{}`)
			}
		})

		details, err := market.GetStockDetails(context.Background(), "ZZZZ")
		require.NoError(t, err)
		assert.Nil(t, details)
	})

	t.Run("metrics failure still yields a snapshot", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/quote":
				fmt.Fprint(w, `{"c":190.12,"dp":1.25}`)
			case "/stock/profile2":
				fmt.Fprint(w, `{"name":"Apple Inc","marketCapitalization":3000}`)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		})

		details, err := market.GetStockDetails(context.Background(), "AAPL")
		require.NoError(t, err)
		require.NotNil(t, details)
		assert.Nil(t, details.PERatio)
		assert.Equal(t, "$190.12", details.PriceFormatted)
	})

	t.Run("empty symbol yields nil without a request", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be issued for an empty symbol")
		})

		details, err := market.GetStockDetails(context.Background(), "   ")
		require.NoError(t, err)
		assert.Nil(t, details)
	})
}

func TestFinnhubMarket_Search(t *testing.T) {
	t.Run("maps and caps query results", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "app", r.URL.Query().Get("q"))

			fmt.Fprint(w, `{"count":2,"result":[`)
			for i := 0; i < 20; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"symbol":"sym%d","description":"Company %d","displaySymbol":"SYM%d","type":"Common Stock"}`, i, i, i)
			}
			fmt.Fprint(w, `]}`)
		})

		results, err := market.Search(context.Background(), " app ")

		require.NoError(t, err)
		assert.Len(t, results, 15, "results should be capped")
		assert.Equal(t, "SYM0", results[0].Symbol, "symbols should be uppercased")
		assert.Equal(t, "Company 0", results[0].Name)
		assert.False(t, results[0].IsInWatchlist)
	})

	t.Run("missing fields fall back to defaults", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"count":1,"result":[{"symbol":"AAPL"}]}`)
		})

		results, err := market.Search(context.Background(), "app")

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AAPL", results[0].Name)
		assert.Equal(t, "US", results[0].Exchange)
		assert.Equal(t, "Stock", results[0].Type)
	})

	t.Run("empty query returns popular profiles and skips failures", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stock/profile2", r.URL.Path)
			switch r.URL.Query().Get("symbol") {
			case "AAPL":
				fmt.Fprint(w, `{"name":"Apple Inc"}`)
			case "MSFT":
				fmt.Fprint(w, `{"name":"Microsoft Corp"}`)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		}, "AAPL", "FAIL", "MSFT")

		results, err := market.Search(context.Background(), "")

		require.NoError(t, err)
		require.Len(t, results, 2, "failed symbols should be skipped")
		assert.Equal(t, "AAPL", results[0].Symbol)
		assert.Equal(t, "MSFT", results[1].Symbol)
	})

	t.Run("upstream error is surfaced", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := market.Search(context.Background(), "app")
		assert.Error(t, err)
	})
}

func TestFinnhubMarket_GetNews(t *testing.T) {
	article := func(id int64, dt int64) string {
		return fmt.Sprintf(`{"id":%d,"headline":"headline %d","source":"wire","url":"https://example.com/%d","datetime":%d}`, id, id, id, dt)
	}

	t.Run("round robins across symbols, caps and sorts newest first", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/company-news", r.URL.Path)
			switch r.URL.Query().Get("symbol") {
			case "AAPL":
				fmt.Fprintf(w, `[%s,%s,%s,%s]`,
					article(1, 100), article(2, 90), article(3, 80), article(4, 70))
			case "MSFT":
				fmt.Fprintf(w, `[%s,%s,%s,%s]`,
					article(5, 95), article(6, 85), article(7, 75), article(8, 65))
			default:
				t.Errorf("unexpected symbol %s", r.URL.Query().Get("symbol"))
			}
		})

		articles, err := market.GetNews(context.Background(), []string{"aapl", "MSFT"})

		require.NoError(t, err)
		require.Len(t, articles, 6, "article count should be capped")

		// ラウンドロビンで各銘柄から3件ずつ集まり、その後新しい順にソートされる
		ids := make([]int64, 0, len(articles))
		for _, a := range articles {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []int64{1, 5, 2, 6, 3, 7}, ids)
		for i := 1; i < len(articles); i++ {
			assert.GreaterOrEqual(t, articles[i-1].Datetime, articles[i].Datetime)
		}
	})

	t.Run("falls back to general news when company news is empty", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/company-news":
				fmt.Fprint(w, `[]`)
			case "/news":
				assert.Equal(t, "general", r.URL.Query().Get("category"))
				fmt.Fprintf(w, `[%s,%s]`, article(1, 100), article(2, 90))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		articles, err := market.GetNews(context.Background(), []string{"AAPL"})

		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.Equal(t, "headline 1", articles[0].Headline)
	})

	t.Run("no symbols fetches general news directly", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/news", r.URL.Path)
			fmt.Fprintf(w, `[%s]`, article(1, 100))
		})

		articles, err := market.GetNews(context.Background(), nil)

		require.NoError(t, err)
		assert.Len(t, articles, 1)
	})

	t.Run("incomplete articles are filtered out", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			// 見出しやURLを欠く記事は表示に使えない
			fmt.Fprintf(w, `[%s,{"id":99,"headline":"","source":"wire","url":"https://example.com/99","datetime":50},{"id":98,"headline":"no url","source":"wire","url":"","datetime":40}]`,
				article(1, 100))
		})

		articles, err := market.GetNews(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, int64(1), articles[0].ID)
	})
}

func TestRoundRobin(t *testing.T) {
	a := func(id int64) newsentity.NewsArticle {
		return newsentity.NewsArticle{ID: id, Headline: "h", Source: "s", URL: "u", Datetime: id}
	}

	t.Run("one per symbol per pass", func(t *testing.T) {
		got := roundRobin([][]newsentity.NewsArticle{
			{a(1), a(2)},
			{a(3)},
			{a(4), a(5), a(6)},
		}, 6)

		ids := make([]int64, 0, len(got))
		for _, it := range got {
			ids = append(ids, it.ID)
		}
		assert.Equal(t, []int64{1, 3, 4, 2, 5, 6}, ids)
	})

	t.Run("stops at the limit", func(t *testing.T) {
		got := roundRobin([][]newsentity.NewsArticle{
			{a(1), a(2), a(3), a(4)},
		}, 2)
		assert.Len(t, got, 2)
	})

	t.Run("empty input yields no articles", func(t *testing.T) {
		assert.Empty(t, roundRobin(nil, 6))
		assert.Empty(t, roundRobin([][]newsentity.NewsArticle{{}, {}}, 6))
	})
}

func TestNewsDateRange(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	from, to := newsDateRange(now)
	assert.Equal(t, "2025-06-05", from)
	assert.Equal(t, "2025-06-10", to)
}
