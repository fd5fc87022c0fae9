package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	newsentity "watchlist_backend/internal/feature/news/domain/entity"
	newsusecase "watchlist_backend/internal/feature/news/usecase"
	searchentity "watchlist_backend/internal/feature/search/domain/entity"
	searchusecase "watchlist_backend/internal/feature/search/usecase"
	watchlistentity "watchlist_backend/internal/feature/watchlist/domain/entity"
	watchlistusecase "watchlist_backend/internal/feature/watchlist/usecase"
	"watchlist_backend/internal/platform/cache"
	"watchlist_backend/internal/platform/externalapi/finnhub/dto"
)

const (
	// maxSearchResults は1回の検索で返す結果の上限です。超過分は切り捨てます。
	maxSearchResults = 15
	// maxPopularProfiles は空クエリ時に返す人気銘柄の上限です。
	maxPopularProfiles = 10
	// maxNewsArticles は1リクエストで返すニュース記事の上限です。
	maxNewsArticles = 6
	// newsLookbackDays は企業ニュースの遡及日数です。
	newsLookbackDays = 5
)

// レスポンス種別ごとのキャッシュ保持期間。
// 株価（quote）はキャッシュせず常に取得します。
const (
	profileTTL = time.Hour
	metricsTTL = time.Hour
	searchTTL  = 30 * time.Minute
	newsTTL    = 15 * time.Minute
)

// FinnhubMarket はFinnhub外部APIから市況データを取得するクライアントです。
// 個々の外部呼び出しの失敗はその銘柄のデータ欠落として扱い、
// 同時に取得している他の銘柄を巻き込みません。
type FinnhubMarket struct {
	cfg    Config
	client *http.Client
	store  *cache.Store // nil可（キャッシュなしで動作）
}

// 各フィーチャーのコンシューマーインターフェースを実装していることをコンパイル時に検証します。
var (
	_ watchlistusecase.MarketRepository = (*FinnhubMarket)(nil)
	_ searchusecase.StockSearcher       = (*FinnhubMarket)(nil)
	_ newsusecase.NewsRepository        = (*FinnhubMarket)(nil)
)

// NewFinnhubMarket は指定された設定・HTTPクライアント・キャッシュストアで
// FinnhubMarketの新しいインスタンスを生成します。storeはnilでも構いません。
func NewFinnhubMarket(cfg Config, client *http.Client, store *cache.Store) *FinnhubMarket {
	return &FinnhubMarket{cfg: cfg, client: client, store: store}
}

// NormalizeSymbol はシンボルを正規化（トリム＋大文字化）します。
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetStockDetails は1銘柄の表示用スナップショットを組み立てます。
// quote・profile・metricsの3つの独立したAPI呼び出しを並行して発行し、
// 株価または企業名が欠けている場合は「未知のシンボル」として(nil, nil)を返します。
func (m *FinnhubMarket) GetStockDetails(ctx context.Context, symbol string) (*watchlistentity.StockDetails, error) {
	clean := NormalizeSymbol(symbol)
	if clean == "" {
		return nil, nil
	}

	var (
		wg      sync.WaitGroup
		quote   *dto.QuoteResponse
		profile *dto.ProfileResponse
		metrics *dto.MetricsResponse
	)

	// 3呼び出しを並行実行。失敗したブランチはnilのまま残し、他を止めない。
	wg.Add(3)
	go func() {
		defer wg.Done()
		q, err := m.fetchQuote(ctx, clean)
		if err != nil {
			slog.Warn("finnhub quote fetch failed", "symbol", clean, "error", err)
			return
		}
		quote = q
	}()
	go func() {
		defer wg.Done()
		p, err := m.fetchProfile(ctx, clean)
		if err != nil {
			slog.Warn("finnhub profile fetch failed", "symbol", clean, "error", err)
			return
		}
		profile = p
	}()
	go func() {
		defer wg.Done()
		mt, err := m.fetchMetrics(ctx, clean)
		if err != nil {
			slog.Warn("finnhub metrics fetch failed", "symbol", clean, "error", err)
			return
		}
		metrics = mt
	}()
	wg.Wait()

	// 現在値か企業名が無ければシンボル未知として扱う（エラーではない）
	if quote == nil || profile == nil || quote.Current == 0 || profile.Name == "" {
		return nil, nil
	}

	changeFormatted := watchlistentity.Placeholder
	if quote.ChangePercent != nil {
		changeFormatted = fmt.Sprintf("%.2f%%", *quote.ChangePercent)
	}

	marketCap := watchlistentity.Placeholder
	if profile.MarketCapitalization > 0 {
		// Finnhubの時価総額は10億ドル単位
		marketCap = "$" + strconv.FormatFloat(profile.MarketCapitalization, 'f', -1, 64) + "B"
	}

	var pe *float64
	if metrics != nil {
		pe = metrics.Metric.PENormalizedAnnual
	}

	return &watchlistentity.StockDetails{
		Symbol:             clean,
		Company:            profile.Name,
		CurrentPrice:       quote.Current,
		ChangePercent:      quote.ChangePercent,
		PriceFormatted:     fmt.Sprintf("$%.2f", quote.Current),
		ChangeFormatted:    changeFormatted,
		MarketCapFormatted: marketCap,
		PERatio:            pe,
	}, nil
}

// Search は銘柄検索を行います。クエリが空の場合は人気銘柄のプロフィールを返します。
// この層ではIsInWatchlistは常にfalseで、オーバーレイは検索サービス側の責務です。
func (m *FinnhubMarket) Search(ctx context.Context, query string) ([]searchentity.StockSearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return m.popularProfiles(ctx), nil
	}

	q := url.Values{}
	q.Set("q", trimmed)

	var resp dto.SearchResponse
	key := m.store.Key("search", strings.ToLower(trimmed))
	if err := m.getJSONCached(ctx, key, searchTTL, "/search", q, &resp); err != nil {
		return nil, err
	}

	items := resp.Result
	if len(items) > maxSearchResults {
		items = items[:maxSearchResults]
	}

	out := make([]searchentity.StockSearchResult, 0, len(items))
	for _, it := range items {
		out = append(out, searchentity.StockSearchResult{
			Symbol:   strings.ToUpper(it.Symbol),
			Name:     orDefault(it.Description, it.Symbol),
			Exchange: orDefault(it.DisplaySymbol, "US"),
			Type:     orDefault(it.Type, "Stock"),
		})
	}
	return out, nil
}

// popularProfiles は設定された人気銘柄のプロフィールを並行取得します。
// 取得に失敗した銘柄は黙ってスキップします。
func (m *FinnhubMarket) popularProfiles(ctx context.Context) []searchentity.StockSearchResult {
	top := m.cfg.PopularSymbols
	if len(top) > maxPopularProfiles {
		top = top[:maxPopularProfiles]
	}

	results := make([]*searchentity.StockSearchResult, len(top))
	var wg sync.WaitGroup
	for i, symbol := range top {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			p, err := m.fetchProfile(ctx, symbol)
			if err != nil || p.Name == "" {
				return
			}
			results[i] = &searchentity.StockSearchResult{
				Symbol:   symbol,
				Name:     p.Name,
				Exchange: symbol,
				Type:     "Stock",
			}
		}(i, symbol)
	}
	wg.Wait()

	out := make([]searchentity.StockSearchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// GetNews はニュース記事を取得します。
// シンボル指定時は各銘柄の企業ニュースを並行取得し、1パスにつき各銘柄から
// 1記事ずつラウンドロビンで集め、上限に達したら新しい順にソートして返します。
// 企業ニュースが1件も得られなければ一般ニュースにフォールバックします。
func (m *FinnhubMarket) GetNews(ctx context.Context, symbols []string) ([]newsentity.NewsArticle, error) {
	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if n := NormalizeSymbol(s); n != "" {
			cleaned = append(cleaned, n)
		}
	}

	if len(cleaned) > 0 {
		from, to := newsDateRange(time.Now())

		perSymbol := make([][]newsentity.NewsArticle, len(cleaned))
		var wg sync.WaitGroup
		for i, symbol := range cleaned {
			wg.Add(1)
			go func(i int, symbol string) {
				defer wg.Done()
				articles, err := m.fetchCompanyNews(ctx, symbol, from, to)
				if err != nil {
					slog.Warn("finnhub company news fetch failed", "symbol", symbol, "error", err)
					return
				}
				perSymbol[i] = articles
			}(i, symbol)
		}
		wg.Wait()

		collected := roundRobin(perSymbol, maxNewsArticles)
		if len(collected) > 0 {
			sort.Slice(collected, func(a, b int) bool {
				return collected[a].Datetime > collected[b].Datetime
			})
			return collected, nil
		}
	}

	general, err := m.fetchGeneralNews(ctx)
	if err != nil {
		return nil, err
	}
	if len(general) > maxNewsArticles {
		general = general[:maxNewsArticles]
	}
	return general, nil
}

// roundRobin は銘柄ごとの記事リストから1パスにつき1記事ずつ集めます。
// 同じ記事が複数銘柄に関連付くと重複して現れることがありますが、これは仕様です。
func roundRobin(perSymbol [][]newsentity.NewsArticle, limit int) []newsentity.NewsArticle {
	collected := make([]newsentity.NewsArticle, 0, limit)
	for pass := 0; len(collected) < limit; pass++ {
		progressed := false
		for _, articles := range perSymbol {
			if pass >= len(articles) {
				continue
			}
			collected = append(collected, articles[pass])
			progressed = true
			if len(collected) >= limit {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return collected
}

// newsDateRange は企業ニュース取得の対象期間（過去newsLookbackDays日）を返します。
func newsDateRange(now time.Time) (from, to string) {
	return now.AddDate(0, 0, -newsLookbackDays).Format("2006-01-02"),
		now.Format("2006-01-02")
}

func (m *FinnhubMarket) fetchQuote(ctx context.Context, symbol string) (*dto.QuoteResponse, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var resp dto.QuoteResponse
	if err := m.getJSON(ctx, "/quote", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (m *FinnhubMarket) fetchProfile(ctx context.Context, symbol string) (*dto.ProfileResponse, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var resp dto.ProfileResponse
	key := m.store.Key("profile", symbol)
	if err := m.getJSONCached(ctx, key, profileTTL, "/stock/profile2", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (m *FinnhubMarket) fetchMetrics(ctx context.Context, symbol string) (*dto.MetricsResponse, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("metric", "all")

	var resp dto.MetricsResponse
	key := m.store.Key("metrics", symbol)
	if err := m.getJSONCached(ctx, key, metricsTTL, "/stock/metric", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (m *FinnhubMarket) fetchCompanyNews(ctx context.Context, symbol, from, to string) ([]newsentity.NewsArticle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", from)
	q.Set("to", to)

	var items []dto.NewsItem
	key := m.store.Key("news", symbol, from, to)
	if err := m.getJSONCached(ctx, key, newsTTL, "/company-news", q, &items); err != nil {
		return nil, err
	}
	return articlesFromDTO(items, symbol), nil
}

func (m *FinnhubMarket) fetchGeneralNews(ctx context.Context) ([]newsentity.NewsArticle, error) {
	q := url.Values{}
	q.Set("category", "general")

	var items []dto.NewsItem
	key := m.store.Key("news", "general")
	if err := m.getJSONCached(ctx, key, newsTTL, "/news", q, &items); err != nil {
		return nil, err
	}
	return articlesFromDTO(items, ""), nil
}

// articlesFromDTO はDTOをエンティティに変換し、表示に足りない記事を除外します。
func articlesFromDTO(items []dto.NewsItem, related string) []newsentity.NewsArticle {
	out := make([]newsentity.NewsArticle, 0, len(items))
	for _, it := range items {
		a := newsentity.NewsArticle{
			ID:       it.ID,
			Headline: strings.TrimSpace(it.Headline),
			Source:   it.Source,
			Summary:  it.Summary,
			URL:      it.URL,
			Image:    it.Image,
			Category: it.Category,
			Related:  related,
			Datetime: it.Datetime,
		}
		if a.Related == "" {
			a.Related = it.Related
		}
		if !a.IsValid() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// getJSONCached はキャッシュを確認してからgetJSONを呼び、結果をTTL付きで保存します。
func (m *FinnhubMarket) getJSONCached(ctx context.Context, key string, ttl time.Duration, path string, q url.Values, dest any) error {
	if m.store.GetJSON(ctx, key, dest) {
		return nil
	}
	if err := m.getJSON(ctx, path, q, dest); err != nil {
		return err
	}
	m.store.SetJSON(ctx, key, dest, ttl)
	return nil
}

// getJSON はAPIキー付きでGETリクエストを実行し、JSONレスポンスをデコードします。
func (m *FinnhubMarket) getJSON(ctx context.Context, path string, q url.Values, dest any) error {
	q.Set("token", m.cfg.APIKey)
	u := fmt.Sprintf("%s%s?%s", m.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("finnhub http %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(dest)
}

// orDefault は値が空のときフォールバックを返します。
func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
