// Package facade composes the market data client with the portfolio store
// and holds the application state consumed by presentation layers.
package facade

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meshivamsingh/cryptoMate/internal/cache"
	"github.com/meshivamsingh/cryptoMate/internal/common"
	"github.com/meshivamsingh/cryptoMate/internal/marketdata"
	"github.com/meshivamsingh/cryptoMate/internal/models"
	"github.com/meshivamsingh/cryptoMate/internal/portfolio"
)

// Coin-listing and global-stats fetches get up to three attempts; chart,
// detail and news requests are not auto-retried.
const (
	fetchAttempts = 3
	retryDelay    = 500 * time.Millisecond
)

// MarketClient is the market data surface the facade consumes.
type MarketClient interface {
	ListTopCoins(ctx context.Context, limit, page int) ([]models.Coin, error)
	GetCoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error)
	GetMarketChart(ctx context.Context, coinID string, rng marketdata.TimeRange) (*models.MarketChart, error)
	GetGlobalStats(ctx context.Context) (*models.GlobalStats, error)
}

// NewsFetcher is the best-effort news surface; it never fails.
type NewsFetcher interface {
	GetNews(ctx context.Context, limit int) []models.NewsItem
}

// SourceStatus is the per-source fetch state surfaced to presentation.
type SourceStatus struct {
	Loading   bool
	Err       error
	FetchedAt time.Time
}

// Snapshot is a read-only copy of the current application state.
// Presentation layers must not mutate the returned collections; every call
// returns fresh slices.
type Snapshot struct {
	Coins  []models.Coin
	Global *models.GlobalStats
	News   []models.NewsItem

	Markets     SourceStatus
	GlobalStats SourceStatus
	NewsStatus  SourceStatus

	// Loading and Err combine the coin-listing and global-stats sources.
	// News failures are absorbed and never surface here.
	Loading bool
	Err     error
}

// Facade is an explicitly injected application state instance. Construct it
// with New, refresh it on demand, and Close it on teardown.
type Facade struct {
	client    MarketClient
	news      NewsFetcher
	store     *portfolio.Store
	logger    *common.Logger
	staleTime time.Duration
	topLimit  int

	mu         sync.Mutex
	coins      []models.Coin
	priceIndex map[string]models.Coin
	global     *models.GlobalStats
	newsItems  []models.NewsItem
	markets    SourceStatus
	globalStat SourceStatus
	newsStat   SourceStatus

	charts   *cache.ChartCache
	chartSeq map[string]uint64
}

// New creates a facade over the given collaborators. topLimit is the coin
// count requested on refresh; staleTime is the freshness window within which
// an unforced refresh is skipped.
func New(client MarketClient, news NewsFetcher, store *portfolio.Store, logger *common.Logger, topLimit int, staleTime time.Duration) *Facade {
	if topLimit <= 0 {
		topLimit = 50
	}
	if staleTime <= 0 {
		staleTime = common.FreshnessMarkets
	}
	return &Facade{
		client:     client,
		news:       news,
		store:      store,
		logger:     logger,
		staleTime:  staleTime,
		topLimit:   topLimit,
		priceIndex: map[string]models.Coin{},
		charts:     cache.New(common.FreshnessChart, 64),
		chartSeq:   map[string]uint64{},
	}
}

// Refresh fetches the coin list, global stats and news concurrently and
// waits for all three. Within the freshness window an unforced refresh is a
// no-op. Fetch failures are recorded per source, never returned; news
// failure is fully absorbed by the news service.
func (f *Facade) Refresh(ctx context.Context, force bool) {
	f.mu.Lock()
	if !force && common.IsFresh(f.markets.FetchedAt, f.staleTime) {
		f.mu.Unlock()
		return
	}
	f.markets.Loading = true
	f.globalStat.Loading = true
	f.newsStat.Loading = true
	f.mu.Unlock()

	log := f.logger.WithCorrelationId(uuid.NewString())
	log.Info().Int("limit", f.topLimit).Msg("refreshing market data")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		f.fetchCoins(ctx, log)
	}()
	go func() {
		defer wg.Done()
		f.fetchGlobal(ctx, log)
	}()
	go func() {
		defer wg.Done()
		f.fetchNews(ctx, log)
	}()
	wg.Wait()
}

func (f *Facade) fetchCoins(ctx context.Context, log *common.Logger) {
	var coins []models.Coin
	var err error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		coins, err = f.client.ListTopCoins(ctx, f.topLimit, 1)
		if err == nil || ctx.Err() != nil {
			break
		}
		log.Warn().Int("attempt", attempt).Str("error", err.Error()).Msg("coin listing failed")
		if attempt < fetchAttempts {
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.markets.Loading = false
	f.markets.Err = err
	if err != nil {
		return
	}
	f.markets.FetchedAt = time.Now()
	f.coins = coins
	index := make(map[string]models.Coin, len(coins))
	for _, c := range coins {
		index[c.ID] = c
	}
	f.priceIndex = index
	log.Info().Int("coins", len(coins)).Msg("coin listing updated")
}

func (f *Facade) fetchGlobal(ctx context.Context, log *common.Logger) {
	var stats *models.GlobalStats
	var err error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		stats, err = f.client.GetGlobalStats(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		log.Warn().Int("attempt", attempt).Str("error", err.Error()).Msg("global stats failed")
		if attempt < fetchAttempts {
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalStat.Loading = false
	f.globalStat.Err = err
	if err != nil {
		return
	}
	f.globalStat.FetchedAt = time.Now()
	f.global = stats
}

func (f *Facade) fetchNews(ctx context.Context, log *common.Logger) {
	items := f.news.GetNews(ctx, 10)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.newsStat.Loading = false
	f.newsStat.FetchedAt = time.Now()
	f.newsItems = items
	log.Debug().Int("items", len(items)).Msg("news updated")
}

// Chart returns the market chart for a coin and range, serving a cached
// result inside the freshness window. When a newer request for the same key
// supersedes this one, the stale completion is not cached; its result is
// still returned to its own caller.
func (f *Facade) Chart(ctx context.Context, coinID string, rng marketdata.TimeRange) (*models.MarketChart, error) {
	key := cache.MakeKey(coinID, string(rng))
	if chart, ok := f.charts.Get(key); ok {
		return chart, nil
	}

	f.mu.Lock()
	f.chartSeq[key]++
	gen := f.chartSeq[key]
	f.mu.Unlock()

	chart, err := f.client.GetMarketChart(ctx, coinID, rng)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	latest := f.chartSeq[key] == gen
	f.mu.Unlock()
	if latest {
		f.charts.Set(key, chart)
	}
	return chart, nil
}

// CoinDetail passes through to the market data client.
func (f *Facade) CoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error) {
	return f.client.GetCoinDetail(ctx, coinID)
}

// Snapshot returns a read-only copy of the current state.
func (f *Facade) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		Coins:       make([]models.Coin, len(f.coins)),
		News:        make([]models.NewsItem, len(f.newsItems)),
		Markets:     f.markets,
		GlobalStats: f.globalStat,
		NewsStatus:  f.newsStat,
	}
	copy(snap.Coins, f.coins)
	copy(snap.News, f.newsItems)
	if f.global != nil {
		g := *f.global
		snap.Global = &g
	}
	snap.Loading = f.markets.Loading || f.globalStat.Loading
	if f.markets.Err != nil {
		snap.Err = f.markets.Err
	} else if f.globalStat.Err != nil {
		snap.Err = f.globalStat.Err
	}
	return snap
}

// PriceIndex returns a copy of the coin id to market snapshot mapping built
// from the last successful coin listing.
func (f *Facade) PriceIndex() map[string]models.Coin {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]models.Coin, len(f.priceIndex))
	for id, c := range f.priceIndex {
		out[id] = c
	}
	return out
}

// AddAsset passes through to the portfolio store.
func (f *Facade) AddAsset(ctx context.Context, candidate portfolio.Candidate) error {
	return f.store.Add(ctx, candidate)
}

// UpdateAsset passes through to the portfolio store.
func (f *Facade) UpdateAsset(ctx context.Context, id string, quantity, purchasePrice float64) error {
	return f.store.Update(ctx, id, quantity, purchasePrice)
}

// RemoveAsset passes through to the portfolio store.
func (f *Facade) RemoveAsset(ctx context.Context, id string) error {
	return f.store.Remove(ctx, id)
}

// Asset passes through to the portfolio store.
func (f *Facade) Asset(id string) (models.PortfolioAsset, bool) {
	return f.store.Get(id)
}

// Assets passes through to the portfolio store.
func (f *Facade) Assets() []models.PortfolioAsset {
	return f.store.List()
}

// Valuation aggregates the current holdings against the price index.
func (f *Facade) Valuation() models.Valuation {
	return portfolio.ComputeValuation(f.store.List(), f.PriceIndex())
}

// AssetMetrics derives the figures for one holding at its current market
// price. The second return is false when the holding does not exist or its
// coin is absent from the price index.
func (f *Facade) AssetMetrics(id string) (models.AssetMetrics, bool) {
	asset, ok := f.store.Get(id)
	if !ok {
		return models.AssetMetrics{}, false
	}
	coin, ok := f.PriceIndex()[id]
	if !ok {
		return models.AssetMetrics{}, false
	}
	return portfolio.ComputeAssetMetrics(asset, coin.CurrentPrice), true
}

// Close releases the facade. The storage manager is owned by the caller and
// closed separately.
func (f *Facade) Close() error {
	f.logger.Debug().Msg("facade closed")
	return nil
}
