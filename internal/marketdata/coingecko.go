package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/meshivamsingh/cryptoMate/internal/common"
	"github.com/meshivamsingh/cryptoMate/internal/config"
	"github.com/meshivamsingh/cryptoMate/internal/models"
	"golang.org/x/time/rate"
)

const userAgent = "cryptoMate/1.0"

// Client fetches coin listings, coin detail, historical charts and global
// stats from CoinGecko, translating upstream response shapes and failures
// into the normalized models and error types. It never retries internally;
// retry policy belongs to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
}

// NewClient creates a CoinGecko client from upstream configuration.
func NewClient(cfg *config.UpstreamConfig, logger *common.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// request performs a rate-limited GET against the CoinGecko API and decodes
// the JSON response into result.
func (c *Client) request(ctx context.Context, endpoint string, queryParams url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", endpoint, err)
	}

	fullURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", fullURL, err)
	}
	if len(queryParams) > 0 {
		req.URL.RawQuery = queryParams.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	c.logger.Debug().Str("url", req.URL.String()).Msg("coingecko request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &NetworkError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := newUpstreamError(resp.StatusCode, body)
		c.logger.Warn().
			Str("url", req.URL.String()).
			Int("status", upErr.StatusCode).
			Str("message", upErr.Message).
			Msg("coingecko error response")
		return upErr
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", req.URL.String(), err)
	}
	return nil
}

// ListTopCoins returns up to limit coins for the given page, ordered by
// descending market cap. limit must be greater than zero.
func (c *Client) ListTopCoins(ctx context.Context, limit, page int) ([]models.Coin, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero, got %d", limit)
	}
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", strconv.Itoa(page))
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "24h")

	coins := make([]models.Coin, 0, limit)
	if err := c.request(ctx, "/coins/markets", params, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

// cgCoinDetail is the CoinGecko /coins/{id} response shape. Market figures
// live under market_data as per-currency maps; only the usd entries are kept.
type cgCoinDetail struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description struct {
		EN string `json:"en"`
	} `json:"description"`
	Image struct {
		Large string `json:"large"`
	} `json:"image"`
	Links struct {
		Homepage       []string `json:"homepage"`
		BlockchainSite []string `json:"blockchain_site"`
		OfficialForum  []string `json:"official_forum_url"`
		SubredditURL   string   `json:"subreddit_url"`
		ReposURL       struct {
			Github []string `json:"github"`
		} `json:"repos_url"`
	} `json:"links"`
	Categories    []string `json:"categories"`
	SentimentUp   float64  `json:"sentiment_votes_up_percentage"`
	SentimentDown float64  `json:"sentiment_votes_down_percentage"`
	MarketCapRank int      `json:"market_cap_rank"`
	MarketData    struct {
		CurrentPrice                 map[string]float64 `json:"current_price"`
		MarketCap                    map[string]float64 `json:"market_cap"`
		TotalVolume                  map[string]float64 `json:"total_volume"`
		High24h                      map[string]float64 `json:"high_24h"`
		Low24h                       map[string]float64 `json:"low_24h"`
		PriceChange24h               float64            `json:"price_change_24h"`
		PriceChangePercentage24h     float64            `json:"price_change_percentage_24h"`
		MarketCapChange24h           float64            `json:"market_cap_change_24h"`
		MarketCapChangePercentage24h float64            `json:"market_cap_change_percentage_24h"`
		CirculatingSupply            float64            `json:"circulating_supply"`
		TotalSupply                  float64            `json:"total_supply"`
		MaxSupply                    float64            `json:"max_supply"`
		Ath                          map[string]float64 `json:"ath"`
		AthChangePercentage          map[string]float64 `json:"ath_change_percentage"`
		AthDate                      map[string]string  `json:"ath_date"`
		Atl                          map[string]float64 `json:"atl"`
		AtlChangePercentage          map[string]float64 `json:"atl_change_percentage"`
		AtlDate                      map[string]string  `json:"atl_date"`
	} `json:"market_data"`
	DeveloperData models.DeveloperData `json:"developer_data"`
	LastUpdated   string               `json:"last_updated"`
}

// toModel remaps the usd-keyed market data into the flat Coin shape.
func (d *cgCoinDetail) toModel() *models.CoinDetail {
	md := d.MarketData
	return &models.CoinDetail{
		Coin: models.Coin{
			ID:                           d.ID,
			Symbol:                       d.Symbol,
			Name:                         d.Name,
			Image:                        d.Image.Large,
			CurrentPrice:                 md.CurrentPrice["usd"],
			MarketCap:                    md.MarketCap["usd"],
			MarketCapRank:                d.MarketCapRank,
			TotalVolume:                  md.TotalVolume["usd"],
			High24h:                      md.High24h["usd"],
			Low24h:                       md.Low24h["usd"],
			PriceChange24h:               md.PriceChange24h,
			PriceChangePercentage24h:     md.PriceChangePercentage24h,
			MarketCapChange24h:           md.MarketCapChange24h,
			MarketCapChangePercentage24h: md.MarketCapChangePercentage24h,
			CirculatingSupply:            md.CirculatingSupply,
			TotalSupply:                  md.TotalSupply,
			MaxSupply:                    md.MaxSupply,
			Ath:                          md.Ath["usd"],
			AthChangePercentage:          md.AthChangePercentage["usd"],
			AthDate:                      md.AthDate["usd"],
			Atl:                          md.Atl["usd"],
			AtlChangePercentage:          md.AtlChangePercentage["usd"],
			AtlDate:                      md.AtlDate["usd"],
			LastUpdated:                  d.LastUpdated,
		},
		Description: d.Description.EN,
		Links: models.CoinLinks{
			Homepage:       d.Links.Homepage,
			BlockchainSite: d.Links.BlockchainSite,
			OfficialForum:  d.Links.OfficialForum,
			SubredditURL:   d.Links.SubredditURL,
			GithubRepos:    d.Links.ReposURL.Github,
		},
		Categories:    d.Categories,
		SentimentUp:   d.SentimentUp,
		SentimentDown: d.SentimentDown,
		DeveloperData: d.DeveloperData,
	}
}

// GetCoinDetail returns detail for one coin id. Unknown ids surface as an
// UpstreamError (typically 404).
func (c *Client) GetCoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coin id is required")
	}

	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("market_data", "true")
	params.Set("community_data", "false")
	params.Set("developer_data", "true")
	params.Set("sparkline", "false")

	var detail cgCoinDetail
	if err := c.request(ctx, "/coins/"+url.PathEscape(coinID), params, &detail); err != nil {
		return nil, err
	}
	return detail.toModel(), nil
}

// cgMarketChartResponse is the /market_chart response: parallel arrays of
// [timestamp_ms, value] pairs.
type cgMarketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

func toChartPoints(pairs [][2]float64) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(pairs))
	for _, p := range pairs {
		points = append(points, models.ChartPoint{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Value:     p[1],
		})
	}
	return points
}

// GetMarketChart returns the price, market cap and volume series for a coin
// over the given range. An upstream response with zero data points yields
// empty series, not an error.
func (c *Client) GetMarketChart(ctx context.Context, coinID string, rng TimeRange) (*models.MarketChart, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coin id is required")
	}
	if _, ok := rangeDays[rng]; !ok {
		return nil, fmt.Errorf("invalid time range %q", string(rng))
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", rng.Days())
	params.Set("interval", rng.Interval())

	var raw cgMarketChartResponse
	if err := c.request(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", params, &raw); err != nil {
		return nil, err
	}

	return &models.MarketChart{
		Prices:     toChartPoints(raw.Prices),
		MarketCaps: toChartPoints(raw.MarketCaps),
		Volumes:    toChartPoints(raw.TotalVolumes),
	}, nil
}

// cgGlobalResponse is the /global response; the payload nests per-currency
// maps under data.
type cgGlobalResponse struct {
	Data struct {
		TotalMarketCap               map[string]float64 `json:"total_market_cap"`
		TotalVolume                  map[string]float64 `json:"total_volume"`
		MarketCapPercentage          map[string]float64 `json:"market_cap_percentage"`
		MarketCapChangePercentage24h float64            `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

// GetGlobalStats returns an aggregate market snapshot.
func (c *Client) GetGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	var raw cgGlobalResponse
	if err := c.request(ctx, "/global", nil, &raw); err != nil {
		return nil, err
	}

	return &models.GlobalStats{
		TotalMarketCapUSD:    raw.Data.TotalMarketCap["usd"],
		TotalVolumeUSD:       raw.Data.TotalVolume["usd"],
		BTCDominance:         raw.Data.MarketCapPercentage["btc"],
		MarketCapChange24Pct: raw.Data.MarketCapChangePercentage24h,
	}, nil
}
