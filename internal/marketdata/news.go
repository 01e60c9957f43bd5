package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meshivamsingh/cryptoMate/internal/common"
	"github.com/meshivamsingh/cryptoMate/internal/config"
	"github.com/meshivamsingh/cryptoMate/internal/models"
)

// NewsProvider fetches headlines from one upstream news source, already
// remapped into the shared NewsItem model.
type NewsProvider interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]models.NewsItem, error)
}

// NewsService tries a primary provider and falls back to a secondary one on
// ANY failure. When both fail it returns an empty slice and no error, so
// callers cannot distinguish "no news" from "both providers down". That is
// deliberate: news is best-effort and must never block the rest of the
// dashboard.
type NewsService struct {
	primary  NewsProvider
	fallback NewsProvider
	logger   *common.Logger
}

// NewNewsService creates a news service over a primary and fallback provider.
func NewNewsService(primary, fallback NewsProvider, logger *common.Logger) *NewsService {
	return &NewsService{primary: primary, fallback: fallback, logger: logger}
}

// GetNews returns up to limit items, most recent first.
func (s *NewsService) GetNews(ctx context.Context, limit int) []models.NewsItem {
	if limit <= 0 {
		limit = 10
	}

	items, err := s.primary.Fetch(ctx, limit)
	if err == nil {
		return items
	}
	s.logger.Warn().
		Str("provider", s.primary.Name()).
		Str("error", err.Error()).
		Msg("primary news provider failed, falling back")

	items, err = s.fallback.Fetch(ctx, limit)
	if err == nil {
		return items
	}
	s.logger.Warn().
		Str("provider", s.fallback.Name()).
		Str("error", err.Error()).
		Msg("fallback news provider failed, returning no news")

	return []models.NewsItem{}
}

// newsGet performs a GET and returns the raw body, normalizing failures the
// same way as the CoinGecko client.
func newsGet(ctx context.Context, httpClient *http.Client, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", fullURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &NetworkError{URL: fullURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newUpstreamError(resp.StatusCode, body)
	}
	return body, nil
}

// CryptoPanicProvider fetches news posts from the CryptoPanic API.
type CryptoPanicProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCryptoPanicProvider creates the primary news provider.
func NewCryptoPanicProvider(cfg *config.UpstreamConfig) *CryptoPanicProvider {
	return &CryptoPanicProvider{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
	}
}

func (p *CryptoPanicProvider) Name() string { return "cryptopanic" }

// cpPostsResponse is the CryptoPanic /posts response shape.
type cpPostsResponse struct {
	Results []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Title string `json:"title"`
		} `json:"source"`
		PublishedAt time.Time `json:"published_at"`
		Currencies  []struct {
			Code  string `json:"code"`
			Title string `json:"title"`
		} `json:"currencies"`
	} `json:"results"`
}

// Fetch returns the latest public news posts.
func (p *CryptoPanicProvider) Fetch(ctx context.Context, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("auth_token", p.apiKey)
	params.Set("public", "true")
	params.Set("kind", "news")
	params.Set("limit", strconv.Itoa(limit))

	body, err := newsGet(ctx, p.httpClient, p.baseURL+"/posts/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var raw cpPostsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cryptopanic response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(raw.Results))
	for _, r := range raw.Results {
		tags := make([]models.CurrencyTag, 0, len(r.Currencies))
		for _, c := range r.Currencies {
			tags = append(tags, models.CurrencyTag{Code: c.Code, Title: c.Title})
		}
		items = append(items, models.NewsItem{
			Title:       r.Title,
			URL:         r.URL,
			Source:      r.Source.Title,
			PublishedAt: r.PublishedAt,
			Currencies:  tags,
		})
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// CryptoCompareProvider fetches news from the CryptoCompare API. Its
// response shape differs from CryptoPanic's: timestamps are unix seconds and
// currency tags arrive as one pipe-separated categories string.
type CryptoCompareProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewCryptoCompareProvider creates the fallback news provider.
func NewCryptoCompareProvider(cfg *config.UpstreamConfig) *CryptoCompareProvider {
	return &CryptoCompareProvider{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
	}
}

func (p *CryptoCompareProvider) Name() string { return "cryptocompare" }

// ccNewsResponse is the CryptoCompare /news response shape.
type ccNewsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedOn int64  `json:"published_on"`
		Categories  string `json:"categories"`
	} `json:"Data"`
}

// Fetch returns the latest English-language news articles.
func (p *CryptoCompareProvider) Fetch(ctx context.Context, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("lang", "EN")
	params.Set("limit", strconv.Itoa(limit))

	body, err := newsGet(ctx, p.httpClient, p.baseURL+"/news/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var raw ccNewsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cryptocompare response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(raw.Data))
	for _, r := range raw.Data {
		var tags []models.CurrencyTag
		for _, cat := range strings.Split(r.Categories, "|") {
			if cat == "" {
				continue
			}
			tags = append(tags, models.CurrencyTag{Code: cat, Title: cat})
		}
		items = append(items, models.NewsItem{
			Title:       r.Title,
			URL:         r.URL,
			Source:      r.Source,
			PublishedAt: time.Unix(r.PublishedOn, 0).UTC(),
			Currencies:  tags,
		})
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}
