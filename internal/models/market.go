// Package models defines data structures for cryptoMate.
package models

import (
	"time"
)

// Coin is a point-in-time market snapshot for one cryptocurrency, as
// returned by the coin-listing endpoint. Fields are read-only from the
// core's perspective; no history is retained.
type Coin struct {
	ID                           string  `json:"id"`
	Symbol                       string  `json:"symbol"`
	Name                         string  `json:"name"`
	Image                        string  `json:"image"`
	CurrentPrice                 float64 `json:"current_price"`
	MarketCap                    float64 `json:"market_cap"`
	MarketCapRank                int     `json:"market_cap_rank"`
	FullyDilutedValuation        float64 `json:"fully_diluted_valuation,omitempty"`
	TotalVolume                  float64 `json:"total_volume"`
	High24h                      float64 `json:"high_24h"`
	Low24h                       float64 `json:"low_24h"`
	PriceChange24h               float64 `json:"price_change_24h"`
	PriceChangePercentage24h     float64 `json:"price_change_percentage_24h"`
	MarketCapChange24h           float64 `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h float64 `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            float64 `json:"circulating_supply"`
	TotalSupply                  float64 `json:"total_supply,omitempty"`
	MaxSupply                    float64 `json:"max_supply,omitempty"`
	Ath                          float64 `json:"ath"`
	AthChangePercentage          float64 `json:"ath_change_percentage"`
	AthDate                      string  `json:"ath_date"`
	Atl                          float64 `json:"atl"`
	AtlChangePercentage          float64 `json:"atl_change_percentage"`
	AtlDate                      string  `json:"atl_date"`
	LastUpdated                  string  `json:"last_updated"`
}

// CoinLinks holds the external resource links of a coin.
type CoinLinks struct {
	Homepage       []string `json:"homepage"`
	BlockchainSite []string `json:"blockchain_site"`
	OfficialForum  []string `json:"official_forum_url"`
	SubredditURL   string   `json:"subreddit_url"`
	GithubRepos    []string `json:"github_repos"`
}

// DeveloperData holds repository activity counters for a coin.
type DeveloperData struct {
	Forks                   int `json:"forks"`
	Stars                   int `json:"stars"`
	Subscribers             int `json:"subscribers"`
	TotalIssues             int `json:"total_issues"`
	ClosedIssues            int `json:"closed_issues"`
	PullRequestsMerged      int `json:"pull_requests_merged"`
	PullRequestContributors int `json:"pull_request_contributors"`
}

// CoinDetail extends Coin with descriptive and developer metadata.
type CoinDetail struct {
	Coin
	Description   string        `json:"description"`
	Links         CoinLinks     `json:"links"`
	Categories    []string      `json:"categories"`
	SentimentUp   float64       `json:"sentiment_votes_up_percentage"`
	SentimentDown float64       `json:"sentiment_votes_down_percentage"`
	DeveloperData DeveloperData `json:"developer_data"`
}

// ChartPoint is one sample in a historical series.
type ChartPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MarketChart holds three parallel time series for one coin over a range.
// Series may legitimately be empty when the upstream has no data points.
type MarketChart struct {
	Prices     []ChartPoint `json:"prices"`
	MarketCaps []ChartPoint `json:"market_caps"`
	Volumes    []ChartPoint `json:"volumes"`
}

// GlobalStats is an aggregate market snapshot.
type GlobalStats struct {
	TotalMarketCapUSD    float64 `json:"total_market_cap_usd"`
	TotalVolumeUSD       float64 `json:"total_volume_usd"`
	BTCDominance         float64 `json:"btc_dominance"`
	MarketCapChange24Pct float64 `json:"market_cap_change_24h_pct"`
}

// CurrencyTag links a news item to a currency.
type CurrencyTag struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// NewsItem represents a news article, normalized across providers.
type NewsItem struct {
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	Source      string        `json:"source"`
	PublishedAt time.Time     `json:"published_at"`
	Currencies  []CurrencyTag `json:"currencies,omitempty"`
}
