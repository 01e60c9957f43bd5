package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meshivamsingh/cryptoMate/internal/common"
	"github.com/meshivamsingh/cryptoMate/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.UpstreamConfig{
		BaseURL: server.URL,
		Timeout: "5s",
	}
	return NewClient(cfg, common.NewSilentLogger()), server
}

func TestListTopCoins(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("vs_currency") != "usd" {
			t.Errorf("expected vs_currency=usd, got %s", q.Get("vs_currency"))
		}
		if q.Get("order") != "market_cap_desc" {
			t.Errorf("expected order=market_cap_desc, got %s", q.Get("order"))
		}
		if q.Get("per_page") != "2" {
			t.Errorf("expected per_page=2, got %s", q.Get("per_page"))
		}
		if q.Get("page") != "1" {
			t.Errorf("expected page=1, got %s", q.Get("page"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":60000,"market_cap":1200000000000,"market_cap_rank":1,"price_change_percentage_24h":2.5},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000,"market_cap":360000000000,"market_cap_rank":2,"price_change_percentage_24h":-1.2}
		]`)
	}))

	coins, err := client.ListTopCoins(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("ListTopCoins failed: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}
	if coins[0].ID != "bitcoin" || coins[0].CurrentPrice != 60000 {
		t.Errorf("unexpected first coin %+v", coins[0])
	}
	if coins[1].PriceChangePercentage24h != -1.2 {
		t.Errorf("expected -1.2 change, got %v", coins[1].PriceChangePercentage24h)
	}
}

func TestListTopCoins_InvalidLimit(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid limit")
	}))

	if _, err := client.ListTopCoins(context.Background(), 0, 1); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestListTopCoins_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"rate limit exceeded"}`)
	}))

	_, err := client.ListTopCoins(context.Background(), 10, 1)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", upErr.StatusCode)
	}
	if upErr.Message != "rate limit exceeded" {
		t.Errorf("expected upstream message, got %q", upErr.Message)
	}
}

func TestListTopCoins_ErrorWithoutBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListTopCoins(context.Background(), 10, 1)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("expected status text fallback, got %q", upErr.Message)
	}
}

func TestGetCoinDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id":"bitcoin","symbol":"btc","name":"Bitcoin",
			"description":{"en":"The first cryptocurrency."},
			"image":{"large":"https://example.com/btc.png"},
			"links":{"homepage":["https://bitcoin.org"],"subreddit_url":"https://reddit.com/r/bitcoin","repos_url":{"github":["https://github.com/bitcoin/bitcoin"]}},
			"categories":["Layer 1"],
			"sentiment_votes_up_percentage":75.5,
			"sentiment_votes_down_percentage":24.5,
			"market_cap_rank":1,
			"market_data":{
				"current_price":{"usd":60000,"eur":55000},
				"market_cap":{"usd":1200000000000},
				"total_volume":{"usd":30000000000},
				"high_24h":{"usd":61000},
				"low_24h":{"usd":59000},
				"ath":{"usd":69000},
				"ath_change_percentage":{"usd":-13.0},
				"circulating_supply":19500000
			},
			"developer_data":{"stars":70000,"forks":35000}
		}`)
	}))

	detail, err := client.GetCoinDetail(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("GetCoinDetail failed: %v", err)
	}
	if detail.CurrentPrice != 60000 {
		t.Errorf("expected usd price 60000, got %v", detail.CurrentPrice)
	}
	if detail.Description != "The first cryptocurrency." {
		t.Errorf("unexpected description %q", detail.Description)
	}
	if detail.Image != "https://example.com/btc.png" {
		t.Errorf("unexpected image %q", detail.Image)
	}
	if detail.Ath != 69000 {
		t.Errorf("expected ath 69000, got %v", detail.Ath)
	}
	if detail.SentimentUp != 75.5 {
		t.Errorf("expected sentiment up 75.5, got %v", detail.SentimentUp)
	}
	if detail.DeveloperData.Stars != 70000 {
		t.Errorf("expected 70000 stars, got %d", detail.DeveloperData.Stars)
	}
	if len(detail.Links.GithubRepos) != 1 {
		t.Errorf("expected one github repo, got %v", detail.Links.GithubRepos)
	}
}

func TestGetCoinDetail_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"coin not found"}`)
	}))

	_, err := client.GetCoinDetail(context.Background(), "nope")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", upErr.StatusCode)
	}
	if upErr.Message != "coin not found" {
		t.Errorf("expected upstream message, got %q", upErr.Message)
	}
}

func TestGetMarketChart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("days") != "7" {
			t.Errorf("expected days=7, got %s", q.Get("days"))
		}
		if q.Get("interval") != "daily" {
			t.Errorf("expected interval=daily, got %s", q.Get("interval"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"prices":[[1700000000000,59000],[1700086400000,60000]],
			"market_caps":[[1700000000000,1150000000000]],
			"total_volumes":[[1700000000000,25000000000]]
		}`)
	}))

	chart, err := client.GetMarketChart(context.Background(), "bitcoin", Range7d)
	if err != nil {
		t.Fatalf("GetMarketChart failed: %v", err)
	}
	if len(chart.Prices) != 2 {
		t.Fatalf("expected 2 price points, got %d", len(chart.Prices))
	}
	want := time.UnixMilli(1700000000000).UTC()
	if !chart.Prices[0].Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, chart.Prices[0].Timestamp)
	}
	if chart.Prices[1].Value != 60000 {
		t.Errorf("expected second price 60000, got %v", chart.Prices[1].Value)
	}
	if len(chart.MarketCaps) != 1 || len(chart.Volumes) != 1 {
		t.Errorf("expected 1 cap and 1 volume point, got %d and %d", len(chart.MarketCaps), len(chart.Volumes))
	}
}

func TestGetMarketChart_EmptySeries(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"prices":[],"market_caps":[],"total_volumes":[]}`)
	}))

	chart, err := client.GetMarketChart(context.Background(), "bitcoin", Range30d)
	if err != nil {
		t.Fatalf("empty series should not error: %v", err)
	}
	if len(chart.Prices) != 0 {
		t.Errorf("expected empty prices, got %d points", len(chart.Prices))
	}
}

func TestGetMarketChart_InvalidRange(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid range")
	}))

	if _, err := client.GetMarketChart(context.Background(), "bitcoin", TimeRange("2w")); err == nil {
		t.Fatal("expected error for invalid range")
	}
}

func TestGetGlobalStats(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/global" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{
			"total_market_cap":{"usd":2500000000000,"eur":2300000000000},
			"total_volume":{"usd":90000000000},
			"market_cap_percentage":{"btc":52.3,"eth":17.1},
			"market_cap_change_percentage_24h_usd":1.8
		}}`)
	}))

	stats, err := client.GetGlobalStats(context.Background())
	if err != nil {
		t.Fatalf("GetGlobalStats failed: %v", err)
	}
	if stats.TotalMarketCapUSD != 2500000000000 {
		t.Errorf("expected usd market cap, got %v", stats.TotalMarketCapUSD)
	}
	if stats.BTCDominance != 52.3 {
		t.Errorf("expected btc dominance 52.3, got %v", stats.BTCDominance)
	}
	if stats.MarketCapChange24Pct != 1.8 {
		t.Errorf("expected 1.8 change, got %v", stats.MarketCapChange24Pct)
	}
}

func TestRequest_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	cfg := &config.UpstreamConfig{BaseURL: server.URL, Timeout: "1s"}
	client := NewClient(cfg, common.NewSilentLogger())

	_, err := client.GetGlobalStats(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestParseTimeRange(t *testing.T) {
	for _, valid := range []string{"24h", "7d", "30d", "90d", "1y", "max"} {
		if _, err := ParseTimeRange(valid); err != nil {
			t.Errorf("ParseTimeRange(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseTimeRange("2w"); err == nil {
		t.Error("expected error for invalid range 2w")
	}
	if Range24h.Days() != "1" || RangeMax.Days() != "max" {
		t.Error("unexpected day mapping")
	}
	if Range24h.Interval() != "hourly" || Range7d.Interval() != "daily" {
		t.Error("unexpected interval mapping")
	}
}
