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
	"github.com/meshivamsingh/cryptoMate/internal/models"
)

// stubProvider returns canned items or a canned error.
type stubProvider struct {
	name  string
	items []models.NewsItem
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, limit int) ([]models.NewsItem, error) {
	p.calls++
	return p.items, p.err
}

func TestGetNews_PrimarySucceeds(t *testing.T) {
	primary := &stubProvider{name: "primary", items: []models.NewsItem{{Title: "headline"}}}
	fallback := &stubProvider{name: "fallback"}
	svc := NewNewsService(primary, fallback, common.NewSilentLogger())

	items := svc.GetNews(context.Background(), 5)
	if len(items) != 1 || items[0].Title != "headline" {
		t.Errorf("unexpected items %v", items)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called, got %d calls", fallback.calls)
	}
}

func TestGetNews_FallsBack(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("boom")}
	fallback := &stubProvider{name: "fallback", items: []models.NewsItem{{Title: "a"}, {Title: "b"}, {Title: "c"}}}
	svc := NewNewsService(primary, fallback, common.NewSilentLogger())

	items := svc.GetNews(context.Background(), 5)
	if len(items) != 3 {
		t.Fatalf("expected 3 fallback items, got %d", len(items))
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("expected one call each, got %d and %d", primary.calls, fallback.calls)
	}
}

func TestGetNews_BothFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("down")}
	fallback := &stubProvider{name: "fallback", err: errors.New("also down")}
	svc := NewNewsService(primary, fallback, common.NewSilentLogger())

	items := svc.GetNews(context.Background(), 5)
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestGetNews_DefaultLimit(t *testing.T) {
	primary := &stubProvider{name: "primary"}
	svc := NewNewsService(primary, &stubProvider{name: "fallback"}, common.NewSilentLogger())

	svc.GetNews(context.Background(), 0)
	if primary.calls != 1 {
		t.Errorf("expected primary to be called, got %d calls", primary.calls)
	}
}

func TestCryptoPanicProvider_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("public") != "true" || q.Get("kind") != "news" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("auth_token") != "cp-key" {
			t.Errorf("expected auth token, got %q", q.Get("auth_token"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"title":"Bitcoin rallies","url":"https://example.com/1","source":{"title":"CoinDesk"},"published_at":"2024-05-01T12:00:00Z","currencies":[{"code":"BTC","title":"Bitcoin"}]},
			{"title":"ETH upgrade","url":"https://example.com/2","source":{"title":"The Block"},"published_at":"2024-05-01T11:00:00Z"}
		]}`)
	}))
	defer server.Close()

	p := NewCryptoPanicProvider(&config.UpstreamConfig{BaseURL: server.URL, APIKey: "cp-key", Timeout: "5s"})
	items, err := p.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Source != "CoinDesk" {
		t.Errorf("expected nested source title, got %q", items[0].Source)
	}
	want := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("expected %v, got %v", want, items[0].PublishedAt)
	}
	if len(items[0].Currencies) != 1 || items[0].Currencies[0].Code != "BTC" {
		t.Errorf("unexpected currencies %v", items[0].Currencies)
	}
}

func TestCryptoPanicProvider_TruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"title":"one","url":"u1","source":{"title":"s"},"published_at":"2024-05-01T12:00:00Z"},
			{"title":"two","url":"u2","source":{"title":"s"},"published_at":"2024-05-01T11:00:00Z"},
			{"title":"three","url":"u3","source":{"title":"s"},"published_at":"2024-05-01T10:00:00Z"}
		]}`)
	}))
	defer server.Close()

	p := NewCryptoPanicProvider(&config.UpstreamConfig{BaseURL: server.URL, Timeout: "5s"})
	items, err := p.Fetch(context.Background(), 2)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestCryptoCompareProvider_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("lang") != "EN" {
			t.Errorf("expected lang=EN, got %q", r.URL.Query().Get("lang"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Data":[
			{"title":"Market update","url":"https://example.com/3","source":"cryptocompare","published_on":1714564800,"categories":"BTC|ETH|Trading"}
		]}`)
	}))
	defer server.Close()

	p := NewCryptoCompareProvider(&config.UpstreamConfig{BaseURL: server.URL, Timeout: "5s"})
	items, err := p.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Source != "cryptocompare" {
		t.Errorf("unexpected source %q", items[0].Source)
	}
	if !items[0].PublishedAt.Equal(time.Unix(1714564800, 0).UTC()) {
		t.Errorf("unexpected published time %v", items[0].PublishedAt)
	}
	if len(items[0].Currencies) != 3 || items[0].Currencies[0].Code != "BTC" {
		t.Errorf("unexpected currency tags %v", items[0].Currencies)
	}
}

func TestCryptoPanicProvider_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":"invalid token"}`)
	}))
	defer server.Close()

	p := NewCryptoPanicProvider(&config.UpstreamConfig{BaseURL: server.URL, Timeout: "5s"})
	_, err := p.Fetch(context.Background(), 10)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", upErr.StatusCode)
	}
}

func TestNewsFallback_EndToEnd(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Data":[{"title":"still here","url":"u","source":"cc","published_on":1714564800,"categories":""}]}`)
	}))
	defer fallback.Close()

	svc := NewNewsService(
		NewCryptoPanicProvider(&config.UpstreamConfig{BaseURL: primary.URL, Timeout: "5s"}),
		NewCryptoCompareProvider(&config.UpstreamConfig{BaseURL: fallback.URL, Timeout: "5s"}),
		common.NewSilentLogger(),
	)

	items := svc.GetNews(context.Background(), 5)
	if len(items) != 1 || items[0].Title != "still here" {
		t.Errorf("expected fallback item, got %v", items)
	}
	if items[0].Currencies != nil {
		t.Errorf("empty categories should yield no tags, got %v", items[0].Currencies)
	}
}
