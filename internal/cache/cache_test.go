package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/meshivamsingh/cryptoMate/internal/models"
)

func chartWithPrice(v float64) *models.MarketChart {
	return &models.MarketChart{Prices: []models.ChartPoint{{Value: v}}}
}

func TestMakeKey(t *testing.T) {
	if got := MakeKey("bitcoin", "7d"); got != "bitcoin:7d" {
		t.Errorf("expected bitcoin:7d, got %s", got)
	}
}

func TestGetSet(t *testing.T) {
	c := New(time.Minute, 10)
	key := MakeKey("bitcoin", "7d")

	if _, ok := c.Get(key); ok {
		t.Error("expected miss on empty cache")
	}

	c.Set(key, chartWithPrice(60000))
	chart, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if chart.Prices[0].Value != 60000 {
		t.Errorf("unexpected cached chart %+v", chart)
	}
}

func TestRangesAreIndependent(t *testing.T) {
	c := New(time.Minute, 10)
	c.Set(MakeKey("bitcoin", "7d"), chartWithPrice(1))
	c.Set(MakeKey("bitcoin", "30d"), chartWithPrice(2))

	week, _ := c.Get(MakeKey("bitcoin", "7d"))
	month, _ := c.Get(MakeKey("bitcoin", "30d"))
	if week.Prices[0].Value != 1 || month.Prices[0].Value != 2 {
		t.Error("different ranges for the same coin must cache independently")
	}
}

func TestExpiry(t *testing.T) {
	c := New(10*time.Millisecond, 10)
	key := MakeKey("bitcoin", "24h")
	c.Set(key, chartWithPrice(1))

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestSetUpdatesInPlace(t *testing.T) {
	c := New(time.Minute, 10)
	key := MakeKey("bitcoin", "7d")
	c.Set(key, chartWithPrice(1))
	c.Set(key, chartWithPrice(2))

	chart, ok := c.Get(key)
	if !ok || chart.Prices[0].Value != 2 {
		t.Errorf("expected updated chart, got %+v", chart)
	}
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	c := New(time.Minute, 3)
	for i := 0; i < 3; i++ {
		c.Set(MakeKey(fmt.Sprintf("coin%d", i), "7d"), chartWithPrice(float64(i)))
	}

	c.Set(MakeKey("coin3", "7d"), chartWithPrice(3))

	if _, ok := c.Get(MakeKey("coin0", "7d")); ok {
		t.Error("expected oldest entry to be evicted")
	}
	for i := 1; i <= 3; i++ {
		if _, ok := c.Get(MakeKey(fmt.Sprintf("coin%d", i), "7d")); !ok {
			t.Errorf("expected coin%d to survive eviction", i)
		}
	}
}
