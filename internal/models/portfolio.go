package models

import (
	"time"
)

// PortfolioAsset is one held coin. At most one asset exists per coin id.
// Quantity and PurchasePrice are always >= 0; PurchasePrice is a
// quantity-weighted average cost basis, not a per-lot ledger.
// Symbol, Name and Image are display metadata captured at first purchase
// and are not re-synced from market data.
type PortfolioAsset struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Image         string    `json:"image"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchasePrice"`
	PurchaseDate  time.Time `json:"purchaseDate"`
}

// AssetMetrics holds the derived figures for one asset at a current price.
// Recomputed on every read, never stored.
type AssetMetrics struct {
	Value             float64 `json:"value"`
	Cost              float64 `json:"cost"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_pct"`
}

// Valuation aggregates the portfolio against a price index. Assets whose
// coin id is absent from the index contribute nothing.
type Valuation struct {
	TotalValue      float64 `json:"total_value"`
	TotalCost       float64 `json:"total_cost"`
	TotalProfitLoss float64 `json:"total_profit_loss"`
}
