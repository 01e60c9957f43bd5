package portfolio

import (
	"github.com/meshivamsingh/cryptoMate/internal/models"
	"github.com/shopspring/decimal"
)

// The functions in this file are pure: no side effects, no storage, no
// network. Arithmetic runs on decimals so weighted sums stay exact; results
// cross the boundary as float64.

// ComputeValuation aggregates the portfolio against a price index. Assets
// whose coin id is absent from the index are excluded from both value and
// cost accumulation; they contribute zero, not an error.
func ComputeValuation(assets []models.PortfolioAsset, priceIndex map[string]models.Coin) models.Valuation {
	totalValue := decimal.Zero
	totalCost := decimal.Zero

	for _, asset := range assets {
		coin, ok := priceIndex[asset.ID]
		if !ok {
			continue
		}
		qty := decimal.NewFromFloat(asset.Quantity)
		totalValue = totalValue.Add(qty.Mul(decimal.NewFromFloat(coin.CurrentPrice)))
		totalCost = totalCost.Add(qty.Mul(decimal.NewFromFloat(asset.PurchasePrice)))
	}

	return models.Valuation{
		TotalValue:      totalValue.InexactFloat64(),
		TotalCost:       totalCost.InexactFloat64(),
		TotalProfitLoss: totalValue.Sub(totalCost).InexactFloat64(),
	}
}

// ComputeAssetMetrics derives the figures for one asset at a current price.
// A zero cost basis yields a zero profit/loss percentage, never NaN or Inf.
func ComputeAssetMetrics(asset models.PortfolioAsset, currentPrice float64) models.AssetMetrics {
	qty := decimal.NewFromFloat(asset.Quantity)
	value := qty.Mul(decimal.NewFromFloat(currentPrice))
	cost := qty.Mul(decimal.NewFromFloat(asset.PurchasePrice))
	profitLoss := value.Sub(cost)

	pct := decimal.Zero
	if !cost.IsZero() {
		pct = profitLoss.Div(cost).Mul(decimal.NewFromInt(100))
	}

	return models.AssetMetrics{
		Value:             value.InexactFloat64(),
		Cost:              cost.InexactFloat64(),
		ProfitLoss:        profitLoss.InexactFloat64(),
		ProfitLossPercent: pct.InexactFloat64(),
	}
}

// PerformancePercent expresses the aggregate profit/loss as a percentage of
// the total cost basis (totalValue minus totalProfitLoss). A zero or
// negative denominator yields zero.
func PerformancePercent(totalProfitLoss, totalValue float64) float64 {
	value := decimal.NewFromFloat(totalValue)
	pl := decimal.NewFromFloat(totalProfitLoss)
	denom := value.Sub(pl)
	if denom.Sign() <= 0 {
		return 0
	}
	return pl.Div(denom).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
