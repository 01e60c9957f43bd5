// Package portfolio owns the durable holdings collection and the derived
// valuation arithmetic.
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/meshivamsingh/cryptoMate/internal/common"
	"github.com/meshivamsingh/cryptoMate/internal/interfaces"
	"github.com/meshivamsingh/cryptoMate/internal/models"
	"github.com/shopspring/decimal"
)

// storageKey is the fixed key holding the full serialized asset collection.
// The portfolio store is the exclusive writer of this key.
const storageKey = "portfolio"

// Notifier receives user-visible confirmations of portfolio mutations.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }

// Candidate is the input to Add: a coin with its display metadata plus the
// lot being purchased. Quantity must be positive and PurchasePrice
// non-negative.
type Candidate struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
}

// Store owns the durable PortfolioAsset collection. Every mutation runs
// under one mutex and rewrites the full collection in storage before
// returning, so concurrent calls cannot interleave their
// read-modify-persist cycles.
type Store struct {
	mu       sync.Mutex
	kv       interfaces.KeyValueStorage
	notifier Notifier
	logger   *common.Logger
	assets   []models.PortfolioAsset
	now      func() time.Time
}

// NewStore loads the stored collection and returns a ready store. A missing
// or unparseable stored value initializes an empty collection; startup never
// fails on bad data.
func NewStore(ctx context.Context, kv interfaces.KeyValueStorage, notifier Notifier, logger *common.Logger) *Store {
	s := &Store{
		kv:       kv,
		notifier: notifier,
		logger:   logger,
		assets:   []models.PortfolioAsset{},
		now:      time.Now,
	}

	raw, err := kv.Get(ctx, storageKey)
	if err != nil {
		logger.Debug().Msg("no stored portfolio found, starting empty")
		return s
	}

	var assets []models.PortfolioAsset
	if err := json.Unmarshal([]byte(raw), &assets); err != nil {
		logger.Warn().Str("error", err.Error()).Msg("stored portfolio is unparseable, starting empty")
		return s
	}
	s.assets = assets
	return s
}

// Add creates a holding for a new coin id, or merges the candidate lot into
// the existing holding: quantity accumulates and the purchase price becomes
// the quantity-weighted average of the old and new lots. The purchase date
// of an existing holding never changes.
func (s *Store) Add(ctx context.Context, candidate Candidate) error {
	if candidate.ID == "" {
		return fmt.Errorf("coin id is required")
	}
	if candidate.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %v", candidate.Quantity)
	}
	if candidate.PurchasePrice < 0 {
		return fmt.Errorf("purchase price must be non-negative, got %v", candidate.PurchasePrice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.PortfolioAsset, len(s.assets))
	copy(next, s.assets)

	updated := false
	for i := range next {
		if next[i].ID != candidate.ID {
			continue
		}
		merged := next[i]
		merged.PurchasePrice = weightedAveragePrice(
			next[i].Quantity, next[i].PurchasePrice,
			candidate.Quantity, candidate.PurchasePrice,
		)
		merged.Quantity = next[i].Quantity + candidate.Quantity
		next[i] = merged
		updated = true
		break
	}

	if !updated {
		next = append(next, models.PortfolioAsset{
			ID:            candidate.ID,
			Symbol:        candidate.Symbol,
			Name:          candidate.Name,
			Image:         candidate.Image,
			Quantity:      candidate.Quantity,
			PurchasePrice: candidate.PurchasePrice,
			PurchaseDate:  s.now().UTC(),
		})
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.assets = next

	name := candidate.Name
	if name == "" {
		name = candidate.ID
	}
	if updated {
		s.notify(fmt.Sprintf("Updated %s in your portfolio", name))
	} else {
		s.notify(fmt.Sprintf("Added %s to your portfolio", name))
	}
	return nil
}

// Update replaces (not averages) the quantity and purchase price of an
// existing holding. Unknown ids are a silent no-op. Holdings updated to
// zero quantity are kept, not pruned.
func (s *Store) Update(ctx context.Context, id string, quantity, purchasePrice float64) error {
	if quantity < 0 || purchasePrice < 0 {
		return fmt.Errorf("quantity and purchase price must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.assets {
		if s.assets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	next := make([]models.PortfolioAsset, len(s.assets))
	copy(next, s.assets)
	next[idx].Quantity = quantity
	next[idx].PurchasePrice = purchasePrice

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.assets = next
	s.notify(fmt.Sprintf("Updated %s in your portfolio", next[idx].Name))
	return nil
}

// Remove deletes a holding. Unknown ids are a silent no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.assets {
		if s.assets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	name := s.assets[idx].Name
	next := make([]models.PortfolioAsset, 0, len(s.assets)-1)
	next = append(next, s.assets[:idx]...)
	next = append(next, s.assets[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.assets = next
	s.notify(fmt.Sprintf("Removed %s from your portfolio", name))
	return nil
}

// Get returns the holding for a coin id. Absence is not an error.
func (s *Store) Get(id string) (models.PortfolioAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.PortfolioAsset{}, false
}

// List returns all holdings in insertion order.
func (s *Store) List() []models.PortfolioAsset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PortfolioAsset, len(s.assets))
	copy(out, s.assets)
	return out
}

// persist overwrites the stored collection with next. Called with mu held;
// the in-memory collection is only swapped after a successful write.
func (s *Store) persist(ctx context.Context, next []models.PortfolioAsset) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to serialize portfolio: %w", err)
	}
	if err := s.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist portfolio: %w", err)
	}
	return nil
}

func (s *Store) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

// weightedAveragePrice computes the quantity-weighted average cost of two
// lots. A zero combined quantity would divide by zero; the candidate price
// is returned instead.
func weightedAveragePrice(oldQty, oldPrice, addQty, addPrice float64) float64 {
	total := decimal.NewFromFloat(oldQty).Add(decimal.NewFromFloat(addQty))
	if total.IsZero() {
		return addPrice
	}
	oldCost := decimal.NewFromFloat(oldPrice).Mul(decimal.NewFromFloat(oldQty))
	addCost := decimal.NewFromFloat(addPrice).Mul(decimal.NewFromFloat(addQty))
	return oldCost.Add(addCost).Div(total).InexactFloat64()
}
