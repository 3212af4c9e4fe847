// Package pricing resolves the unit price of every product through
// three layers: prices the estimator edited in this session, overrides
// persisted in the price database, and catalog defaults. Higher layers
// always win; refreshing a lower layer never disturbs a higher one.
package pricing

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/catalog"
)

// Source indicates which layer produced a resolved price
type Source int

const (
	// SourceDefault - the catalog list price
	SourceDefault Source = iota
	// SourceOverride - a persisted override from the price database
	SourceOverride
	// SourceSession - a price the estimator edited in this session
	SourceSession
)

// String returns the source name
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceOverride:
		return "override"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Store is the persisted price override layer
type Store interface {
	// PriceMap returns the persisted overrides for a system keyed by
	// product id. A system with no overrides returns an empty map.
	PriceMap(ctx context.Context, system catalog.System) (map[string]decimal.Decimal, error)
}

// NullStore is a Store with no overrides, used when no price database
// is configured
type NullStore struct{}

// PriceMap returns an empty override map
func (NullStore) PriceMap(ctx context.Context, system catalog.System) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{}, nil
}

// State is the price resolution state of one estimating session.
// It is not safe for concurrent use.
type State struct {
	cat    *catalog.Catalog
	system catalog.System

	overrides map[string]decimal.Decimal
	edits     map[string]decimal.Decimal
	degraded  bool
}

// NewState creates a price state over catalog defaults only
func NewState(cat *catalog.Catalog, system catalog.System) *State {
	return &State{
		cat:       cat,
		system:    system,
		overrides: make(map[string]decimal.Decimal),
		edits:     make(map[string]decimal.Decimal),
	}
}

// Refresh reloads the persisted override layer from the store. Session
// edits survive a refresh untouched. A store failure clears the
// override layer and marks the state degraded: resolution then falls
// back to catalog defaults rather than stale data.
func (s *State) Refresh(ctx context.Context, store Store) error {
	if store == nil {
		store = NullStore{}
	}
	overrides, err := store.PriceMap(ctx, s.system)
	if err != nil {
		s.overrides = make(map[string]decimal.Decimal)
		s.degraded = true
		return err
	}
	s.overrides = make(map[string]decimal.Decimal, len(overrides))
	for id, price := range overrides {
		s.overrides[id] = clamp(price)
	}
	s.degraded = false
	return nil
}

// Degraded reports whether the last refresh failed and the state is
// running on catalog defaults
func (s *State) Degraded() bool {
	return s.degraded
}

// Price resolves the unit price of a product. Products the catalog
// does not stock resolve to zero.
func (s *State) Price(id string) decimal.Decimal {
	price, _ := s.Resolve(id)
	return price
}

// Resolve resolves a product price along with the layer that won
func (s *State) Resolve(id string) (decimal.Decimal, Source) {
	if price, ok := s.edits[id]; ok {
		return price, SourceSession
	}
	if price, ok := s.overrides[id]; ok {
		return price, SourceOverride
	}
	if p, ok := s.cat.Get(s.system, id); ok {
		return p.Price, SourceDefault
	}
	return decimal.Zero, SourceDefault
}

// Edit records a session price for a product. Negative prices are
// coerced to zero.
func (s *State) Edit(id string, price decimal.Decimal) {
	s.edits[id] = clamp(price)
}

// Reset drops the session edit for a product, so resolution falls back
// to the persisted override layer (or the catalog when none exists)
func (s *State) Reset(id string) {
	delete(s.edits, id)
}

// ResetAll drops every session edit
func (s *State) ResetAll() {
	s.edits = make(map[string]decimal.Decimal)
}

// Edited returns the product ids with session edits, sorted
func (s *State) Edited() []string {
	ids := make([]string, 0, len(s.edits))
	for id := range s.edits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edits returns a copy of the session edit layer for persistence
func (s *State) Edits() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.edits))
	for id, price := range s.edits {
		out[id] = price
	}
	return out
}

// SetEdits replaces the session edit layer, used when restoring a
// saved estimate
func (s *State) SetEdits(edits map[string]decimal.Decimal) {
	s.edits = make(map[string]decimal.Decimal, len(edits))
	for id, price := range edits {
		s.edits[id] = clamp(price)
	}
}

// System returns the system this state prices
func (s *State) System() catalog.System {
	return s.system
}

// clamp coerces negative prices to zero
func clamp(price decimal.Decimal) decimal.Decimal {
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}
