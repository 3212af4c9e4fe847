// Package session holds one estimate in progress: the chosen system,
// assembly, field measurements, price edits, penetration counts, and
// bid settings. Compile runs the full takeoff and pricing pipeline
// over that state and returns the sectioned bid.
//
// A Session is not safe for concurrent use; callers serialize access.
package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/estimate"
	"github.com/7mit3/BidFix-sub000/core/fastening"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/pricing"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// Session is one estimate being worked on
type Session struct {
	id   string
	name string

	cat    *catalog.Catalog
	pens   *penetration.Registry
	system catalog.System

	assembly     assembly.Config
	measurements takeoff.Measurements
	prices       *pricing.State
	penCounts    map[string]int
	flashing     []penetration.FlashingSpec

	taxPercent    float64
	profitPercent float64
	modifiers     map[breakdown.Kind]breakdown.Modifiers
	excluded      map[breakdown.Kind]map[string]bool
}

// New starts a session for the given system with the default assembly
func New(cat *catalog.Catalog, pens *penetration.Registry, system catalog.System) (*Session, error) {
	if !catalog.ValidSystem(system) {
		return nil, errors.Inputf("unknown roofing system: %s", system)
	}
	return &Session{
		id:        uuid.NewString(),
		cat:       cat,
		pens:      pens,
		system:    system,
		assembly:  assembly.Default(),
		prices:    pricing.NewState(cat, system),
		penCounts: make(map[string]int),
		modifiers: make(map[breakdown.Kind]breakdown.Modifiers),
		excluded:  make(map[breakdown.Kind]map[string]bool),
	}, nil
}

// ID returns the session's identifier
func (s *Session) ID() string { return s.id }

// Name returns the job name
func (s *Session) Name() string { return s.name }

// SetName sets the job name
func (s *Session) SetName(name string) { s.name = name }

// System returns the session's roofing system
func (s *Session) System() catalog.System { return s.system }

// Assembly returns the current assembly configuration
func (s *Session) Assembly() assembly.Config { return s.assembly }

// SetAssembly replaces the assembly configuration. The configuration
// is normalized so malformed values never reach the pipeline
func (s *Session) SetAssembly(cfg assembly.Config) {
	s.assembly = cfg.Normalize()
}

// Measurements returns the current field measurements
func (s *Session) Measurements() takeoff.Measurements { return s.measurements }

// SetMeasurements replaces the field measurements, sanitized
func (s *Session) SetMeasurements(m takeoff.Measurements) {
	s.measurements = m.Sanitize()
}

// Prices returns the session's price state
func (s *Session) Prices() *pricing.State { return s.prices }

// RefreshPrices reloads persisted price overrides from the store.
// Session price edits survive the refresh
func (s *Session) RefreshPrices(ctx context.Context, store pricing.Store) error {
	return s.prices.Refresh(ctx, store)
}

// SetRates sets the default tax and profit percentages seeded onto
// sections that have no stored settings
func (s *Session) SetRates(taxPercent, profitPercent float64) {
	s.taxPercent = taxPercent
	s.profitPercent = profitPercent
}

// PenetrationCounts returns a copy of the penetration counts
func (s *Session) PenetrationCounts() map[string]int {
	out := make(map[string]int, len(s.penCounts))
	for id, n := range s.penCounts {
		out[id] = n
	}
	return out
}

// SetPenetrationCount sets how many of a penetration type the roof
// has. Counts at or below zero remove the entry
func (s *Session) SetPenetrationCount(typeID string, count int) {
	if count <= 0 {
		delete(s.penCounts, typeID)
		return
	}
	s.penCounts[typeID] = count
}

// Flashing returns a copy of the sheet metal runs
func (s *Session) Flashing() []penetration.FlashingSpec {
	out := make([]penetration.FlashingSpec, len(s.flashing))
	copy(out, s.flashing)
	return out
}

// SetFlashing replaces the sheet metal runs
func (s *Session) SetFlashing(specs []penetration.FlashingSpec) {
	s.flashing = make([]penetration.FlashingSpec, len(specs))
	copy(s.flashing, specs)
}

// SetRowIncluded toggles one breakdown row on or off for future
// compiles
func (s *Session) SetRowIncluded(kind breakdown.Kind, rowID string, included bool) {
	if included {
		delete(s.excluded[kind], rowID)
		return
	}
	if s.excluded[kind] == nil {
		s.excluded[kind] = make(map[string]bool)
	}
	s.excluded[kind][rowID] = true
}

// SetSectionModifiers stores a section's tax and profit settings
func (s *Session) SetSectionModifiers(kind breakdown.Kind, m breakdown.Modifiers) {
	s.modifiers[kind] = m
}

// Result is one compiled pass over the session state
type Result struct {
	// System is the roofing system the estimate was compiled for
	System catalog.System `json:"system"`

	// Insulation summarizes the enabled insulation layers
	Insulation assembly.Summary `json:"insulation"`

	// Fasteners are the resolved fastener selections
	Fasteners fastening.Resolution `json:"fasteners"`

	// Materials is the priced material estimate
	Materials estimate.Estimate `json:"materials"`

	// Penetrations is the priced penetration material estimate
	Penetrations estimate.Estimate `json:"penetrations"`

	// LaborMinutes is the penetration crew time
	LaborMinutes float64 `json:"labor_minutes"`

	// Breakdown is the sectioned bid
	Breakdown *breakdown.Breakdown `json:"breakdown"`

	// GrandTotal is the bid total across all sections
	GrandTotal decimal.Decimal `json:"grand_total"`

	// PricingDegraded reports that the last price refresh failed and
	// catalog defaults are standing in for persisted overrides
	PricingDegraded bool `json:"pricing_degraded,omitempty"`
}

// Compile runs the estimate pipeline over the current state: layer
// aggregation, fastener resolution, material takeoff, pricing, then
// the sectioned bid. Compile never mutates the session, so callers
// can recompile after every edit
func (s *Session) Compile() *Result {
	sum := assembly.Aggregate(s.assembly, s.cat, s.system)
	fast := fastening.Resolve(s.cat, s.system, s.assembly, sum, s.measurements.RoofArea)
	lines := takeoff.Compute(s.cat, s.system, s.assembly, sum, fast, s.measurements)
	materials := estimate.Compile(s.cat, s.system, lines, s.prices)

	penLines, minutes := s.pens.Takeoff(s.cat, s.system, s.penCounts)
	penetrations := estimate.Compile(s.cat, s.system, penLines, s.prices)

	bid := breakdown.Compose(breakdown.Inputs{
		System:       s.system,
		Materials:    &materials,
		Penetrations: &penetrations,
		Flashing:     s.flashing,
		LaborMinutes: minutes,
		Measurements: s.measurements,
	}, breakdown.Params{
		TaxPercent:    s.taxPercent,
		ProfitPercent: s.profitPercent,
		Modifiers:     s.modifiers,
		Excluded:      s.excluded,
	})

	return &Result{
		System:          s.system,
		Insulation:      sum,
		Fasteners:       fast,
		Materials:       materials,
		Penetrations:    penetrations,
		LaborMinutes:    minutes,
		Breakdown:       bid,
		GrandTotal:      bid.GrandTotal(),
		PricingDegraded: s.prices.Degraded(),
	}
}
