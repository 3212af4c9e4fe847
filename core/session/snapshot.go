package session

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// SnapshotVersion is the saved estimate record format in use. Records
// carrying a different version are rejected on load
const SnapshotVersion = 1

// Snapshot is the saved form of a session. Measurements and price
// edits are stored as strings so records survive format evolution
// without floating point drift
type Snapshot struct {
	// Version is the record format version
	Version int `json:"version"`

	// ID is the session identifier the record was saved from
	ID string `json:"id"`

	// Name is the job name
	Name string `json:"name"`

	// System tags the record with its roofing system. A record can
	// only be restored into a session for the same system
	System catalog.System `json:"system"`

	// SavedAt is when the record was written
	SavedAt time.Time `json:"saved_at"`

	// Assembly is the saved assembly configuration
	Assembly assembly.Config `json:"assembly"`

	// Measurements holds the field measurements as decimal strings
	Measurements map[string]string `json:"measurements"`

	// PriceEdits holds session price edits as decimal strings by
	// product id
	PriceEdits map[string]string `json:"price_edits,omitempty"`

	// Penetrations holds penetration counts by type id
	Penetrations map[string]int `json:"penetrations,omitempty"`

	// Flashing holds the sheet metal runs
	Flashing []penetration.FlashingSpec `json:"flashing,omitempty"`

	// Modifiers holds per-section settings keyed by section name
	Modifiers map[string]breakdown.Modifiers `json:"modifiers,omitempty"`

	// Excluded lists switched-off row ids keyed by section name
	Excluded map[string][]string `json:"excluded,omitempty"`
}

// Snapshot captures the session state as a saveable record
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version:      SnapshotVersion,
		ID:           s.id,
		Name:         s.name,
		System:       s.system,
		SavedAt:      time.Now().UTC(),
		Assembly:     s.assembly,
		Measurements: s.measurements.ToMap(),
	}
	if edits := s.prices.Edits(); len(edits) > 0 {
		snap.PriceEdits = make(map[string]string, len(edits))
		for id, price := range edits {
			snap.PriceEdits[id] = price.String()
		}
	}
	if len(s.penCounts) > 0 {
		snap.Penetrations = s.PenetrationCounts()
	}
	if len(s.flashing) > 0 {
		snap.Flashing = s.Flashing()
	}
	// Record the effective settings for every section so the restored
	// bid does not depend on whatever defaults are configured later
	snap.Modifiers = make(map[string]breakdown.Modifiers, len(breakdown.Kinds()))
	for _, kind := range breakdown.Kinds() {
		m, ok := s.modifiers[kind]
		if !ok {
			m = breakdown.DefaultModifiers(kind, s.taxPercent, s.profitPercent)
		}
		snap.Modifiers[kind.String()] = m
	}
	for kind, rows := range s.excluded {
		if len(rows) == 0 {
			continue
		}
		if snap.Excluded == nil {
			snap.Excluded = make(map[string][]string)
		}
		ids := make([]string, 0, len(rows))
		for id := range rows {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		snap.Excluded[kind.String()] = ids
	}
	return snap
}

// Encode serializes the snapshot for storage
func (snap *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "encoding estimate record", err)
	}
	return data, nil
}

// DecodeSnapshot parses a saved estimate record and verifies it can
// be restored. A structurally broken record, an unknown format
// version, or a record tagged for a different system than wantSystem
// is rejected whole; nothing is partially restored. Pass an empty
// wantSystem to accept any system
func DecodeSnapshot(data []byte, wantSystem catalog.System) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.TypeFormat, "estimate record is not valid", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, errors.Formatf("estimate record version %d is not supported", snap.Version)
	}
	if !catalog.ValidSystem(snap.System) {
		return nil, errors.Formatf("estimate record has unknown system %q", snap.System)
	}
	if wantSystem != "" && snap.System != wantSystem {
		return nil, errors.Formatf("estimate record is for %s, not %s", snap.System, wantSystem)
	}
	for _, kind := range modifierKinds(&snap) {
		if _, ok := breakdown.KindFromString(kind); !ok {
			return nil, errors.Formatf("estimate record names unknown section %q", kind)
		}
	}
	for id, price := range snap.PriceEdits {
		if _, err := decimal.NewFromString(price); err != nil {
			return nil, errors.Formatf("estimate record has malformed price for %s: %q", id, price)
		}
	}
	return &snap, nil
}

func modifierKinds(snap *Snapshot) []string {
	kinds := make([]string, 0, len(snap.Modifiers)+len(snap.Excluded))
	for k := range snap.Modifiers {
		kinds = append(kinds, k)
	}
	for k := range snap.Excluded {
		kinds = append(kinds, k)
	}
	return kinds
}

// Restore replaces the session state with a decoded record. The
// record must carry the session's system. Price edits for products no
// longer in the catalog are dropped
func (s *Session) Restore(snap *Snapshot) error {
	if snap.System != s.system {
		return errors.Formatf("estimate record is for %s, not %s", snap.System, s.system)
	}

	edits := make(map[string]decimal.Decimal, len(snap.PriceEdits))
	for id, raw := range snap.PriceEdits {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return errors.Formatf("estimate record has malformed price for %s: %q", id, raw)
		}
		if _, ok := s.cat.Get(s.system, id); !ok {
			continue
		}
		edits[id] = price
	}
	modifiers := make(map[breakdown.Kind]breakdown.Modifiers, len(snap.Modifiers))
	for name, m := range snap.Modifiers {
		kind, ok := breakdown.KindFromString(name)
		if !ok {
			return errors.Formatf("estimate record names unknown section %q", name)
		}
		modifiers[kind] = m
	}
	excluded := make(map[breakdown.Kind]map[string]bool, len(snap.Excluded))
	for name, ids := range snap.Excluded {
		kind, ok := breakdown.KindFromString(name)
		if !ok {
			return errors.Formatf("estimate record names unknown section %q", name)
		}
		rows := make(map[string]bool, len(ids))
		for _, id := range ids {
			rows[id] = true
		}
		excluded[kind] = rows
	}

	if snap.ID != "" {
		s.id = snap.ID
	}
	s.name = snap.Name
	s.assembly = snap.Assembly.Normalize()
	s.measurements = takeoff.FromMap(snap.Measurements)
	s.prices.SetEdits(edits)
	s.penCounts = make(map[string]int, len(snap.Penetrations))
	for id, n := range snap.Penetrations {
		if n > 0 {
			s.penCounts[id] = n
		}
	}
	s.SetFlashing(snap.Flashing)
	s.modifiers = modifiers
	s.excluded = excluded
	return nil
}

// NewFromSnapshot starts a session for the record's system and
// restores the record into it
func NewFromSnapshot(cat *catalog.Catalog, pens *penetration.Registry, snap *Snapshot) (*Session, error) {
	s, err := New(cat, pens, snap.System)
	if err != nil {
		return nil, err
	}
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}
