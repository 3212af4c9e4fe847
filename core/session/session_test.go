package session

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/estimate"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/pricing"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	catalog.Init()
	penetration.Init()
	s, err := New(catalog.GlobalCatalog, penetration.Default(), catalog.TPO)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// warehouseSession is a complete mid-size job touching every stage of
// the pipeline
func warehouseSession(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(t)
	s.SetName("Riverside Warehouse")
	s.SetRates(7.25, 15)
	s.SetAssembly(assembly.Config{
		Deck:              assembly.DeckSteel,
		VaporBarrier:      "vb-sa",
		InsulationEnabled: true,
		Layers: []assembly.Layer{
			{Enabled: true, Thickness: 2.5},
			{Enabled: true, Thickness: 2.0},
		},
		CoverBoard:  "cb-hd-05",
		MembraneMil: 60,
		Attachment:  assembly.MechanicallyAttached,
	})
	s.SetMeasurements(takeoff.Measurements{
		RoofArea:       10000,
		WallLF:         420,
		WallHeight:     2.5,
		BaseFlashingLF: 180,
	})
	s.SetPenetrationCount("pen-pipe-small", 2)
	s.SetPenetrationCount("pen-drain", 1)
	s.SetFlashing([]penetration.FlashingSpec{
		{Profile: "coping", Metal: penetration.Galvanized, Gauge: 24, LF: 120},
	})
	return s
}

func TestCompileWarehouse(t *testing.T) {
	r := warehouseSession(t).Compile()

	if !nearlyEqual(r.Insulation.Thickness, 4.5) || !nearlyEqual(r.Insulation.RValue, 25.7) {
		t.Errorf("insulation = %+v, want 4.5in R25.7", r.Insulation)
	}
	if r.Fasteners.Insulation == nil || r.Fasteners.Insulation.ProductID != "fas-hd-6" {
		t.Errorf("insulation fastener = %+v, want fas-hd-6", r.Fasteners.Insulation)
	}
	if r.Fasteners.Membrane == nil || r.Fasteners.Membrane.ProductID != "fas-hd-6" {
		t.Errorf("membrane fastener = %+v, want fas-hd-6", r.Fasteners.Membrane)
	}
	if len(r.Materials.Items) != 12 {
		t.Errorf("material items = %d, want 12", len(r.Materials.Items))
	}
	if r.Materials.Items[0].ProductID != "vb-sa" {
		t.Errorf("first material = %s, want vb-sa", r.Materials.Items[0].ProductID)
	}
	if got := r.Materials.Subtotal.String(); got != "50400.82" {
		t.Errorf("materials subtotal = %s, want 50400.82", got)
	}
	if got := r.Penetrations.Subtotal.String(); got != "415.9" {
		t.Errorf("penetrations subtotal = %s, want 415.9", got)
	}
	if r.LaborMinutes != 180 {
		t.Errorf("labor minutes = %v, want 180", r.LaborMinutes)
	}
	if r.PricingDegraded {
		t.Error("pricing reported degraded with no store involved")
	}
}

func TestCompileSectionTotals(t *testing.T) {
	r := warehouseSession(t).Compile()

	want := map[breakdown.Kind]string{
		breakdown.SectionMaterials:    "61615.00245",
		breakdown.SectionPenetrations: "860.51775",
		breakdown.SectionLabor:        "23955.075",
		breakdown.SectionEquipment:    "4773.8625",
	}
	for kind, total := range want {
		if got := r.Breakdown.Section(kind).Total().String(); got != total {
			t.Errorf("%s total = %s, want %s", kind, got, total)
		}
	}
	if got := r.GrandTotal.String(); got != "91204.4577" {
		t.Errorf("grand total = %s, want 91204.4577", got)
	}

	sum := decimal.Zero
	for _, kind := range breakdown.Kinds() {
		sum = sum.Add(r.Breakdown.Section(kind).Total())
	}
	if !r.GrandTotal.Equal(sum) {
		t.Errorf("grand total %s != section sum %s", r.GrandTotal, sum)
	}
}

func TestCompileIsRepeatable(t *testing.T) {
	s := warehouseSession(t)
	r1 := s.Compile()
	r2 := s.Compile()
	if !reflect.DeepEqual(r1, r2) {
		t.Error("two compiles of the same session differ")
	}
}

func TestSessionPriceEdit(t *testing.T) {
	s := warehouseSession(t)
	s.Prices().Edit("tpo-60", decimal.NewFromInt(850))

	r := s.Compile()
	membrane := findItem(t, r, "tpo-60")
	if membrane.UnitPrice.String() != "850" {
		t.Errorf("edited price = %s, want 850", membrane.UnitPrice)
	}
	if membrane.PriceSource != pricing.SourceSession {
		t.Errorf("price source = %v, want session", membrane.PriceSource)
	}

	s.Prices().Reset("tpo-60")
	r = s.Compile()
	membrane = findItem(t, r, "tpo-60")
	if membrane.UnitPrice.String() != "920" || membrane.PriceSource != pricing.SourceDefault {
		t.Errorf("after reset: price %s source %v", membrane.UnitPrice, membrane.PriceSource)
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	s := warehouseSession(t)
	s.Prices().Edit("adh-primer", decimal.NewFromFloat(71.25))
	s.SetRowIncluded(breakdown.SectionMaterials, "tpo-60", false)
	s.SetSectionModifiers(breakdown.SectionEquipment, breakdown.Modifiers{
		TaxPercent: 8, TaxEnabled: true, ProfitPercent: 12, ProfitEnabled: false,
	})
	before := s.Compile()

	snap := s.Snapshot()
	if snap.Version != SnapshotVersion || snap.System != catalog.TPO {
		t.Fatalf("snapshot header = v%d %s", snap.Version, snap.System)
	}
	if snap.Measurements["roof_area"] != "10000" {
		t.Errorf("roof_area stored as %q", snap.Measurements["roof_area"])
	}
	if snap.PriceEdits["adh-primer"] != "71.25" {
		t.Errorf("price edit stored as %q", snap.PriceEdits["adh-primer"])
	}

	data, err := snap.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeSnapshot(data, catalog.TPO)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	restored, err := NewFromSnapshot(catalog.GlobalCatalog, penetration.Default(), decoded)
	if err != nil {
		t.Fatalf("NewFromSnapshot: %v", err)
	}

	if restored.Name() != "Riverside Warehouse" {
		t.Errorf("restored name = %q", restored.Name())
	}
	after := restored.Compile()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("restored compile differs\nbefore grand %s\nafter  grand %s",
			before.GrandTotal, after.GrandTotal)
	}
}

func TestDecodeSnapshotRejects(t *testing.T) {
	valid, err := warehouseSession(t).Snapshot().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want catalog.System
	}{
		{"truncated json", []byte(`{"version":1,"system":"tp`), catalog.TPO},
		{"wrong version", mutate(t, valid, `"version":1`, `"version":7`), catalog.TPO},
		{"unknown system", mutate(t, valid, `"system":"tpo"`, `"system":"shingle"`), ""},
		{"system mismatch", valid, catalog.PVC},
		{"malformed price", mutate(t, valid, `"version":1`, `"version":1,"price_edits":{"tpo-60":"abc"}`), catalog.TPO},
		{"unknown section", mutate(t, valid, `"version":1`, `"version":1,"excluded":{"consumables":["x"]}`), catalog.TPO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(tt.data, tt.want)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !errors.IsType(err, errors.TypeFormat) {
				t.Errorf("error type = %v, want format error", err)
			}
		})
	}
}

func TestRestoreFailureLeavesSessionUntouched(t *testing.T) {
	s := warehouseSession(t)
	before := s.Compile()

	bad := &Snapshot{
		Version:      SnapshotVersion,
		System:       catalog.TPO,
		Assembly:     assembly.Default(),
		Measurements: map[string]string{"roof_area": "99999"},
		PriceEdits:   map[string]string{"tpo-60": "not-a-price"},
	}
	if err := s.Restore(bad); err == nil {
		t.Fatal("expected rejection")
	}

	after := s.Compile()
	if !reflect.DeepEqual(before, after) {
		t.Error("failed restore modified the session")
	}
}

func TestRestoreDropsEditsForUnknownProducts(t *testing.T) {
	s := newTestSession(t)
	snap := &Snapshot{
		Version:  SnapshotVersion,
		System:   catalog.TPO,
		Assembly: assembly.Default(),
		Measurements: map[string]string{
			"roof_area": "5000",
		},
		PriceEdits: map[string]string{
			"tpo-60":       "900",
			"discontinued": "15.50",
		},
		Penetrations: map[string]int{
			"pen-drain":    2,
			"pen-skylight": 0,
		},
	}
	if err := s.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	edits := s.Prices().Edits()
	if _, ok := edits["discontinued"]; ok {
		t.Error("edit for unknown product survived restore")
	}
	if price, ok := edits["tpo-60"]; !ok || price.String() != "900" {
		t.Errorf("tpo-60 edit = %v %v", price, ok)
	}
	counts := s.PenetrationCounts()
	if counts["pen-drain"] != 2 || len(counts) != 1 {
		t.Errorf("penetration counts = %v", counts)
	}
}

func TestDecodeSnapshotAnySystem(t *testing.T) {
	s := newTestSession(t)
	data, err := s.Snapshot().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	snap, err := DecodeSnapshot(data, "")
	if err != nil {
		t.Fatalf("DecodeSnapshot with no system filter: %v", err)
	}
	if snap.System != catalog.TPO {
		t.Errorf("system = %s", snap.System)
	}
}

func TestNewRejectsUnknownSystem(t *testing.T) {
	catalog.Init()
	penetration.Init()
	_, err := New(catalog.GlobalCatalog, penetration.Default(), "shake")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("error type = %v, want input error", err)
	}
}

func findItem(t *testing.T, r *Result, productID string) estimate.LineItem {
	t.Helper()
	for _, item := range r.Materials.Items {
		if item.ProductID == productID {
			return item
		}
	}
	t.Fatalf("product %s not in materials", productID)
	return estimate.LineItem{}
}

func mutate(t *testing.T, data []byte, old, repl string) []byte {
	t.Helper()
	s := string(data)
	if !strings.Contains(s, old) {
		t.Fatalf("snapshot JSON does not contain %q", old)
	}
	return []byte(strings.Replace(s, old, repl, 1))
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
