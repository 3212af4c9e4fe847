package estimate

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/pricing"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.NewCatalog()
	catalog.RegisterTPO(c)
	return c
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCompileOrdersByCategory(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)

	// Deliberately shuffled input.
	lines := []takeoff.Line{
		{ProductID: "acc-termbar", Measurement: 420, Units: 42},
		{ProductID: "tpo-60", Measurement: 10000, Units: 11},
		{ProductID: "fas-hd-4", Measurement: 1565, Units: 2},
		{ProductID: "vb-sa", Measurement: 10000, Units: 20},
		{ProductID: "iso-2.5", Measurement: 10000, Units: 313},
		{ProductID: "plate-ins-3", Measurement: 1565, Units: 2},
	}

	est := Compile(cat, catalog.TPO, lines, prices)

	var got []string
	for _, item := range est.Items {
		got = append(got, item.ProductID)
	}
	want := []string{"vb-sa", "iso-2.5", "tpo-60", "fas-hd-4", "plate-ins-3", "acc-termbar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("item order = %v, want %v", got, want)
	}
}

func TestCompileTotals(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)

	lines := []takeoff.Line{
		{ProductID: "tpo-60", Measurement: 10000, Units: 11},
		{ProductID: "iso-2.5", Measurement: 10000, Units: 313},
	}

	est := Compile(cat, catalog.TPO, lines, prices)

	// 11 rolls at 920 plus 313 boards at 38.40.
	wantMembrane := d("10120")
	wantIso := d("12019.20")
	if !est.Items[1].Total.Equal(wantMembrane) {
		t.Errorf("membrane total = %s, want %s", est.Items[1].Total, wantMembrane)
	}
	if !est.Items[0].Total.Equal(wantIso) {
		t.Errorf("insulation total = %s, want %s", est.Items[0].Total, wantIso)
	}
	if want := wantMembrane.Add(wantIso); !est.Subtotal.Equal(want) {
		t.Errorf("subtotal = %s, want %s", est.Subtotal, want)
	}
}

func TestCompileUsesResolvedPrices(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)
	prices.Edit("tpo-60", d("850"))

	est := Compile(cat, catalog.TPO, []takeoff.Line{{ProductID: "tpo-60", Measurement: 930, Units: 1}}, prices)

	item := est.Items[0]
	if !item.UnitPrice.Equal(d("850")) {
		t.Errorf("unit price = %s, want the session edit", item.UnitPrice)
	}
	if item.PriceSource != pricing.SourceSession {
		t.Errorf("price source = %s, want session", item.PriceSource)
	}
}

func TestCompileSkipsUnknownProducts(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)

	lines := []takeoff.Line{
		{ProductID: "tpo-60", Measurement: 930, Units: 1},
		{ProductID: "ghost-product", Measurement: 50, Units: 1},
	}
	est := Compile(cat, catalog.TPO, lines, prices)
	if len(est.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(est.Items))
	}
	if est.Items[0].ProductID != "tpo-60" {
		t.Errorf("kept item = %s", est.Items[0].ProductID)
	}
}

func TestCompileEmpty(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)

	est := Compile(cat, catalog.TPO, nil, prices)
	if len(est.Items) != 0 {
		t.Errorf("items = %d, want 0", len(est.Items))
	}
	if !est.Subtotal.Equal(decimal.Zero) {
		t.Errorf("subtotal = %s, want 0", est.Subtotal)
	}
}

func TestCompileDeterministic(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)
	lines := []takeoff.Line{
		{ProductID: "acc-sealant", Measurement: 420, Units: 21},
		{ProductID: "tpo-80", Measurement: 10000, Units: 11},
		{ProductID: "iso-1.5", Measurement: 10000, Units: 313},
	}

	a := Compile(cat, catalog.TPO, lines, prices)
	b := Compile(cat, catalog.TPO, lines, prices)
	if !reflect.DeepEqual(a, b) {
		t.Error("compilation is not deterministic")
	}
}

func TestByCategory(t *testing.T) {
	cat := testCatalog(t)
	prices := pricing.NewState(cat, catalog.TPO)

	lines := []takeoff.Line{
		{ProductID: "iso-2.5", Measurement: 10000, Units: 313},
		{ProductID: "iso-2.0", Measurement: 10000, Units: 313},
		{ProductID: "tpo-60", Measurement: 10000, Units: 11},
	}
	groups := Compile(cat, catalog.TPO, lines, prices).ByCategory()

	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Category != catalog.Insulation || len(groups[0].Items) != 2 {
		t.Errorf("first group = %s with %d items", groups[0].Category, len(groups[0].Items))
	}
	wantIso := d("38.40").Mul(d("313")).Add(d("31.68").Mul(d("313")))
	if !groups[0].Subtotal.Equal(wantIso) {
		t.Errorf("insulation subtotal = %s, want %s", groups[0].Subtotal, wantIso)
	}
	if groups[1].Category != catalog.Membrane {
		t.Errorf("second group = %s, want membrane", groups[1].Category)
	}
}
