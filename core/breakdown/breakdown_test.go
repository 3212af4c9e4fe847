package breakdown

import (
	"testing"

	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func twoRowSection() Section {
	return Section{
		Kind: SectionMaterials,
		Rows: []Row{
			{ID: "a", Label: "Membrane", Unit: "roll", Quantity: 10, UnitPrice: money("25"), Included: true},
			{ID: "b", Label: "Adhesive", Unit: "pail", Quantity: 4, UnitPrice: money("12.50"), Included: true},
		},
		Modifiers: Modifiers{
			TaxPercent: 7.25, TaxEnabled: true,
			ProfitPercent: 15, ProfitEnabled: true,
		},
	}
}

func TestSectionMath(t *testing.T) {
	s := twoRowSection()

	if got := s.Base().String(); got != "300" {
		t.Errorf("Base() = %s, want 300", got)
	}
	if got := s.Tax().String(); got != "21.75" {
		t.Errorf("Tax() = %s, want 21.75", got)
	}
	if got := s.Profit().String(); got != "45" {
		t.Errorf("Profit() = %s, want 45", got)
	}
	if got := s.Total().String(); got != "366.75" {
		t.Errorf("Total() = %s, want 366.75", got)
	}
}

func TestRowToggleKeepsValues(t *testing.T) {
	s := twoRowSection()

	if !s.SetIncluded("b", false) {
		t.Fatal("SetIncluded did not find row b")
	}
	if got := s.Total().String(); got != "305.625" {
		t.Errorf("Total() with b off = %s, want 305.625", got)
	}

	// The row keeps its quantity and price while contributing nothing
	b := s.Rows[1]
	if b.Quantity != 4 || b.UnitPrice.String() != "12.5" {
		t.Errorf("toggled row lost values: qty %v price %s", b.Quantity, b.UnitPrice)
	}
	if got := b.Total().String(); got != "50" {
		t.Errorf("toggled row Total() = %s, want 50", got)
	}
	if !b.Contribution().IsZero() {
		t.Errorf("toggled row Contribution() = %s, want 0", b.Contribution())
	}

	// Switching back restores the full section
	s.SetIncluded("b", true)
	if got := s.Total().String(); got != "366.75" {
		t.Errorf("Total() after re-enable = %s, want 366.75", got)
	}
	if s.SetIncluded("missing", false) {
		t.Error("SetIncluded reported success for unknown row")
	}
}

func TestModifiersToggleIndependently(t *testing.T) {
	tests := []struct {
		name   string
		tax    bool
		profit bool
		want   string
	}{
		{"both on", true, true, "366.75"},
		{"tax only", true, false, "321.75"},
		{"profit only", false, true, "345"},
		{"both off", false, false, "300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoRowSection()
			s.Modifiers.TaxEnabled = tt.tax
			s.Modifiers.ProfitEnabled = tt.profit
			if got := s.Total().String(); got != tt.want {
				t.Errorf("Total() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProfitFiguredOnBaseNotTax(t *testing.T) {
	s := Section{
		Rows: []Row{{ID: "a", Quantity: 1, UnitPrice: money("1000"), Included: true}},
		Modifiers: Modifiers{
			TaxPercent: 10, TaxEnabled: true,
			ProfitPercent: 10, ProfitEnabled: true,
		},
	}
	// 1000 + 100 + 100, not 1000 + 100 + 110
	if got := s.Total().String(); got != "1200" {
		t.Errorf("Total() = %s, want 1200", got)
	}
}

func TestMalformedPercentsCountAsZero(t *testing.T) {
	s := twoRowSection()
	s.Modifiers.TaxPercent = -7.25
	if !s.Tax().IsZero() {
		t.Errorf("Tax() with negative rate = %s, want 0", s.Tax())
	}
}

func TestMalformedQuantityCountsAsZero(t *testing.T) {
	r := Row{Quantity: -3, UnitPrice: money("40"), Included: true}
	if !r.Total().IsZero() {
		t.Errorf("Total() with negative quantity = %s, want 0", r.Total())
	}
}

func TestGrandTotalSumsSections(t *testing.T) {
	b := &Breakdown{
		Sections: []Section{
			{Kind: SectionMaterials, Rows: []Row{{ID: "a", Quantity: 1, UnitPrice: money("100.10"), Included: true}}},
			{Kind: SectionPenetrations, Rows: []Row{{ID: "b", Quantity: 1, UnitPrice: money("200.20"), Included: true}}},
			{Kind: SectionLabor, Rows: []Row{{ID: "c", Quantity: 1, UnitPrice: money("300.30"), Included: true}}},
			{Kind: SectionEquipment, Rows: []Row{{ID: "d", Quantity: 1, UnitPrice: money("0.40"), Included: true}}},
		},
	}
	if got := b.GrandTotal().String(); got != "601" {
		t.Errorf("GrandTotal() = %s, want 601", got)
	}

	// The grand total is always the exact sum of the section totals,
	// whatever the modifiers
	b.Sections[0].Modifiers = Modifiers{TaxPercent: 7.25, TaxEnabled: true}
	b.Sections[2].Modifiers = Modifiers{ProfitPercent: 15, ProfitEnabled: true}
	sum := decimal.Zero
	for i := range b.Sections {
		sum = sum.Add(b.Sections[i].Total())
	}
	if !b.GrandTotal().Equal(sum) {
		t.Errorf("GrandTotal() = %s, section sum = %s", b.GrandTotal(), sum)
	}
}

func TestSectionLookup(t *testing.T) {
	b := &Breakdown{Sections: []Section{
		{Kind: SectionMaterials}, {Kind: SectionPenetrations},
		{Kind: SectionLabor}, {Kind: SectionEquipment},
	}}
	for _, kind := range Kinds() {
		s := b.Section(kind)
		if s == nil || s.Kind != kind {
			t.Errorf("Section(%s) = %v", kind, s)
		}
	}
	if b.Section(Kind(99)) != nil {
		t.Error("Section(unknown) should be nil")
	}
}

func TestKindNames(t *testing.T) {
	wantString := []string{"materials", "penetrations", "labor", "equipment"}
	wantLabel := []string{"Materials", "Penetrations & Sheet Metal", "Labor", "Equipment"}
	for i, kind := range Kinds() {
		if kind.String() != wantString[i] {
			t.Errorf("Kind(%d).String() = %s, want %s", i, kind.String(), wantString[i])
		}
		if kind.Label() != wantLabel[i] {
			t.Errorf("Kind(%d).Label() = %s, want %s", i, kind.Label(), wantLabel[i])
		}
	}
}
