package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func builtin(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	RegisterTPO(c)
	RegisterPVC(c)
	RegisterMetal(c)
	return c
}

func TestBuiltinCatalogValidates(t *testing.T) {
	c := builtin(t)
	if errs := c.Validate(DefaultValidationRules()); len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("validation: %v", err)
		}
	}
}

func TestGet(t *testing.T) {
	c := builtin(t)

	p, ok := c.Get(TPO, "tpo-60")
	if !ok {
		t.Fatal("tpo-60 missing from TPO catalog")
	}
	if p.Category != Membrane {
		t.Errorf("tpo-60 category = %s, want %s", p.Category, Membrane)
	}
	if p.Mil != 60 {
		t.Errorf("tpo-60 mil = %d, want 60", p.Mil)
	}

	if _, ok := c.Get(Metal, "tpo-60"); ok {
		t.Error("tpo-60 should not resolve in the metal system")
	}
	if _, ok := c.Get(TPO, "no-such-product"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestInsulationByThickness(t *testing.T) {
	c := builtin(t)

	tests := []struct {
		system    System
		thickness float64
		wantID    string
		wantOK    bool
	}{
		{TPO, 2.5, "iso-2.5", true},
		{TPO, 4.0, "iso-4.0", true},
		{PVC, 1.0, "iso-1.0", true},
		{TPO, 2.7, "", false},
		{Metal, 2.0, "", false},
	}

	for _, tt := range tests {
		p, ok := c.InsulationByThickness(tt.system, tt.thickness)
		if ok != tt.wantOK {
			t.Errorf("InsulationByThickness(%s, %v) ok = %v, want %v", tt.system, tt.thickness, ok, tt.wantOK)
			continue
		}
		if ok && p.ID != tt.wantID {
			t.Errorf("InsulationByThickness(%s, %v) = %s, want %s", tt.system, tt.thickness, p.ID, tt.wantID)
		}
	}
}

func TestMembraneByMil(t *testing.T) {
	c := builtin(t)

	if p, ok := c.MembraneByMil(PVC, 50); !ok || p.ID != "pvc-50" {
		t.Errorf("MembraneByMil(PVC, 50) = %v, %v; want pvc-50", p, ok)
	}
	if _, ok := c.MembraneByMil(TPO, 50); ok {
		t.Error("TPO has no 50 mil membrane")
	}
}

func TestFastenerLengthsSorted(t *testing.T) {
	c := builtin(t)

	lengths := c.FastenerLengths(TPO, "hd")
	want := []float64{2, 3, 4, 5, 6, 7, 8}
	if len(lengths) != len(want) {
		t.Fatalf("FastenerLengths = %v, want %v", lengths, want)
	}
	for i := range want {
		if lengths[i] != want[i] {
			t.Fatalf("FastenerLengths = %v, want %v", lengths, want)
		}
	}

	if got := c.FastenerLengths(Metal, "hd"); len(got) != 0 {
		t.Errorf("metal system should have no hd series, got %v", got)
	}
}

func TestProductsPreserveRegistrationOrder(t *testing.T) {
	c := builtin(t)

	products := c.Products(TPO)
	if len(products) == 0 {
		t.Fatal("empty TPO catalog")
	}
	if products[0].ID != "vb-sa" {
		t.Errorf("first TPO product = %s, want vb-sa", products[0].ID)
	}

	// Registration order must be monotonically increasing per Seq.
	prev := -1
	for _, p := range products {
		seq := c.Seq(TPO, p.ID)
		if seq <= prev {
			t.Fatalf("Seq(%s) = %d not increasing (prev %d)", p.ID, seq, prev)
		}
		prev = seq
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := NewCatalog()
	p := Product{ID: "dup", System: TPO, Category: Accessory, Name: "Dup", Unit: "each", Coverage: 1, Price: decimal.NewFromInt(1)}
	c.Register(p)
	c.Register(p)

	errs := c.Validate(DefaultValidationRules())
	if len(errs) != 1 {
		t.Fatalf("want exactly one duplicate error, got %v", errs)
	}
}

func TestValidationRules(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{
			name:    "valid accessory",
			product: Product{ID: "a", System: TPO, Category: Accessory, Name: "A", Unit: "each", Coverage: 1},
		},
		{
			name:    "zero coverage",
			product: Product{ID: "a", System: TPO, Category: Accessory, Name: "A", Unit: "each", Coverage: 0},
			wantErr: true,
		},
		{
			name:    "negative price",
			product: Product{ID: "a", System: TPO, Category: Accessory, Name: "A", Unit: "each", Coverage: 1, Price: decimal.NewFromInt(-1)},
			wantErr: true,
		},
		{
			name:    "insulation without thickness",
			product: Product{ID: "a", System: TPO, Category: Insulation, Name: "A", Unit: "board", Coverage: 32, RValue: 5},
			wantErr: true,
		},
		{
			name:    "membrane without mil",
			product: Product{ID: "a", System: TPO, Category: Membrane, Name: "A", Unit: "roll", Coverage: 930},
			wantErr: true,
		},
		{
			name:    "fastener without series",
			product: Product{ID: "a", System: TPO, Category: Fastener, Name: "A", Unit: "box", Coverage: 1000, Length: 4},
			wantErr: true,
		},
		{
			name:    "unknown system",
			product: Product{ID: "a", System: "shingle", Category: Accessory, Name: "A", Unit: "each", Coverage: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			c.Register(tt.product)
			errs := c.Validate(DefaultValidationRules())
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestCategoryOrder(t *testing.T) {
	cats := Categories()
	if cats[0] != VaporBarrier {
		t.Errorf("first category = %s, want vapor_barrier", cats[0])
	}
	if cats[len(cats)-1] != Sealant {
		t.Errorf("last category = %s, want sealant", cats[len(cats)-1])
	}
	for _, c := range cats {
		if c.String() == "unknown" {
			t.Errorf("category %d has no name", c)
		}
		if c.Label() == "Other" {
			t.Errorf("category %d has no label", c)
		}
	}
}
