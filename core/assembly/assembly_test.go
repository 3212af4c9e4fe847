package assembly

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/7mit3/BidFix-sub000/core/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.NewCatalog()
	catalog.RegisterTPO(c)
	return c
}

func TestAggregate(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name          string
		cfg           Config
		wantThickness float64
		wantR         float64
		wantLayers    int
	}{
		{
			name: "single layer",
			cfg: Config{
				InsulationEnabled: true,
				Layers:            []Layer{{Enabled: true, Thickness: 2.5}},
			},
			wantThickness: 2.5,
			wantR:         14.3,
			wantLayers:    1,
		},
		{
			name: "two layers staggered",
			cfg: Config{
				InsulationEnabled: true,
				Layers: []Layer{
					{Enabled: true, Thickness: 2.5},
					{Enabled: true, Thickness: 2.0},
				},
			},
			wantThickness: 4.5,
			wantR:         25.7,
			wantLayers:    2,
		},
		{
			name: "master switch off zeroes the summary",
			cfg: Config{
				InsulationEnabled: false,
				Layers: []Layer{
					{Enabled: true, Thickness: 2.5},
					{Enabled: true, Thickness: 2.0},
				},
			},
		},
		{
			name: "disabled layer contributes nothing",
			cfg: Config{
				InsulationEnabled: true,
				Layers: []Layer{
					{Enabled: true, Thickness: 2.5},
					{Enabled: false, Thickness: 2.0},
				},
			},
			wantThickness: 2.5,
			wantR:         14.3,
			wantLayers:    1,
		},
		{
			name: "zero thickness layer skipped",
			cfg: Config{
				InsulationEnabled: true,
				Layers: []Layer{
					{Enabled: true, Thickness: 0},
					{Enabled: true, Thickness: 1.5},
				},
			},
			wantThickness: 1.5,
			wantR:         8.6,
			wantLayers:    1,
		},
		{
			name: "off-catalog thickness estimates R from inches",
			cfg: Config{
				InsulationEnabled: true,
				Layers:            []Layer{{Enabled: true, Thickness: 2.2}},
			},
			wantThickness: 2.2,
			wantR:         2.2 * fallbackRPerInch,
			wantLayers:    1,
		},
		{
			name: "layers beyond the cap are ignored",
			cfg: Config{
				InsulationEnabled: true,
				Layers: []Layer{
					{Enabled: true, Thickness: 1.0},
					{Enabled: true, Thickness: 1.0},
					{Enabled: true, Thickness: 1.0},
					{Enabled: true, Thickness: 1.0},
					{Enabled: true, Thickness: 1.0},
				},
			},
			wantThickness: 4.0,
			wantR:         4 * 5.7,
			wantLayers:    4,
		},
		{
			name: "no layers",
			cfg:  Config{InsulationEnabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.cfg, cat, catalog.TPO)
			if !nearlyEqual(got.Thickness, tt.wantThickness) {
				t.Errorf("Thickness = %v, want %v", got.Thickness, tt.wantThickness)
			}
			if !nearlyEqual(got.RValue, tt.wantR) {
				t.Errorf("RValue = %v, want %v", got.RValue, tt.wantR)
			}
			if got.Layers != tt.wantLayers {
				t.Errorf("Layers = %d, want %d", got.Layers, tt.wantLayers)
			}
		})
	}
}

func TestAggregatePreservesLayers(t *testing.T) {
	cat := testCatalog(t)
	cfg := Config{
		InsulationEnabled: false,
		Layers: []Layer{
			{Enabled: true, Thickness: 2.5},
			{Enabled: true, Thickness: 2.0},
		},
	}

	Aggregate(cfg, cat, catalog.TPO)

	if len(cfg.Layers) != 2 || cfg.Layers[0].Thickness != 2.5 || cfg.Layers[1].Thickness != 2.0 {
		t.Errorf("layers mutated by aggregation: %+v", cfg.Layers)
	}

	// Turning the master switch back on restores the previous stack.
	cfg.InsulationEnabled = true
	got := Aggregate(cfg, cat, catalog.TPO)
	if !nearlyEqual(got.Thickness, 4.5) {
		t.Errorf("Thickness after re-enable = %v, want 4.5", got.Thickness)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		Layers: []Layer{
			{Enabled: true, Thickness: -1},
			{Enabled: true, Thickness: math.NaN()},
			{Enabled: true, Thickness: math.Inf(1)},
			{Enabled: true, Thickness: 2.0},
			{Enabled: true, Thickness: 3.0},
		},
	}

	got := cfg.Normalize()
	if len(got.Layers) != MaxLayers {
		t.Fatalf("Normalize kept %d layers, want %d", len(got.Layers), MaxLayers)
	}
	for i := 0; i < 3; i++ {
		if got.Layers[i].Thickness != 0 {
			t.Errorf("layer %d thickness = %v, want 0", i, got.Layers[i].Thickness)
		}
	}
	if got.Layers[3].Thickness != 2.0 {
		t.Errorf("layer 3 thickness = %v, want 2.0", got.Layers[3].Thickness)
	}

	// The original is untouched.
	if len(cfg.Layers) != 5 || !math.IsNaN(cfg.Layers[1].Thickness) {
		t.Error("Normalize modified its receiver")
	}
}

func TestFastenerLengthJSON(t *testing.T) {
	tests := []struct {
		name string
		in   FastenerLength
		want string
	}{
		{"auto", Auto(), `"auto"`},
		{"zero value is auto", FastenerLength{}, `"auto"`},
		{"explicit", Explicit(4), `4`},
		{"explicit fraction", Explicit(4.5), `4.5`},
		{"malformed explicit collapses to zero", Explicit(math.NaN()), `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}

			var back FastenerLength
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back != tt.in && !(tt.in.IsAuto() && back.IsAuto()) {
				t.Errorf("roundtrip = %v, want %v", back, tt.in)
			}
		})
	}
}

func TestFastenerLengthUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantAuto bool
		wantIn   float64
		wantErr  bool
	}{
		{"auto string", `"auto"`, true, 0, false},
		{"empty string", `""`, true, 0, false},
		{"null", `null`, true, 0, false},
		{"number", `6`, false, 6, false},
		{"unknown string", `"long"`, false, 0, true},
		{"garbage", `{`, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FastenerLength
			err := json.Unmarshal([]byte(tt.data), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if f.IsAuto() != tt.wantAuto {
				t.Errorf("IsAuto = %v, want %v", f.IsAuto(), tt.wantAuto)
			}
			if f.Inches() != tt.wantIn {
				t.Errorf("Inches = %v, want %v", f.Inches(), tt.wantIn)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	if !ValidDeck(DeckSteel) || ValidDeck("dirt") {
		t.Error("ValidDeck misclassifies")
	}
	if !ValidAttachment(FullyAdhered) || ValidAttachment("ballasted") {
		t.Error("ValidAttachment misclassifies")
	}
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
