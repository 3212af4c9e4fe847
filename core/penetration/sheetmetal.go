package penetration

import (
	"math"

	"github.com/shopspring/decimal"
)

// Metal is a sheet metal stock material
type Metal string

// Supported sheet metal materials
const (
	Galvanized Metal = "galvanized"
	Aluminum   Metal = "aluminum"
	Stainless  Metal = "stainless"
	Copper     Metal = "copper"
)

// metalBase is the shop fabrication price per linear foot at 24 gauge
var metalBase = map[Metal]decimal.Decimal{
	Galvanized: decimal.NewFromFloat(2.40),
	Aluminum:   decimal.NewFromFloat(3.10),
	Stainless:  decimal.NewFromFloat(6.80),
	Copper:     decimal.NewFromFloat(12.40),
}

// gaugeFactor scales the base price by material thickness
var gaugeFactor = map[int]decimal.Decimal{
	26: decimal.NewFromFloat(0.85),
	24: decimal.NewFromInt(1),
	22: decimal.NewFromFloat(1.20),
}

// Metals returns the supported stock materials
func Metals() []Metal {
	return []Metal{Galvanized, Aluminum, Stainless, Copper}
}

// Gauges returns the supported gauges, heaviest last
func Gauges() []int {
	return []int{26, 24, 22}
}

// Profiles returns the standard brake profiles
func Profiles() []string {
	return []string{"drip-edge", "gravel-stop", "coping", "counterflashing"}
}

// FlashingSpec describes one run of shop-fabricated sheet metal
type FlashingSpec struct {
	// Profile is the brake shape, e.g. "coping"
	Profile string `json:"profile"`

	// Metal is the stock material
	Metal Metal `json:"metal"`

	// Gauge is the stock thickness
	Gauge int `json:"gauge"`

	// LF is the run length in linear feet
	LF float64 `json:"lf"`
}

// UnitPrice returns the fabricated price per linear foot, the material
// base price scaled by gauge. Unknown materials price at zero;
// unknown gauges price at the 24 gauge base
func (s FlashingSpec) UnitPrice() decimal.Decimal {
	base, ok := metalBase[s.Metal]
	if !ok {
		return decimal.Zero
	}
	factor, ok := gaugeFactor[s.Gauge]
	if !ok {
		factor = decimal.NewFromInt(1)
	}
	return base.Mul(factor)
}

// Total returns the price for the full run
func (s FlashingSpec) Total() decimal.Decimal {
	lf := s.LF
	if lf <= 0 || math.IsNaN(lf) || math.IsInf(lf, 0) {
		return decimal.Zero
	}
	return s.UnitPrice().Mul(decimal.NewFromFloat(lf))
}
