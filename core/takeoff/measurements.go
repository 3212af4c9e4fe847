// Package takeoff turns a measured roof and a configured assembly into
// the list of products to order. Quantities always round up to whole
// purchase units; a product that covers nothing is never listed.
package takeoff

import (
	"math"
	"strconv"
	"strings"
)

// Measurements are the field dimensions an estimate is built from
type Measurements struct {
	// RoofArea is the field area in square feet
	RoofArea float64 `json:"roof_area"`

	// PerimeterLF is the roof edge length in linear feet
	PerimeterLF float64 `json:"perimeter_lf"`

	// WallLF is the length of walls and parapets the membrane turns up
	WallLF float64 `json:"wall_lf"`

	// WallHeight is the average flashing height in feet
	WallHeight float64 `json:"wall_height"`

	// BaseFlashingLF is the length of base flashing details
	BaseFlashingLF float64 `json:"base_flashing_lf"`
}

// baseFlashingFactor converts base flashing length to flashing area,
// covering the turn-up and lap of a standard detail
const baseFlashingFactor = 1.5

// Sanitize returns a copy with malformed values (negative, NaN,
// infinite) coerced to zero
func (m Measurements) Sanitize() Measurements {
	return Measurements{
		RoofArea:       sanitize(m.RoofArea),
		PerimeterLF:    sanitize(m.PerimeterLF),
		WallLF:         sanitize(m.WallLF),
		WallHeight:     sanitize(m.WallHeight),
		BaseFlashingLF: sanitize(m.BaseFlashingLF),
	}
}

// FlashingArea is the wall and detail area to be covered by membrane
// flashing: base details at a fixed factor plus the wall turn-up.
func (m Measurements) FlashingArea() float64 {
	s := m.Sanitize()
	return s.BaseFlashingLF*baseFlashingFactor + s.WallLF*s.WallHeight
}

// ToMap renders the measurements as strings for persistence
func (m Measurements) ToMap() map[string]string {
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return map[string]string{
		"roof_area":        format(m.RoofArea),
		"perimeter_lf":     format(m.PerimeterLF),
		"wall_lf":          format(m.WallLF),
		"wall_height":      format(m.WallHeight),
		"base_flashing_lf": format(m.BaseFlashingLF),
	}
}

// FromMap restores measurements from persisted strings. Unknown keys
// are ignored and malformed values become zero.
func FromMap(values map[string]string) Measurements {
	var m Measurements
	for k, v := range values {
		switch k {
		case "roof_area":
			m.RoofArea = ParseMeasurement(v)
		case "perimeter_lf":
			m.PerimeterLF = ParseMeasurement(v)
		case "wall_lf":
			m.WallLF = ParseMeasurement(v)
		case "wall_height":
			m.WallHeight = ParseMeasurement(v)
		case "base_flashing_lf":
			m.BaseFlashingLF = ParseMeasurement(v)
		}
	}
	return m
}

// ParseMeasurement reads a stored measurement string. Anything that is
// not a finite non-negative number parses as zero.
func ParseMeasurement(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return sanitize(v)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
