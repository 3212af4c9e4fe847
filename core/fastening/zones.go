// Package fastening - roof zone quantity split
package fastening

import "math"

// Roof zone shares of the total fastener count. The shares are fixed
// estimating assumptions and always sum to 1.0.
const (
	FieldRatio     = 0.80
	PerimeterRatio = 0.15
	CornerRatio    = 0.05
)

// ZoneSplit is a fastener count divided across roof zones
type ZoneSplit struct {
	// Field is the count for the open field of the roof
	Field int `json:"field"`

	// Perimeter is the count for the perimeter band
	Perimeter int `json:"perimeter"`

	// Corner is the count for the corner regions
	Corner int `json:"corner"`
}

// Total returns the sum across zones
func (z ZoneSplit) Total() int {
	return z.Field + z.Perimeter + z.Corner
}

// SplitZones divides a fastener count across the roof zones. Perimeter
// and corner take their rounded shares and the field absorbs the
// remainder, so the three zones always sum exactly to total.
func SplitZones(total int) ZoneSplit {
	if total <= 0 {
		return ZoneSplit{}
	}
	perimeter := int(math.Round(float64(total) * PerimeterRatio))
	corner := int(math.Round(float64(total) * CornerRatio))
	return ZoneSplit{
		Field:     total - perimeter - corner,
		Perimeter: perimeter,
		Corner:    corner,
	}
}
