// Package assembly - insulation aggregation
package assembly

import (
	"github.com/7mit3/BidFix-sub000/core/catalog"
)

// fallbackRPerInch approximates polyiso thermal resistance when a layer
// thickness has no catalog board
const fallbackRPerInch = 5.6

// Summary is the aggregate of the enabled insulation layers
type Summary struct {
	// Thickness is the total stack thickness in inches
	Thickness float64 `json:"thickness"`

	// RValue is the total thermal resistance of the stack
	RValue float64 `json:"r_value"`

	// Layers is the number of layers contributing to the totals
	Layers int `json:"layers"`
}

// Aggregate computes the insulation summary for a configuration.
// When the master switch is off the summary is zero regardless of the
// layer values; the layers themselves are never modified, so re-enabling
// restores the previous stack.
func Aggregate(cfg Config, cat *catalog.Catalog, system catalog.System) Summary {
	if !cfg.InsulationEnabled {
		return Summary{}
	}

	var s Summary
	for _, layer := range cfg.Normalize().Layers {
		if !layer.Enabled || layer.Thickness <= 0 {
			continue
		}
		s.Thickness += layer.Thickness
		s.RValue += layerRValue(cat, system, layer.Thickness)
		s.Layers++
	}
	return s
}

// layerRValue reads the board R-value from the catalog, estimating from
// thickness when no board of that thickness is stocked
func layerRValue(cat *catalog.Catalog, system catalog.System, thickness float64) float64 {
	if p, ok := cat.InsulationByThickness(system, thickness); ok {
		return p.RValue
	}
	return thickness * fallbackRPerInch
}
