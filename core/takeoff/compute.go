// Package takeoff - quantity computation
package takeoff

import (
	"math"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/fastening"
)

// Line is one product to order
type Line struct {
	// ProductID is the catalog product
	ProductID string `json:"product_id"`

	// Measurement is the quantity being covered, in the product's
	// coverage terms (square feet, linear feet, or pieces)
	Measurement float64 `json:"measurement"`

	// Units is the whole purchase units to order
	Units int `json:"units"`
}

// singlePly names the supporting products each single-ply system draws
// from its catalog
type singlePly struct {
	bondingAdhesive string
	primer          string
	insulationPlate string
	seamPlate       string
	flashing        string
	termBar         string
	sealant         string
}

var singlePlyProfiles = map[catalog.System]singlePly{
	catalog.TPO: {
		bondingAdhesive: "adh-bond",
		primer:          "adh-primer",
		insulationPlate: "plate-ins-3",
		seamPlate:       "plate-seam-2",
		flashing:        "flash-tpo-60",
		termBar:         "acc-termbar",
		sealant:         "acc-sealant",
	},
	catalog.PVC: {
		bondingAdhesive: "adh-bond",
		primer:          "adh-primer",
		insulationPlate: "plate-ins-3",
		seamPlate:       "plate-seam-2",
		flashing:        "flash-pvc-60",
		termBar:         "acc-termbar",
		sealant:         "acc-sealant",
	},
}

// Metal restoration rates per square foot of panel area
const (
	metalSeamLFPerSqFt    = 0.5
	metalHeadsPerSqFt     = 0.5
	metalReplacementShare = 0.05
)

// Compute produces the order lines for a measured roof. A roof with no
// field area produces nothing; selections that name unknown products
// are skipped rather than listed at zero.
func Compute(cat *catalog.Catalog, system catalog.System, cfg assembly.Config, sum assembly.Summary, fast fastening.Resolution, m Measurements) []Line {
	m = m.Sanitize()
	if m.RoofArea <= 0 {
		return nil
	}

	b := newBuilder(cat, system)

	switch system {
	case catalog.Metal:
		metalLines(b, m)
	default:
		singlePlyLines(b, cfg, sum, fast, m)
	}

	return b.lines
}

// singlePlyLines implies products for the membrane systems
func singlePlyLines(b *builder, cfg assembly.Config, sum assembly.Summary, fast fastening.Resolution, m Measurements) {
	profile := singlePlyProfiles[b.system]
	flashingArea := m.FlashingArea()

	if cfg.VaporBarrier != "" {
		b.add(cfg.VaporBarrier, m.RoofArea)
	}

	if cfg.InsulationEnabled {
		for _, layer := range cfg.Normalize().Layers {
			if !layer.Enabled || layer.Thickness <= 0 {
				continue
			}
			if p, ok := b.cat.InsulationByThickness(b.system, layer.Thickness); ok {
				b.add(p.ID, m.RoofArea)
			}
		}
	}

	if cfg.CoverBoard != "" {
		b.add(cfg.CoverBoard, m.RoofArea)
	}

	b.addMembrane(cfg.MembraneMil, m.RoofArea)

	if cfg.Attachment == assembly.FullyAdhered {
		b.add(profile.bondingAdhesive, m.RoofArea)
	}
	if flashingArea > 0 {
		b.add(profile.primer, flashingArea)
	}

	if fast.Insulation != nil && fast.Insulation.Count > 0 {
		b.add(fast.Insulation.ProductID, float64(fast.Insulation.Count))
		b.add(profile.insulationPlate, float64(fast.Insulation.Count))
	}
	if fast.Membrane != nil && fast.Membrane.Count > 0 {
		b.add(fast.Membrane.ProductID, float64(fast.Membrane.Count))
		b.add(profile.seamPlate, float64(fast.Membrane.Count))
	}

	if flashingArea > 0 {
		b.add(profile.flashing, flashingArea)
	}

	if m.WallLF > 0 {
		b.add(profile.termBar, m.WallLF)
		b.add(profile.sealant, m.WallLF)
	}
}

// metalLines implies products for coated metal restoration
func metalLines(b *builder, m Measurements) {
	b.add("coat-primer", m.RoofArea)
	b.add("coat-base", m.RoofArea)
	b.add("coat-top", m.RoofArea)

	seamLF := m.RoofArea * metalSeamLFPerSqFt
	heads := m.RoofArea * metalHeadsPerSqFt
	b.add("seal-seam", seamLF)
	b.add("seal-fastener", heads)
	b.add("fas-metal-15", math.Ceil(heads*metalReplacementShare))

	if m.BaseFlashingLF > 0 {
		b.add("acc-seam-tape", m.BaseFlashingLF)
	}
}

// builder accumulates lines, merging repeated products and dropping
// anything the catalog does not stock
type builder struct {
	cat    *catalog.Catalog
	system catalog.System
	lines  []Line
	index  map[string]int
}

func newBuilder(cat *catalog.Catalog, system catalog.System) *builder {
	return &builder{
		cat:    cat,
		system: system,
		index:  make(map[string]int),
	}
}

func (b *builder) add(productID string, measurement float64) {
	if productID == "" || measurement <= 0 {
		return
	}
	p, ok := b.cat.Get(b.system, productID)
	if !ok {
		return
	}

	if i, seen := b.index[productID]; seen {
		b.lines[i].Measurement += measurement
		b.lines[i].Units = UnitsToOrder(b.lines[i].Measurement, p.Coverage)
		return
	}

	b.index[productID] = len(b.lines)
	b.lines = append(b.lines, Line{
		ProductID:   productID,
		Measurement: measurement,
		Units:       UnitsToOrder(measurement, p.Coverage),
	})
}

func (b *builder) addMembrane(mil int, area float64) {
	if p, ok := b.cat.MembraneByMil(b.system, mil); ok {
		b.add(p.ID, area)
	}
}

// UnitsToOrder converts a covered measurement to whole purchase units,
// always rounding up so the order covers the measurement
func UnitsToOrder(measurement, coverage float64) int {
	if measurement <= 0 || coverage <= 0 {
		return 0
	}
	return int(math.Ceil(measurement / coverage))
}
