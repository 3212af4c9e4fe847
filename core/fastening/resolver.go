// Package fastening resolves the screws that secure an assembly: how
// long they must be to reach the deck, which catalog length to buy, how
// many are needed, and how the count divides across roof zones.
package fastening

import (
	"math"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/catalog"
)

// deckAllowance is the required penetration into each deck type, in
// inches past the underside of the assembly
var deckAllowance = map[assembly.DeckType]float64{
	assembly.DeckSteel:       0.75,
	assembly.DeckWood:        1.00,
	assembly.DeckConcrete:    1.25,
	assembly.DeckLightweight: 1.50,
	assembly.DeckGypsum:      1.50,
}

// DeckAllowance returns the penetration allowance for a deck. Unknown
// decks get the largest allowance so a screw is never sized short.
func DeckAllowance(deck assembly.DeckType) float64 {
	if a, ok := deckAllowance[deck]; ok {
		return a
	}
	return 1.50
}

// Securement rates. Board securement is screws per board by attachment
// method; seam securement is one screw per foot of seam with rows at
// the effective sheet width.
const (
	boardSqFt = 32.0

	boardScrewsAdhered  = 8
	boardScrewsMechanic = 5

	seamRowSpacingFt = 9.5
)

// screwSeries names the catalog fastener series used by each system
var screwSeries = map[catalog.System]string{
	catalog.TPO: "hd",
	catalog.PVC: "hd",
}

// Selection is one resolved screw purchase
type Selection struct {
	// ProductID is the catalog screw that satisfies the requirement
	ProductID string `json:"product_id"`

	// Length is the resolved screw length in inches
	Length float64 `json:"length"`

	// Required is the computed minimum length in inches
	Required float64 `json:"required"`

	// Auto records whether the length came from resolution rather than
	// an explicit selection
	Auto bool `json:"auto"`

	// Short flags a catalog with no length reaching the requirement;
	// the longest available was chosen
	Short bool `json:"short,omitempty"`

	// Count is the number of screws needed
	Count int `json:"count"`

	// Zones divides Count across roof zones
	Zones ZoneSplit `json:"zones"`
}

// Resolution is the fastening plan for an assembly
type Resolution struct {
	// Insulation secures the insulation boards, nil when the assembly
	// has nothing to fasten or the system stocks no screws
	Insulation *Selection `json:"insulation,omitempty"`

	// Membrane secures the membrane seams, nil for adhered membranes
	Membrane *Selection `json:"membrane,omitempty"`
}

// Resolve produces the fastening plan for an assembly over a roof area.
// Lengths marked auto resolve to the shortest catalog screw that covers
// the stack thickness plus the deck allowance; explicit lengths snap to
// the nearest stocked length at or above the selection.
func Resolve(cat *catalog.Catalog, system catalog.System, cfg assembly.Config, sum assembly.Summary, roofArea float64) Resolution {
	series, ok := screwSeries[system]
	if !ok {
		return Resolution{}
	}
	lengths := cat.FastenerLengths(system, series)
	if len(lengths) == 0 {
		return Resolution{}
	}

	if math.IsNaN(roofArea) || math.IsInf(roofArea, 0) || roofArea < 0 {
		roofArea = 0
	}

	allowance := DeckAllowance(cfg.Deck)
	coverBoard := coverBoardThickness(cat, system, cfg)

	var res Resolution

	if sum.Thickness > 0 || coverBoard > 0 {
		required := sum.Thickness + allowance
		sel := resolveLength(cat, system, series, lengths, cfg.InsulationFastener, required)
		sel.Count = boardScrewCount(cfg.Attachment, roofArea)
		sel.Zones = SplitZones(sel.Count)
		res.Insulation = &sel
	}

	if cfg.Attachment == assembly.MechanicallyAttached && membraneStocked(cat, system, cfg.MembraneMil) {
		required := sum.Thickness + coverBoard + allowance
		sel := resolveLength(cat, system, series, lengths, cfg.MembraneFastener, required)
		sel.Count = seamScrewCount(roofArea)
		sel.Zones = SplitZones(sel.Count)
		res.Membrane = &sel
	}

	return res
}

// resolveLength picks a stocked screw length for a selection
func resolveLength(cat *catalog.Catalog, system catalog.System, series string, lengths []float64, want assembly.FastenerLength, required float64) Selection {
	sel := Selection{
		Required: required,
		Auto:     want.IsAuto(),
	}

	min := required
	if !want.IsAuto() {
		min = want.Inches()
	}

	chosen, short := atLeast(lengths, min)
	sel.Length = chosen
	sel.Short = short

	if p, ok := cat.FastenerByLength(system, series, chosen); ok {
		sel.ProductID = p.ID
	}
	return sel
}

// atLeast returns the smallest length >= min, falling back to the
// longest available when none qualifies
func atLeast(sorted []float64, min float64) (length float64, short bool) {
	for _, l := range sorted {
		if l >= min {
			return l, false
		}
	}
	return sorted[len(sorted)-1], true
}

func boardScrewCount(att assembly.Attachment, roofArea float64) int {
	perBoard := boardScrewsMechanic
	if att == assembly.FullyAdhered {
		perBoard = boardScrewsAdhered
	}
	boards := math.Ceil(roofArea / boardSqFt)
	return int(boards) * perBoard
}

func seamScrewCount(roofArea float64) int {
	return int(math.Ceil(roofArea / seamRowSpacingFt))
}

func coverBoardThickness(cat *catalog.Catalog, system catalog.System, cfg assembly.Config) float64 {
	if cfg.CoverBoard == "" {
		return 0
	}
	if p, ok := cat.Get(system, cfg.CoverBoard); ok && p.Category == catalog.CoverBoard {
		return p.Thickness
	}
	return 0
}

func membraneStocked(cat *catalog.Catalog, system catalog.System, mil int) bool {
	_, ok := cat.MembraneByMil(system, mil)
	return ok
}
