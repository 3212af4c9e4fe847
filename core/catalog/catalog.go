// Package catalog - Authoritative roofing product catalog
// Defines the canonical product list per roofing system with default pricing.
// This is the source of truth for what an estimate can order.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Category classifies products by their role in the roof assembly.
// The declaration order below is the grouping order for compiled estimates.
type Category int

const (
	// VaporBarrier - deck-level vapor and air barriers
	VaporBarrier Category = iota
	// Insulation - rigid board insulation layers
	Insulation
	// CoverBoard - high-density boards directly under the membrane
	CoverBoard
	// Membrane - field membrane sheets
	Membrane
	// Adhesive - bonding adhesives and primers
	Adhesive
	// Fastener - screws for insulation and membrane securement
	Fastener
	// Plate - stress plates paired with fasteners
	Plate
	// Flashing - membrane flashing for walls and details
	Flashing
	// Accessory - terminations, sealants, walk pads
	Accessory
	// Coating - restoration base and top coats
	Coating
	// Sealant - seam and fastener sealers for restoration work
	Sealant

	categoryCount
)

// String returns string representation
func (c Category) String() string {
	switch c {
	case VaporBarrier:
		return "vapor_barrier"
	case Insulation:
		return "insulation"
	case CoverBoard:
		return "cover_board"
	case Membrane:
		return "membrane"
	case Adhesive:
		return "adhesive"
	case Fastener:
		return "fastener"
	case Plate:
		return "plate"
	case Flashing:
		return "flashing"
	case Accessory:
		return "accessory"
	case Coating:
		return "coating"
	case Sealant:
		return "sealant"
	default:
		return "unknown"
	}
}

// Label returns the display heading for estimate output
func (c Category) Label() string {
	switch c {
	case VaporBarrier:
		return "Vapor Barrier"
	case Insulation:
		return "Insulation"
	case CoverBoard:
		return "Cover Board"
	case Membrane:
		return "Membrane"
	case Adhesive:
		return "Adhesives & Primers"
	case Fastener:
		return "Fasteners"
	case Plate:
		return "Plates"
	case Flashing:
		return "Flashing"
	case Accessory:
		return "Accessories"
	case Coating:
		return "Coatings"
	case Sealant:
		return "Sealants"
	default:
		return "Other"
	}
}

// Categories returns all categories in declared grouping order
func Categories() []Category {
	out := make([]Category, 0, int(categoryCount))
	for c := Category(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// System identifies a roofing system
type System string

const (
	TPO   System = "tpo"
	PVC   System = "pvc"
	Metal System = "metal"
)

// Label returns the display name of the system
func (s System) Label() string {
	switch s {
	case TPO:
		return "TPO Single-Ply"
	case PVC:
		return "PVC Single-Ply"
	case Metal:
		return "Metal Restoration"
	default:
		return string(s)
	}
}

// Systems returns the supported systems in declared order
func Systems() []System {
	return []System{TPO, PVC, Metal}
}

// ValidSystem reports whether s names a supported system
func ValidSystem(s System) bool {
	switch s {
	case TPO, PVC, Metal:
		return true
	}
	return false
}

// Product is a catalog entry for an orderable product
type Product struct {
	// ID identifies the product within its system
	ID string

	// System is the roofing system the product belongs to
	System System

	// Category is the assembly role, used for estimate grouping
	Category Category

	// Name is the display name
	Name string

	// Unit is the purchase unit (roll, board, pail, box, each)
	Unit string

	// Coverage is the measurement covered by one purchase unit
	// (square feet, linear feet, or piece count depending on category)
	Coverage float64

	// Price is the default unit price before any override
	Price decimal.Decimal

	// Thickness is the board thickness in inches (insulation, cover board)
	Thickness float64

	// RValue is the thermal resistance of one board (insulation)
	RValue float64

	// Mil is the sheet thickness in mils (membrane)
	Mil int

	// Length is the screw length in inches (fasteners)
	Length float64

	// Series groups fastener lengths that substitute for one another
	Series string
}

// Catalog is the authoritative product catalog
type Catalog struct {
	entries map[string]*Product
	order   []string
	dupes   []string
}

// NewCatalog creates a new catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*Product),
	}
}

func key(system System, id string) string {
	return string(system) + ":" + id
}

// Register adds a product to the catalog
func (c *Catalog) Register(p Product) {
	k := key(p.System, p.ID)
	if _, exists := c.entries[k]; exists {
		c.dupes = append(c.dupes, k)
		return
	}
	c.entries[k] = &p
	c.order = append(c.order, k)
}

// Get returns a product by system and id
func (c *Catalog) Get(system System, id string) (*Product, bool) {
	p, ok := c.entries[key(system, id)]
	return p, ok
}

// Products returns all products of a system in registration order
func (c *Catalog) Products(system System) []*Product {
	var out []*Product
	for _, k := range c.order {
		if p := c.entries[k]; p.System == system {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory returns a system's products of one category in registration order
func (c *Catalog) ByCategory(system System, cat Category) []*Product {
	var out []*Product
	for _, k := range c.order {
		if p := c.entries[k]; p.System == system && p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// Seq returns the registration rank of a product, used for stable
// ordering inside a category. Unknown products sort last.
func (c *Catalog) Seq(system System, id string) int {
	k := key(system, id)
	for i, o := range c.order {
		if o == k {
			return i
		}
	}
	return len(c.order)
}

// InsulationByThickness returns the insulation board of the given thickness
func (c *Catalog) InsulationByThickness(system System, inches float64) (*Product, bool) {
	for _, p := range c.ByCategory(system, Insulation) {
		if p.Thickness == inches {
			return p, true
		}
	}
	return nil, false
}

// MembraneByMil returns the field membrane of the given mil thickness
func (c *Catalog) MembraneByMil(system System, mil int) (*Product, bool) {
	for _, p := range c.ByCategory(system, Membrane) {
		if p.Mil == mil {
			return p, true
		}
	}
	return nil, false
}

// FastenerLengths returns the available screw lengths of a series,
// sorted ascending
func (c *Catalog) FastenerLengths(system System, series string) []float64 {
	var lengths []float64
	for _, p := range c.ByCategory(system, Fastener) {
		if p.Series == series {
			lengths = append(lengths, p.Length)
		}
	}
	sort.Float64s(lengths)
	return lengths
}

// FastenerByLength returns the screw of a series with the exact length
func (c *Catalog) FastenerByLength(system System, series string, length float64) (*Product, bool) {
	for _, p := range c.ByCategory(system, Fastener) {
		if p.Series == series && p.Length == length {
			return p, true
		}
	}
	return nil, false
}

// Stats returns catalog statistics
func (c *Catalog) Stats() CatalogStats {
	stats := CatalogStats{
		BySystem: make(map[System]SystemStats),
	}

	for _, k := range c.order {
		p := c.entries[k]
		stats.Total++

		sys := stats.BySystem[p.System]
		sys.Total++
		if sys.ByCategory == nil {
			sys.ByCategory = make(map[Category]int)
		}
		sys.ByCategory[p.Category]++
		stats.BySystem[p.System] = sys
	}

	return stats
}

// CatalogStats holds catalog statistics
type CatalogStats struct {
	Total    int
	BySystem map[System]SystemStats
}

// SystemStats holds per-system statistics
type SystemStats struct {
	Total      int
	ByCategory map[Category]int
}
