package breakdown

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/estimate"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
)

// Crew and rental rates used for the default labor and equipment rows.
// Every row stays editable and toggleable on the finished bid
var (
	rateTearOff   = decimal.NewFromFloat(0.85) // per sq ft
	rateMembrane  = decimal.NewFromFloat(0.65) // per sq ft
	rateBoard     = decimal.NewFromFloat(4.50) // per board
	rateDetail    = decimal.NewFromFloat(2.25) // per ln ft
	rateCrewHour  = decimal.NewFromInt(85)     // per hour
	ratePrep      = decimal.NewFromFloat(0.35) // per sq ft
	rateCoating   = decimal.NewFromFloat(0.55) // per sq ft
	rateCrane     = decimal.NewFromInt(1850)   // per day
	rateDumpster  = decimal.NewFromInt(625)    // per pull
	rateWelder    = decimal.NewFromInt(340)    // per week
	rateSprayRig  = decimal.NewFromInt(520)    // per week
	rateLift      = decimal.NewFromInt(465)    // per week
)

// Sizing divisors for equipment durations
const (
	craneSqFtPerDay     = 15000.0
	dumpsterSqFtPerPull = 7500.0
	rentalSqFtPerWeek   = 25000.0
)

// Inputs carries everything the compositor folds into the bid
type Inputs struct {
	// System is the roofing system being bid
	System catalog.System

	// Materials is the compiled material estimate
	Materials *estimate.Estimate

	// Penetrations is the compiled estimate for penetration materials
	Penetrations *estimate.Estimate

	// Flashing lists the shop-fabricated sheet metal runs
	Flashing []penetration.FlashingSpec

	// LaborMinutes is the penetration crew time
	LaborMinutes float64

	// Measurements are the job field measurements
	Measurements takeoff.Measurements
}

// Params carries bid settings and any per-row or per-section state to
// restore onto the rebuilt breakdown
type Params struct {
	// TaxPercent seeds each section's tax rate
	TaxPercent float64

	// ProfitPercent seeds each section's profit rate
	ProfitPercent float64

	// Modifiers overrides a section's settings when present
	Modifiers map[Kind]Modifiers

	// Excluded marks rows switched off, by section and row id
	Excluded map[Kind]map[string]bool
}

// Compose arranges the compiled pipeline outputs into the sectioned
// bid. Rebuilding after an assembly or pricing change keeps the row
// toggles and section settings carried in params
func Compose(in Inputs, params Params) *Breakdown {
	m := in.Measurements.Sanitize()
	b := &Breakdown{
		Sections: []Section{
			{Kind: SectionMaterials, Rows: materialRows(in.Materials)},
			{Kind: SectionPenetrations, Rows: penetrationRows(in.Penetrations, in.Flashing)},
			{Kind: SectionLabor, Rows: laborRows(in.System, in.Materials, m, in.LaborMinutes)},
			{Kind: SectionEquipment, Rows: equipmentRows(in.System, m)},
		},
	}
	for i := range b.Sections {
		s := &b.Sections[i]
		s.Modifiers = sectionModifiers(s.Kind, params)
		for j := range s.Rows {
			if params.Excluded[s.Kind][s.Rows[j].ID] {
				s.Rows[j].Included = false
			}
		}
	}
	return b
}

// sectionModifiers returns the stored settings for a section, or the
// defaults seeded from the bid rates
func sectionModifiers(kind Kind, params Params) Modifiers {
	if m, ok := params.Modifiers[kind]; ok {
		return m
	}
	return DefaultModifiers(kind, params.TaxPercent, params.ProfitPercent)
}

func materialRows(est *estimate.Estimate) []Row {
	if est == nil {
		return nil
	}
	rows := make([]Row, 0, len(est.Items))
	for _, item := range est.Items {
		rows = append(rows, Row{
			ID:        item.ProductID,
			Label:     item.Name,
			Detail:    item.Category.Label(),
			Unit:      item.Unit,
			Quantity:  float64(item.Quantity),
			UnitPrice: item.UnitPrice,
			Included:  true,
		})
	}
	return rows
}

func penetrationRows(est *estimate.Estimate, flashing []penetration.FlashingSpec) []Row {
	var rows []Row
	if est != nil {
		for _, item := range est.Items {
			rows = append(rows, Row{
				ID:        item.ProductID,
				Label:     item.Name,
				Detail:    item.Category.Label(),
				Unit:      item.Unit,
				Quantity:  float64(item.Quantity),
				UnitPrice: item.UnitPrice,
				Included:  true,
			})
		}
	}
	index := make(map[string]int)
	for _, spec := range flashing {
		lf := spec.LF
		if lf <= 0 || math.IsNaN(lf) || math.IsInf(lf, 0) {
			continue
		}
		id := fmt.Sprintf("metal-%s-%s-%dga", spec.Profile, spec.Metal, spec.Gauge)
		if i, seen := index[id]; seen {
			rows[i].Quantity += lf
			continue
		}
		index[id] = len(rows)
		rows = append(rows, Row{
			ID:        id,
			Label:     fmt.Sprintf("Sheet Metal: %s", spec.Profile),
			Detail:    fmt.Sprintf("%s, %d gauge", spec.Metal, spec.Gauge),
			Unit:      "ln ft",
			Quantity:  lf,
			UnitPrice: spec.UnitPrice(),
			Included:  true,
		})
	}
	return rows
}

// laborRows builds the default crew rows for the system. Single-ply
// jobs get tear-off, membrane, board, and detail rows; restoration
// jobs get prep and coating. Rows with nothing to do are omitted
func laborRows(system catalog.System, materials *estimate.Estimate, m takeoff.Measurements, penMinutes float64) []Row {
	var rows []Row
	add := func(id, label, unit string, qty float64, rate decimal.Decimal) {
		if qty <= 0 {
			return
		}
		rows = append(rows, Row{
			ID: id, Label: label, Unit: unit,
			Quantity: qty, UnitPrice: rate, Included: true,
		})
	}
	if system == catalog.Metal {
		add("labor-prep", "Surface Preparation", "sq ft", m.RoofArea, ratePrep)
		add("labor-coating", "Coating Application", "sq ft", m.RoofArea, rateCoating)
	} else {
		add("labor-tearoff", "Tear-Off & Disposal", "sq ft", m.RoofArea, rateTearOff)
		add("labor-membrane", "Membrane Installation", "sq ft", m.RoofArea, rateMembrane)
		add("labor-insulation", "Insulation Installation", "board", insulationBoards(materials), rateBoard)
		add("labor-detail", "Perimeter Detail Work", "ln ft", m.BaseFlashingLF+m.WallLF, rateDetail)
	}
	add("labor-penetration", "Penetration Work", "hour", penMinutes/60, rateCrewHour)
	return rows
}

// insulationBoards counts the purchased insulation and cover board
// units on the material estimate
func insulationBoards(est *estimate.Estimate) float64 {
	if est == nil {
		return 0
	}
	boards := 0
	for _, item := range est.Items {
		if item.Category == catalog.Insulation || item.Category == catalog.CoverBoard {
			boards += item.Quantity
		}
	}
	return float64(boards)
}

func equipmentRows(system catalog.System, m takeoff.Measurements) []Row {
	if m.RoofArea <= 0 {
		return nil
	}
	weeks := spanUnits(m.RoofArea, rentalSqFtPerWeek)
	var rows []Row
	if system == catalog.Metal {
		rows = append(rows,
			Row{ID: "equip-sprayrig", Label: "Spray Rig", Unit: "week", Quantity: weeks, UnitPrice: rateSprayRig, Included: true},
			Row{ID: "equip-lift", Label: "Scissor Lift", Unit: "week", Quantity: weeks, UnitPrice: rateLift, Included: true},
		)
		return rows
	}
	rows = append(rows,
		Row{ID: "equip-crane", Label: "Crane Service", Unit: "day", Quantity: spanUnits(m.RoofArea, craneSqFtPerDay), UnitPrice: rateCrane, Included: true},
		Row{ID: "equip-dumpster", Label: "Dumpster Pulls", Unit: "pull", Quantity: spanUnits(m.RoofArea, dumpsterSqFtPerPull), UnitPrice: rateDumpster, Included: true},
		Row{ID: "equip-welder", Label: "Hot Air Welder", Unit: "week", Quantity: weeks, UnitPrice: rateWelder, Included: true},
		Row{ID: "equip-lift", Label: "Scissor Lift", Unit: "week", Quantity: weeks, UnitPrice: rateLift, Included: true},
	)
	return rows
}

// spanUnits sizes a rental duration from roof area, never below one
func spanUnits(area, per float64) float64 {
	n := math.Ceil(area / per)
	if n < 1 {
		n = 1
	}
	return n
}
