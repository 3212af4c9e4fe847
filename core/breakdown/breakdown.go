// Package breakdown arranges a compiled estimate into the four
// customer-facing sections of a bid: materials, penetrations, labor,
// and equipment. Rows can be switched off without losing their values,
// and each section applies its own tax and profit before the grand
// total sums the sections.
package breakdown

import (
	"math"

	"github.com/shopspring/decimal"
)

// Kind identifies one section of the bid
type Kind int

// Section order as presented on the bid
const (
	SectionMaterials Kind = iota
	SectionPenetrations
	SectionLabor
	SectionEquipment

	sectionCount
)

// String returns the section's stable identifier
func (k Kind) String() string {
	switch k {
	case SectionMaterials:
		return "materials"
	case SectionPenetrations:
		return "penetrations"
	case SectionLabor:
		return "labor"
	case SectionEquipment:
		return "equipment"
	default:
		return "unknown"
	}
}

// Label returns the section's display heading
func (k Kind) Label() string {
	switch k {
	case SectionMaterials:
		return "Materials"
	case SectionPenetrations:
		return "Penetrations & Sheet Metal"
	case SectionLabor:
		return "Labor"
	case SectionEquipment:
		return "Equipment"
	default:
		return "Unknown"
	}
}

// Kinds returns the sections in presentation order
func Kinds() []Kind {
	return []Kind{SectionMaterials, SectionPenetrations, SectionLabor, SectionEquipment}
}

// KindFromString returns the section kind for its stable identifier
func KindFromString(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Row is one priced line within a section. A row switched off keeps
// its quantity and price but contributes nothing to the section
type Row struct {
	// ID identifies the row within its section for toggling
	ID string `json:"id"`

	// Label is the display name
	Label string `json:"label"`

	// Detail is an optional secondary description
	Detail string `json:"detail,omitempty"`

	// Unit is the unit the quantity is expressed in
	Unit string `json:"unit"`

	// Quantity is the measured or counted amount
	Quantity float64 `json:"quantity"`

	// UnitPrice is the price per unit
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Included selects whether the row contributes to the section
	Included bool `json:"included"`
}

// Total returns quantity times unit price regardless of the toggle
func (r Row) Total() decimal.Decimal {
	q := r.Quantity
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return decimal.Zero
	}
	return r.UnitPrice.Mul(decimal.NewFromFloat(q))
}

// Contribution returns the amount the row adds to its section: the
// row total, or zero when the row is switched off
func (r Row) Contribution() decimal.Decimal {
	if !r.Included {
		return decimal.Zero
	}
	return r.Total()
}

// Modifiers holds a section's tax and profit settings. Each is applied
// to the section base independently of the other
type Modifiers struct {
	// TaxPercent is the sales tax rate, e.g. 7.25
	TaxPercent float64 `json:"tax_percent"`

	// TaxEnabled selects whether tax is added to the section
	TaxEnabled bool `json:"tax_enabled"`

	// ProfitPercent is the markup rate, e.g. 15
	ProfitPercent float64 `json:"profit_percent"`

	// ProfitEnabled selects whether profit is added to the section
	ProfitEnabled bool `json:"profit_enabled"`
}

// DefaultModifiers returns the settings a section starts with: the
// bid's tax and profit rates, profit on, and tax on everywhere except
// labor
func DefaultModifiers(kind Kind, taxPercent, profitPercent float64) Modifiers {
	return Modifiers{
		TaxPercent:    taxPercent,
		TaxEnabled:    kind != SectionLabor,
		ProfitPercent: profitPercent,
		ProfitEnabled: true,
	}
}

// Section is one group of rows with its own modifiers
type Section struct {
	// Kind identifies the section
	Kind Kind `json:"kind"`

	// Rows are the section's lines in presentation order
	Rows []Row `json:"rows"`

	// Modifiers are the section's tax and profit settings
	Modifiers Modifiers `json:"modifiers"`
}

// Base returns the sum of the included rows before tax and profit
func (s *Section) Base() decimal.Decimal {
	base := decimal.Zero
	for _, r := range s.Rows {
		base = base.Add(r.Contribution())
	}
	return base
}

// Tax returns the tax amount on the section base, zero when disabled
func (s *Section) Tax() decimal.Decimal {
	if !s.Modifiers.TaxEnabled {
		return decimal.Zero
	}
	return applyPercent(s.Base(), s.Modifiers.TaxPercent)
}

// Profit returns the markup on the section base, zero when disabled.
// Profit is figured on the base alone, not on top of tax
func (s *Section) Profit() decimal.Decimal {
	if !s.Modifiers.ProfitEnabled {
		return decimal.Zero
	}
	return applyPercent(s.Base(), s.Modifiers.ProfitPercent)
}

// Total returns base plus tax plus profit
func (s *Section) Total() decimal.Decimal {
	return s.Base().Add(s.Tax()).Add(s.Profit())
}

// SetIncluded toggles one row by id and reports whether it was found
func (s *Section) SetIncluded(rowID string, included bool) bool {
	for i := range s.Rows {
		if s.Rows[i].ID == rowID {
			s.Rows[i].Included = included
			return true
		}
	}
	return false
}

// Breakdown is the sectioned bid
type Breakdown struct {
	// Sections holds all four sections in presentation order
	Sections []Section `json:"sections"`
}

// Section returns the section of the given kind
func (b *Breakdown) Section(kind Kind) *Section {
	for i := range b.Sections {
		if b.Sections[i].Kind == kind {
			return &b.Sections[i]
		}
	}
	return nil
}

// GrandTotal returns the sum of the section totals
func (b *Breakdown) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Sections {
		total = total.Add(b.Sections[i].Total())
	}
	return total
}

// applyPercent returns amount scaled by pct percent. Malformed or
// negative rates count as zero
func applyPercent(amount decimal.Decimal, pct float64) decimal.Decimal {
	if pct <= 0 || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
}
