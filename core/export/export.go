// Package export renders a compiled bid to CSV and Excel. Both
// formats share one row projection so the two exports always agree,
// and output is deterministic for a given bid.
package export

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/breakdown"
)

// Header is the column layout shared by every export format
var Header = []string{
	"Category", "Item", "Description", "Unit",
	"Quantity", "Unit Price", "Total", "Included",
}

// Document is one bid ready to export
type Document struct {
	// Title is the job name
	Title string

	// System is the roofing system's display label
	System string

	// Date is the preformatted export date. The caller supplies it so
	// output stays reproducible
	Date string

	// Breakdown is the compiled bid
	Breakdown *breakdown.Breakdown
}

type rowKind int

const (
	rowItem rowKind = iota
	rowSummary
	rowGrand
)

// tableRow is one rendered output row. The quantity is carried both
// formatted and raw so the Excel writer can emit a real number cell
type tableRow struct {
	kind   rowKind
	cells  []string
	qty    float64
	hasQty bool
}

// Rows projects the bid into the shared column layout: every section's
// rows, each section's subtotal, tax, profit, and total, then the
// grand total
func Rows(doc Document) [][]string {
	rows := tableRows(doc.Breakdown)
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.cells)
	}
	return out
}

func tableRows(b *breakdown.Breakdown) []tableRow {
	var rows []tableRow
	if b == nil {
		return rows
	}
	for i := range b.Sections {
		s := &b.Sections[i]
		label := s.Kind.Label()
		for _, r := range s.Rows {
			rows = append(rows, tableRow{
				kind: rowItem,
				cells: []string{
					label,
					sanitizeCell(r.Label),
					sanitizeCell(r.Detail),
					r.Unit,
					formatQuantity(r.Quantity),
					formatMoney(r.UnitPrice),
					formatMoney(r.Total()),
					formatIncluded(r.Included),
				},
				qty:    r.Quantity,
				hasQty: true,
			})
		}
		rows = append(rows, summaryRow(label, "Subtotal", s.Base()))
		if s.Modifiers.TaxEnabled {
			rows = append(rows, summaryRow(label,
				fmt.Sprintf("Tax (%s%%)", formatQuantity(s.Modifiers.TaxPercent)), s.Tax()))
		}
		if s.Modifiers.ProfitEnabled {
			rows = append(rows, summaryRow(label,
				fmt.Sprintf("Profit (%s%%)", formatQuantity(s.Modifiers.ProfitPercent)), s.Profit()))
		}
		rows = append(rows, summaryRow(label, "Section Total", s.Total()))
	}
	grand := summaryRow("", "Grand Total", b.GrandTotal())
	grand.kind = rowGrand
	rows = append(rows, grand)
	return rows
}

func summaryRow(category, item string, amount decimal.Decimal) tableRow {
	return tableRow{
		kind:  rowSummary,
		cells: []string{category, item, "", "", "", "", formatMoney(amount), ""},
	}
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatIncluded(included bool) string {
	if included {
		return "yes"
	}
	return "no"
}

// sanitizeCell prevents spreadsheet formula injection by prefixing
// dangerous leading characters with a single quote. Cells starting
// with =, +, -, @, tab or carriage return are interpreted as formulas
// by most spreadsheet applications
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
