// Package breakdown - bid comparison
package breakdown

import (
	"github.com/shopspring/decimal"
)

// ChangeType classifies one row-level difference between two bids
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// RowChange is one row that differs between two bids. Amounts are the
// row contributions, so switching a row off shows up as a change.
type RowChange struct {
	// Type is how the row differs
	Type ChangeType `json:"type"`

	// Section is the section's stable identifier
	Section string `json:"section"`

	// RowID identifies the row
	RowID string `json:"row_id"`

	// Label is the row's display name, from the side that has it
	Label string `json:"label"`

	// Before and After are the row contributions on each side
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`

	// Delta is After minus Before
	Delta decimal.Decimal `json:"delta"`
}

// SectionDelta compares one section's total across two bids
type SectionDelta struct {
	// Section is the section's stable identifier
	Section string `json:"section"`

	// Before and After are the section totals on each side
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`

	// Delta is After minus Before
	Delta decimal.Decimal `json:"delta"`
}

// Diff is the difference between two compiled bids
type Diff struct {
	// Before and After are the grand totals on each side
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`

	// Delta is After minus Before
	Delta decimal.Decimal `json:"delta"`

	// Sections compares section totals in presentation order
	Sections []SectionDelta `json:"sections"`

	// Changes lists every row that differs: changed and removed rows in
	// the base's order, then rows only the head has, in the head's order
	Changes []RowChange `json:"changes"`
}

// Compare diffs two compiled bids. Rows match by id within their
// section; a row counts as changed when its contribution moves, so
// price edits, quantity changes, and toggles all surface.
func Compare(base, head *Breakdown) *Diff {
	d := &Diff{
		Before: base.GrandTotal(),
		After:  head.GrandTotal(),
	}
	d.Delta = d.After.Sub(d.Before)

	for _, kind := range Kinds() {
		var bTotal, hTotal decimal.Decimal
		var bRows, hRows []Row
		if sec := base.Section(kind); sec != nil {
			bTotal = sec.Total()
			bRows = sec.Rows
		}
		if sec := head.Section(kind); sec != nil {
			hTotal = sec.Total()
			hRows = sec.Rows
		}

		d.Sections = append(d.Sections, SectionDelta{
			Section: kind.String(),
			Before:  bTotal,
			After:   hTotal,
			Delta:   hTotal.Sub(bTotal),
		})

		headByID := make(map[string]Row, len(hRows))
		for _, row := range hRows {
			headByID[row.ID] = row
		}

		for _, row := range bRows {
			before := row.Contribution()
			after, ok := headByID[row.ID]
			if !ok {
				d.Changes = append(d.Changes, RowChange{
					Type:    ChangeRemoved,
					Section: kind.String(),
					RowID:   row.ID,
					Label:   row.Label,
					Before:  before,
					After:   decimal.Zero,
					Delta:   before.Neg(),
				})
				continue
			}
			delete(headByID, row.ID)
			if !before.Equal(after.Contribution()) {
				d.Changes = append(d.Changes, RowChange{
					Type:    ChangeChanged,
					Section: kind.String(),
					RowID:   row.ID,
					Label:   after.Label,
					Before:  before,
					After:   after.Contribution(),
					Delta:   after.Contribution().Sub(before),
				})
			}
		}

		for _, row := range hRows {
			if _, ok := headByID[row.ID]; !ok {
				continue
			}
			after := row.Contribution()
			d.Changes = append(d.Changes, RowChange{
				Type:    ChangeAdded,
				Section: kind.String(),
				RowID:   row.ID,
				Label:   row.Label,
				Before:  decimal.Zero,
				After:   after,
				Delta:   after,
			})
		}
	}

	return d
}
