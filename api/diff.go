// Package api - bid comparison types and endpoint
// Compares two saved estimates, typically revisions of the same job.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// DiffRequest is the request for POST /api/v1/estimates/diff
type DiffRequest struct {
	// Base and Head are saved estimate ids
	Base string `json:"base"`
	Head string `json:"head"`
}

// DiffResponse is the response for POST /api/v1/estimates/diff
type DiffResponse struct {
	Base DiffSummary `json:"base"`
	Head DiffSummary `json:"head"`

	// Delta is the signed grand total change, e.g. "+$1840.25"
	Delta string `json:"delta"`

	// Sections compares section totals in presentation order
	Sections []SectionDelta `json:"sections"`

	// Changes lists every row that differs
	Changes []DiffChange `json:"changes"`
}

// DiffSummary summarizes one side of a comparison
type DiffSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	GrandTotal string    `json:"grand_total"`
	SavedAt    time.Time `json:"saved_at"`
}

// SectionDelta compares one section across the two bids
type SectionDelta struct {
	Section string `json:"section"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Delta   string `json:"delta"`
}

// DiffChange represents a single row-level change
type DiffChange struct {
	Type    string `json:"type"` // "added", "removed", "changed"
	Section string `json:"section"`
	RowID   string `json:"row_id"`
	Label   string `json:"label"`
	Before  string `json:"before,omitempty"`
	After   string `json:"after,omitempty"`
	Delta   string `json:"delta"`
}

// handleDiffEstimates handles POST /api/v1/estimates/diff
func (s *Server) handleDiffEstimates(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req DiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, string(errors.TypeParsing), err.Error(), http.StatusBadRequest)
		return
	}
	if req.Base == "" || req.Head == "" {
		s.fail(w, errors.Input("base and head estimate ids are required"))
		return
	}

	base, baseSum, err := s.compileSaved(r, req.Base)
	if err != nil {
		s.fail(w, err)
		return
	}
	head, headSum, err := s.compileSaved(r, req.Head)
	if err != nil {
		s.fail(w, err)
		return
	}

	diff := breakdown.Compare(base.Breakdown, head.Breakdown)

	resp := &DiffResponse{
		Base:     baseSum,
		Head:     headSum,
		Delta:    signedMoney(diff.Delta),
		Sections: make([]SectionDelta, 0, len(diff.Sections)),
		Changes:  make([]DiffChange, 0, len(diff.Changes)),
	}
	for _, sec := range diff.Sections {
		resp.Sections = append(resp.Sections, SectionDelta{
			Section: sec.Section,
			Before:  sec.Before.StringFixed(2),
			After:   sec.After.StringFixed(2),
			Delta:   signedMoney(sec.Delta),
		})
	}
	for _, c := range diff.Changes {
		resp.Changes = append(resp.Changes, DiffChange{
			Type:    string(c.Type),
			Section: c.Section,
			RowID:   c.RowID,
			Label:   c.Label,
			Before:  c.Before.StringFixed(2),
			After:   c.After.StringFixed(2),
			Delta:   signedMoney(c.Delta),
		})
	}

	s.writeJSON(w, resp, http.StatusOK)
}

// compileSaved loads and recompiles one saved estimate for comparison
func (s *Server) compileSaved(r *http.Request, id string) (*session.Result, DiffSummary, error) {
	rec, err := s.store.LoadEstimate(r.Context(), id)
	if err != nil {
		return nil, DiffSummary{}, err
	}
	snap, err := session.DecodeSnapshot(rec.Data, rec.System)
	if err != nil {
		return nil, DiffSummary{}, err
	}
	sess, err := session.NewFromSnapshot(s.cat, s.pens, snap)
	if err != nil {
		return nil, DiffSummary{}, err
	}
	if err := sess.RefreshPrices(r.Context(), s.store); err != nil {
		s.log.Warn("price refresh failed, serving catalog defaults")
	}

	result := sess.Compile()
	return result, DiffSummary{
		ID:         rec.ID,
		Name:       rec.Name,
		GrandTotal: result.GrandTotal.StringFixed(2),
		SavedAt:    rec.SavedAt,
	}, nil
}

// signedMoney renders a delta with an explicit sign
func signedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}
