// Package api - saved estimate endpoints
// Saving writes a versioned snapshot of the whole session; loading
// rebuilds the session and recompiles, so a stored estimate replays
// against current persisted prices.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/export"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/db"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// handleSaveEstimate handles POST /api/v1/estimates
func (s *Server) handleSaveEstimate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, string(errors.TypeParsing), err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.buildSession(r.Context(), &req)
	if err != nil {
		s.fail(w, err)
		return
	}
	result := sess.Compile()

	data, err := sess.Snapshot().Encode()
	if err != nil {
		s.fail(w, err)
		return
	}

	rec := db.EstimateRecord{
		ID:         sess.ID(),
		Name:       sess.Name(),
		System:     sess.System(),
		GrandTotal: result.GrandTotal.String(),
		SavedAt:    time.Now().UTC(),
		Data:       data,
	}
	if err := s.store.SaveEstimate(r.Context(), rec); err != nil {
		s.fail(w, err)
		return
	}

	s.writeJSON(w, SavedEstimate{
		ID:         rec.ID,
		Name:       rec.Name,
		System:     string(rec.System),
		GrandTotal: rec.GrandTotal,
		SavedAt:    rec.SavedAt,
	}, http.StatusCreated)
}

// handleListEstimates handles GET /api/v1/estimates
func (s *Server) handleListEstimates(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	system := catalog.System(r.URL.Query().Get("system"))
	if system != "" && !catalog.ValidSystem(system) {
		s.fail(w, errors.NotFound("roofing system", string(system)))
		return
	}

	records, err := s.store.ListEstimates(r.Context(), system)
	if err != nil {
		s.fail(w, err)
		return
	}

	out := make([]SavedEstimate, 0, len(records))
	for _, rec := range records {
		out = append(out, SavedEstimate{
			ID:         rec.ID,
			Name:       rec.Name,
			System:     string(rec.System),
			GrandTotal: rec.GrandTotal,
			SavedAt:    rec.SavedAt,
		})
	}

	s.writeJSON(w, map[string]interface{}{
		"estimates": out,
		"count":     len(out),
	}, http.StatusOK)
}

// handleGetEstimate handles GET /api/v1/estimates/{id}
func (s *Server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	rec, sess, ok := s.loadSavedSession(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"saved": SavedEstimate{
			ID:         rec.ID,
			Name:       rec.Name,
			System:     string(rec.System),
			GrandTotal: rec.GrandTotal,
			SavedAt:    rec.SavedAt,
		},
		"estimate": sess.Compile(),
	}, http.StatusOK)
}

// handleDeleteEstimate handles DELETE /api/v1/estimates/{id}
func (s *Server) handleDeleteEstimate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.DeleteEstimate(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"deleted": id}, http.StatusOK)
}

// handleExportEstimate handles POST /api/v1/estimates/{id}/export
func (s *Server) handleExportEstimate(w http.ResponseWriter, r *http.Request) {
	rec, sess, ok := s.loadSavedSession(w, r)
	if !ok {
		return
	}

	title := rec.Name
	if title == "" {
		title = rec.ID
	}
	doc := export.Document{
		Title:     title,
		System:    rec.System.Label(),
		Date:      rec.SavedAt.Format("2006-01-02"),
		Breakdown: sess.Compile().Breakdown,
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", rec.ID+".csv"))
		if err := export.WriteCSV(w, doc); err != nil {
			s.log.Error("csv export failed", zap.Error(err))
		}
	case "xlsx":
		data, err := export.GenerateExcel(doc)
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", rec.ID+".xlsx"))
		w.Write(data)
	default:
		s.fail(w, errors.Inputf("unsupported export format: %s", format))
	}
}

// loadSavedSession loads a stored estimate and rebuilds its session.
// Records that fail structural validation are rejected whole; there is
// no partial restore.
func (s *Server) loadSavedSession(w http.ResponseWriter, r *http.Request) (db.EstimateRecord, *session.Session, bool) {
	if !s.requireStore(w) {
		return db.EstimateRecord{}, nil, false
	}

	id := chi.URLParam(r, "id")
	rec, err := s.store.LoadEstimate(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return db.EstimateRecord{}, nil, false
	}

	snap, err := session.DecodeSnapshot(rec.Data, rec.System)
	if err != nil {
		s.fail(w, err)
		return db.EstimateRecord{}, nil, false
	}
	sess, err := session.NewFromSnapshot(s.cat, s.pens, snap)
	if err != nil {
		s.fail(w, err)
		return db.EstimateRecord{}, nil, false
	}

	if err := sess.RefreshPrices(r.Context(), s.store); err != nil {
		s.log.Warn("price refresh failed, serving catalog defaults", zap.Error(err))
	}
	return rec, sess, true
}
