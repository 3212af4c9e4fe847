// Package api - HTTP handler for estimate compilation
// This handler wraps the session pipeline - it contains NO estimating
// logic. All math is delegated to core packages.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// handleEstimate handles POST /api/v1/estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
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

	s.writeJSON(w, &EstimateResponse{
		RequestID: generateRequestID(),
		Timestamp: time.Now().UTC(),
		Estimate:  sess.Compile(),
	}, http.StatusOK)
}

// buildSession configures a session from a request. The request is
// validated before any expensive work happens; persisted price
// overrides load last so a dead price database degrades the estimate
// to catalog defaults instead of failing it.
func (s *Server) buildSession(ctx context.Context, req *EstimateRequest) (*session.Session, error) {
	sess, err := session.New(s.cat, s.pens, catalog.System(req.System))
	if err != nil {
		return nil, err
	}

	sess.SetName(req.Name)
	sess.SetRates(req.TaxPercent, req.ProfitPercent)
	if req.Assembly != nil {
		sess.SetAssembly(*req.Assembly)
	}
	sess.SetMeasurements(req.Measurements)

	if len(req.PriceEdits) > 0 {
		edits := make(map[string]decimal.Decimal, len(req.PriceEdits))
		for id, raw := range req.PriceEdits {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, errors.Inputf("price edit %s: %q is not a number", id, raw)
			}
			edits[id] = price
		}
		sess.Prices().SetEdits(edits)
	}

	for id, n := range req.Penetrations {
		sess.SetPenetrationCount(id, n)
	}
	sess.SetFlashing(req.Flashing)

	for name, m := range req.Modifiers {
		kind, ok := breakdown.KindFromString(name)
		if !ok {
			return nil, errors.Inputf("unknown bid section: %s", name)
		}
		sess.SetSectionModifiers(kind, m)
	}
	for name, ids := range req.Excluded {
		kind, ok := breakdown.KindFromString(name)
		if !ok {
			return nil, errors.Inputf("unknown bid section: %s", name)
		}
		for _, id := range ids {
			sess.SetRowIncluded(kind, id, false)
		}
	}

	if s.store != nil {
		if err := sess.RefreshPrices(ctx, s.store); err != nil {
			s.log.Warn("price refresh failed, serving catalog defaults", zap.Error(err))
		}
	}
	return sess, nil
}
