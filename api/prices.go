// Package api - persisted price override endpoints
// These endpoints edit the override layer that sits between catalog
// defaults and session edits.
package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// handleListPrices handles GET /api/v1/systems/{system}/prices
func (s *Server) handleListPrices(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	system, ok := s.systemParam(w, r)
	if !ok {
		return
	}

	overrides, err := s.store.PriceMap(r.Context(), system)
	if err != nil {
		s.fail(w, err)
		return
	}

	out := make([]PriceOverride, 0, len(overrides))
	for id, price := range overrides {
		entry := PriceOverride{ProductID: id, Price: price.String()}
		if p, ok := s.cat.Get(system, id); ok {
			entry.Default = p.Price.String()
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })

	s.writeJSON(w, map[string]interface{}{
		"system":    string(system),
		"overrides": out,
		"count":     len(out),
	}, http.StatusOK)
}

// handleSetPrice handles PUT /api/v1/systems/{system}/prices/{productID}
func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	system, ok := s.systemParam(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	if _, ok := s.cat.Get(system, productID); !ok {
		s.fail(w, errors.NotFound("product", productID))
		return
	}

	var req SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, string(errors.TypeParsing), err.Error(), http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		s.fail(w, errors.Inputf("price %q is not a number", req.Price))
		return
	}

	if err := s.store.SetPrice(r.Context(), system, productID, price); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, map[string]string{
		"product_id": productID,
		"price":      price.String(),
	}, http.StatusOK)
}

// handleDeletePrice handles DELETE /api/v1/systems/{system}/prices/{productID}
func (s *Server) handleDeletePrice(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	system, ok := s.systemParam(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := s.store.DeletePrice(r.Context(), system, productID); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"deleted": productID}, http.StatusOK)
}

// handleClearPrices handles DELETE /api/v1/systems/{system}/prices
func (s *Server) handleClearPrices(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	system, ok := s.systemParam(w, r)
	if !ok {
		return
	}

	n, err := s.store.ClearPrices(r.Context(), system)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"system":  string(system),
		"removed": n,
	}, http.StatusOK)
}
