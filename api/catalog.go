// Package api - catalog listing endpoints
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// handleListSystems handles GET /api/v1/systems
func (s *Server) handleListSystems(w http.ResponseWriter, r *http.Request) {
	stats := s.cat.Stats()

	systems := make([]SystemInfo, 0, len(catalog.Systems()))
	for _, sys := range catalog.Systems() {
		systems = append(systems, SystemInfo{
			ID:       string(sys),
			Products: stats.BySystem[sys].Total,
		})
	}

	s.writeJSON(w, map[string]interface{}{
		"systems": systems,
		"count":   len(systems),
	}, http.StatusOK)
}

// handleCatalog handles GET /api/v1/systems/{system}/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	system, ok := s.systemParam(w, r)
	if !ok {
		return
	}

	products := s.cat.Products(system)
	out := make([]ProductInfo, 0, len(products))
	for _, p := range products {
		out = append(out, ProductInfo{
			ID:        p.ID,
			Category:  p.Category.String(),
			Name:      p.Name,
			Unit:      p.Unit,
			Coverage:  p.Coverage,
			Price:     p.Price.String(),
			Thickness: p.Thickness,
			RValue:    p.RValue,
			Mil:       p.Mil,
			Length:    p.Length,
		})
	}

	s.writeJSON(w, map[string]interface{}{
		"system":   string(system),
		"products": out,
		"count":    len(out),
	}, http.StatusOK)
}

// systemParam reads and validates the {system} route parameter
func (s *Server) systemParam(w http.ResponseWriter, r *http.Request) (catalog.System, bool) {
	system := catalog.System(chi.URLParam(r, "system"))
	if !catalog.ValidSystem(system) {
		s.fail(w, errors.NotFound("roofing system", string(system)))
		return "", false
	}
	return system, true
}
