// Package api - API types for roof estimating
// These types define the contract of the /api/v1 endpoints.
// Money travels as decimal strings; the server never rounds.
package api

import (
	"time"

	"github.com/7mit3/BidFix-sub000/core/assembly"
	"github.com/7mit3/BidFix-sub000/core/breakdown"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/core/session"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
)

// EstimateRequest is the input to POST /estimate. Everything beyond
// system and measurements is optional; omitted fields fall back to the
// defaults a fresh estimate starts with.
type EstimateRequest struct {
	// System selects the roofing system
	System string `json:"system"`

	// Name is the job name carried onto saved estimates
	Name string `json:"name,omitempty"`

	// Assembly is the roof buildup; nil uses the default assembly
	Assembly *assembly.Config `json:"assembly,omitempty"`

	// Measurements are the field dimensions
	Measurements takeoff.Measurements `json:"measurements"`

	// TaxPercent and ProfitPercent seed sections without stored settings
	TaxPercent    float64 `json:"tax_percent,omitempty"`
	ProfitPercent float64 `json:"profit_percent,omitempty"`

	// PriceEdits are session price edits as decimal strings by product id
	PriceEdits map[string]string `json:"price_edits,omitempty"`

	// Penetrations counts penetration types by id
	Penetrations map[string]int `json:"penetrations,omitempty"`

	// Flashing lists the shop-fabricated sheet metal runs
	Flashing []penetration.FlashingSpec `json:"flashing,omitempty"`

	// Modifiers overrides section tax and profit settings, keyed by
	// section name (materials, penetrations, labor, equipment)
	Modifiers map[string]breakdown.Modifiers `json:"modifiers,omitempty"`

	// Excluded lists row ids switched off, keyed by section name
	Excluded map[string][]string `json:"excluded,omitempty"`
}

// EstimateResponse is the output of POST /estimate
type EstimateResponse struct {
	// RequestID tracks the request in logs
	RequestID string `json:"request_id"`

	// Timestamp is when the estimate was compiled
	Timestamp time.Time `json:"timestamp"`

	// Estimate is the full compile result: insulation summary, fastener
	// resolution, priced materials, and the sectioned bid
	Estimate *session.Result `json:"estimate"`
}

// SystemInfo describes one available roofing system
type SystemInfo struct {
	ID       string `json:"id"`
	Products int    `json:"products"`
}

// ProductInfo is one catalog entry as served to clients
type ProductInfo struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Coverage float64 `json:"coverage"`

	// Price is the catalog default as a decimal string
	Price string `json:"price"`

	Thickness float64 `json:"thickness,omitempty"`
	RValue    float64 `json:"r_value,omitempty"`
	Mil       int     `json:"mil,omitempty"`
	Length    float64 `json:"length,omitempty"`
}

// PriceOverride is one persisted price override
type PriceOverride struct {
	ProductID string `json:"product_id"`

	// Price is the override as a decimal string
	Price string `json:"price"`

	// Default is the catalog price it replaces
	Default string `json:"default"`
}

// SetPriceRequest is the body of PUT /systems/{system}/prices/{productID}
type SetPriceRequest struct {
	Price string `json:"price"`
}

// SavedEstimate summarizes one persisted estimate
type SavedEstimate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	System     string    `json:"system"`
	GrandTotal string    `json:"grand_total"`
	SavedAt    time.Time `json:"saved_at"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the taxonomy code and a human readable message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
