// Package pricing - distributor price sheet import
package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/7mit3/BidFix-sub000/core/catalog"
)

// Sheet is a distributor price sheet: one system, product list prices
// keyed by catalog id
type Sheet struct {
	System string             `yaml:"system"`
	Prices map[string]float64 `yaml:"prices"`
}

// ParseSheet decodes a YAML price sheet
func ParseSheet(data []byte) (*Sheet, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parse price sheet: %w", err)
	}
	if !catalog.ValidSystem(catalog.System(sheet.System)) {
		return nil, fmt.Errorf("price sheet names unknown system %q", sheet.System)
	}
	return &sheet, nil
}

// Overrides converts the sheet to override entries against a catalog.
// Products the catalog does not stock are returned in skipped rather
// than imported.
func (s *Sheet) Overrides(cat *catalog.Catalog) (prices map[string]decimal.Decimal, skipped []string) {
	system := catalog.System(s.System)
	prices = make(map[string]decimal.Decimal, len(s.Prices))
	for id, v := range s.Prices {
		if _, ok := cat.Get(system, id); !ok {
			skipped = append(skipped, id)
			continue
		}
		prices[id] = clamp(decimal.NewFromFloat(v))
	}
	sort.Strings(skipped)
	return prices, skipped
}
