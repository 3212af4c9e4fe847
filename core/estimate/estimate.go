// Package estimate compiles takeoff quantities and resolved prices
// into an ordered material estimate. Compilation is pure: the same
// inputs always produce the same line items in the same order.
package estimate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/pricing"
	"github.com/7mit3/BidFix-sub000/core/takeoff"
)

// LineItem is one priced material line
type LineItem struct {
	// ProductID is the catalog product
	ProductID string `json:"product_id"`

	// Category is the product's assembly role
	Category catalog.Category `json:"-"`

	// Name is the product display name
	Name string `json:"name"`

	// Unit is the purchase unit
	Unit string `json:"unit"`

	// Measurement is the covered quantity driving the order
	Measurement float64 `json:"measurement"`

	// Quantity is the purchase units to order
	Quantity int `json:"quantity"`

	// UnitPrice is the resolved price per purchase unit
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Total is UnitPrice times Quantity
	Total decimal.Decimal `json:"total"`

	// PriceSource is the layer the unit price resolved from
	PriceSource pricing.Source `json:"price_source"`
}

// Estimate is a compiled material estimate
type Estimate struct {
	// System is the roofing system estimated
	System catalog.System `json:"system"`

	// Items are the line items, grouped by category in the catalog's
	// declared order and stable within each group
	Items []LineItem `json:"items"`

	// Subtotal is the sum of all line totals
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Compile prices takeoff lines into an ordered estimate. Lines naming
// products the catalog does not stock are skipped.
func Compile(cat *catalog.Catalog, system catalog.System, lines []takeoff.Line, prices *pricing.State) Estimate {
	est := Estimate{
		System:   system,
		Subtotal: decimal.Zero,
	}

	for _, line := range lines {
		p, ok := cat.Get(system, line.ProductID)
		if !ok {
			continue
		}
		unitPrice, source := prices.Resolve(line.ProductID)
		total := unitPrice.Mul(decimal.NewFromInt(int64(line.Units)))

		est.Items = append(est.Items, LineItem{
			ProductID:   p.ID,
			Category:    p.Category,
			Name:        p.Name,
			Unit:        p.Unit,
			Measurement: line.Measurement,
			Quantity:    line.Units,
			UnitPrice:   unitPrice,
			Total:       total,
			PriceSource: source,
		})
	}

	sort.SliceStable(est.Items, func(i, j int) bool {
		a, b := est.Items[i], est.Items[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return cat.Seq(system, a.ProductID) < cat.Seq(system, b.ProductID)
	})

	for _, item := range est.Items {
		est.Subtotal = est.Subtotal.Add(item.Total)
	}
	return est
}

// ByCategory groups the items by category, preserving item order.
// Categories with no items are absent.
func (e Estimate) ByCategory() []CategoryGroup {
	var groups []CategoryGroup
	for _, item := range e.Items {
		if len(groups) == 0 || groups[len(groups)-1].Category != item.Category {
			groups = append(groups, CategoryGroup{Category: item.Category, Subtotal: decimal.Zero})
		}
		g := &groups[len(groups)-1]
		g.Items = append(g.Items, item)
		g.Subtotal = g.Subtotal.Add(item.Total)
	}
	return groups
}

// CategoryGroup is the items of one category
type CategoryGroup struct {
	Category catalog.Category
	Items    []LineItem
	Subtotal decimal.Decimal
}
