// Package catalog - Catalog validation
// Ensures catalog integrity and enforces invariants.
package catalog

import (
	"fmt"
	"sync"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(*Product) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateIdentity,
		validateOrdering,
		validateCategoryAttributes,
	}
}

// Validate checks a catalog against validation rules
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errors []error

	for _, k := range c.dupes {
		errors = append(errors, fmt.Errorf("%s: duplicate registration", k))
	}

	for _, k := range c.order {
		p := c.entries[k]
		for _, rule := range rules {
			if err := rule(p); err != nil {
				errors = append(errors, fmt.Errorf("%s:%s: %w", p.System, p.ID, err))
			}
		}
	}

	return errors
}

// validateIdentity ensures a product can be addressed and displayed
func validateIdentity(p *Product) error {
	if p.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !ValidSystem(p.System) {
		return fmt.Errorf("unknown system %q", p.System)
	}
	if p.Name == "" {
		return fmt.Errorf("missing name")
	}
	if p.Unit == "" {
		return fmt.Errorf("missing purchase unit")
	}
	return nil
}

// validateOrdering ensures takeoff math stays well defined
func validateOrdering(p *Product) error {
	if p.Coverage <= 0 {
		return fmt.Errorf("coverage must be positive, got %v", p.Coverage)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative, got %s", p.Price)
	}
	return nil
}

// validateCategoryAttributes ensures category-specific fields are set
func validateCategoryAttributes(p *Product) error {
	switch p.Category {
	case Insulation:
		if p.Thickness <= 0 {
			return fmt.Errorf("insulation requires a thickness")
		}
		if p.RValue <= 0 {
			return fmt.Errorf("insulation requires an R-value")
		}
	case CoverBoard:
		if p.Thickness <= 0 {
			return fmt.Errorf("cover board requires a thickness")
		}
	case Membrane:
		if p.Mil <= 0 {
			return fmt.Errorf("membrane requires a mil thickness")
		}
	case Fastener:
		if p.Length <= 0 {
			return fmt.Errorf("fastener requires a length")
		}
		if p.Series == "" {
			return fmt.Errorf("fastener requires a series")
		}
	}
	return nil
}

// MustValidate panics if validation fails
func (c *Catalog) MustValidate() {
	errors := c.Validate(DefaultValidationRules())
	if len(errors) > 0 {
		for _, err := range errors {
			fmt.Printf("Catalog validation error: %v\n", err)
		}
		panic(fmt.Sprintf("Catalog has %d validation errors", len(errors)))
	}
}

// GlobalCatalog is the default global catalog
var GlobalCatalog = NewCatalog()

var initOnce sync.Once

// Init initializes the global catalog with all systems. Safe to call
// more than once
func Init() {
	initOnce.Do(func() {
		RegisterTPO(GlobalCatalog)
		RegisterPVC(GlobalCatalog)
		RegisterMetal(GlobalCatalog)
		GlobalCatalog.MustValidate()
	})
}
