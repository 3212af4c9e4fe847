// Package penetration estimates roof penetrations and shop-fabricated
// sheet metal. Each penetration type carries a bill of materials drawn
// from the system catalog plus the labor minutes to work it.
package penetration

import (
	"fmt"
	"sync"

	"github.com/7mit3/BidFix-sub000/core/catalog"
)

// BOMItem is one catalog product consumed per penetration, quantified
// in the product's coverage terms (pieces, linear feet, square feet)
type BOMItem struct {
	// ProductID is the catalog product consumed
	ProductID string `json:"product_id"`

	// Quantity is the measurement consumed per penetration
	Quantity float64 `json:"quantity"`
}

// Type is one kind of penetration detail
type Type struct {
	// ID identifies the penetration type within its system
	ID string `json:"id"`

	// System is the roofing system the detail belongs to
	System catalog.System `json:"system"`

	// Name is the display name
	Name string `json:"name"`

	// LaborMinutes is the crew time to work one penetration
	LaborMinutes float64 `json:"labor_minutes"`

	// Items is the bill of materials per penetration
	Items []BOMItem `json:"items"`
}

// Registry manages penetration type registration
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	order []string
}

// NewRegistry creates a new penetration registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
	}
}

func key(system catalog.System, id string) string {
	return string(system) + ":" + id
}

// Register adds a penetration type to the registry
func (r *Registry) Register(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(t.System, t.ID)
	if _, exists := r.types[k]; exists {
		return fmt.Errorf("penetration type already registered: %s", k)
	}
	r.types[k] = &t
	r.order = append(r.order, k)
	return nil
}

// Get returns a penetration type by system and id
func (r *Registry) Get(system catalog.System, id string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[key(system, id)]
	return t, ok
}

// List returns a system's penetration types in registration order
func (r *Registry) List(system catalog.System) []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Type
	for _, k := range r.order {
		if t := r.types[k]; t.System == system {
			out = append(out, t)
		}
	}
	return out
}

// Global default registry
var defaultRegistry = NewRegistry()

var initOnce sync.Once

// Default returns the default registry
func Default() *Registry {
	return defaultRegistry
}

// Init populates the default registry with the built-in details for
// every system. Safe to call more than once
func Init() {
	initOnce.Do(func() {
		mustRegister(defaultRegistry, builtinTPO()...)
		mustRegister(defaultRegistry, builtinPVC()...)
		mustRegister(defaultRegistry, builtinMetal()...)
	})
}

func mustRegister(r *Registry, types ...Type) {
	for _, t := range types {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}
