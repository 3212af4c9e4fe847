// Package assembly models the roof assembly an estimator configures:
// deck, vapor barrier, insulation stack, cover board, membrane, and
// securement. The configuration is plain data; all derived quantities
// live downstream.
package assembly

import "math"

// MaxLayers is the number of insulation layers an assembly can carry
const MaxLayers = 4

// DeckType identifies the structural deck
type DeckType string

const (
	DeckSteel       DeckType = "steel"
	DeckWood        DeckType = "wood"
	DeckConcrete    DeckType = "concrete"
	DeckLightweight DeckType = "lightweight"
	DeckGypsum      DeckType = "gypsum"
)

// DeckTypes returns the supported deck types in declared order
func DeckTypes() []DeckType {
	return []DeckType{DeckSteel, DeckWood, DeckConcrete, DeckLightweight, DeckGypsum}
}

// ValidDeck reports whether d names a supported deck
func ValidDeck(d DeckType) bool {
	switch d {
	case DeckSteel, DeckWood, DeckConcrete, DeckLightweight, DeckGypsum:
		return true
	}
	return false
}

// Attachment identifies how the membrane is secured
type Attachment string

const (
	FullyAdhered         Attachment = "fully-adhered"
	MechanicallyAttached Attachment = "mechanically-attached"
)

// ValidAttachment reports whether a names a supported attachment method
func ValidAttachment(a Attachment) bool {
	return a == FullyAdhered || a == MechanicallyAttached
}

// Layer is one insulation layer position
type Layer struct {
	// Enabled includes the layer in the assembly
	Enabled bool `json:"enabled"`

	// Thickness is the board thickness in inches
	Thickness float64 `json:"thickness"`
}

// Config is a complete roof assembly configuration
type Config struct {
	// Deck is the structural deck the assembly fastens into
	Deck DeckType `json:"deck"`

	// VaporBarrier is the selected vapor barrier product id, empty for none
	VaporBarrier string `json:"vapor_barrier,omitempty"`

	// InsulationEnabled is the master switch for the insulation stack.
	// When false the layers keep their values but contribute nothing.
	InsulationEnabled bool `json:"insulation_enabled"`

	// Layers are the insulation layer positions, bottom up
	Layers []Layer `json:"layers"`

	// CoverBoard is the selected cover board product id, empty for none
	CoverBoard string `json:"cover_board,omitempty"`

	// MembraneMil is the field membrane thickness in mils
	MembraneMil int `json:"membrane_mil"`

	// Attachment is the membrane securement method
	Attachment Attachment `json:"attachment"`

	// InsulationFastener is the insulation screw length selection
	InsulationFastener FastenerLength `json:"insulation_fastener"`

	// MembraneFastener is the membrane seam screw length selection
	MembraneFastener FastenerLength `json:"membrane_fastener"`
}

// Default returns the starting assembly for a new estimate
func Default() Config {
	return Config{
		Deck:              DeckSteel,
		InsulationEnabled: true,
		Layers: []Layer{
			{Enabled: true, Thickness: 2.5},
		},
		MembraneMil:        60,
		Attachment:         MechanicallyAttached,
		InsulationFastener: Auto(),
		MembraneFastener:   Auto(),
	}
}

// Normalize coerces a configuration into its canonical form: layer
// positions beyond MaxLayers are dropped and malformed thickness values
// (negative, NaN, infinite) become zero. The receiver is not modified.
func (c Config) Normalize() Config {
	out := c
	if len(out.Layers) > MaxLayers {
		out.Layers = out.Layers[:MaxLayers]
	}
	layers := make([]Layer, len(out.Layers))
	for i, l := range out.Layers {
		l.Thickness = sanitize(l.Thickness)
		layers[i] = l
	}
	out.Layers = layers
	return out
}

// sanitize maps malformed numeric input to zero
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
