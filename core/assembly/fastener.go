// Package assembly - fastener length selection
package assembly

import (
	"encoding/json"
	"fmt"
	"math"
)

// FastenerLength is a screw length selection: either an explicit length
// in inches or the auto sentinel, which defers to length resolution
// against the assembly. The zero value is auto.
type FastenerLength struct {
	explicit bool
	inches   float64
}

// Auto returns the automatic length selection
func Auto() FastenerLength {
	return FastenerLength{}
}

// Explicit returns a fixed length selection
func Explicit(inches float64) FastenerLength {
	if math.IsNaN(inches) || math.IsInf(inches, 0) || inches < 0 {
		inches = 0
	}
	return FastenerLength{explicit: true, inches: inches}
}

// IsAuto reports whether the selection defers to resolution
func (f FastenerLength) IsAuto() bool {
	return !f.explicit
}

// Inches returns the explicit length, zero when auto
func (f FastenerLength) Inches() float64 {
	if !f.explicit {
		return 0
	}
	return f.inches
}

// String returns "auto" or the length in inches
func (f FastenerLength) String() string {
	if !f.explicit {
		return "auto"
	}
	return fmt.Sprintf("%g", f.inches)
}

// MarshalJSON encodes the auto sentinel as the string "auto" and
// explicit selections as a number
func (f FastenerLength) MarshalJSON() ([]byte, error) {
	if !f.explicit {
		return json.Marshal("auto")
	}
	return json.Marshal(f.inches)
}

// UnmarshalJSON accepts "auto", a number, or null (treated as auto).
// Malformed numerics resolve to an explicit zero length.
func (f *FastenerLength) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "auto" || s == "" {
			*f = Auto()
			return nil
		}
		return fmt.Errorf("fastener length: unknown selection %q", s)
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = Explicit(n)
		return nil
	}

	if string(data) == "null" {
		*f = Auto()
		return nil
	}
	return fmt.Errorf("fastener length: cannot decode %s", string(data))
}
