package orbit

import (
	"errors"
	"fmt"
)

// ErrInvalidElement is matched by every *InvalidElementError via errors.Is.
var ErrInvalidElement = errors.New("invalid orbital element")

// InvalidElementError reports an element outside the domain the propagator
// can turn into a closed, finite ellipse.
type InvalidElementError struct {
	Field  string  // Element name, e.g. "eccentricity"
	Value  float64 // Offending value
	Reason string  // Short human-readable constraint
}

// Error returns the error message for InvalidElementError.
func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("invalid %s %g: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidElement) succeed.
func (e *InvalidElementError) Is(target error) bool {
	return target == ErrInvalidElement
}

func invalid(field string, value float64, reason string) error {
	return &InvalidElementError{Field: field, Value: value, Reason: reason}
}
