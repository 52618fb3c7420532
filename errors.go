package geoforward

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is returned for a dike with a non-positive resistivity
	// or thickness.
	ErrInvalidGeometry = errors.New("geoforward: invalid dike geometry")

	// ErrInvalidPrism is returned for a prism with zero or negative extent.
	ErrInvalidPrism = errors.New("geoforward: invalid prism")

	ErrEmptyProfile = errors.New("geoforward: profile has no positions")
)

type ParameterError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ParameterError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("geoforward: invalid parameter: %s = %g", e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %s = %g", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return e.Wrapped
}
