package parser

import (
	"fmt"
)

// ErrInvalidCoordinate indicates coordinate out of valid bounds
type ErrInvalidCoordinate struct {
	Lat, Lon float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%f lon=%f (lat must be ±90, lon must be ±180)",
		e.Lat, e.Lon)
}

// ErrMalformedCoordinate indicates a coordinate tuple that cannot be read as lon,lat[,alt]
type ErrMalformedCoordinate struct {
	Input  string
	Reason string
}

func (e *ErrMalformedCoordinate) Error() string {
	return fmt.Sprintf("malformed coordinate %q: %s", e.Input, e.Reason)
}

// ErrMalformedColor indicates a color that is not 6 or 8 hex digits
type ErrMalformedColor struct {
	Input string
}

func (e *ErrMalformedColor) Error() string {
	return fmt.Sprintf("malformed color %q: want AABBGGRR or BBGGRR hex", e.Input)
}

// ErrMissingGeometry indicates a feature whose required geometry is absent.
// Line is the decoder line where the feature element started (0 if unknown).
type ErrMissingGeometry struct {
	Kind   FeatureKind
	Reason string
	Line   int
}

func (e *ErrMissingGeometry) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("missing geometry for %v (line %d): %s", e.Kind, e.Line, e.Reason)
	}
	return fmt.Sprintf("missing geometry for %v: %s", e.Kind, e.Reason)
}
