package kml

import (
	"fmt"

	"github.com/beetlebugorg/kml/internal/archive"
	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/google/uuid"
)

// Parse errors. Use errors.As to inspect them.
type (
	// ErrMissingGeometry reports a geometry without the coordinates or
	// boundaries it requires, or a ground overlay missing a compass value.
	ErrMissingGeometry = parser.ErrMissingGeometry

	// ErrMalformedCoordinate reports a coordinate tuple that is not
	// lon,lat[,alt] numbers.
	ErrMalformedCoordinate = parser.ErrMalformedCoordinate

	// ErrMalformedColor reports a color that is not 6 or 8 hex digits.
	ErrMalformedColor = parser.ErrMalformedColor

	// ErrInvalidCoordinate reports a coordinate outside ±90/±180 when
	// ParseOptions.ValidateCoordinates is set.
	ErrInvalidCoordinate = parser.ErrInvalidCoordinate
)

// ErrArchiveMissingDocument is returned for a KMZ without a .kml entry.
var ErrArchiveMissingDocument = archive.ErrArchiveMissingDocument

// ErrFeatureNotFound is returned by Click for an id the layer doesn't hold.
type ErrFeatureNotFound struct {
	ID uuid.UUID
}

func (e *ErrFeatureNotFound) Error() string {
	return fmt.Sprintf("feature %s not found", e.ID)
}
