package parser

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ValidateCoordinate validates a single coordinate pair
// Coordinates must be within valid geographic bounds
func ValidateCoordinate(lat, lon float64) error {
	if lat < -90.0 || lat > 90.0 {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	if lon < -180.0 || lon > 180.0 {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	return nil
}

// ValidatePoints validates every point of a coordinate sequence
func ValidatePoints(points []orb.Point) error {
	for i, pt := range points {
		if err := ValidateCoordinate(pt.Lat(), pt.Lon()); err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	return nil
}

// ValidateFeature validates the geometry of a parsed feature
func ValidateFeature(f *Feature) error {
	if f == nil {
		return fmt.Errorf("feature is nil")
	}

	var err error
	switch f.Kind {
	case KindMarker:
		err = ValidateCoordinate(f.Point.Lat(), f.Point.Lon())
	case KindPolyline:
		err = ValidatePoints(f.Path)
	case KindPolygon:
		err = ValidatePoints(f.Outer)
		for i := 0; err == nil && i < len(f.Holes); i++ {
			err = ValidatePoints(f.Holes[i])
		}
	case KindGroundOverlay:
		if f.Overlay == nil {
			return &ErrMissingGeometry{Kind: f.Kind, Reason: "no bounds"}
		}
		b := f.Overlay.Bound
		err = ValidatePoints([]orb.Point{b.Min, b.Max})
	}
	if err != nil {
		return fmt.Errorf("%v %q: %w", f.Kind, f.Name, err)
	}
	return nil
}
