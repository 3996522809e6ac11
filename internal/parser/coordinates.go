package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParseCoordinate parses one "lon,lat[,alt]" tuple.
//
// The result keeps KML's native order: orb.Point{lon, lat}. Altitude is
// parsed for validity and then dropped.
func ParseCoordinate(s string) (orb.Point, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 2 {
		return orb.Point{}, &ErrMalformedCoordinate{Input: s, Reason: "need at least lon,lat"}
	}
	if len(parts) > 3 {
		return orb.Point{}, &ErrMalformedCoordinate{Input: s, Reason: "more than lon,lat,alt"}
	}

	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Point{}, &ErrMalformedCoordinate{Input: s, Reason: "non-numeric component " + strconv.Quote(part)}
		}
		vals[i] = v
	}
	return orb.Point{vals[0], vals[1]}, nil
}

// commaSpace matches a comma with the whitespace around it, so a tuple
// written as "lon, lat" stays one field.
var commaSpace = regexp.MustCompile(`\s*,\s*`)

// ParseCoordinates parses a coordinate block. Tuples are normally one per
// line; any whitespace between tuples is accepted.
func ParseCoordinates(block string) ([]orb.Point, error) {
	fields := strings.Fields(commaSpace.ReplaceAllString(block, ","))
	points := make([]orb.Point, 0, len(fields))
	for _, f := range fields {
		pt, err := ParseCoordinate(f)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	return points, nil
}
