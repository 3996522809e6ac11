package parser

import (
	"encoding/xml"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// geometry is one geometry element found inside a Placemark.
type geometry struct {
	kind  FeatureKind
	point orb.Point
	path  orb.LineString
	outer orb.Ring
	holes []orb.Ring
}

// parsePlacemark reads a Placemark. Each geometry it contains becomes one
// feature; the features share the placemark's properties. A placemark
// without geometry yields nothing.
func (p *docParser) parsePlacemark(start xml.StartElement) ([]*Feature, error) {
	line := p.s.line()
	props := Properties{}
	var ext []ExtendedData
	var inline *Style
	var geoms []geometry

loop:
	for {
		tok, err := p.s.nextInside(tagPlacemark)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			break loop
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case foreign(t):
				err = p.s.skip()
			case IsPropertyTag(name):
				props[name], err = p.s.text()
			case IsUnsupportedTag(name) || opaqueTags[name]:
				err = p.s.skip()
			case isGeometryTag(name):
				var g []geometry
				g, err = p.parseGeometry(t, props, line)
				geoms = append(geoms, g...)
			case name == tagExtendedData:
				var d []ExtendedData
				d, err = p.parseExtendedData()
				ext = append(ext, d...)
			case name == tagStyle:
				inline, err = p.parseStyle(t)
			default:
				p.log.Debug("Unexpected tag in Placemark, skipping", zap.String("tag", name))
				err = p.s.skip()
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if len(geoms) == 0 {
		p.log.Debug("Placemark without geometry, dropping",
			zap.String("name", props["name"]), zap.Int("line", line))
		return nil, nil
	}

	features := make([]*Feature, 0, len(geoms))
	for _, g := range geoms {
		f := p.newFeature(g.kind, props.Clone(), ext, line)
		f.InlineStyle = inline
		switch g.kind {
		case KindMarker:
			f.Point = g.point
		case KindPolyline:
			f.Path = g.path
		case KindPolygon:
			f.Outer = g.outer
			f.Holes = g.holes
		}
		features = append(features, f)
	}
	return features, nil
}

// newFeature builds a feature with the common fields taken from props.
func (p *docParser) newFeature(kind FeatureKind, props Properties, ext []ExtendedData, line int) *Feature {
	d := p.opts.Defaults
	return &Feature{
		ID:           uuid.New(),
		Kind:         kind,
		Name:         props.String("name", ""),
		Description:  props.String("description", ""),
		DrawOrder:    props.Float("drawOrder", d.DrawOrder),
		StyleURL:     props.String("styleUrl", ""),
		ExtendedData: ext,
		Properties:   props,
		Line:         line,
	}
}

func isGeometryTag(name string) bool {
	switch name {
	case "Point", "LineString", "Polygon", "MultiGeometry":
		return true
	}
	return false
}

func (p *docParser) parseGeometry(start xml.StartElement, props Properties, line int) ([]geometry, error) {
	switch start.Name.Local {
	case "Point":
		pt, err := p.parsePoint(line)
		if err != nil {
			return nil, err
		}
		return []geometry{{kind: KindMarker, point: pt}}, nil
	case "LineString":
		path, err := p.parseLineString(props, line)
		if err != nil {
			return nil, err
		}
		return []geometry{{kind: KindPolyline, path: path}}, nil
	case "Polygon":
		outer, holes, err := p.parsePolygon(props, line)
		if err != nil {
			return nil, err
		}
		return []geometry{{kind: KindPolygon, outer: outer, holes: holes}}, nil
	default:
		return p.parseMultiGeometry(props, line)
	}
}

func (p *docParser) parseMultiGeometry(props Properties, line int) ([]geometry, error) {
	var out []geometry
	for {
		tok, err := p.s.nextInside("MultiGeometry")
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return out, nil
		case xml.StartElement:
			if !isGeometryTag(t.Name.Local) || foreign(t) {
				if err := p.s.skip(); err != nil {
					return nil, err
				}
				continue
			}
			g, err := p.parseGeometry(t, props, line)
			if err != nil {
				return nil, err
			}
			out = append(out, g...)
		}
	}
}

// parsePoint reads a Point and returns its first coordinate.
func (p *docParser) parsePoint(line int) (orb.Point, error) {
	var points []orb.Point
	for {
		tok, err := p.s.nextInside("Point")
		if err != nil {
			return orb.Point{}, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if len(points) == 0 {
				return orb.Point{}, &ErrMissingGeometry{Kind: KindMarker, Reason: "Point has no coordinates", Line: line}
			}
			return points[0], nil
		case xml.StartElement:
			if t.Name.Local != "coordinates" {
				if err := p.s.skip(); err != nil {
					return orb.Point{}, err
				}
				continue
			}
			if points, err = p.coordinates(); err != nil {
				return orb.Point{}, err
			}
		}
	}
}

func (p *docParser) parseLineString(props Properties, line int) (orb.LineString, error) {
	var points []orb.Point
	for {
		tok, err := p.s.nextInside("LineString")
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if len(points) == 0 {
				return nil, &ErrMissingGeometry{Kind: KindPolyline, Reason: "LineString has no coordinates", Line: line}
			}
			return orb.LineString(points), nil
		case xml.StartElement:
			switch name := t.Name.Local; {
			case name == "coordinates":
				points, err = p.coordinates()
			case IsPropertyTag(name):
				props[name], err = p.s.text()
			default:
				err = p.s.skip()
			}
			if err != nil {
				return nil, err
			}
		}
	}
}

// parsePolygon reads one required outer boundary and any number of holes.
func (p *docParser) parsePolygon(props Properties, line int) (orb.Ring, []orb.Ring, error) {
	var outer orb.Ring
	var holes []orb.Ring
	for {
		tok, err := p.s.nextInside("Polygon")
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if outer == nil {
				return nil, nil, &ErrMissingGeometry{Kind: KindPolygon, Reason: "Polygon has no outerBoundaryIs", Line: line}
			}
			return outer, holes, nil
		case xml.StartElement:
			switch name := t.Name.Local; {
			case name == "outerBoundaryIs" || name == "innerBoundaryIs":
				var ring orb.Ring
				ring, err = p.parseBoundary(name, line)
				if name == "outerBoundaryIs" {
					outer = ring
				} else {
					holes = append(holes, ring)
				}
			case IsPropertyTag(name):
				props[name], err = p.s.text()
			default:
				err = p.s.skip()
			}
			if err != nil {
				return nil, nil, err
			}
		}
	}
}

// parseBoundary reads outerBoundaryIs or innerBoundaryIs and the LinearRing inside it.
func (p *docParser) parseBoundary(tag string, line int) (orb.Ring, error) {
	var points []orb.Point
	depth := 0
	for {
		tok, err := p.s.nextInside(tag)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if depth > 0 {
				depth--
				continue
			}
			if len(points) == 0 {
				return nil, &ErrMissingGeometry{Kind: KindPolygon, Reason: tag + " has no coordinates", Line: line}
			}
			return orb.Ring(points), nil
		case xml.StartElement:
			switch t.Name.Local {
			case "LinearRing":
				depth++
			case "coordinates":
				if points, err = p.coordinates(); err != nil {
					return nil, err
				}
			default:
				if err := p.s.skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

func (p *docParser) coordinates() ([]orb.Point, error) {
	v, err := p.s.text()
	if err != nil {
		return nil, err
	}
	return ParseCoordinates(v)
}
