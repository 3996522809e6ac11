package parser

import (
	"encoding/xml"
	"strconv"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// parseGroundOverlay reads a GroundOverlay. The compass values may appear
// inside LatLonBox or directly in the overlay; all four are required.
func (p *docParser) parseGroundOverlay(start xml.StartElement) (*Feature, error) {
	line := p.s.line()
	props := Properties{}
	var ext []ExtendedData
	compass := map[string]float64{}
	overlay := &GroundOverlay{Rotation: p.opts.Defaults.OverlayRotation}
	depth := 0

loop:
	for {
		tok, err := p.s.nextInside(tagGroundOverlay)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if depth > 0 {
				depth--
				continue
			}
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
			case name == "LatLonBox" || name == "Icon":
				depth++
			case name == "north" || name == "south" || name == "east" || name == "west" || name == "rotation":
				var v float64
				v, err = p.float(name)
				if name == "rotation" {
					overlay.Rotation = v
				} else {
					compass[name] = v
				}
			case name == "href":
				overlay.IconURL, err = p.s.text()
			case name == "color":
				var c Color
				c, err = p.color()
				overlay.Color = &c
			case name == tagExtendedData:
				var d []ExtendedData
				d, err = p.parseExtendedData()
				ext = append(ext, d...)
			default:
				p.log.Debug("Unexpected tag in GroundOverlay, skipping", zap.String("tag", name))
				err = p.s.skip()
			}
			if err != nil {
				return nil, err
			}
		}
	}

	for _, k := range []string{"north", "south", "east", "west"} {
		if _, ok := compass[k]; !ok {
			return nil, &ErrMissingGeometry{
				Kind:   KindGroundOverlay,
				Reason: "LatLonBox is missing " + k,
				Line:   line,
			}
		}
	}
	overlay.Bound = orb.Bound{
		Min: orb.Point{compass["west"], compass["south"]},
		Max: orb.Point{compass["east"], compass["north"]},
	}

	f := p.newFeature(KindGroundOverlay, props, ext, line)
	f.Overlay = overlay
	return f, nil
}

// float reads the text of the current element as a number.
func (p *docParser) float(tag string) (float64, error) {
	v, err := p.s.text()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ErrMalformedCoordinate{Input: v, Reason: "non-numeric <" + tag + ">"}
	}
	return f, nil
}

// color reads the text of the current element as a KML color.
func (p *docParser) color() (Color, error) {
	v, err := p.s.text()
	if err != nil {
		return Color{}, err
	}
	return ParseColor(v)
}
