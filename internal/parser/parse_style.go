package parser

import (
	"encoding/xml"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const normalKey = "normal"

// parseStyle reads a Style. Values the style leaves unset keep their defaults.
func (p *docParser) parseStyle(start xml.StartElement) (*Style, error) {
	id, _ := attr(start, "id")
	st := p.opts.Defaults.Style(id)
	for {
		tok, err := p.s.nextInside(tagStyle)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return st, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "IconStyle":
				err = p.parseIconStyle(&st.Icon)
			case "LineStyle":
				err = p.parseLineStyle(&st.Line)
			case "PolyStyle":
				err = p.parsePolyStyle(&st.Poly)
			default:
				err = p.s.skip()
			}
			if err != nil {
				return nil, err
			}
		}
	}
}

func (p *docParser) parseIconStyle(icon *IconStyle) error {
	depth := 0
	for {
		tok, err := p.s.nextInside("IconStyle")
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		case xml.StartElement:
			switch t.Name.Local {
			case "Icon":
				depth++
			case "href":
				icon.URL, err = p.s.text()
			case "scale":
				icon.Scale, err = p.lenientFloat("scale", icon.Scale)
			case "heading":
				icon.Heading, err = p.lenientFloat("heading", icon.Heading)
			case "hotSpot":
				icon.Anchor = p.hotSpot(t)
				err = p.s.skip()
			case "color":
				var c Color
				if c, err = p.color(); err == nil {
					h := c.Hue()
					icon.Color = &c
					icon.Alpha = c.Alpha()
					icon.Hue = &h
				}
			case "colorMode":
				var mode string
				mode, err = p.s.text()
				icon.Random = mode == "random"
			default:
				err = p.s.skip()
			}
			if err != nil {
				return err
			}
		}
	}
}

// hotSpot reads the x, y, xunits and yunits attributes. Missing units are
// fraction; a missing or non-numeric x or y keeps the default anchor value.
func (p *docParser) hotSpot(el xml.StartElement) Anchor {
	def := p.opts.Defaults.IconAnchor
	a := Anchor{X: def.X, Y: def.Y, XUnits: UnitsFraction, YUnits: UnitsFraction}
	a.X = p.attrFloat(el, "x", a.X)
	a.Y = p.attrFloat(el, "y", a.Y)
	if v, ok := attr(el, "xunits"); ok {
		a.XUnits = v
	}
	if v, ok := attr(el, "yunits"); ok {
		a.YUnits = v
	}
	return a
}

// attrFloat reads a numeric attribute, keeping def when it is absent or not numeric.
func (p *docParser) attrFloat(el xml.StartElement, name string, def float64) float64 {
	v, ok := attr(el, name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.log.Debug("Non-numeric attribute, using default",
			zap.String("tag", el.Name.Local), zap.String("attr", name), zap.String("value", v))
		return def
	}
	return f
}

func (p *docParser) parseLineStyle(line *LineStyle) error {
	for {
		tok, err := p.s.nextInside("LineStyle")
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case "color":
				line.Color, err = p.color()
			case "width":
				line.Width, err = p.lenientFloat("width", line.Width)
			default:
				err = p.s.skip()
			}
			if err != nil {
				return err
			}
		}
	}
}

func (p *docParser) parsePolyStyle(poly *PolyStyle) error {
	for {
		tok, err := p.s.nextInside("PolyStyle")
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			var v string
			switch t.Name.Local {
			case "color":
				poly.Color, err = p.color()
			case "fill":
				v, err = p.s.text()
				poly.Fill = parseBool(v)
			case "outline":
				v, err = p.s.text()
				poly.Outline = parseBool(v)
			default:
				err = p.s.skip()
			}
			if err != nil {
				return err
			}
		}
	}
}

// parseStyleMap reads a StyleMap. Each Pair is recorded when it closes, so
// key, styleUrl and an inlined Style may appear in any order. The "normal"
// pair is also kept as the map's Normal target. A Style inlined in a Pair is
// added to the catalog under a derived id when it has none.
func (p *docParser) parseStyleMap(start xml.StartElement) (*StyleMap, error) {
	id, _ := attr(start, "id")
	m := &StyleMap{ID: id, Pairs: make(map[string]string)}

	for {
		tok, err := p.s.nextInside(tagStyleMap)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return m, nil
		case xml.StartElement:
			if t.Name.Local == "Pair" {
				err = p.parsePair(m)
			} else {
				p.log.Debug("Unexpected tag in StyleMap, skipping", zap.String("tag", t.Name.Local))
				err = p.s.skip()
			}
			if err != nil {
				return nil, err
			}
		}
	}
}

func (p *docParser) parsePair(m *StyleMap) error {
	var key, url string
	var inline *Style
	for {
		tok, err := p.s.nextInside("Pair")
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if inline != nil {
				if inline.ID == "" {
					inline.ID = strings.TrimLeft(m.ID, "#") + "-" + key
				}
				p.catalog.AddStyle(inline)
				url = inline.ID
			}
			if url == "" {
				return nil
			}
			if key == normalKey {
				m.Normal = url
			}
			m.Pairs[key] = url
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case "key":
				key, err = p.s.text()
			case "styleUrl":
				url, err = p.s.text()
			case tagStyle:
				inline, err = p.parseStyle(t)
			default:
				p.log.Debug("Unexpected tag in Pair, skipping", zap.String("tag", t.Name.Local))
				err = p.s.skip()
			}
			if err != nil {
				return err
			}
		}
	}
}

// lenientFloat reads a number, keeping def when the text is not numeric.
func (p *docParser) lenientFloat(tag string, def float64) (float64, error) {
	v, err := p.s.text()
	if err != nil {
		return def, err
	}
	f, perr := strconv.ParseFloat(v, 64)
	if perr != nil {
		p.log.Debug("Non-numeric value, using default",
			zap.String("tag", tag), zap.String("value", v))
		return def, nil
	}
	return f, nil
}
