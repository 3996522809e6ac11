package parser

import (
	"strings"
)

// IconStyle holds the icon part of a Style.
type IconStyle struct {
	URL     string
	Scale   float64
	Heading float64
	Anchor  Anchor

	// Color is nil when the style sets no color.
	Color  *Color
	Alpha  float64
	Hue    *float64
	Random bool
}

// LineStyle holds the stroke part of a Style.
type LineStyle struct {
	Color Color
	Width float64
}

// PolyStyle holds the fill part of a Style.
type PolyStyle struct {
	Color   Color
	Fill    bool
	Outline bool
}

// Style is a named bundle of visual attributes. ID always starts with one '#'.
type Style struct {
	ID   string
	Icon IconStyle
	Line LineStyle
	Poly PolyStyle
}

// StyleMap maps state keys ("normal", "highlight") to style ids.
// Resolution always follows Normal.
type StyleMap struct {
	ID     string
	Pairs  map[string]string
	Normal string
}

// NormalizeStyleID returns id with exactly one leading '#'.
// The empty id stays empty.
func NormalizeStyleID(id string) string {
	id = strings.TrimLeft(strings.TrimSpace(id), "#")
	if id == "" {
		return ""
	}
	return "#" + id
}

// Catalog indexes styles and style maps by normalized id.
//
// The catalog is filled during the document walk and only read afterwards,
// so references may precede their definitions.
type Catalog struct {
	Styles    map[string]*Style
	StyleMaps map[string]*StyleMap
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Styles:    make(map[string]*Style),
		StyleMaps: make(map[string]*StyleMap),
	}
}

// AddStyle inserts s under its normalized id. A later definition replaces an earlier one.
func (c *Catalog) AddStyle(s *Style) {
	s.ID = NormalizeStyleID(s.ID)
	c.Styles[s.ID] = s
}

// AddStyleMap inserts m under its normalized id.
func (c *Catalog) AddStyleMap(m *StyleMap) {
	m.ID = NormalizeStyleID(m.ID)
	c.StyleMaps[m.ID] = m
}

// Lookup resolves a styleUrl through the style-map indirection.
//
// A style map entry is followed to its normal style; without one the url is
// treated as a direct style id. The second result is false when no style exists.
func (c *Catalog) Lookup(styleURL string) (*Style, bool) {
	id := NormalizeStyleID(styleURL)
	if id == "" {
		return nil, false
	}
	if m, ok := c.StyleMaps[id]; ok && m.Normal != "" {
		id = NormalizeStyleID(m.Normal)
	}
	s, ok := c.Styles[id]
	return s, ok
}
