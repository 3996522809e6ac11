package kml

import (
	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// FeatureKind identifies the variant of a feature.
type FeatureKind = parser.FeatureKind

const (
	KindMarker        = parser.KindMarker
	KindPolyline      = parser.KindPolyline
	KindPolygon       = parser.KindPolygon
	KindGroundOverlay = parser.KindGroundOverlay
)

// Color is a straight-alpha RGBA color. KML writes it as aabbggrr.
type Color = parser.Color

// Anchor is an icon hot spot in fractions of the icon size.
type Anchor = parser.Anchor

// Icon is a resolved icon. Image is nil when Source is one of the default glyphs.
type Icon = parser.Icon

// IconSource says where a resolved icon came from.
type IconSource = parser.IconSource

const (
	IconNone           = parser.IconNone
	IconEmbedded       = parser.IconEmbedded
	IconFetched        = parser.IconFetched
	IconDefaultColored = parser.IconDefaultColored
	IconDefault        = parser.IconDefault
)

// ExtendedData is one name/value pair of a feature's ExtendedData block.
type ExtendedData = parser.ExtendedData

// Properties is the part of a property snapshot shared by every variant.
//
// Snapshots are copies: changing one never affects the layer.
type Properties struct {
	ID           uuid.UUID
	Name         string
	Description  string
	DrawOrder    float64
	StyleID      string
	Visible      bool
	ExtendedData []ExtendedData

	// Raw holds the scalar tags captured from the Placemark, such as
	// visibility, tessellate or address.
	Raw map[string]string
}

// MarkerProperties is a snapshot of a resolved marker.
type MarkerProperties struct {
	Properties
	Position orb.Point
	Alpha    float64
	Anchor   Anchor
	Rotation float64
	Scale    float64
	Hue      *float64
	Icon     Icon
}

// PolylineProperties is a snapshot of a resolved polyline.
type PolylineProperties struct {
	Properties
	Path  orb.LineString
	Color Color
	Width float64
}

// PolygonProperties is a snapshot of a resolved polygon.
type PolygonProperties struct {
	Properties
	Outer       orb.Ring
	Holes       []orb.Ring
	FillColor   Color
	StrokeColor Color
	StrokeWidth float64
	Fill        bool
	Outline     bool
}

// GroundOverlayProperties is a snapshot of a resolved ground overlay.
type GroundOverlayProperties struct {
	Properties
	Bound    orb.Bound
	Rotation float64
	Alpha    float64
	Icon     Icon
}

// Feature is implemented by *Marker, *Polyline, *Polygon and *GroundOverlay.
type Feature interface {
	ID() uuid.UUID
	Kind() FeatureKind
	Name() string
	Visible() bool
	Bound() orb.Bound
	Geometry() orb.Geometry

	// Parent returns the container holding the feature.
	Parent() *Container

	event() Event
	raw() *parser.Feature
}

type feature struct {
	f      *parser.Feature
	parent *Container
	layer  *Layer
}

func (b *feature) ID() uuid.UUID { return b.f.ID }
func (b *feature) Kind() FeatureKind { return b.f.Kind }
func (b *feature) Name() string { return b.f.Name }
func (b *feature) Geometry() orb.Geometry { return b.f.Geometry() }
func (b *feature) Bound() orb.Bound { return b.f.Geometry().Bound() }
func (b *feature) Parent() *Container { return b.parent }
func (b *feature) raw() *parser.Feature { return b.f }
func (b *feature) resolved() *parser.Resolved { return b.f.Resolved }

// Visible reports the resolved visibility: the feature's own flag and every
// enclosing container's.
func (b *feature) Visible() bool {
	b.layer.mu.RLock()
	defer b.layer.mu.RUnlock()
	return b.f.Resolved.Visible
}

func (b *feature) properties() Properties {
	ext := make([]ExtendedData, len(b.f.ExtendedData))
	copy(ext, b.f.ExtendedData)
	p := Properties{
		ID:           b.f.ID,
		Name:         b.f.Name,
		Description:  b.f.Description,
		DrawOrder:    b.f.DrawOrder,
		Visible:      b.Visible(),
		ExtendedData: ext,
		Raw:          b.f.Properties.Clone(),
	}
	if st := b.f.Resolved.Style; st != nil {
		p.StyleID = st.ID
	}
	return p
}

// Marker is a point feature.
type Marker struct{ feature }

// Properties returns a snapshot of the marker.
func (m *Marker) Properties() MarkerProperties {
	res := m.resolved()
	p := MarkerProperties{
		Properties: m.properties(),
		Position:   m.f.Point,
		Alpha:      res.Alpha,
		Anchor:     res.Anchor,
		Rotation:   res.Rotation,
		Scale:      res.Scale,
		Icon:       res.Icon,
	}
	if res.Hue != nil {
		h := *res.Hue
		p.Hue = &h
		p.Icon.Hue = &h
	}
	return p
}

func (m *Marker) event() Event {
	p := m.Properties()
	return Event{Kind: KindMarker, FeatureID: m.f.ID, Marker: &p}
}

// Polyline is a line-string feature.
type Polyline struct{ feature }

// Properties returns a snapshot of the polyline.
func (l *Polyline) Properties() PolylineProperties {
	res := l.resolved()
	return PolylineProperties{
		Properties: l.properties(),
		Path:       l.f.Path.Clone(),
		Color:      res.LineColor,
		Width:      res.LineWidth,
	}
}

func (l *Polyline) event() Event {
	p := l.Properties()
	return Event{Kind: KindPolyline, FeatureID: l.f.ID, Polyline: &p}
}

// Polygon is an area feature with optional holes.
type Polygon struct{ feature }

// Properties returns a snapshot of the polygon.
func (g *Polygon) Properties() PolygonProperties {
	res := g.resolved()
	holes := make([]orb.Ring, len(g.f.Holes))
	for i, h := range g.f.Holes {
		holes[i] = h.Clone()
	}
	return PolygonProperties{
		Properties:  g.properties(),
		Outer:       g.f.Outer.Clone(),
		Holes:       holes,
		FillColor:   res.FillColor,
		StrokeColor: res.LineColor,
		StrokeWidth: res.LineWidth,
		Fill:        res.Fill,
		Outline:     res.Outline,
	}
}

func (g *Polygon) event() Event {
	p := g.Properties()
	return Event{Kind: KindPolygon, FeatureID: g.f.ID, Polygon: &p}
}

// GroundOverlay is an image draped over a lat/lon box.
type GroundOverlay struct{ feature }

// Properties returns a snapshot of the overlay.
func (o *GroundOverlay) Properties() GroundOverlayProperties {
	res := o.resolved()
	return GroundOverlayProperties{
		Properties: o.properties(),
		Bound:      o.f.Overlay.Bound,
		Rotation:   res.Rotation,
		Alpha:      res.Alpha,
		Icon:       res.Icon,
	}
}

func (o *GroundOverlay) event() Event {
	p := o.Properties()
	return Event{Kind: KindGroundOverlay, FeatureID: o.f.ID, GroundOverlay: &p}
}

func wrapFeature(f *parser.Feature, parent *Container, layer *Layer) Feature {
	b := feature{f: f, parent: parent, layer: layer}
	switch f.Kind {
	case KindMarker:
		return &Marker{b}
	case KindPolyline:
		return &Polyline{b}
	case KindPolygon:
		return &Polygon{b}
	case KindGroundOverlay:
		return &GroundOverlay{b}
	}
	return nil
}
