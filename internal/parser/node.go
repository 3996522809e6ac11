package parser

import (
	"image"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// FeatureKind identifies the variant of a Feature.
type FeatureKind int

const (
	KindMarker FeatureKind = iota + 1
	KindPolyline
	KindPolygon
	KindGroundOverlay
)

func (k FeatureKind) String() string {
	switch k {
	case KindMarker:
		return "Marker"
	case KindPolyline:
		return "Polyline"
	case KindPolygon:
		return "Polygon"
	case KindGroundOverlay:
		return "GroundOverlay"
	default:
		return "Unknown"
	}
}

// Node is a child of a container: either *Container or *Feature.
type Node interface {
	node()
}

// Container is a Document or Folder.
type Container struct {
	Name string

	// Active is the container's own visibility flag.
	Active bool

	Children []Node

	// Visible is set by the resolver: Active AND the parent's Visible.
	Visible bool
}

func (*Container) node() {}

// Containers returns the direct child containers.
func (c *Container) Containers() []*Container {
	var out []*Container
	for _, n := range c.Children {
		if cc, ok := n.(*Container); ok {
			out = append(out, cc)
		}
	}
	return out
}

// Features returns the direct child features of the given kind, or all of them when kind is 0.
func (c *Container) Features(kind FeatureKind) []*Feature {
	var out []*Feature
	for _, n := range c.Children {
		if f, ok := n.(*Feature); ok && (kind == 0 || f.Kind == kind) {
			out = append(out, f)
		}
	}
	return out
}

// Walk calls fn for every feature in the subtree in document order.
func (c *Container) Walk(fn func(parent *Container, f *Feature)) {
	for _, n := range c.Children {
		switch n := n.(type) {
		case *Container:
			n.Walk(fn)
		case *Feature:
			fn(c, n)
		}
	}
}

// ExtendedData is one Data entry of an ExtendedData block.
type ExtendedData struct {
	Name        string
	DisplayName *string
	Value       string
}

// GroundOverlay is the payload of a KindGroundOverlay feature.
type GroundOverlay struct {
	Bound    orb.Bound
	Rotation float64
	IconURL  string
	Color    *Color
}

// Feature is a renderable leaf. Kind selects which geometry field is set.
type Feature struct {
	ID   uuid.UUID
	Kind FeatureKind

	Name         string
	Description  string
	DrawOrder    float64
	StyleURL     string
	ExtendedData []ExtendedData
	Properties   Properties

	// InlineStyle is a Style declared inside the Placemark itself.
	InlineStyle *Style

	// Line is the decoder line of the enclosing Placemark or GroundOverlay.
	Line int

	Point   orb.Point      // KindMarker
	Path    orb.LineString // KindPolyline
	Outer   orb.Ring       // KindPolygon
	Holes   []orb.Ring     // KindPolygon
	Overlay *GroundOverlay // KindGroundOverlay

	// Resolved is nil until the resolver has run.
	Resolved *Resolved
}

func (*Feature) node() {}

// Geometry returns the feature geometry as an orb.Geometry.
func (f *Feature) Geometry() orb.Geometry {
	switch f.Kind {
	case KindMarker:
		return f.Point
	case KindPolyline:
		return f.Path
	case KindPolygon:
		poly := make(orb.Polygon, 0, 1+len(f.Holes))
		poly = append(poly, f.Outer)
		return append(poly, f.Holes...)
	case KindGroundOverlay:
		if f.Overlay != nil {
			return f.Overlay.Bound
		}
	}
	return nil
}

// IconSource says where a resolved icon came from.
type IconSource int

const (
	IconNone IconSource = iota
	IconEmbedded
	IconFetched
	IconDefaultColored
	IconDefault
)

func (s IconSource) String() string {
	switch s {
	case IconEmbedded:
		return "embedded"
	case IconFetched:
		return "fetched"
	case IconDefaultColored:
		return "default-colored"
	case IconDefault:
		return "default"
	default:
		return "none"
	}
}

// Icon is a materialized icon. Image is nil for the default glyph sources.
type Icon struct {
	Source IconSource
	URL    string
	Image  image.Image
	Hue    *float64
}

// Resolved holds the values derived for a feature by the style resolver.
type Resolved struct {
	Style   *Style
	Visible bool

	Alpha    float64
	Anchor   Anchor
	Rotation float64
	Scale    float64
	Hue      *float64
	Icon     Icon

	LineColor Color
	LineWidth float64

	FillColor Color
	Fill      bool
	Outline   bool
}
