package kml

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/beetlebugorg/kml/internal/archive"
	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/paulmach/orb"
	gokml "github.com/twpayne/go-kml"
)

// WriteKML writes the resolved layer as a KML document.
//
// Styles are written inline on each Placemark with their resolved values,
// so the output needs no shared styles or style maps. Containers keep their
// own visibility flags. Random-color icons are written with the color they
// resolved to.
func (l *Layer) WriteKML(w io.Writer) error {
	l.mu.RLock()
	root := gokml.Document(l.containerElements(l.root)...)
	l.mu.RUnlock()

	if err := gokml.KML(root).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}
	return nil
}

// WriteKMZ writes the layer as a KMZ archive holding doc.kml and the
// embedded images of the original archive.
func (l *Layer) WriteKMZ(w io.Writer) error {
	var doc bytes.Buffer
	if err := l.WriteKML(&doc); err != nil {
		return err
	}
	return archive.Write(w, doc.Bytes(), l.images)
}

func (l *Layer) containerElements(c *Container) []gokml.Element {
	elems := []gokml.Element{gokml.Visibility(c.c.Active)}
	if c.c.Name != "" {
		elems = append(elems, gokml.Name(c.c.Name))
	}
	for _, n := range c.children {
		switch n := n.(type) {
		case *Container:
			elems = append(elems, gokml.Folder(l.containerElements(n)...))
		case Feature:
			elems = append(elems, l.featureElement(n.raw()))
		}
	}
	return elems
}

func (l *Layer) featureElement(f *parser.Feature) gokml.Element {
	if f.Kind == KindGroundOverlay {
		return l.overlayElement(f)
	}

	elems := l.commonElements(f)
	res := f.Resolved
	switch f.Kind {
	case KindMarker:
		elems = append(elems,
			gokml.Style(markerStyle(res)),
			gokml.Point(gokml.Coordinates(coordinate(f.Point))),
		)
	case KindPolyline:
		elems = append(elems,
			gokml.Style(lineStyle(res)),
			gokml.LineString(gokml.Coordinates(coordinates(f.Path)...)),
		)
	case KindPolygon:
		boundaries := []gokml.Element{
			gokml.OuterBoundaryIs(gokml.LinearRing(gokml.Coordinates(coordinates(f.Outer)...))),
		}
		for _, h := range f.Holes {
			boundaries = append(boundaries,
				gokml.InnerBoundaryIs(gokml.LinearRing(gokml.Coordinates(coordinates(h)...))))
		}
		elems = append(elems,
			gokml.Style(
				lineStyle(res),
				gokml.PolyStyle(
					gokml.Color(kmlColor(res.FillColor)),
					gokml.Fill(res.Fill),
					gokml.Outline(res.Outline),
				),
			),
			gokml.Polygon(boundaries...),
		)
	}
	return gokml.Placemark(elems...)
}

func (l *Layer) commonElements(f *parser.Feature) []gokml.Element {
	elems := []gokml.Element{
		gokml.Name(f.Name),
		gokml.Visibility(f.Properties.Bool("visibility", l.defaults.Visibility)),
	}
	if f.Description != "" {
		elems = append(elems, gokml.Description(f.Description))
	}
	if len(f.ExtendedData) > 0 {
		data := make([]gokml.Element, 0, len(f.ExtendedData))
		for _, d := range f.ExtendedData {
			fields := []gokml.Element{gokml.Name(d.Name)}
			if d.DisplayName != nil {
				fields = append(fields, gokml.DisplayName(*d.DisplayName))
			}
			fields = append(fields, gokml.Value(d.Value))
			data = append(data, gokml.Data(fields...))
		}
		elems = append(elems, gokml.ExtendedData(data...))
	}
	return elems
}

func (l *Layer) overlayElement(f *parser.Feature) gokml.Element {
	o := f.Overlay
	elems := l.commonElements(f)
	if o.Color != nil {
		elems = append(elems, gokml.Color(kmlColor(*o.Color)))
	}
	if o.IconURL != "" {
		elems = append(elems, gokml.Icon(gokml.Href(o.IconURL)))
	}
	elems = append(elems, gokml.LatLonBox(
		gokml.North(o.Bound.Max.Lat()),
		gokml.South(o.Bound.Min.Lat()),
		gokml.East(o.Bound.Max.Lon()),
		gokml.West(o.Bound.Min.Lon()),
		gokml.Rotation(f.Resolved.Rotation),
	))
	return gokml.GroundOverlay(elems...)
}

func markerStyle(res *parser.Resolved) gokml.Element {
	icon := res.Style.Icon
	elems := []gokml.Element{
		gokml.Scale(res.Scale),
		gokml.Heading(res.Rotation),
	}
	switch {
	case icon.Random && res.Hue != nil:
		c := parser.ColorFromHue(*res.Hue)
		if icon.Color != nil {
			c.A = icon.Color.A
		}
		elems = append(elems, gokml.Color(kmlColor(c)))
	case icon.Color != nil:
		elems = append(elems, gokml.Color(kmlColor(*icon.Color)))
	}
	if icon.URL != "" {
		elems = append(elems, gokml.Icon(gokml.Href(icon.URL)))
	}
	if a := res.Anchor; a.IsFraction() {
		elems = append(elems, gokml.HotSpot(gokml.Vec2{
			X: a.X, Y: a.Y, XUnits: gokml.UnitsFraction, YUnits: gokml.UnitsFraction,
		}))
	}
	return gokml.IconStyle(elems...)
}

func lineStyle(res *parser.Resolved) gokml.Element {
	return gokml.LineStyle(
		gokml.Color(kmlColor(res.LineColor)),
		gokml.Width(res.LineWidth),
	)
}

// kmlColor hands c to go-kml, which writes the RGBA() channels as is.
// color.RGBA keeps the straight channels; NRGBA would premultiply them.
func kmlColor(c parser.Color) color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func coordinate(p orb.Point) gokml.Coordinate {
	return gokml.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
}

func coordinates[T ~[]orb.Point](pts T) []gokml.Coordinate {
	out := make([]gokml.Coordinate, len(pts))
	for i, p := range pts {
		out[i] = coordinate(p)
	}
	return out
}
