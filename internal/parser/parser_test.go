package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func mustParse(t *testing.T, doc string) *Document {
	t.Helper()
	d, err := NewParser().Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	return d
}

func TestParseNestedContainers(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>root</name>
    <Folder>
      <name>A</name>
      <Folder>
        <name>B</name>
        <Placemark>
          <name>pin</name>
          <Point><coordinates>-122.08,37.42,0</coordinates></Point>
        </Placemark>
      </Folder>
    </Folder>
  </Document>
</kml>`)

	root := doc.Root
	if root.Name != "root" {
		t.Errorf("root name = %q, want %q", root.Name, "root")
	}
	a := root.Containers()
	if len(a) != 1 || a[0].Name != "A" {
		t.Fatalf("root containers = %+v, want one named A", a)
	}
	b := a[0].Containers()
	if len(b) != 1 || b[0].Name != "B" {
		t.Fatalf("A containers = %+v, want one named B", b)
	}
	markers := b[0].Features(KindMarker)
	if len(markers) != 1 {
		t.Fatalf("B markers = %d, want 1", len(markers))
	}
	m := markers[0]
	if m.Point.Lon() != -122.08 || m.Point.Lat() != 37.42 {
		t.Errorf("marker point = %v, want lon -122.08 lat 37.42", m.Point)
	}
	if m.Name != "pin" {
		t.Errorf("marker name = %q, want pin", m.Name)
	}
	if len(a[0].Features(0)) != 0 {
		t.Error("Features on A must not include B's marker")
	}
}

func TestParseStylesAndStyleMaps(t *testing.T) {
	doc := mustParse(t, `<kml><Document>
  <Placemark>
    <styleUrl>#map</styleUrl>
    <Point><coordinates>1,2</coordinates></Point>
  </Placemark>
  <StyleMap id="map">
    <Pair><key>normal</key><styleUrl>#s1</styleUrl></Pair>
    <Pair><key>highlight</key><styleUrl>#s2</styleUrl></Pair>
  </StyleMap>
  <Style id="s1">
    <IconStyle>
      <color>ffff0000</color>
      <colorMode>random</colorMode>
      <scale>1.5</scale>
      <heading>45</heading>
      <Icon><href>https://example.com/pin.png</href></Icon>
      <hotSpot x="0.25" y="0.75" xunits="fraction" yunits="fraction"/>
    </IconStyle>
    <LineStyle><color>7f0000ff</color><width>4</width></LineStyle>
    <PolyStyle><color>ff00ff00</color><fill>0</fill><outline>1</outline></PolyStyle>
    <BalloonStyle><text>ignored</text></BalloonStyle>
  </Style>
  <Style id="#s2"/>
</Document></kml>`)

	cat := doc.Catalog
	if _, ok := cat.Styles["#s2"]; !ok {
		t.Error("style #s2 not found under single-hash id")
	}
	if _, ok := cat.Styles["##s2"]; ok {
		t.Error("style id kept a double hash")
	}

	m, ok := cat.StyleMaps["#map"]
	if !ok {
		t.Fatal("style map #map not in catalog")
	}
	if m.Normal != "#s1" {
		t.Errorf("Normal = %q, want #s1", m.Normal)
	}
	if m.Pairs["highlight"] != "#s2" {
		t.Errorf("Pairs[highlight] = %q, want #s2", m.Pairs["highlight"])
	}

	st, ok := cat.Lookup("#map")
	if !ok || st.ID != "#s1" {
		t.Fatalf("Lookup(#map) = %+v, %v; want #s1", st, ok)
	}
	if st.Icon.URL != "https://example.com/pin.png" {
		t.Errorf("Icon.URL = %q", st.Icon.URL)
	}
	if st.Icon.Scale != 1.5 || st.Icon.Heading != 45 {
		t.Errorf("scale/heading = %f/%f, want 1.5/45", st.Icon.Scale, st.Icon.Heading)
	}
	if !st.Icon.Random {
		t.Error("colorMode random not recorded")
	}
	if st.Icon.Hue == nil || *st.Icon.Hue != 240 {
		t.Errorf("Icon.Hue = %v, want 240", st.Icon.Hue)
	}
	if st.Icon.Anchor != (Anchor{X: 0.25, Y: 0.75, XUnits: UnitsFraction, YUnits: UnitsFraction}) {
		t.Errorf("Anchor = %+v", st.Icon.Anchor)
	}
	if st.Line.Width != 4 || st.Line.Color != (Color{A: 0x7f, R: 0xff}) {
		t.Errorf("Line = %+v", st.Line)
	}
	if st.Poly.Fill || !st.Poly.Outline || st.Poly.Color != (Color{A: 0xff, G: 0xff}) {
		t.Errorf("Poly = %+v", st.Poly)
	}

	// A reference without a style map is a direct style id.
	if st, ok := cat.Lookup("s2"); !ok || st.ID != "#s2" {
		t.Errorf("Lookup(s2) = %+v, %v", st, ok)
	}
	if _, ok := cat.Lookup("#nope"); ok {
		t.Error("Lookup of unknown id succeeded")
	}

	// Defaults survive for unset values.
	s2 := cat.Styles["#s2"]
	d := StandardDefaults()
	if s2.Icon.Scale != d.IconScale || s2.Line.Width != d.LineWidth || !s2.Poly.Fill {
		t.Errorf("style #s2 = %+v, want defaults", s2)
	}
}

func TestParseStyleMapPairOrder(t *testing.T) {
	doc := mustParse(t, `<kml><Document>
  <StyleMap id="m">
    <Pair>
      <Style><IconStyle><scale>2</scale></IconStyle></Style>
      <key>normal</key>
    </Pair>
    <Pair><styleUrl>#hl</styleUrl><key>highlight</key></Pair>
  </StyleMap>
</Document></kml>`)

	m := doc.Catalog.StyleMaps["#m"]
	if m == nil {
		t.Fatal("style map #m not in catalog")
	}
	if m.Normal != "#m-normal" {
		t.Errorf("Normal = %q, want #m-normal", m.Normal)
	}
	if m.Pairs["highlight"] != "#hl" {
		t.Errorf("Pairs[highlight] = %q, want #hl", m.Pairs["highlight"])
	}
	if _, ok := m.Pairs[""]; ok {
		t.Errorf("Pairs has an empty key: %v", m.Pairs)
	}

	st, ok := doc.Catalog.Lookup("#m")
	if !ok {
		t.Fatal("Lookup(#m) failed")
	}
	if st.Icon.Scale != 2 {
		t.Errorf("Icon.Scale = %f, want 2", st.Icon.Scale)
	}
}

func TestParseHotSpotNonNumeric(t *testing.T) {
	tests := []struct {
		name string
		attr string
		want Anchor
	}{
		{"non-numeric x", `x="abc" y="0.2"`, Anchor{X: 0.5, Y: 0.2, XUnits: UnitsFraction, YUnits: UnitsFraction}},
		{"non-numeric y", `x="0.1" y=""`, Anchor{X: 0.1, Y: 1, XUnits: UnitsFraction, YUnits: UnitsFraction}},
		{"missing both", `xunits="fraction"`, Anchor{X: 0.5, Y: 1, XUnits: UnitsFraction, YUnits: UnitsFraction}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `<kml><Document><Style id="s"><IconStyle><hotSpot `+tt.attr+`/></IconStyle></Style></Document></kml>`)
			got := doc.Catalog.Styles["#s"].Icon.Anchor
			if got != tt.want {
				t.Errorf("Anchor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePolygonWithHoles(t *testing.T) {
	doc := mustParse(t, `<kml><Placemark><Polygon>
  <tessellate>1</tessellate>
  <outerBoundaryIs><LinearRing><coordinates>
    0,0 10,0 10,10 0,0
  </coordinates></LinearRing></outerBoundaryIs>
  <innerBoundaryIs><LinearRing><coordinates>
    1,1 2,1 2,2 1,1
  </coordinates></LinearRing></innerBoundaryIs>
  <innerBoundaryIs><LinearRing><coordinates>
    5,5 6,5 6,6 5,5
  </coordinates></LinearRing></innerBoundaryIs>
</Polygon></Placemark></kml>`)

	polys := doc.Root.Features(KindPolygon)
	if len(polys) != 1 {
		t.Fatalf("polygons = %d, want 1", len(polys))
	}
	p := polys[0]
	if len(p.Outer) != 4 {
		t.Errorf("outer points = %d, want 4", len(p.Outer))
	}
	if len(p.Holes) != 2 {
		t.Fatalf("holes = %d, want 2", len(p.Holes))
	}
	for i, h := range p.Holes {
		if len(h) != 4 {
			t.Errorf("hole %d points = %d, want 4", i, len(h))
		}
	}
	if p.Holes[0][0] != (orb.Point{1, 1}) || p.Holes[1][0] != (orb.Point{5, 5}) {
		t.Errorf("holes out of declaration order: %v", p.Holes)
	}
	if p.Properties["tessellate"] != "1" {
		t.Errorf("tessellate = %q, want 1", p.Properties["tessellate"])
	}
}

func TestParseMultiGeometry(t *testing.T) {
	doc := mustParse(t, `<kml><Folder><Placemark>
  <name>multi</name>
  <description>shared</description>
  <MultiGeometry>
    <Point><coordinates>1,2</coordinates></Point>
    <LineString><coordinates>1,2 3,4</coordinates></LineString>
    <MultiGeometry><Point><coordinates>5,6</coordinates></Point></MultiGeometry>
  </MultiGeometry>
</Placemark></Folder></kml>`)

	all := doc.Root.Features(0)
	if len(all) != 3 {
		t.Fatalf("features = %d, want 3", len(all))
	}
	kinds := []FeatureKind{KindMarker, KindPolyline, KindMarker}
	for i, f := range all {
		if f.Kind != kinds[i] {
			t.Errorf("feature %d kind = %v, want %v", i, f.Kind, kinds[i])
		}
		if f.Name != "multi" || f.Description != "shared" {
			t.Errorf("feature %d does not share placemark properties: %q %q", i, f.Name, f.Description)
		}
	}
	if all[0].ID == all[2].ID {
		t.Error("features from one placemark share an id")
	}
}

func TestParseGroundOverlay(t *testing.T) {
	doc := mustParse(t, `<kml><Document><GroundOverlay>
  <name>overlay</name>
  <color>80ffffff</color>
  <Icon><href>etna.jpg</href><refreshMode>onInterval</refreshMode></Icon>
  <LatLonBox>
    <north>37.91</north><south>37.46</south>
    <east>15.35</east><west>14.60</west>
    <rotation>-0.17</rotation>
  </LatLonBox>
</GroundOverlay></Document></kml>`)

	overlays := doc.Root.Features(KindGroundOverlay)
	if len(overlays) != 1 {
		t.Fatalf("overlays = %d, want 1", len(overlays))
	}
	o := overlays[0].Overlay
	want := orb.Bound{Min: orb.Point{14.60, 37.46}, Max: orb.Point{15.35, 37.91}}
	if o.Bound != want {
		t.Errorf("Bound = %v, want %v", o.Bound, want)
	}
	if o.Rotation != -0.17 {
		t.Errorf("Rotation = %f, want -0.17", o.Rotation)
	}
	if o.IconURL != "etna.jpg" {
		t.Errorf("IconURL = %q, want etna.jpg", o.IconURL)
	}
	if o.Color == nil || o.Color.A != 0x80 {
		t.Errorf("Color = %+v, want alpha 0x80", o.Color)
	}
}

func TestParseExtendedData(t *testing.T) {
	doc := mustParse(t, `<kml><Placemark>
  <ExtendedData>
    <Data name="holeNumber"><displayName>Hole</displayName><value>1</value></Data>
    <Data name="par"><value>4</value></Data>
    <value>stray</value>
    <SchemaData schemaUrl="#s"><SimpleData name="kind">tee</SimpleData></SchemaData>
    <Data><name>yards</name><value>410</value></Data>
  </ExtendedData>
  <Point><coordinates>1,2</coordinates></Point>
</Placemark></kml>`)

	f := doc.Root.Features(KindMarker)[0]
	if len(f.ExtendedData) != 5 {
		t.Fatalf("extended data = %d entries, want 5: %+v", len(f.ExtendedData), f.ExtendedData)
	}
	first := f.ExtendedData[0]
	if first.Name != "holeNumber" || first.Value != "1" || first.DisplayName == nil || *first.DisplayName != "Hole" {
		t.Errorf("first entry = %+v", first)
	}
	if f.ExtendedData[1].DisplayName != nil {
		t.Error("entry without displayName has one")
	}
	if f.ExtendedData[2].Name != "" || f.ExtendedData[2].Value != "stray" {
		t.Errorf("stray value entry = %+v, want empty name", f.ExtendedData[2])
	}
	if f.ExtendedData[3].Name != "kind" || f.ExtendedData[3].Value != "tee" {
		t.Errorf("simple data entry = %+v", f.ExtendedData[3])
	}
	if f.ExtendedData[4].Name != "yards" || f.ExtendedData[4].Value != "410" {
		t.Errorf("name child entry = %+v", f.ExtendedData[4])
	}
}

func TestParseSkipsUnsupportedTags(t *testing.T) {
	doc := mustParse(t, `<kml xmlns:atom="http://www.w3.org/2005/Atom"><Document>
  <atom:author><atom:name>not a container name</atom:name></atom:author>
  <name>kept</name>
  <NetworkLink><name>link</name><Link><href>x.kml</href></Link></NetworkLink>
  <LookAt><heading>10</heading><range>100</range></LookAt>
  <ScreenOverlay><name>screen</name></ScreenOverlay>
  <visibility>0</visibility>
  <Placemark>
    <TimeStamp><when>2020-01-01</when></TimeStamp>
    <Point><extrude>1</extrude><altitudeMode>absolute</altitudeMode><coordinates>1,2</coordinates></Point>
  </Placemark>
</Document></kml>`)

	if doc.Root.Name != "kept" {
		t.Errorf("root name = %q, want kept", doc.Root.Name)
	}
	if doc.Root.Active {
		t.Error("visibility 0 not applied to container")
	}
	if len(doc.Root.Children) != 1 {
		t.Errorf("children = %d, want 1", len(doc.Root.Children))
	}
	for _, tag := range []string{"NetworkLink", "BalloonStyle", "tessellate", "when", "viewRefreshTime"} {
		if !IsUnsupportedTag(tag) {
			t.Errorf("IsUnsupportedTag(%q) = false", tag)
		}
	}
}

func TestParseBareRootFeature(t *testing.T) {
	doc := mustParse(t, `<kml><Placemark><name>solo</name><LineString><coordinates>1,2 3,4</coordinates></LineString></Placemark></kml>`)

	if doc.Root.Name != "" {
		t.Errorf("synthetic root name = %q, want empty", doc.Root.Name)
	}
	lines := doc.Root.Features(KindPolyline)
	if len(lines) != 1 || len(lines[0].Path) != 2 {
		t.Fatalf("root polylines = %+v", lines)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	doc := mustParse(t, `<kml></kml>`)
	if doc.Root == nil || len(doc.Root.Children) != 0 {
		t.Errorf("empty document root = %+v", doc.Root)
	}
}

func TestParseInlineStyle(t *testing.T) {
	doc := mustParse(t, `<kml><Placemark>
  <Style><LineStyle><width>9</width></LineStyle></Style>
  <LineString><coordinates>1,2 3,4</coordinates></LineString>
</Placemark></kml>`)

	f := doc.Root.Features(KindPolyline)[0]
	if f.InlineStyle == nil || f.InlineStyle.Line.Width != 9 {
		t.Errorf("InlineStyle = %+v, want width 9", f.InlineStyle)
	}
	if len(doc.Catalog.Styles) != 0 {
		t.Errorf("inline style leaked into catalog: %v", doc.Catalog.Styles)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(error) bool
	}{
		{
			name: "point without coordinates",
			doc:  `<kml><Placemark><Point></Point></Placemark></kml>`,
			check: func(err error) bool {
				var e *ErrMissingGeometry
				return errors.As(err, &e) && e.Kind == KindMarker
			},
		},
		{
			name: "linestring without coordinates",
			doc:  `<kml><Placemark><LineString><tessellate>1</tessellate></LineString></Placemark></kml>`,
			check: func(err error) bool {
				var e *ErrMissingGeometry
				return errors.As(err, &e) && e.Kind == KindPolyline
			},
		},
		{
			name: "empty inner boundary",
			doc: `<kml><Placemark><Polygon>
<outerBoundaryIs><LinearRing><coordinates>0,0 1,0 1,1 0,0</coordinates></LinearRing></outerBoundaryIs>
<innerBoundaryIs><LinearRing></LinearRing></innerBoundaryIs>
</Polygon></Placemark></kml>`,
			check: func(err error) bool {
				var e *ErrMissingGeometry
				return errors.As(err, &e) && e.Kind == KindPolygon
			},
		},
		{
			name: "overlay missing west",
			doc:  `<kml><GroundOverlay><LatLonBox><north>1</north><south>0</south><east>1</east></LatLonBox></GroundOverlay></kml>`,
			check: func(err error) bool {
				var e *ErrMissingGeometry
				return errors.As(err, &e) && e.Kind == KindGroundOverlay
			},
		},
		{
			name: "malformed coordinate",
			doc:  `<kml><Placemark><Point><coordinates>east,north</coordinates></Point></Placemark></kml>`,
			check: func(err error) bool {
				var e *ErrMalformedCoordinate
				return errors.As(err, &e)
			},
		},
		{
			name: "malformed color",
			doc:  `<kml><Document><Style id="s"><LineStyle><color>red</color></LineStyle></Style></Document></kml>`,
			check: func(err error) bool {
				var e *ErrMalformedColor
				return errors.As(err, &e)
			},
		},
		{
			name: "truncated document",
			doc:  `<kml><Document><Folder><name>x</name>`,
			check: func(err error) bool {
				return err != nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error type: %v", err)
			}
		})
	}
}

func TestParseWithValidation(t *testing.T) {
	doc := `<kml><Placemark><Point><coordinates>200,10</coordinates></Point></Placemark></kml>`

	if _, err := NewParser().Parse(strings.NewReader(doc)); err != nil {
		t.Fatalf("default options rejected out-of-range point: %v", err)
	}

	opts := DefaultParseOptions()
	opts.ValidateCoordinates = true
	_, err := NewParser().ParseWithOptions(strings.NewReader(doc), opts)
	var e *ErrInvalidCoordinate
	if !errors.As(err, &e) {
		t.Errorf("error = %v, want *ErrInvalidCoordinate", err)
	}
}

func TestPlacemarkWithoutGeometryIsDropped(t *testing.T) {
	doc := mustParse(t, `<kml><Folder><Placemark><name>nothing</name></Placemark></Folder></kml>`)
	if len(doc.Root.Children) != 0 {
		t.Errorf("children = %d, want 0", len(doc.Root.Children))
	}
}
