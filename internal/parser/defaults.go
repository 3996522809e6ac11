package parser

// UnitsFraction is the only hot-spot unit honored for icon anchors.
const UnitsFraction = "fraction"

// Anchor is the icon hot spot. X and Y are fractions of the icon size
// when both units are UnitsFraction.
type Anchor struct {
	X, Y           float64
	XUnits, YUnits string
}

// IsFraction reports whether both axes use fraction units.
func (a Anchor) IsFraction() bool {
	return a.XUnits == UnitsFraction && a.YUnits == UnitsFraction
}

// Defaults holds every value used when a document leaves something unset.
//
// One Defaults value is shared by parsing (initial style and feature values)
// and resolution (the all-defaults style for unresolved references).
type Defaults struct {
	IconScale   float64
	IconHeading float64
	IconAnchor  Anchor
	Alpha       float64

	LineColor Color
	LineWidth float64

	FillColor Color
	Fill      bool
	Outline   bool

	DrawOrder       float64
	Visibility      bool
	OverlayRotation float64
}

// StandardDefaults returns the defaults of the KML 2.2 reference behavior.
func StandardDefaults() Defaults {
	return Defaults{
		IconScale:       1,
		IconHeading:     0,
		IconAnchor:      Anchor{X: 0.5, Y: 1.0, XUnits: UnitsFraction, YUnits: UnitsFraction},
		Alpha:           1,
		LineColor:       Color{A: 0xff},
		LineWidth:       1,
		FillColor:       Color{A: 0xff},
		Fill:            true,
		Outline:         true,
		DrawOrder:       0,
		Visibility:      true,
		OverlayRotation: 0,
	}
}

// Style returns a style carrying only default values.
func (d Defaults) Style(id string) *Style {
	return &Style{
		ID: NormalizeStyleID(id),
		Icon: IconStyle{
			Scale:   d.IconScale,
			Heading: d.IconHeading,
			Anchor:  d.IconAnchor,
			Alpha:   d.Alpha,
		},
		Line: LineStyle{
			Color: d.LineColor,
			Width: d.LineWidth,
		},
		Poly: PolyStyle{
			Color:   d.FillColor,
			Fill:    d.Fill,
			Outline: d.Outline,
		},
	}
}
