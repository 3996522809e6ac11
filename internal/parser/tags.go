package parser

import (
	"strings"
)

// unsupportedTags are skipped with all of their content wherever they appear.
// The list is kept stable so documents using these tags still load.
var unsupportedTags = makeTagSet(
	"altitude|altitudeModeGroup|altitudeMode|begin|bottomFov|cookie|displayName|displayMode|" +
		"end|expires|extrude|flyToView|gridOrigin|httpQuery|leftFov|linkDescription|linkName|" +
		"linkSnippet|listItemType|maxSnippetLines|maxSessionLength|message|minAltitude|" +
		"minFadeExtent|minLodPixels|minRefreshPeriod|maxAltitude|maxFadeExtent|maxLodPixels|" +
		"maxHeight|maxWidth|near|NetworkLink|NetworkLinkControl|overlayXY|range|refreshMode|" +
		"refreshInterval|refreshVisibility|rightFov|roll|rotationXY|screenXY|shape|sourceHref|" +
		"state|targetHref|tessellate|tileSize|topFov|viewBoundScale|viewFormat|viewRefreshMode|" +
		"viewRefreshTime|when|BalloonStyle")

// opaqueTags are structural blocks whose children reuse names we capture
// elsewhere (Region has north/south, LookAt has heading).
var opaqueTags = makeTagSet("Region|LookAt|Camera|TimeStamp|TimeSpan|Lod|LatLonAltBox|Snippet|ListStyle|LabelStyle")

const (
	tagDocument      = "Document"
	tagFolder        = "Folder"
	tagPlacemark     = "Placemark"
	tagGroundOverlay = "GroundOverlay"
	tagStyle         = "Style"
	tagStyleMap      = "StyleMap"
	tagVisibility    = "visibility"
	tagName          = "name"
	tagExtendedData  = "ExtendedData"
)

func makeTagSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Split(list, "|") {
		set[t] = true
	}
	return set
}

// IsUnsupportedTag reports whether tag is skipped entirely.
func IsUnsupportedTag(tag string) bool {
	return unsupportedTags[tag]
}

func isContainerTag(tag string) bool {
	return tag == tagDocument || tag == tagFolder
}
