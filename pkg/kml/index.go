package kml

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent pads zero-width bounds; the R-tree needs non-zero lengths.
// About 11 meters at the equator.
const minExtent = 0.0001

// spatialIndex answers bounding-box queries over all features of a layer.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature wraps a feature for R-tree storage.
type indexedFeature struct {
	feature Feature
	order   int // position in document order
	bounds  orb.Bound
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	return toRect(f.bounds)
}

func toRect(b orb.Bound) rtreego.Rect {
	point := rtreego.Point{b.Min.Lon(), b.Min.Lat()}

	lonLength := b.Max.Lon() - b.Min.Lon()
	latLength := b.Max.Lat() - b.Min.Lat()
	if lonLength < minExtent {
		lonLength = minExtent
	}
	if latLength < minExtent {
		latLength = minExtent
	}

	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}

// buildSpatialIndex indexes features and returns their combined bounds.
func buildSpatialIndex(features []Feature) (*spatialIndex, orb.Bound) {
	// 2D, min=25 children, max=50 children
	rtree := rtreego.NewTree(2, 25, 50)

	var all orb.Bound
	for i, f := range features {
		fb := f.Bound()
		rtree.Insert(&indexedFeature{feature: f, order: i, bounds: fb})
		if i == 0 {
			all = fb
		} else {
			all = all.Union(fb)
		}
	}
	return &spatialIndex{rtree: rtree}, all
}

// query returns the features whose bounds intersect b, in document order.
func (idx *spatialIndex) query(b orb.Bound) []Feature {
	spatials := idx.rtree.SearchIntersect(toRect(b))

	hits := make([]*indexedFeature, 0, len(spatials))
	for _, s := range spatials {
		hits = append(hits, s.(*indexedFeature))
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].order < hits[j].order })

	result := make([]Feature, len(hits))
	for i, h := range hits {
		result[i] = h.feature
	}
	return result
}
