package kml

import (
	"image"
	"sync"

	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/sahilm/fuzzy"
)

// Layer is a parsed and resolved KML document.
//
// A Layer is safe for concurrent reads. SetActive on a container takes a
// write lock for the duration of the visibility update.
type Layer struct {
	mu sync.RWMutex

	doc      *parser.Document
	images   map[string]image.Image
	defaults Defaults

	root     *Container
	features []Feature // document order
	byID     map[uuid.UUID]Feature
	index    *spatialIndex
	bounds   orb.Bound
	events   Publisher
}

func newLayer(doc *parser.Document, images map[string]image.Image, defaults Defaults) *Layer {
	l := &Layer{
		doc:      doc,
		images:   images,
		defaults: defaults,
		byID:     make(map[uuid.UUID]Feature),
	}
	l.root = wrapContainer(doc.Root, nil, l, &l.features)
	for _, f := range l.features {
		l.byID[f.ID()] = f
	}
	l.index, l.bounds = buildSpatialIndex(l.features)
	return l
}

// Root returns the top-level container.
func (l *Layer) Root() *Container {
	return l.root
}

// Events returns the click-event publisher of the layer.
func (l *Layer) Events() *Publisher {
	return &l.events
}

// Features returns every feature in document order.
func (l *Layer) Features() []Feature {
	out := make([]Feature, len(l.features))
	copy(out, l.features)
	return out
}

// FeatureCount returns the number of features in the layer.
func (l *Layer) FeatureCount() int {
	return len(l.features)
}

// Bounds returns the smallest box containing every feature.
// The zero Bound is returned for a layer without features.
func (l *Layer) Bounds() orb.Bound {
	return l.bounds
}

// FeaturesInBounds returns the features intersecting b, in document order.
//
// Example:
//
//	viewport := orb.Bound{Min: orb.Point{-122.5, 37.5}, Max: orb.Point{-122.0, 38.0}}
//	for _, f := range layer.FeaturesInBounds(viewport) {
//	    if f.Visible() {
//	        render(f)
//	    }
//	}
func (l *Layer) FeaturesInBounds(b orb.Bound) []Feature {
	if len(l.features) == 0 {
		return nil
	}
	return l.index.query(b)
}

// Feature returns the feature with the given id.
func (l *Layer) Feature(id uuid.UUID) (Feature, bool) {
	f, ok := l.byID[id]
	return f, ok
}

// Images returns the images shipped in the KMZ archive, keyed by entry name.
func (l *Layer) Images() map[string]image.Image {
	return l.images
}

// Click emits a click event for the feature with the given id.
func (l *Layer) Click(id uuid.UUID) error {
	f, ok := l.byID[id]
	if !ok {
		return &ErrFeatureNotFound{ID: id}
	}
	l.events.Emit(f.event())
	return nil
}

// SearchResult is one fuzzy match of Layer.Search.
type SearchResult struct {
	Feature Feature

	// Score ranks matches; higher is better.
	Score int

	// MatchedIndexes are the byte offsets in the name that matched the query.
	MatchedIndexes []int
}

type featureNames []Feature

func (n featureNames) String(i int) string { return n[i].Name() }
func (n featureNames) Len() int { return len(n) }

// Search finds features whose names fuzzily match query, best match first.
// Features without a name never match.
func (l *Layer) Search(query string) []SearchResult {
	matches := fuzzy.FindFrom(query, featureNames(l.features))
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{
			Feature:        l.features[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return out
}
