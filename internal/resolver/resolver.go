// Package resolver binds parsed features to their effective styles.
//
// Resolution runs once per parsed document. A sequential top-down walk
// resolves style references, cascades visibility and derives colors; icon
// images that need a network fetch are collected during the walk and then
// fetched on a bounded worker pool before Resolve returns.
package resolver

import (
	"context"
	"image"
	"math/rand"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/beetlebugorg/kml/internal/metrics"
	"github.com/beetlebugorg/kml/internal/parser"
	"go.uber.org/zap"
)

// Options controls resolution.
type Options struct {
	// Defaults supplies the all-defaults style and default visibility.
	Defaults parser.Defaults

	// Images are embedded images keyed by archive entry name.
	Images map[string]image.Image

	// Fetcher loads https icons. Nil disables network fetches.
	Fetcher Fetcher

	// Workers bounds concurrent icon fetches. If 0, defaults to runtime.NumCPU().
	Workers int

	// Rand drives colorMode random. Nil uses a time-seeded source.
	Rand *rand.Rand

	// Progress is called after each icon fetch task with (done, total).
	Progress func(done, total int)

	Logger *zap.Logger
}

// DefaultOptions returns options with standard defaults and no fetcher.
func DefaultOptions() Options {
	return Options{
		Defaults: parser.StandardDefaults(),
		Workers:  runtime.NumCPU(),
	}
}

type resolver struct {
	opts     Options
	log      *zap.Logger
	catalog  *parser.Catalog
	fallback *parser.Style
	rng      *rand.Rand
	fetches  map[string]*iconTask
	order    []string
}

// Resolve resolves every feature of doc in place.
//
// Missing styles and failed icon fetches degrade to defaults and never
// fail the call. The returned error is non-nil only when ctx ended before
// all icon fetches finished; the tree is fully resolved either way.
func Resolve(ctx context.Context, doc *parser.Document, opts Options) error {
	r := &resolver{
		opts:     opts,
		log:      opts.Logger,
		catalog:  doc.Catalog,
		fallback: opts.Defaults.Style(""),
		rng:      opts.Rand,
		fetches:  make(map[string]*iconTask),
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.catalog == nil {
		r.catalog = parser.NewCatalog()
	}

	r.container(doc.Root, true)

	tasks := make([]*iconTask, 0, len(r.order))
	for _, u := range r.order {
		tasks = append(tasks, r.fetches[u])
	}
	r.runTasks(ctx, tasks)
	return ctx.Err()
}

// container resolves c's visibility and then its children, in order.
// A container whose own flag is false hides its whole subtree.
func (r *resolver) container(c *parser.Container, parentVisible bool) {
	c.Visible = c.Active && parentVisible
	for _, n := range c.Children {
		switch n := n.(type) {
		case *parser.Container:
			r.container(n, c.Visible)
		case *parser.Feature:
			r.feature(n, c.Visible)
		}
	}
}

func (r *resolver) feature(f *parser.Feature, parentVisible bool) {
	d := r.opts.Defaults
	st := r.style(f)
	res := &parser.Resolved{
		Style:   st,
		Visible: f.Properties.Bool("visibility", d.Visibility) && parentVisible,
		Alpha:   d.Alpha,
		Scale:   d.IconScale,
		Anchor:  d.IconAnchor,
	}

	switch f.Kind {
	case parser.KindMarker:
		r.marker(f, st, res)
	case parser.KindPolyline:
		res.LineColor = st.Line.Color
		res.LineWidth = st.Line.Width
	case parser.KindPolygon:
		res.LineColor = st.Line.Color
		res.LineWidth = st.Line.Width
		res.FillColor = st.Poly.Color
		res.Fill = st.Poly.Fill
		res.Outline = st.Poly.Outline
	case parser.KindGroundOverlay:
		r.groundOverlay(f, res)
	}

	f.Resolved = res
	metrics.FeaturesTotal.WithLabelValues(f.Kind.String()).Inc()
}

// style returns the effective style of f: its inline style, else the
// styleUrl resolved through the catalog, else the all-defaults style.
func (r *resolver) style(f *parser.Feature) *parser.Style {
	if f.InlineStyle != nil {
		return f.InlineStyle
	}
	if f.StyleURL == "" {
		return r.fallback
	}
	if st, ok := r.catalog.Lookup(f.StyleURL); ok {
		return st
	}
	r.log.Debug("Unresolved style reference, using defaults",
		zap.String("styleUrl", f.StyleURL), zap.String("feature", f.Name))
	metrics.StyleUnresolvedTotal.Inc()
	return r.fallback
}

func (r *resolver) marker(f *parser.Feature, st *parser.Style, res *parser.Resolved) {
	icon := st.Icon
	res.Alpha = icon.Alpha
	res.Rotation = icon.Heading
	res.Scale = icon.Scale
	res.Anchor = icon.Anchor
	if !icon.Anchor.IsFraction() {
		res.Anchor = r.opts.Defaults.IconAnchor
	}

	if icon.Color != nil {
		c := *icon.Color
		if icon.Random {
			c = parser.ComputeRandomColor(c, r.rng)
		}
		h := c.Hue()
		res.Hue = &h
	}

	// Fallback first; a successful embedded lookup or fetch replaces it.
	if res.Hue != nil {
		res.Icon = parser.Icon{Source: parser.IconDefaultColored, URL: icon.URL, Hue: res.Hue}
	} else {
		res.Icon = parser.Icon{Source: parser.IconDefault, URL: icon.URL}
	}
	r.icon(f, icon.URL, res)
}

func (r *resolver) groundOverlay(f *parser.Feature, res *parser.Resolved) {
	o := f.Overlay
	res.Rotation = o.Rotation
	if o.Color != nil {
		res.Alpha = o.Color.Alpha()
	}
	res.Icon = parser.Icon{Source: parser.IconNone, URL: o.IconURL}
	r.icon(f, o.IconURL, res)
}

// icon resolves an icon from the embedded images or queues a fetch.
func (r *resolver) icon(f *parser.Feature, href string, res *parser.Resolved) {
	if href == "" {
		return
	}
	if img, ok := r.opts.Images[href]; ok {
		res.Icon = parser.Icon{Source: parser.IconEmbedded, URL: href, Image: img, Hue: res.Hue}
		return
	}
	switch scheme := schemeOf(href); {
	case scheme == "":
		r.log.Debug("Icon not among embedded images",
			zap.String("href", href), zap.String("feature", f.Name))
		return
	case !strings.EqualFold(scheme, "https"):
		r.log.Info("Skipping icon with insecure scheme",
			zap.String("url", href), zap.String("feature", f.Name))
		metrics.IconFetchTotal.WithLabelValues(metrics.FetchInsecure).Inc()
		return
	case r.opts.Fetcher == nil:
		return
	}

	task, ok := r.fetches[href]
	if !ok {
		task = &iconTask{url: href}
		r.fetches[href] = task
		r.order = append(r.order, href)
	}
	task.targets = append(task.targets, res)
}

// schemeOf returns the URL scheme of href, or "" for relative references.
func schemeOf(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		// Unparsable references are never fetched.
		return "invalid"
	}
	return u.Scheme
}
