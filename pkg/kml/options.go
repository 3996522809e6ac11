package kml

import (
	"runtime"
	"time"

	"github.com/beetlebugorg/kml/internal/iconcache"
	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/beetlebugorg/kml/internal/resolver"
	"go.uber.org/zap"
)

// Defaults holds every value used when a document leaves something unset.
type Defaults = parser.Defaults

// StandardDefaults returns the KML 2.2 reference defaults.
func StandardDefaults() Defaults {
	return parser.StandardDefaults()
}

// Fetcher loads the bytes behind an https icon URL.
type Fetcher = resolver.Fetcher

// IconCache stores fetched icon bytes keyed by URL.
type IconCache = iconcache.Cache

// NewHTTPFetcher returns a Fetcher that only follows https redirects and
// gives up after timeout.
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	return resolver.NewHTTPFetcher(timeout)
}

// NewMemoryCache returns an in-process LRU icon cache bounded by maxBytes.
// Zero means unlimited.
func NewMemoryCache(maxBytes int64) IconCache {
	return iconcache.NewMemory(maxBytes)
}

// DefaultFetchTimeout bounds a single icon fetch.
const DefaultFetchTimeout = 10 * time.Second

// ParseOptions configures parsing and style resolution.
type ParseOptions struct {
	// ValidateCoordinates rejects coordinates outside ±90 latitude / ±180 longitude.
	ValidateCoordinates bool

	// Defaults seeds every value a document leaves unset.
	Defaults Defaults

	// Logger receives skipped tags (debug), insecure icons (info) and
	// failed fetches (warn). Nil disables logging.
	Logger *zap.Logger

	// Fetcher loads https icons. Nil disables network fetches; icons then
	// come only from the KMZ archive or fall back to the default glyph.
	Fetcher Fetcher

	// Cache, when set, wraps Fetcher so each URL is fetched once.
	Cache IconCache

	// Workers bounds concurrent icon fetches. If 0, defaults to runtime.NumCPU().
	Workers int

	// Seed drives colorMode random. If 0, a time-based seed is used.
	Seed int64

	// Progress is called after each icon fetch with (done, total).
	Progress func(done, total int)
}

// DefaultParseOptions returns default options: standard defaults, coordinate
// validation, and an https fetcher without a cache.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ValidateCoordinates: true,
		Defaults:            StandardDefaults(),
		Fetcher:             NewHTTPFetcher(DefaultFetchTimeout),
		Workers:             runtime.NumCPU(),
	}
}
