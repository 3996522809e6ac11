// Package metrics exposes Prometheus collectors for parsing and resolution.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ParseTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kml_parse_total",
		Help: "Documents parsed, by result",
	}, []string{"result"})
	ParseDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kml_parse_duration_ms",
		Help:    "Parse and resolve duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	FeaturesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kml_features_total",
		Help: "Features resolved, by kind",
	}, []string{"kind"})
	StyleUnresolvedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kml_style_unresolved_total",
		Help: "Style references that fell back to the default style",
	})
	IconFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kml_icon_fetch_total",
		Help: "Icon fetch attempts, by result",
	}, []string{"result"})
	IconFetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kml_icon_fetch_duration_ms",
		Help:    "Icon fetch duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	IconCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kml_icon_cache_hits_total",
		Help: "Icon cache hits",
	})
	IconCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kml_icon_cache_misses_total",
		Help: "Icon cache misses",
	})
)

// Icon fetch results.
const (
	FetchOK       = "ok"
	FetchError    = "error"
	FetchInsecure = "insecure"
	FetchDecode   = "decode_error"
)

func init() {
	prometheus.MustRegister(ParseTotal)
	prometheus.MustRegister(ParseDurationMs)
	prometheus.MustRegister(FeaturesTotal)
	prometheus.MustRegister(StyleUnresolvedTotal)
	prometheus.MustRegister(IconFetchTotal)
	prometheus.MustRegister(IconFetchDurationMs)
	prometheus.MustRegister(IconCacheHitsTotal)
	prometheus.MustRegister(IconCacheMissesTotal)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
