package kml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/beetlebugorg/kml/internal/archive"
	"github.com/beetlebugorg/kml/internal/metrics"
	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/beetlebugorg/kml/internal/resolver"
	"go.uber.org/zap"
)

// Parser parses KML and KMZ documents.
//
// Create a parser with NewParser and use Parse, ParseFile or ParseWithOptions.
type Parser interface {
	// Parse reads a KML or KMZ document from r and resolves its styles.
	//
	// KMZ input is detected by its zip signature. Returns an error if the
	// document is malformed or ctx ends before icon fetches finish.
	Parse(ctx context.Context, r io.Reader) (*Layer, error)

	// ParseFile parses the KML or KMZ file at path.
	ParseFile(ctx context.Context, path string) (*Layer, error)

	// ParseWithOptions parses r with custom options.
	ParseWithOptions(ctx context.Context, r io.Reader, opts ParseOptions) (*Layer, error)
}

// NewParser creates a parser using DefaultParseOptions.
//
// Example:
//
//	parser := kml.NewParser()
//	layer, err := parser.ParseFile(ctx, "route.kml")
func NewParser() Parser {
	return &parserWrapper{
		internal: parser.NewParser(),
		opts:     DefaultParseOptions(),
	}
}

// NewParserWithOptions creates a parser whose Parse and ParseFile use opts.
func NewParserWithOptions(opts ParseOptions) Parser {
	return &parserWrapper{
		internal: parser.NewParser(),
		opts:     opts,
	}
}

// parserWrapper wraps the internal parser and resolver and converts types
type parserWrapper struct {
	internal parser.Parser
	opts     ParseOptions
}

func (p *parserWrapper) Parse(ctx context.Context, r io.Reader) (*Layer, error) {
	return p.ParseWithOptions(ctx, r, p.opts)
}

func (p *parserWrapper) ParseFile(ctx context.Context, path string) (*Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.ParseWithOptions(ctx, f, p.opts)
}

func (p *parserWrapper) ParseWithOptions(ctx context.Context, r io.Reader, opts ParseOptions) (*Layer, error) {
	start := time.Now()
	layer, err := p.parse(ctx, r, opts)
	metrics.ParseDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.ParseTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ParseTotal.WithLabelValues("ok").Inc()
	return layer, nil
}

func (p *parserWrapper) parse(ctx context.Context, r io.Reader, opts ParseOptions) (*Layer, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	bundle, err := archive.Open(data, log)
	if err != nil {
		return nil, err
	}

	doc, err := p.internal.ParseWithOptions(bytes.NewReader(bundle.Document), parser.ParseOptions{
		ValidateCoordinates: opts.ValidateCoordinates,
		Defaults:            opts.Defaults,
		Logger:              log,
	})
	if err != nil {
		return nil, err
	}

	fetcher := opts.Fetcher
	if fetcher != nil && opts.Cache != nil {
		fetcher = &resolver.CachingFetcher{Fetcher: fetcher, Cache: opts.Cache}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	err = resolver.Resolve(ctx, doc, resolver.Options{
		Defaults: opts.Defaults,
		Images:   bundle.Images,
		Fetcher:  fetcher,
		Workers:  opts.Workers,
		Rand:     rand.New(rand.NewSource(seed)),
		Progress: opts.Progress,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve styles: %w", err)
	}

	log.Debug("Parsed document",
		zap.String("entry", bundle.DocumentName),
		zap.Int("images", len(bundle.Images)),
		zap.Int("styles", len(doc.Catalog.Styles)),
		zap.Int("styleMaps", len(doc.Catalog.StyleMaps)))

	return newLayer(doc, bundle.Images, opts.Defaults), nil
}
