package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/beetlebugorg/kml/pkg/kml"
)

func safeParse(path string) (*kml.Layer, error) {
	parser := kml.NewParser()

	layer, err := parser.ParseFile(context.Background(), path)
	if err != nil {
		// Check if file exists
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}

		var missing *kml.ErrMissingGeometry
		if errors.As(err, &missing) {
			log.Printf("%s: %s at line %d", path, missing.Reason, missing.Line)
		}
		if errors.Is(err, kml.ErrArchiveMissingDocument) {
			log.Printf("%s: archive has no .kml entry", path)
		}
		return nil, err
	}

	if layer.FeatureCount() == 0 {
		log.Printf("Warning: %s contains no features", path)
	}

	return layer, nil
}

func main() {
	layer, err := safeParse("trails.kmz")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("Successfully loaded: %s\n", layer.Root().Name())
	fmt.Printf("Features: %d\n", layer.FeatureCount())

	// Try to parse a non-existent file
	_, err = safeParse("missing.kml")
	if err != nil {
		log.Printf("Expected error: %v", err)
	}
}
