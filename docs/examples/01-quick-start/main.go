package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/kml/pkg/kml"
)

func main() {
	// Create parser
	parser := kml.NewParser()

	// Parse a KML or KMZ file; styles and icons are resolved before it returns
	layer, err := parser.ParseFile(context.Background(), "trails.kmz")
	if err != nil {
		log.Fatal(err)
	}

	// Print document info
	fmt.Printf("Document: %s\n", layer.Root().Name())
	fmt.Printf("Features: %d\n", layer.FeatureCount())

	// Get layer bounds
	bounds := layer.Bounds()
	fmt.Printf("Bounds: [%.4f,%.4f] to [%.4f,%.4f]\n",
		bounds.Min.Lon(), bounds.Min.Lat(),
		bounds.Max.Lon(), bounds.Max.Lat())

	// Walk the first level of folders
	for _, c := range layer.Root().Containers() {
		fmt.Printf("  %s: %d markers, visible=%v\n", c.Name(), len(c.Markers()), c.Visible())
	}
}
