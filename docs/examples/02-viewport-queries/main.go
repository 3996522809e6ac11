package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/kml/pkg/kml"
	"github.com/paulmach/orb"
)

func main() {
	layer, err := kml.NewParser().ParseFile(context.Background(), "trails.kmz")
	if err != nil {
		log.Fatal(err)
	}

	// Define viewport (Golden Gate Park area)
	viewport := orb.Bound{
		Min: orb.Point{-122.51, 37.76},
		Max: orb.Point{-122.45, 37.78},
	}

	// Query R-tree index for features in the viewport
	features := layer.FeaturesInBounds(viewport)

	fmt.Printf("Features in viewport: %d\n", len(features))

	for _, f := range features {
		if !f.Visible() {
			continue
		}
		switch f := f.(type) {
		case *kml.Marker:
			p := f.Properties()
			fmt.Printf("  marker %s at %v (icon: %s)\n", p.Name, p.Position, p.Icon.Source)
		case *kml.Polyline:
			p := f.Properties()
			fmt.Printf("  line %s, %d points, width %.1f\n", p.Name, len(p.Path), p.Width)
		default:
			fmt.Printf("  %s %s\n", f.Kind(), f.Name())
		}
	}
}
