// Package kml parses KML and KMZ documents into a resolved, styled feature tree.
//
// The package is meant to sit under a map renderer. Parsing reads the whole
// document once, builds the Document/Folder tree, and resolves every
// feature's effective style: style maps are followed to their normal style,
// visibility cascades from containers to their children, and marker icons
// are taken from the KMZ archive or fetched over https.
//
// # Basic Usage
//
//	parser := kml.NewParser()
//	layer, err := parser.ParseFile(ctx, "trails.kmz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("%d features covering %+v\n", layer.FeatureCount(), layer.Bounds())
//
// # Walking the Tree
//
// Each Container exposes its direct children only. Use ContainersAtDepth for a
// depth-limited view of the folder hierarchy:
//
//	root := layer.Root()
//	for _, c := range root.ContainersAtDepth(1) {
//	    fmt.Println(c.Name(), c.Visible())
//	    for _, m := range c.Markers() {
//	        p := m.Properties()
//	        fmt.Println(p.Name, p.Position, p.Icon.Source)
//	    }
//	}
//
// # Spatial Queries
//
// The layer builds an R-tree over all feature bounds:
//
//	viewport := orb.Bound{Min: orb.Point{-71.5, 42.0}, Max: orb.Point{-71.0, 42.5}}
//	for _, f := range layer.FeaturesInBounds(viewport) {
//	    render(f)
//	}
//
// # Click Events
//
// A renderer reports clicks with Layer.Click; subscribers receive an Event
// carrying the feature's property snapshot:
//
//	unsubscribe := layer.Events().Subscribe(func(e kml.Event) {
//	    if e.Marker != nil {
//	        fmt.Println("clicked", e.Marker.Name)
//	    }
//	})
//	defer unsubscribe()
//
// # Icons
//
// Icons referenced by https URLs are fetched on a bounded pool of workers
// before Parse returns. Insecure URLs are never fetched. A failed fetch falls
// back to the default marker glyph, tinted with the style's color when one is
// set. Set ParseOptions.Cache to keep fetched bytes between parses.
package kml
