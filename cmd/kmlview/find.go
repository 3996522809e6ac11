package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beetlebugorg/kml/pkg/kml"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <file.kml|file.kmz> [query]",
	Short: "Find features by name or bounding box",
	Long: `Find features whose names fuzzily match query, best match first.

With --bbox, only features intersecting the box are considered; the query
may then be omitted to list everything inside the box.

Example:
  kmlview find course.kmz "pin"
  kmlview find course.kmz --bbox -122.2,37.3,-122.0,37.5`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().String("bbox", "", "Bounding box minLon,minLat,maxLon,maxLat")
	findCmd.Flags().IntP("limit", "n", 20, "Maximum results (0 for all)")
	findCmd.Flags().Bool("visible", false, "Only show visible features")
}

func runFind(cmd *cobra.Command, args []string) error {
	bboxFlag, _ := cmd.Flags().GetString("bbox")
	limit, _ := cmd.Flags().GetInt("limit")
	visibleOnly, _ := cmd.Flags().GetBool("visible")

	if len(args) < 2 && bboxFlag == "" {
		return fmt.Errorf("need a query or --bbox")
	}

	var box *orb.Bound
	if bboxFlag != "" {
		b, err := parseBBox(bboxFlag)
		if err != nil {
			return err
		}
		box = &b
	}

	layer, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	var features []kml.Feature
	if len(args) == 2 {
		for _, r := range layer.Search(args[1]) {
			features = append(features, r.Feature)
		}
	} else {
		features = layer.Features()
	}

	var inBox map[kml.Feature]bool
	if box != nil {
		inBox = make(map[kml.Feature]bool)
		for _, f := range layer.FeaturesInBounds(*box) {
			inBox[f] = true
		}
	}

	out := cmd.OutOrStdout()
	shown := 0
	for _, f := range features {
		if inBox != nil && !inBox[f] {
			continue
		}
		if visibleOnly && !f.Visible() {
			continue
		}
		if limit > 0 && shown == limit {
			break
		}
		c := f.Bound().Center()
		name := f.Name()
		if !f.Visible() {
			name = hiddenStyle.Render(name)
		}
		fmt.Fprintf(out, "%s %-40s %s\n",
			kindStyle.Render(kindLabel(f.Kind())), name,
			dimStyle.Render(fmt.Sprintf("%.5f,%.5f  %s", c.Lon(), c.Lat(), f.ID())))
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, dimStyle.Render("no matches"))
	}
	return nil
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}
