package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beetlebugorg/kml/pkg/kml"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.kml|file.kmz>",
	Short: "Show feature counts, bounds and icon sources",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	layer, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	kinds := map[kml.FeatureKind]int{}
	icons := map[kml.IconSource]int{}
	hidden := 0
	for _, f := range layer.Features() {
		kinds[f.Kind()]++
		if !f.Visible() {
			hidden++
		}
		switch f := f.(type) {
		case *kml.Marker:
			icons[f.Properties().Icon.Source]++
		case *kml.GroundOverlay:
			icons[f.Properties().Icon.Source]++
		}
	}

	containers := 0
	var walk func(c *kml.Container)
	walk = func(c *kml.Container) {
		containers++
		for _, cc := range c.Containers() {
			walk(cc)
		}
	}
	walk(layer.Root())

	b := layer.Bounds()
	var lines []string
	row := func(label, value string) {
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render(fmt.Sprintf("%-12s", label)), value))
	}
	row("File", args[0])
	row("Containers", fmt.Sprint(containers))
	row("Features", fmt.Sprintf("%d (%d hidden)", layer.FeatureCount(), hidden))
	for _, k := range []kml.FeatureKind{kml.KindMarker, kml.KindPolyline, kml.KindPolygon, kml.KindGroundOverlay} {
		if kinds[k] > 0 {
			row("  "+k.String(), fmt.Sprint(kinds[k]))
		}
	}
	if layer.FeatureCount() > 0 {
		row("Bounds", fmt.Sprintf("%.5f,%.5f → %.5f,%.5f", b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()))
	}
	row("Images", fmt.Sprint(len(layer.Images())))

	sources := make([]kml.IconSource, 0, len(icons))
	for s := range icons {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	for _, s := range sources {
		row("  icon "+s.String(), fmt.Sprint(icons[s]))
	}

	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(layer.Root().Name()))
	fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(strings.Join(lines, "\n")))
	return nil
}
