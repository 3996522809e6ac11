package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/beetlebugorg/kml/pkg/kml"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	accentFg = lipgloss.Color("#7C3AED")
	dimFg    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	okFg     = lipgloss.Color("#10B981")

	titleStyle     = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	containerStyle = lipgloss.NewStyle().Bold(true)
	hiddenStyle    = lipgloss.NewStyle().Foreground(dimFg).Strikethrough(true)
	dimStyle       = lipgloss.NewStyle().Foreground(dimFg)
	kindStyle      = lipgloss.NewStyle().Foreground(okFg)
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentFg).Padding(0, 1)
)

var treeCmd = &cobra.Command{
	Use:   "tree <file.kml|file.kmz>",
	Short: "Print the folder tree with resolved visibility",
	Long: `Print the Document/Folder tree of a KML or KMZ file.

Hidden containers and features are struck through. Use --depth to stop
descending after a number of folder levels and --features to list the
features of each printed container.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().IntP("depth", "d", -1, "Folder levels to print (-1 for all)")
	treeCmd.Flags().BoolP("features", "f", false, "List features under each container")
}

func runTree(cmd *cobra.Command, args []string) error {
	depth, _ := cmd.Flags().GetInt("depth")
	withFeatures, _ := cmd.Flags().GetBool("features")

	layer, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printContainer(out, layer.Root(), "", depth, withFeatures)
	return nil
}

func printContainer(w io.Writer, c *kml.Container, indent string, depth int, withFeatures bool) {
	name := c.Name()
	if name == "" {
		name = "(unnamed)"
	}
	label := containerStyle.Render(name)
	if !c.Visible() {
		label = hiddenStyle.Render(name)
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, label, dimStyle.Render(countSummary(c)))

	child := indent + "  "
	if withFeatures {
		for _, f := range c.Features() {
			fname := f.Name()
			if !f.Visible() {
				fname = hiddenStyle.Render(fname)
			}
			fmt.Fprintf(w, "%s%s %s\n", child, kindStyle.Render(kindLabel(f.Kind())), fname)
		}
	}

	if depth == 0 {
		return
	}
	for _, cc := range c.Containers() {
		printContainer(w, cc, child, depth-1, withFeatures)
	}
}

func countSummary(c *kml.Container) string {
	var parts []string
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(len(c.Markers()), "markers")
	add(len(c.Polylines()), "polylines")
	add(len(c.Polygons()), "polygons")
	add(len(c.GroundOverlays()), "overlays")
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func kindLabel(k kml.FeatureKind) string {
	switch k {
	case kml.KindMarker:
		return "●"
	case kml.KindPolyline:
		return "╱"
	case kml.KindPolygon:
		return "▰"
	case kml.KindGroundOverlay:
		return "▦"
	}
	return "?"
}
