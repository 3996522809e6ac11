package resolver

import "github.com/beetlebugorg/kml/internal/parser"

// Cascade recomputes Visible for c and everything below it without
// touching styles or icons. Features that were never resolved are skipped.
func Cascade(c *parser.Container, parentVisible bool, d parser.Defaults) {
	c.Visible = c.Active && parentVisible
	for _, n := range c.Children {
		switch n := n.(type) {
		case *parser.Container:
			Cascade(n, c.Visible, d)
		case *parser.Feature:
			if n.Resolved != nil {
				n.Resolved.Visible = n.Properties.Bool("visibility", d.Visibility) && c.Visible
			}
		}
	}
}
