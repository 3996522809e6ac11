package kml

import (
	"github.com/beetlebugorg/kml/internal/parser"
	"github.com/beetlebugorg/kml/internal/resolver"
)

// Container is a Document or Folder of a parsed layer.
//
// All child queries are non-recursive. Use ContainersAtDepth or
// Layer.Features for deeper traversal.
type Container struct {
	c        *parser.Container
	parent   *Container
	layer    *Layer
	children []any // *Container or Feature, in document order
}

// Name returns the container's name, empty when the document gives none.
func (c *Container) Name() string {
	return c.c.Name
}

// Parent returns the enclosing container, or nil for the root.
func (c *Container) Parent() *Container {
	return c.parent
}

// Active returns the container's own visibility flag.
func (c *Container) Active() bool {
	c.layer.mu.RLock()
	defer c.layer.mu.RUnlock()
	return c.c.Active
}

// Visible reports whether the container and all of its ancestors are active.
func (c *Container) Visible() bool {
	c.layer.mu.RLock()
	defer c.layer.mu.RUnlock()
	return c.c.Visible
}

// SetActive changes the container's own flag and recomputes visibility
// for the container and everything below it.
func (c *Container) SetActive(active bool) {
	c.layer.mu.Lock()
	defer c.layer.mu.Unlock()
	c.setActiveLocked(active)
}

// ToggleActive flips the container's own flag. The read and the write
// happen under one lock, so concurrent toggles never cancel out.
func (c *Container) ToggleActive() {
	c.layer.mu.Lock()
	defer c.layer.mu.Unlock()
	c.setActiveLocked(!c.c.Active)
}

func (c *Container) setActiveLocked(active bool) {
	c.c.Active = active

	parentVisible := true
	if c.parent != nil {
		parentVisible = c.parent.c.Visible
	}
	resolver.Cascade(c.c, parentVisible, c.layer.defaults)
}

// Containers returns the direct child containers.
func (c *Container) Containers() []*Container {
	var out []*Container
	for _, n := range c.children {
		if cc, ok := n.(*Container); ok {
			out = append(out, cc)
		}
	}
	return out
}

// ContainersAtDepth returns the containers depth levels below c. A branch
// that ends earlier contributes its deepest container instead, so every
// leaf of the folder tree is represented. Depth 0 returns c itself.
func (c *Container) ContainersAtDepth(depth int) []*Container {
	children := c.Containers()
	if depth <= 0 || len(children) == 0 {
		return []*Container{c}
	}
	var out []*Container
	for _, cc := range children {
		out = append(out, cc.ContainersAtDepth(depth-1)...)
	}
	return out
}

// Features returns the direct child features in document order.
func (c *Container) Features() []Feature {
	var out []Feature
	for _, n := range c.children {
		if f, ok := n.(Feature); ok {
			out = append(out, f)
		}
	}
	return out
}

// Markers returns the direct child markers.
func (c *Container) Markers() []*Marker {
	var out []*Marker
	for _, n := range c.children {
		if m, ok := n.(*Marker); ok {
			out = append(out, m)
		}
	}
	return out
}

// Polylines returns the direct child polylines.
func (c *Container) Polylines() []*Polyline {
	var out []*Polyline
	for _, n := range c.children {
		if l, ok := n.(*Polyline); ok {
			out = append(out, l)
		}
	}
	return out
}

// Polygons returns the direct child polygons.
func (c *Container) Polygons() []*Polygon {
	var out []*Polygon
	for _, n := range c.children {
		if p, ok := n.(*Polygon); ok {
			out = append(out, p)
		}
	}
	return out
}

// GroundOverlays returns the direct child ground overlays.
func (c *Container) GroundOverlays() []*GroundOverlay {
	var out []*GroundOverlay
	for _, n := range c.children {
		if o, ok := n.(*GroundOverlay); ok {
			out = append(out, o)
		}
	}
	return out
}

// wrapContainer mirrors pc as public handles, appending every feature to all.
func wrapContainer(pc *parser.Container, parent *Container, layer *Layer, all *[]Feature) *Container {
	c := &Container{c: pc, parent: parent, layer: layer}
	for _, n := range pc.Children {
		switch n := n.(type) {
		case *parser.Container:
			c.children = append(c.children, wrapContainer(n, c, layer, all))
		case *parser.Feature:
			f := wrapFeature(n, c, layer)
			if f == nil {
				continue
			}
			c.children = append(c.children, f)
			*all = append(*all, f)
		}
	}
	return c
}
