package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Parser parses KML documents into a container tree and a style catalog.
//
// Parsing is a single sequential pass over the XML token stream. Style
// references are recorded but not followed; see the resolver package.
type Parser interface {
	// Parse reads a KML document and returns the unresolved tree.
	Parse(r io.Reader) (*Document, error)

	// ParseWithOptions parses with custom options
	ParseWithOptions(r io.Reader, opts ParseOptions) (*Document, error)
}

// ParseOptions configures parsing behavior
type ParseOptions struct {
	// ValidateCoordinates: if true, reject coordinates outside ±90/±180
	// Default: false
	ValidateCoordinates bool

	// Defaults seeds every style and feature value the document leaves unset
	Defaults Defaults

	// Logger receives debug output for skipped and unexpected tags.
	// Nil means no logging.
	Logger *zap.Logger
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ValidateCoordinates: false,
		Defaults:            StandardDefaults(),
		Logger:              nil,
	}
}

// Document is the result of a parse: the root container and every style seen.
type Document struct {
	Root    *Container
	Catalog *Catalog
}

// defaultParser implements the Parser interface
type defaultParser struct{}

// NewParser creates a new KML parser
func NewParser() Parser {
	return &defaultParser{}
}

func (p *defaultParser) Parse(r io.Reader) (*Document, error) {
	return p.ParseWithOptions(r, DefaultParseOptions())
}

func (p *defaultParser) ParseWithOptions(r io.Reader, opts ParseOptions) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dp := &docParser{
		s:       newTokenStream(r),
		catalog: NewCatalog(),
		opts:    opts,
		log:     log,
	}
	root, err := dp.parseRoot()
	if err != nil {
		return nil, fmt.Errorf("parse kml: %w", err)
	}
	return &Document{Root: root, Catalog: dp.catalog}, nil
}

// docParser holds the state of one parse.
type docParser struct {
	s       *tokenStream
	catalog *Catalog
	opts    ParseOptions
	log     *zap.Logger
}

// parseRoot finds the single root child of <kml>. A bare Placemark or
// GroundOverlay is wrapped in an unnamed container. A document without a
// root yields an empty container.
func (p *docParser) parseRoot() (*Container, error) {
	for {
		tok, err := p.s.next()
		if errors.Is(err, io.EOF) {
			return &Container{Active: p.opts.Defaults.Visibility}, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		name := start.Name.Local
		switch {
		case isContainerTag(name):
			return p.parseContainer(start)
		case name == tagPlacemark || name == tagGroundOverlay:
			root := &Container{Active: p.opts.Defaults.Visibility}
			if err := p.containerChild(root, start); err != nil {
				return nil, err
			}
			return root, nil
		case name == tagStyle || name == tagStyleMap:
			// Styles ahead of the root still belong to the catalog.
			if err := p.containerChild(&Container{}, start); err != nil {
				return nil, err
			}
		}
	}
}

// parseContainer reads a Document or Folder up to its end tag.
func (p *docParser) parseContainer(start xml.StartElement) (*Container, error) {
	c := &Container{Active: p.opts.Defaults.Visibility}
	for {
		tok, err := p.s.nextInside(start.Name.Local)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return c, nil
		case xml.StartElement:
			if err := p.containerChild(c, t); err != nil {
				return nil, err
			}
		}
	}
}

func (p *docParser) containerChild(c *Container, el xml.StartElement) error {
	name := el.Name.Local
	switch {
	case foreign(el) || IsUnsupportedTag(name):
		return p.s.skip()

	case isContainerTag(name):
		child, err := p.parseContainer(el)
		if err != nil {
			return err
		}
		c.Children = append(c.Children, child)

	case name == tagName:
		v, err := p.s.text()
		if err != nil {
			return err
		}
		c.Name = v

	case name == tagVisibility:
		v, err := p.s.text()
		if err != nil {
			return err
		}
		c.Active = parseBool(v)

	case name == tagPlacemark:
		features, err := p.parsePlacemark(el)
		if err != nil {
			return err
		}
		for _, f := range features {
			if err := p.addFeature(c, f); err != nil {
				return err
			}
		}

	case name == tagGroundOverlay:
		f, err := p.parseGroundOverlay(el)
		if err != nil {
			return err
		}
		return p.addFeature(c, f)

	case name == tagStyle:
		st, err := p.parseStyle(el)
		if err != nil {
			return err
		}
		if st.ID == "" {
			p.log.Debug("Style without id, ignoring", zap.Int("line", p.s.line()))
			return nil
		}
		p.catalog.AddStyle(st)

	case name == tagStyleMap:
		m, err := p.parseStyleMap(el)
		if err != nil {
			return err
		}
		p.catalog.AddStyleMap(m)

	default:
		p.log.Debug("Unexpected tag in container, skipping",
			zap.String("container", c.Name), zap.String("tag", name))
		return p.s.skip()
	}
	return nil
}

func (p *docParser) addFeature(c *Container, f *Feature) error {
	if p.opts.ValidateCoordinates {
		if err := ValidateFeature(f); err != nil {
			return err
		}
	}
	c.Children = append(c.Children, f)
	return nil
}
