package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// tokenStream is a pull reader over the XML token stream.
type tokenStream struct {
	dec *xml.Decoder
}

func newTokenStream(r io.Reader) *tokenStream {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return &tokenStream{dec: dec}
}

// next returns the next start or end element, dropping everything else.
// io.EOF is returned only at the end of the document.
func (s *tokenStream) next() (xml.Token, error) {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.EndElement:
			return t, nil
		}
	}
}

// nextInside is next for use inside an open element, where EOF is an error.
func (s *tokenStream) nextInside(parent string) (xml.Token, error) {
	tok, err := s.next()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected end of document inside <%s>: %w", parent, io.ErrUnexpectedEOF)
	}
	return tok, err
}

// text reads the character data of the element just started and consumes
// its end tag. Text of nested elements is concatenated.
func (s *tokenStream) text() (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := s.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return strings.TrimSpace(b.String()), nil
			}
			depth--
		}
	}
}

// skip consumes the element just started, including all of its children.
func (s *tokenStream) skip() error {
	return s.dec.Skip()
}

// line returns the current decoder line.
func (s *tokenStream) line() int {
	line, _ := s.dec.InputPos()
	return line
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// foreign reports whether el belongs to a namespace other than KML
// (atom:author, xal:AddressDetails and similar).
func foreign(el xml.StartElement) bool {
	space := el.Name.Space
	if space == "" {
		return false
	}
	return !strings.Contains(space, "opengis.net/kml") &&
		!strings.Contains(space, "earth.google.com/kml") &&
		!strings.Contains(space, "google.com/kml/ext")
}
