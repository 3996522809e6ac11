package parser

import (
	"encoding/xml"
)

// parseExtendedData reads Data and SchemaData/SimpleData entries.
// A value is recorded when it is read; a value outside any named Data gets
// an empty name.
func (p *docParser) parseExtendedData() ([]ExtendedData, error) {
	var out []ExtendedData
	var cur *ExtendedData
	depth := 0
	for {
		tok, err := p.s.nextInside(tagExtendedData)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if depth == 0 {
				return out, nil
			}
			depth--
			if t.Name.Local == "Data" {
				cur = nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "Data":
				name, _ := attr(t, "name")
				cur = &ExtendedData{Name: name}
				depth++
			case "SchemaData":
				depth++
			case "SimpleData":
				name, _ := attr(t, "name")
				v, err := p.s.text()
				if err != nil {
					return nil, err
				}
				out = append(out, ExtendedData{Name: name, Value: v})
			case "name":
				// Some writers emit the Data name as a child element.
				v, err := p.s.text()
				if err != nil {
					return nil, err
				}
				if cur != nil && cur.Name == "" {
					cur.Name = v
				}
			case "displayName":
				v, err := p.s.text()
				if err != nil {
					return nil, err
				}
				if cur == nil {
					cur = &ExtendedData{}
				}
				cur.DisplayName = &v
			case "value":
				v, err := p.s.text()
				if err != nil {
					return nil, err
				}
				if cur == nil {
					cur = &ExtendedData{}
				}
				cur.Value = v
				out = append(out, *cur)
				cur = nil
			default:
				if err := p.s.skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}
