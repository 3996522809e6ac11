package parser

import (
	"strconv"
	"strings"
)

// Properties holds the raw text of the scalar property tags captured on a feature.
// Values are converted on demand.
type Properties map[string]string

// propertyTags is the allow-list of scalar tags captured into Properties.
var propertyTags = map[string]bool{
	"name":        true,
	"description": true,
	"drawOrder":   true,
	"visibility":  true,
	"styleUrl":    true,
	"tessellate":  true,
	"address":     true,
	"phoneNumber": true,
}

// IsPropertyTag reports whether tag is captured as a scalar property.
func IsPropertyTag(tag string) bool {
	return propertyTags[tag]
}

// String returns the raw value, or def when absent.
func (p Properties) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Bool returns true for "1", false for any other present value and def when absent.
func (p Properties) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	return parseBool(v)
}

// Float returns the numeric value, or def when absent or not a number.
func (p Properties) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Clone returns a copy that can be modified independently.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func parseBool(s string) bool {
	return strings.TrimSpace(s) == "1"
}
