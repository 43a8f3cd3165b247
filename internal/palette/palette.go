// Package palette parses hex colors and provides the default crayon set.
package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"brushcolor/internal/pixbuf"
)

// ErrInvalidHex is returned when a string is not a #RRGGBB or #RGB color.
var ErrInvalidHex = errors.New("invalid hex color")

// Swatch is a named palette entry.
type Swatch struct {
	Name  string
	Color pixbuf.Color
}

// DefaultColor is the color selected when a session starts.
var DefaultColor = pixbuf.Color{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}

var defaults = []struct {
	name string
	hex  string
}{
	{"coral", "#FF6B6B"},
	{"orange", "#FFA94D"},
	{"yellow", "#FFD43B"},
	{"lime", "#A9E34B"},
	{"green", "#51CF66"},
	{"teal", "#20C997"},
	{"sky", "#4DABF7"},
	{"blue", "#339AF0"},
	{"violet", "#845EF7"},
	{"pink", "#F783AC"},
	{"brown", "#A0522D"},
	{"grey", "#ADB5BD"},
	{"white", "#FFFFFF"},
}

// Default returns the built-in palette.
func Default() []Swatch {
	swatches := make([]Swatch, 0, len(defaults))
	for _, d := range defaults {
		c, _ := ParseHex(d.hex)
		swatches = append(swatches, Swatch{Name: d.name, Color: c})
	}
	return swatches
}

// DefaultHex returns the built-in palette as hex strings.
func DefaultHex() []string {
	out := make([]string, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, d.hex)
	}
	return out
}

// FromHex builds a palette from hex strings, naming entries by position
// unless they match a built-in color.
func FromHex(hexes []string) ([]Swatch, error) {
	swatches := make([]Swatch, 0, len(hexes))
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("color%d", i+1)
		for _, d := range defaults {
			if strings.EqualFold(d.hex, Hex(c)) {
				name = d.name
				break
			}
		}
		swatches = append(swatches, Swatch{Name: name, Color: c})
	}
	return swatches, nil
}

// ParseHex parses "#RRGGBB" or "#RGB" (the leading '#' is optional) into an
// opaque color.
func ParseHex(s string) (pixbuf.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return pixbuf.Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return pixbuf.Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return pixbuf.Color{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 255,
	}, nil
}

// Hex formats c as "#RRGGBB"; alpha is dropped.
func Hex(c pixbuf.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Lookup resolves a color name from swatches or a hex string.
func Lookup(swatches []Swatch, s string) (pixbuf.Color, error) {
	for _, sw := range swatches {
		if strings.EqualFold(sw.Name, s) {
			return sw.Color, nil
		}
	}
	return ParseHex(s)
}
