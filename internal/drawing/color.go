package drawing

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color is a non-premultiplied 8-bit RGBA color.
// The zero value is Undefined, which renders as nothing.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Undefined = Color{}
	Black     = Color{0, 0, 0, 255}
	White     = Color{255, 255, 255, 255}
	Red       = Color{255, 0, 0, 255}
	Green     = Color{0, 128, 0, 255}
	Blue      = Color{0, 0, 255, 255}
	Gray      = Color{128, 128, 128, 255}
	LightGray = Color{211, 211, 211, 255}
	Orange    = Color{255, 165, 0, 255}
	Yellow    = Color{255, 255, 0, 255}
	SkyBlue   = Color{135, 206, 235, 255}
	Brown     = Color{165, 42, 42, 255}
)

var namedColors = map[string]Color{
	"black":     Black,
	"white":     White,
	"red":       Red,
	"green":     Green,
	"blue":      Blue,
	"gray":      Gray,
	"lightgray": LightGray,
	"orange":    Orange,
	"yellow":    Yellow,
	"skyblue":   SkyBlue,
	"brown":     Brown,
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// IsInvisible reports whether drawing with c has no effect.
func (c Color) IsInvisible() bool {
	return c.A == 0
}

// IsVisible is the negation of IsInvisible.
func (c Color) IsVisible() bool {
	return c.A != 0
}

// NRGBA converts c to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String formats c as #rrggbb, or #aarrggbb when not opaque.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// CSS formats c for SVG/CSS consumers.
func (c Color) CSS() string {
	if c.IsInvisible() {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns the alpha channel in [0, 1].
func (c Color) Opacity() float64 {
	return float64(c.A) / 255
}

// ParseColor parses #rgb, #rrggbb, #aarrggbb and a small set of color names.
// The empty string, "none" and "undefined" parse as Undefined.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "undefined", "transparent":
		return Undefined, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return Undefined, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Undefined, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	switch len(hex) {
	case 6:
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case 8:
		return Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		return Undefined, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if c == Undefined {
		return []byte("none"), nil
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
