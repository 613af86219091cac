package util

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA holds one 8-bit channel each for red, green, blue and alpha.
type RGBA struct {
	R, G, B, A uint8
}

// HexToRGBA parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#' optional).
// Alpha defaults to 255 when the string carries no alpha channel.
func HexToRGBA(hex string) (RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	switch len(s) {
	case 3:
		// Expand shorthand: "abc" -> "aabbcc".
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	if len(s) == 8 {
		return RGBA{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: uint8(v),
		}, nil
	}
	return RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// RGBAToHex renders a color as "#rrggbbaa".
func RGBAToHex(c RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Luminosity returns the perceived brightness of a color in [0,1] using the
// Rec. 601 weights. Used to pick readable text colors over committee colors.
func Luminosity(c RGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// IsDarkColor reports whether white text should be drawn over the color.
func IsDarkColor(c RGBA) bool {
	return Luminosity(c) < 0.5
}
