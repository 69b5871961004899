package imaging

import (
	"errors"
	"fmt"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned by HexToRGB for strings that are not "#rrggbb".
var ErrInvalidHex = errors.New("invalid hex color")

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// RGB drops the alpha component.
func (c RGBAColor) RGB() RGBColor {
	return RGBColor{R: c.R, G: c.G, B: c.B}
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// SampledColor is the color found at one point of an image, in the
// representations the lens reports.
//
// A SampledColor is derived on demand and is only meaningful for the render
// cycle that produced it.
type SampledColor struct {
	Hex  string    `json:"hex"`  // Hex format "#rrggbb" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// GetPixel returns the RGBA value of the pixel at (x, y).
//
// Out-of-bounds coordinates, and a nil buffer, yield the transparent black
// sentinel (0,0,0,0) instead of an error. Callers that render under a pointer
// rely on this: a pointer outside the image simply reports "#000000".
func GetPixel(buf *PixelBuffer, x, y int) RGBAColor {
	if buf == nil || x < 0 || x >= buf.Width || y < 0 || y >= buf.Height {
		return RGBAColor{}
	}
	i := buf.offset(x, y)
	return RGBAColor{R: buf.Pix[i], G: buf.Pix[i+1], B: buf.Pix[i+2], A: buf.Pix[i+3]}
}

// Sample reads the pixel at (x, y) and derives every color representation.
// Out-of-bounds points produce the sentinel color with hex "#000000".
func Sample(buf *PixelBuffer, x, y int) SampledColor {
	px := GetPixel(buf, x, y)
	return SampledColor{
		Hex:  RGBToHex(px.R, px.G, px.B),
		RGB:  px.RGB(),
		RGBA: px,
		HSL:  rgbToHSL(px.R, px.G, px.B),
	}
}

// RGBToHex formats a color as "#rrggbb".
//
// Each channel is written as exactly two lowercase hex digits, zero-padded on
// the left, so RGBToHex(1, 2, 3) is "#010203".
func RGBToHex(r, g, b uint8) string {
	return toColorful(r, g, b).Hex()
}

// HexToRGB parses a "#rrggbb" string.
//
// The six digits are read as one 24-bit integer and the channels are
// extracted by shifting, so HexToRGB(RGBToHex(c)) == c for every 24-bit
// color. Upper-case digits are accepted.
//
// Returns ErrInvalidHex (wrapped) if the string is not '#' followed by exactly
// six hex digits.
func HexToRGB(hex string) (RGBColor, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return RGBColor{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	val, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return RGBColor{}, fmt.Errorf("%w: %q: %v", ErrInvalidHex, hex, err)
	}
	return RGBColor{
		R: uint8(val >> 16),
		G: uint8(val >> 8),
		B: uint8(val),
	}, nil
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// rgbToHSL converts 8-bit RGB values to HSL with integer degrees and percents.
// Fractions are truncated.
func rgbToHSL(r, g, b uint8) HSLColor {
	h, s, l := toColorful(r, g, b).Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
