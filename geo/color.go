package geo

import (
	"fmt"
	"image/color"
	"math"
	"unicode/utf16"
)

// HSL is a colour with hue in degrees and saturation/lightness in percent.
type HSL struct {
	H float64
	S float64
	L float64
}

func (c HSL) String() string {
	return fmt.Sprintf("hsl(%g, %g%%, %g%%)", c.H, c.S, c.L)
}

// RGBA converts to an opaque 8-bit colour.
func (c HSL) RGBA() color.RGBA {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := c.S / 100
	l := c.L / 100
	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - chroma/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return color.RGBA{R: to8(r + m), G: to8(g + m), B: to8(b + m), A: 0xff}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ColorHash folds the UTF-16 code units of name with hash = code + ((hash << 5) - hash).
// The shift operates on hash truncated to a signed 32-bit integer while the subtraction and
// addition keep full precision, so the running value may leave the int32 range between steps.
func ColorHash(name string) int64 {
	var hash int64
	for _, code := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(uint32(int32(hash)) << 5))
		hash = int64(code) + (shifted - hash)
	}
	return hash
}

// Hue maps the name hash into [0, 360).
func Hue(name string) int {
	h := int(ColorHash(name) % 360)
	if h < 0 {
		h += 360
	}
	return h
}

// ColorOf is the stable fill colour of a region.
func ColorOf(name string) HSL {
	return HSL{H: float64(Hue(name)), S: 60, L: 60}
}
