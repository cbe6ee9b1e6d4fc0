package ink

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed 0xAARRGGBB color.
type Color uint32

// Common colors.
const (
	Black Color = 0xFF000000
	White Color = 0xFFFFFFFF
	Red   Color = 0xFFFF0000
	Blue  Color = 0xFF0000FF
)

// ARGB packs 8-bit channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00FFFFFF | Color(a)<<24
}

// RGBA returns the straight (non-premultiplied) channels in [0, 1].
func (c Color) RGBA() (r, g, b, a float32) {
	return float32(c.R()) / 255, float32(c.G()) / 255, float32(c.B()) / 255, float32(c.A()) / 255
}

// Premultiplied returns the channels with RGB scaled by alpha, the form
// the GPU blend state expects.
func (c Color) Premultiplied() [4]float32 {
	r, g, b, a := c.RGBA()
	return [4]float32{r * a, g * a, b * a, a}
}

// String formats the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseColor parses "#AARRGGBB" or "#RRGGBB" (alpha defaults to FF).
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
