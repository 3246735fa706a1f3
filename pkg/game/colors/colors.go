// Package colors parses the CSS-style colour strings used in configuration and
// converts between them and the grid's float colours.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/crazy3lf/colorconv"

	"cubefield/pkg/engine/grid"
)

// ErrBadColor is returned for colour strings that cannot be parsed.
var ErrBadColor = errors.New("bad color")

// Parse accepts "rgba(r, g, b, a)", "rgb(r, g, b)", "#rgb", "#rrggbb" and "#rrggbbaa".
// RGB channels are 0-255, alpha is 0-1 in the functional forms.
func Parse(s string) (grid.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:], s)
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		return parseFunc(v[len("rgba("):len(v)-1], 4, s)
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseFunc(v[len("rgb("):len(v)-1], 3, s)
	}
	return grid.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) grid.Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseFunc(body string, n int, orig string) (grid.Color, error) {
	parts := strings.Split(body, ",")
	if len(parts) != n {
		return grid.Color{}, fmt.Errorf("%w: %q: want %d components", ErrBadColor, orig, n)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return grid.Color{}, fmt.Errorf("%w: %q: %v", ErrBadColor, orig, err)
		}
		vals[i] = f
	}
	c := grid.Color{R: clamp(vals[0] / 255), G: clamp(vals[1] / 255), B: clamp(vals[2] / 255), A: 1}
	if n == 4 {
		c.A = clamp(vals[3])
	}
	return c, nil
}

func parseHex(h, orig string) (grid.Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return grid.Color{}, fmt.Errorf("%w: %q", ErrBadColor, orig)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return grid.Color{}, fmt.Errorf("%w: %q: %v", ErrBadColor, orig, err)
	}
	return grid.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Format renders c in the rgba() form Parse accepts.
func Format(c grid.Color) string {
	r, g, b, _ := bytes(c)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Border is a parsed CSS border shorthand such as "1px solid rgba(255,255,255,0.2)".
type Border struct {
	Width float64
	Style string
	Color grid.Color
}

// ParseBorder parses "<width>px <style> <color>".
func ParseBorder(s string) (Border, error) {
	fields := strings.SplitN(strings.TrimSpace(s), " ", 3)
	if len(fields) != 3 {
		return Border{}, fmt.Errorf("%w: border %q", ErrBadColor, s)
	}
	w, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "px"), 64)
	if err != nil {
		return Border{}, fmt.Errorf("%w: border width %q: %v", ErrBadColor, fields[0], err)
	}
	c, err := Parse(fields[2])
	if err != nil {
		return Border{}, err
	}
	return Border{Width: w, Style: fields[1], Color: c}, nil
}

// String renders the border back to shorthand
func (b Border) String() string {
	return fmt.Sprintf("%spx %s %s", strconv.FormatFloat(b.Width, 'f', -1, 64), b.Style, Format(b.Color))
}

// FromHSV builds a colour from hue in degrees and saturation/value in [0,1].
func FromHSV(h, s, v, alpha float64) (grid.Color, error) {
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return grid.Color{}, fmt.Errorf("%w: hsv(%v, %v, %v): %v", ErrBadColor, h, s, v, err)
	}
	return grid.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: clamp(alpha)}, nil
}

// Lerp interpolates every channel from a to b
func Lerp(a, b grid.Color, t float64) grid.Color {
	return grid.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// Over composites src onto an opaque dst and returns an opaque colour.
func Over(dst, src grid.Color) grid.Color {
	a := clamp(src.A)
	return grid.Color{
		R: dst.R*(1-a) + src.R*a,
		G: dst.G*(1-a) + src.G*a,
		B: dst.B*(1-a) + src.B*a,
		A: 1,
	}
}

// Components returns c as four channels, the layout tweens use for faces.
func Components(c grid.Color) []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

// NRGBA converts to a non-premultiplied standard library colour
func NRGBA(c grid.Color) color.NRGBA {
	r, g, b, a := bytes(c)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func bytes(c grid.Color) (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	return uint8(clamp(v)*255 + 0.5)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
