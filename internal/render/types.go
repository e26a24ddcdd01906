// Package render holds the framebuffer, color helpers and post-processing
// passes shared by sketches and output sinks.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Color channels are linear 0..1; values above 1 are allowed until post.
type Color struct{ R, G, B float32 }

var (
	Black = Color{}
	White = Color{1, 1, 1}
)

var ErrBadColor = errors.New("render: bad color")

// ParseHex reads "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return Color{
		R: float32(v>>16&0xff) / 255,
		G: float32(v>>8&0xff) / 255,
		B: float32(v&0xff) / 255,
	}, nil
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func (c Color) Scale(s float32) Color { return Color{c.R * s, c.G * s, c.B * s} }

// Lerp returns c at t=0 and o at t=1.
func (c Color) Lerp(o Color, t float64) Color {
	tf := float32(t)
	return Color{
		R: c.R + (o.R-c.R)*tf,
		G: c.G + (o.G-c.G)*tf,
		B: c.B + (o.B-c.B)*tf,
	}
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 0xff}
}

func to8(v float32) uint8 { return uint8(clamp01(v)*255 + 0.5) }

// Frame is a row-major framebuffer.
type Frame struct {
	Width, Height int
	Pix           []Color
}

func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Resize reallocates only when the frame grows; contents are cleared.
func (f *Frame) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	f.Width, f.Height = width, height
	if cap(f.Pix) >= n {
		f.Pix = f.Pix[:n]
	} else {
		f.Pix = make([]Color, n)
	}
	f.Fill(Black)
}

func (f *Frame) Len() int { return len(f.Pix) }

func (f *Frame) Fill(c Color) {
	for i := range f.Pix {
		f.Pix[i] = c
	}
}

// At clamps x and y to the frame bounds.
func (f *Frame) At(x, y int) Color {
	if len(f.Pix) == 0 {
		return Black
	}
	x = clampInt(x, 0, f.Width-1)
	y = clampInt(y, 0, f.Height-1)
	return f.Pix[y*f.Width+x]
}

func (f *Frame) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = c
}

func (f *Frame) Clone() *Frame {
	return &Frame{Width: f.Width, Height: f.Height, Pix: append([]Color(nil), f.Pix...)}
}

// Average returns the mean color, used for logging and diagnostics.
func (f *Frame) Average() Color {
	if len(f.Pix) == 0 {
		return Black
	}
	var r, g, b float64
	for _, c := range f.Pix {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
	}
	n := float64(len(f.Pix))
	return Color{float32(r / n), float32(g / n), float32(b / n)}
}

// RGB packs the frame as 8-bit R,G,B triplets.
func (f *Frame) RGB() []byte {
	out := make([]byte, 0, len(f.Pix)*3)
	for _, c := range f.Pix {
		out = append(out, to8(c.R), to8(c.G), to8(c.B))
	}
	return out
}

// Image converts the frame to an opaque 8-bit image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.Pix[y*f.Width+x].RGBA())
		}
	}
	return img
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
