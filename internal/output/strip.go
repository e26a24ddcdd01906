package output

import (
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-sketchpad/internal/layout"
	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

// DefaultFreq suits WS2812-class strips.
const DefaultFreq = 2500 * physic.KiloHertz

// Strip samples frames down to an LED matrix and draws them, in wiring
// order, on a one-row display.Drawer such as an nrzled device.
type Strip struct {
	Matrix layout.Matrix
	// Brightness scales every channel, 0..1. Zero means 1.
	Brightness float64

	drawer display.Drawer
	closer io.Closer

	scaled *image.RGBA
	strip  *image.RGBA
}

func NewStrip(d display.Drawer, m layout.Matrix) (*Strip, error) {
	if m.Count() == 0 {
		return nil, errors.New("output: empty matrix")
	}
	if w := d.Bounds().Dx(); w < m.Count() {
		return nil, fmt.Errorf("output: drawer has %d pixels, matrix needs %d", w, m.Count())
	}
	return &Strip{
		Matrix: m,
		drawer: d,
		scaled: image.NewRGBA(image.Rect(0, 0, m.Width, m.Height)),
		strip:  image.NewRGBA(image.Rect(0, 0, m.Count(), 1)),
	}, nil
}

// OpenNRZ drives a WS2812-style strip over the named SPI port ("" picks the
// first one).
func OpenNRZ(port string, m layout.Matrix, freq physic.Frequency) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("output: host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("output: open spi %q: %w", port, err)
	}
	if freq == 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: m.Count(), Channels: 3, Freq: freq})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("output: nrzled: %w", err)
	}
	s, err := NewStrip(d, m)
	if err != nil {
		p.Close()
		return nil, err
	}
	s.closer = p
	return s, nil
}

func (s *Strip) Write(f *render.Frame) error {
	if f.Len() == 0 {
		return nil
	}
	src := f.Image()
	draw.ApproxBiLinear.Scale(s.scaled, s.scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	scale := s.Brightness
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	for y := 0; y < s.Matrix.Height; y++ {
		for x := 0; x < s.Matrix.Width; x++ {
			c := s.scaled.RGBAAt(x, y)
			if scale != 1 {
				c.R = uint8(float64(c.R) * scale)
				c.G = uint8(float64(c.G) * scale)
				c.B = uint8(float64(c.B) * scale)
			}
			s.strip.SetRGBA(s.Matrix.Index(x, y), 0, c)
		}
	}
	return s.drawer.Draw(s.drawer.Bounds(), s.strip, image.Point{})
}

// Pixels returns the last strip image in wiring order.
func (s *Strip) Pixels() *image.RGBA { return s.strip }

// Close blanks the LEDs and releases the port.
func (s *Strip) Close() error {
	err := s.drawer.Halt()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}

func (s *Strip) String() string { return "strip:" + s.drawer.String() }
