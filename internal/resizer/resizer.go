// Package resizer sizes and zooms a canvas from presets, zoom steps and
// keyboard shortcuts.
package resizer

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/presentation"
)

// Canvas receives the computed size and zoom.
type Canvas interface {
	SetSize(width, height int)
	SetScale(scale float64)
}

// Preset is a named output size; 0 means "fit the viewport".
type Preset struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

var DefaultPresets = []Preset{
	{Name: "AUTO"},
	{Name: "480p", Width: 720, Height: 480},
	{Name: "720p", Width: 1280, Height: 720},
	{Name: "1080p", Width: 1920, Height: 1080},
	{Name: "2K", Width: 2560, Height: 1440},
	{Name: "4K", Width: 3840, Height: 2160},
	{Name: "Facebook", Width: 1200, Height: 630},
	{Name: "Instagram", Width: 1080, Height: 1080},
	{Name: "Pinterest", Width: 1000, Height: 1500},
	{Name: "Twitter", Width: 1200, Height: 675},
}

// DefaultZooms are percentages.
var DefaultZooms = []float64{2.5, 5, 10, 25, 50, 75, 100, 150, 200, 400, 800}

type Options struct {
	Presets     []Preset
	Zooms       []float64
	DefaultZoom float64

	// Window provides the viewport size and, unless NoKeyboard, key events.
	Window     input.Source
	NoKeyboard bool
	ZoomIn     string
	ZoomOut    string
	Auto       string

	OnResize func()
}

func DefaultOptions() Options {
	return Options{
		Presets:     DefaultPresets,
		Zooms:       DefaultZooms,
		DefaultZoom: 100,
		ZoomIn:      "+",
		ZoomOut:     "-",
		Auto:        "*",
	}
}

type Resizer struct {
	OnResize func()

	canvas       Canvas
	window       input.Source
	width        int
	height       int
	presets      *presentation.Presentation[Preset]
	zooms        *presentation.Presentation[float64]
	defaultIndex int

	keyID input.ListenerID
	bound bool
}

func New(canvas Canvas, opts Options) (*Resizer, error) {
	r := &Resizer{
		OnResize: opts.OnResize,
		canvas:   canvas,
		window:   opts.Window,
	}

	if len(opts.Presets) > 0 {
		presets, err := presentation.New(opts.Presets, presentation.Options{})
		if err != nil {
			return nil, err
		}
		presets.OnChange(func() {
			p := presets.Item()
			r.Resize(p.Width, p.Height)
		})
		r.presets = presets
	}

	if len(opts.Zooms) > 0 {
		r.defaultIndex = 0
		for i, z := range opts.Zooms {
			if z == opts.DefaultZoom {
				r.defaultIndex = i
				break
			}
		}
		zooms, err := presentation.New(opts.Zooms, presentation.Options{StartAt: r.defaultIndex})
		if err != nil {
			return nil, err
		}
		zooms.OnChange(func() { r.applyZoom(zooms.Item()) })
		r.zooms = zooms
	}

	if !opts.NoKeyboard && r.window != nil {
		r.bind(opts.ZoomIn, opts.ZoomOut, opts.Auto)
	}
	return r, nil
}

/*---------------------------------------------------------------------------/
	Size
/---------------------------------------------------------------------------*/

// Resize stores width and height and pushes them to the canvas; zero values
// fall back to the viewport.
func (r *Resizer) Resize(width, height int) {
	r.width = width
	r.height = height

	if r.window != nil {
		vw, vh := r.window.Size()
		if width == 0 {
			width = vw
		}
		if height == 0 {
			height = vh
		}
	}
	r.canvas.SetSize(width, height)
	log.Debug().Int("width", width).Int("height", height).Msg("canvas resized")

	if r.OnResize != nil {
		r.OnResize()
	}
}

// Auto restores the default zoom and re-applies the stored size.
func (r *Resizer) Auto() {
	if r.zooms != nil {
		_ = r.zooms.Goto(r.defaultIndex, true)
	}
	r.Resize(r.width, r.height)
}

func (r *Resizer) Width() int  { return r.width }
func (r *Resizer) Height() int { return r.height }

func (r *Resizer) SetWidth(width int)   { r.Resize(width, r.height) }
func (r *Resizer) SetHeight(height int) { r.Resize(r.width, height) }

// Preset returns the current preset name, or "" without presets.
func (r *Resizer) Preset() string {
	if r.presets == nil {
		return ""
	}
	return r.presets.Item().Name
}

// SetPreset selects a preset by name, case-insensitively. Unknown names are
// ignored and reported as false.
func (r *Resizer) SetPreset(name string) bool {
	if r.presets == nil {
		return false
	}
	for _, p := range r.presets.Items() {
		if strings.EqualFold(p.Name, name) {
			return r.presets.SetItem(p)
		}
	}
	return false
}

/*---------------------------------------------------------------------------/
	Zoom
/---------------------------------------------------------------------------*/

func (r *Resizer) applyZoom(zoom float64) {
	r.canvas.SetScale(zoom * 0.01)
}

func (r *Resizer) ZoomIn() {
	if r.zooms != nil {
		r.zooms.Forward()
	}
}

func (r *Resizer) ZoomOut() {
	if r.zooms != nil {
		r.zooms.Back()
	}
}

// Zoom returns the current zoom step in percent (100 without zoom steps).
func (r *Resizer) Zoom() float64 {
	if r.zooms == nil {
		return 100
	}
	return r.zooms.Item()
}

// SetZoom selects a zoom step. A value outside the steps is applied as is
// while the step cursor silently returns to the default.
func (r *Resizer) SetZoom(zoom float64) {
	if r.zooms == nil {
		r.applyZoom(zoom)
		return
	}
	if r.zooms.SetItem(zoom) {
		return
	}
	_ = r.zooms.Goto(r.defaultIndex, false)
	r.applyZoom(zoom)
}

/*---------------------------------------------------------------------------/
	Events
/---------------------------------------------------------------------------*/

func (r *Resizer) bind(zoomIn, zoomOut, auto string) {
	r.keyID = r.window.AddEventListener(input.KeyUp, func(ev *input.Event) {
		switch {
		case ev.Key == "":
		case strings.Contains(auto, ev.Key):
			r.Auto()
		case strings.Contains(zoomIn, ev.Key):
			r.ZoomIn()
		case strings.Contains(zoomOut, ev.Key):
			r.ZoomOut()
		}
	})
	r.bound = true
}

func (r *Resizer) Dispose() {
	if !r.bound {
		return
	}
	r.window.RemoveEventListener(input.KeyUp, r.keyID)
	r.bound = false
}
