// Package background provides the fill renderers a sketch can switch
// between, built by name from a Spec.
package background

import (
	"errors"
	"fmt"
	"sort"

	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

var ErrUnknownType = errors.New("background: unknown type")

// Spec is the serialisable description of a background.
type Spec struct {
	Type   string   `yaml:"type" json:"type"`
	Colors []string `yaml:"colors,omitempty" json:"colors,omitempty"`
	// Angle in degrees for linear gradients; 0 runs left to right.
	Angle float64 `yaml:"angle,omitempty" json:"angle,omitempty"`
	// Speed animates the background; its unit depends on the type.
	Speed float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	// Scale sizes noise features; larger is busier.
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
	// Seed picks the noise field; 0 is a valid seed.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Background fills a frame at time t (seconds).
type Background interface {
	Name() string
	Render(dst *render.Frame, t float64)
}

type Factory func(Spec) (Background, error)

type Registry struct{ m map[string]Factory }

func NewRegistry() *Registry { return &Registry{m: map[string]Factory{}} }

// Default returns a registry holding the built-in types.
func Default() *Registry {
	r := NewRegistry()
	r.Register("solid", newSolid)
	r.Register("linear", newLinear)
	r.Register("radial", newRadial)
	r.Register("wave", newWave)
	r.Register("calibration", newCalibration)
	r.Register("simplex", newSimplex)
	return r
}

func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		return
	}
	r.m[name] = f
}

func (r *Registry) Has(name string) bool { _, ok := r.m[name]; return ok }

// Names are sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) New(s Spec) (Background, error) {
	f, ok := r.m[s.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
	}
	return f(s)
}

// parseColors parses hex colors, padding with fallback up to n entries.
func parseColors(in []string, n int, fallback ...render.Color) ([]render.Color, error) {
	out := make([]render.Color, 0, len(in))
	for _, s := range in {
		c, err := render.ParseHex(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	for i := len(out); i < n; i++ {
		if i < len(fallback) {
			out = append(out, fallback[i])
		} else {
			out = append(out, render.Black)
		}
	}
	return out, nil
}

// sample reads a multi-stop gradient at t in [0,1].
func sample(stops []render.Color, t float64) render.Color {
	if len(stops) == 1 {
		return stops[0]
	}
	if t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	seg := t * float64(len(stops)-1)
	i := int(seg)
	return stops[i].Lerp(stops[i+1], seg-float64(i))
}
