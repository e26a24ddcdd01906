// Package pointer tracks the pointer position normalized to [0,1] over a
// margin-adjusted hitbox.
package pointer

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/input"
)

// Margin is expressed as a 0..1 fraction of the viewport per side.
type Margin struct {
	Top, Left, Bottom, Right float64
}

// Uniform returns the same margin on every side.
func Uniform(m float64) Margin {
	if m < 0 {
		m = 0
	}
	return Margin{Top: m, Left: m, Bottom: m, Right: m}
}

type Options struct {
	// Width and Height default to the dispatcher size.
	Width, Height int
	Margin        Margin
	Dispatcher    input.Source
	Disabled      bool
	Debug         bool
	OnChange      func()
}

type hitbox struct {
	left, top, width, height float64
}

type Tracker struct {
	X, Y float64

	Enabled  bool
	Margin   Margin
	OnChange func()

	clientX, clientY float64
	tracked          bool
	box              hitbox
	debug            bool

	src input.Source
	ids []struct {
		t  input.Type
		id input.ListenerID
	}
}

func New(opts Options) *Tracker {
	t := &Tracker{
		X:        0.5,
		Y:        0.5,
		Enabled:  !opts.Disabled,
		Margin:   opts.Margin,
		OnChange: opts.OnChange,
		debug:    opts.Debug,
		src:      opts.Dispatcher,
	}
	w, h := opts.Width, opts.Height
	if (w == 0 || h == 0) && t.src != nil {
		sw, sh := t.src.Size()
		if w == 0 {
			w = sw
		}
		if h == 0 {
			h = sh
		}
	}
	t.Resize(w, h)
	t.bind()
	return t
}

func (t *Tracker) bind() {
	if t.src == nil {
		return
	}
	t.listen(input.MouseMove, func(ev *input.Event) { t.Track(ev.ClientX, ev.ClientY) })
	t.listen(input.TouchMove, func(ev *input.Event) { t.Track(ev.Primary()) })
	t.listen(input.Resize, func(ev *input.Event) {
		if ev.Width > 0 && ev.Height > 0 {
			t.Resize(ev.Width, ev.Height)
		}
	})
}

func (t *Tracker) listen(typ input.Type, l input.Listener) {
	id := t.src.AddEventListener(typ, l)
	t.ids = append(t.ids, struct {
		t  input.Type
		id input.ListenerID
	}{typ, id})
}

// Dispose removes the listeners. Safe to call twice.
func (t *Tracker) Dispose() {
	for _, r := range t.ids {
		t.src.RemoveEventListener(r.t, r.id)
	}
	t.ids = nil
}

// Track updates X and Y from client coordinates and fires OnChange when
// either moved.
func (t *Tracker) Track(clientX, clientY float64) {
	if !t.Enabled {
		return
	}
	changed := false

	if !t.tracked || t.clientX != clientX {
		t.clientX = clientX
		x := normalize(clientX-t.box.left, t.box.width)
		if x != t.X {
			t.X = x
			changed = true
		}
	}
	if !t.tracked || t.clientY != clientY {
		t.clientY = clientY
		y := normalize(clientY-t.box.top, t.box.height)
		if y != t.Y {
			t.Y = y
			changed = true
		}
	}
	t.tracked = true

	if !changed {
		return
	}
	if t.OnChange != nil {
		t.OnChange()
	}
	if t.debug {
		log.Debug().Float64("x", t.X).Float64("y", t.Y).Msg("pointer")
	}
}

// Resize fits the hitbox to a new viewport.
func (t *Tracker) Resize(width, height int) {
	w, h := float64(width), float64(height)
	left := t.Margin.Left * w
	right := t.Margin.Right * w
	top := t.Margin.Top * h
	bottom := t.Margin.Bottom * h
	t.box = hitbox{
		left:   left,
		top:    top,
		width:  w - left - right,
		height: h - top - bottom,
	}
}

func clamp01(n float64) float64 { return math.Max(0, math.Min(1, n)) }

func normalize(n, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(n / max)
}

func flip(n float64) float64     { return 1 - n }
func sign(n float64) float64     { return n*2 - 1 }
func signFlip(n float64) float64 { return 1 - n*2 }
func toMiddle(n float64) float64 { return 1 - math.Abs(n-0.5)*2 }
func toEdges(n float64) float64  { return math.Abs(n-0.5) * 2 }

// XFlip runs 1 -> 0 left to right.
func (t *Tracker) XFlip() float64 { return flip(t.X) }
func (t *Tracker) YFlip() float64 { return flip(t.Y) }

// XSign runs -1 -> 1.
func (t *Tracker) XSign() float64 { return sign(t.X) }
func (t *Tracker) YSign() float64 { return sign(t.Y) }

func (t *Tracker) XSignFlip() float64 { return signFlip(t.X) }
func (t *Tracker) YSignFlip() float64 { return signFlip(t.Y) }

// XMid peaks at 1 in the middle and falls to 0 at the edges.
func (t *Tracker) XMid() float64 { return toMiddle(t.X) }
func (t *Tracker) YMid() float64 { return toMiddle(t.Y) }

// XEdge is the complement of XMid.
func (t *Tracker) XEdge() float64 { return toEdges(t.X) }
func (t *Tracker) YEdge() float64 { return toEdges(t.Y) }
