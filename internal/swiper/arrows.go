package swiper

import "github.com/coreman2200/funtimes-sketchpad/internal/input"

// Arrows is the back/forward affordance a Swiper keeps in sync.
type Arrows interface {
	Disable(back, forward bool)
	SetHorizontal(horizontal bool)
	Bind(onBack, onForward func())
	Dispose()
}

// NavigationArrows is a headless model of a pair of clickable arrows. It
// listens for click events targeting "<prefix>-back" and "<prefix>-forward"
// and exposes its state so a renderer or remote UI can draw it.
type NavigationArrows struct {
	Prefix string

	src     input.Source
	id      input.ListenerID
	bound   bool
	onBack  func()
	onFwd   func()
	backOff bool
	fwdOff  bool
	horiz   bool
}

// ArrowsState is a snapshot of the arrows for display.
type ArrowsState struct {
	Back       string `json:"back"`
	Forward    string `json:"forward"`
	BackOff    bool   `json:"backDisabled"`
	ForwardOff bool   `json:"forwardDisabled"`
	Horizontal bool   `json:"horizontal"`
}

func NewNavigationArrows(src input.Source, prefix string) *NavigationArrows {
	if prefix == "" {
		prefix = "swiper"
	}
	return &NavigationArrows{Prefix: prefix, src: src, horiz: true}
}

func (a *NavigationArrows) BackTarget() string    { return a.Prefix + "-back" }
func (a *NavigationArrows) ForwardTarget() string { return a.Prefix + "-forward" }

func (a *NavigationArrows) Disable(back, forward bool) {
	a.backOff = back
	a.fwdOff = forward
}

func (a *NavigationArrows) SetHorizontal(horizontal bool) { a.horiz = horizontal }

func (a *NavigationArrows) Bind(onBack, onForward func()) {
	a.onBack = onBack
	a.onFwd = onForward
	if a.bound || a.src == nil {
		return
	}
	a.id = a.src.AddEventListener(input.Click, a.onClick)
	a.bound = true
}

func (a *NavigationArrows) onClick(ev *input.Event) {
	switch ev.Target {
	case a.BackTarget():
		if a.backOff || a.onBack == nil {
			return
		}
		ev.PreventDefault()
		a.onBack()
	case a.ForwardTarget():
		if a.fwdOff || a.onFwd == nil {
			return
		}
		ev.PreventDefault()
		a.onFwd()
	}
}

func (a *NavigationArrows) Dispose() {
	if a.bound {
		a.src.RemoveEventListener(input.Click, a.id)
		a.bound = false
	}
	a.onBack = nil
	a.onFwd = nil
}

func (a *NavigationArrows) State() ArrowsState {
	return ArrowsState{
		Back:       a.BackTarget(),
		Forward:    a.ForwardTarget(),
		BackOff:    a.backOff,
		ForwardOff: a.fwdOff,
		Horizontal: a.horiz,
	}
}
