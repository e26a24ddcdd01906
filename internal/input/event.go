package input

import "time"

// Type names an input event, using the DOM event names.
type Type string

const (
	KeyDown    Type = "keydown"
	KeyUp      Type = "keyup"
	Wheel      Type = "wheel"
	MouseDown  Type = "mousedown"
	MouseUp    Type = "mouseup"
	MouseMove  Type = "mousemove"
	TouchStart Type = "touchstart"
	TouchEnd   Type = "touchend"
	TouchMove  Type = "touchmove"
	Click      Type = "click"
	Resize     Type = "resize"
)

// Touch is a single contact point of a touch event.
type Touch struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

// Event is the normalized payload handed to listeners. Only the fields
// relevant to Type are populated.
type Event struct {
	Type Type          `json:"type"`
	Time time.Duration `json:"-"`

	// keyboard
	Key   string `json:"key,omitempty"`
	Ctrl  bool   `json:"ctrlKey,omitempty"`
	Alt   bool   `json:"altKey,omitempty"`
	Shift bool   `json:"shiftKey,omitempty"`

	// wheel
	DeltaX float64 `json:"deltaX,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`

	// mouse / touch
	ClientX float64 `json:"clientX,omitempty"`
	ClientY float64 `json:"clientY,omitempty"`
	Button  int     `json:"button,omitempty"`
	Touches []Touch `json:"touches,omitempty"`

	// click target, e.g. "swiper-back"
	Target string `json:"target,omitempty"`

	// resize
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	prevented bool
}

// PreventDefault flags the event as handled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Primary returns the coordinates of the first touch for touch events and
// the pointer coordinates otherwise.
func (e *Event) Primary() (x, y float64) {
	if len(e.Touches) > 0 {
		return e.Touches[0].ClientX, e.Touches[0].ClientY
	}
	return e.ClientX, e.ClientY
}
