package input

// Listener receives dispatched events.
type Listener func(*Event)

// ListenerID identifies a registration so it can be removed later;
// funcs are not comparable in Go.
type ListenerID uint64

// Source is anything listeners can be attached to: the window, an element,
// or a remote control socket.
type Source interface {
	AddEventListener(t Type, l Listener) ListenerID
	RemoveEventListener(t Type, id ListenerID)
	// Size returns the viewport size in pixels.
	Size() (width, height int)
}

type registration struct {
	id ListenerID
	fn Listener
}

// Bus is an in-process Source. It is not safe for concurrent use: dispatch
// from the loop goroutine only (see ticker.Loop.Post).
type Bus struct {
	next      ListenerID
	listeners map[Type][]registration
	width     int
	height    int
}

func NewBus(width, height int) *Bus {
	return &Bus{
		listeners: map[Type][]registration{},
		width:     width,
		height:    height,
	}
}

func (b *Bus) AddEventListener(t Type, l Listener) ListenerID {
	if l == nil {
		return 0
	}
	b.next++
	b.listeners[t] = append(b.listeners[t], registration{id: b.next, fn: l})
	return b.next
}

func (b *Bus) RemoveEventListener(t Type, id ListenerID) {
	regs := b.listeners[t]
	for i, r := range regs {
		if r.id == id {
			b.listeners[t] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Size() (int, int) { return b.width, b.height }

// SetSize updates the viewport without notifying listeners.
func (b *Bus) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Listeners returns the number of listeners registered for t.
func (b *Bus) Listeners(t Type) int { return len(b.listeners[t]) }

// Dispatch delivers ev to the listeners registered for its type, in
// registration order. Listeners added or removed during dispatch take
// effect on the next event.
func (b *Bus) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	if ev.Type == Resize && ev.Width > 0 && ev.Height > 0 {
		b.SetSize(ev.Width, ev.Height)
	}
	regs := append([]registration(nil), b.listeners[ev.Type]...)
	for _, r := range regs {
		r.fn(ev)
	}
}
