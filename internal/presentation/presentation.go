// Package presentation implements an index cursor over an ordered, fixed
// sequence of items, with begin/change/complete observers.
package presentation

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	// ErrIndexOutOfRange is returned by Goto for an index outside [0, Len).
	ErrIndexOutOfRange = errors.New("presentation: index out of range")
	// ErrInvalidConfiguration is returned by New for unusable options.
	ErrInvalidConfiguration = errors.New("presentation: invalid configuration")
)

// Phase names the observer group that fires for the current index.
type Phase string

const (
	Begin    Phase = "begin"
	Change   Phase = "change"
	Complete Phase = "complete"
)

// Options configure a Presentation. The zero value starts at index 0
// without looping.
type Options struct {
	Loop    bool
	StartAt int
	// InitCallback fires observers for the initial commit.
	InitCallback bool
	// Debug logs every committed index.
	Debug bool

	OnBegin    func()
	OnChange   func()
	OnComplete func()
}

// Presentation is not safe for concurrent use.
type Presentation[T comparable] struct {
	items []T
	index int
	loop  bool
	debug bool

	begin    observers
	change   observers
	complete observers
}

// New copies items and commits opts.StartAt.
func New[T comparable](items []T, opts Options) (*Presentation[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidConfiguration)
	}
	start := opts.StartAt
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return nil, fmt.Errorf("%w: start index %d with %d items", ErrInvalidConfiguration, start, len(items))
	}

	p := &Presentation[T]{
		items: append([]T(nil), items...),
		index: -1,
		loop:  opts.Loop,
		debug: opts.Debug,
	}
	if opts.OnBegin != nil {
		p.OnBegin(opts.OnBegin)
	}
	if opts.OnChange != nil {
		p.OnChange(opts.OnChange)
	}
	if opts.OnComplete != nil {
		p.OnComplete(opts.OnComplete)
	}

	if err := p.Goto(start, opts.InitCallback); err != nil {
		return nil, err
	}
	return p, nil
}

// Goto commits index. Repeating the current index is a no-op, so observers
// fire once per actual change. Change observers fire first, then begin
// observers at index 0, then complete observers at the last index.
func (p *Presentation[T]) Goto(index int, trigger bool) error {
	if index == p.index {
		return nil
	}
	if index < 0 || index >= len(p.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(p.items))
	}

	p.index = index
	if p.debug {
		log.Debug().Int("index", index).Interface("item", p.items[index]).Msg("presentation goto")
	}

	if !trigger {
		return nil
	}
	p.change.fire()
	if p.IsStarting() {
		p.begin.fire()
	}
	if p.IsEnding() {
		p.complete.fire()
	}
	return nil
}

// SetIndex is Goto with observers.
func (p *Presentation[T]) SetIndex(index int) error { return p.Goto(index, true) }

// NextIndex returns the index Forward would commit; false at the last
// index of a non-looping presentation.
func (p *Presentation[T]) NextIndex() (int, bool) {
	if p.IsEnding() {
		if !p.loop {
			return p.index, false
		}
		return 0, true
	}
	return p.index + 1, true
}

// PrevIndex returns the index Back would commit; false at index 0 of a
// non-looping presentation.
func (p *Presentation[T]) PrevIndex() (int, bool) {
	if p.IsStarting() {
		if !p.loop {
			return p.index, false
		}
		return p.LastIndex(), true
	}
	return p.index - 1, true
}

func (p *Presentation[T]) Forward() {
	if i, ok := p.NextIndex(); ok {
		_ = p.Goto(i, true)
	}
}

func (p *Presentation[T]) Back() {
	if i, ok := p.PrevIndex(); ok {
		_ = p.Goto(i, true)
	}
}

func (p *Presentation[T]) Index() int { return p.index }

func (p *Presentation[T]) Item() T { return p.items[p.index] }

// SetItem moves to the first occurrence of item. Absent items are ignored
// and reported as false.
func (p *Presentation[T]) SetItem(item T) bool {
	i := p.IndexOf(item)
	if i < 0 {
		return false
	}
	_ = p.Goto(i, true)
	return true
}

// IndexOf returns the first index holding item, or -1.
func (p *Presentation[T]) IndexOf(item T) int {
	for i, it := range p.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Items returns a copy of the sequence.
func (p *Presentation[T]) Items() []T { return append([]T(nil), p.items...) }

func (p *Presentation[T]) Len() int         { return len(p.items) }
func (p *Presentation[T]) LastIndex() int   { return len(p.items) - 1 }
func (p *Presentation[T]) IsStarting() bool { return p.index == 0 }
func (p *Presentation[T]) IsEnding() bool   { return p.index == p.LastIndex() }
func (p *Presentation[T]) Loop() bool       { return p.loop }
func (p *Presentation[T]) SetLoop(loop bool) {
	p.loop = loop
}

// Phase reports which observers an arrival at the current index triggers,
// preferring Begin at the start and Complete at the end.
func (p *Presentation[T]) Phase() Phase {
	switch {
	case p.IsStarting():
		return Begin
	case p.IsEnding():
		return Complete
	default:
		return Change
	}
}

// OnBegin subscribes fn to arrivals at index 0. The returned func cancels
// the subscription.
func (p *Presentation[T]) OnBegin(fn func()) (cancel func()) { return p.begin.add(fn) }

// OnChange subscribes fn to every committed change.
func (p *Presentation[T]) OnChange(fn func()) (cancel func()) { return p.change.add(fn) }

// OnComplete subscribes fn to arrivals at the last index.
func (p *Presentation[T]) OnComplete(fn func()) (cancel func()) { return p.complete.add(fn) }
