// Package shortcuts maps key bindings such as "Ctrl + S" to actions.
package shortcuts

import (
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/input"
)

type Action func(ev *input.Event)

type Options struct {
	// Bindings are keyed by input.KeyBinding.
	Bindings map[string]Action
	// All runs for every non-modifier key before its binding.
	All Action
	// Unbound runs for keys with no binding.
	Unbound  Action
	Disabled bool
	Debug    bool
}

type Shortcuts struct {
	Enabled bool
	Debug   bool
	All     Action
	Unbound Action

	bindings map[string]Action
	window   input.Source
	id       input.ListenerID
	bound    bool
}

// New listens for keyup on window.
func New(window input.Source, opts Options) *Shortcuts {
	s := &Shortcuts{
		Enabled:  !opts.Disabled,
		Debug:    opts.Debug,
		All:      opts.All,
		Unbound:  opts.Unbound,
		bindings: make(map[string]Action, len(opts.Bindings)),
		window:   window,
	}
	for k, a := range opts.Bindings {
		s.bindings[k] = a
	}
	if window != nil {
		s.id = window.AddEventListener(input.KeyUp, s.Handle)
		s.bound = true
	}
	return s
}

// Handle runs the action bound to ev, if any.
func (s *Shortcuts) Handle(ev *input.Event) {
	if !s.Enabled || input.IsModifier(ev.Key) {
		return
	}
	if s.All != nil {
		s.All(ev)
	}

	binding := input.KeyBinding(ev)
	if a, ok := s.bindings[binding]; ok && a != nil {
		a(ev)
		return
	}
	if s.Debug {
		log.Debug().Str("key", ev.Key).Str("binding", binding).Msg("unbound key")
	}
	if s.Unbound != nil {
		s.Unbound(ev)
	}
}

func (s *Shortcuts) Bind(binding string, a Action) { s.bindings[binding] = a }

func (s *Shortcuts) Unbind(binding string) { delete(s.bindings, binding) }

func (s *Shortcuts) Bound(binding string) bool {
	_, ok := s.bindings[binding]
	return ok
}

func (s *Shortcuts) Dispose() {
	if !s.bound {
		return
	}
	s.window.RemoveEventListener(input.KeyUp, s.id)
	s.bound = false
}
