// Package output delivers rendered frames to their destinations: the log,
// an LED strip, the preview server.
package output

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

// Sink consumes frames. Write must not keep a reference to the frame.
type Sink interface {
	Write(f *render.Frame) error
	Close() error
}

// Name describes a sink for logs and diagnostics.
func Name(s Sink) string {
	if st, ok := s.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", s)
}

// Multi writes to every sink and joins their errors.
type Multi []Sink

func (m Multi) Write(f *render.Frame) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(f); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", Name(s), err))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", Name(s), err))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) String() string { return fmt.Sprintf("multi(%d)", len(m)) }

// Console logs a compact summary of every Every-th frame (first pixel and
// average), useful headless.
type Console struct {
	Every int
	Count int
}

func (c *Console) Write(f *render.Frame) error {
	c.Count++
	every := c.Every
	if every <= 0 {
		every = 1
	}
	if c.Count%every != 0 {
		return nil
	}
	avg := f.Average()
	first := render.Black
	if f.Len() > 0 {
		first = f.Pix[0]
	}
	log.Info().
		Int("frame", c.Count).
		Int("w", f.Width).Int("h", f.Height).
		Str("avg", fmt.Sprintf("(%.2f,%.2f,%.2f)", avg.R, avg.G, avg.B)).
		Str("first", fmt.Sprintf("(%.2f,%.2f,%.2f)", first.R, first.G, first.B)).
		Msg("frame")
	return nil
}

func (c *Console) Close() error { return nil }

func (c *Console) String() string { return "console" }
