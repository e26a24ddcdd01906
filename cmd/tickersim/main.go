// Command tickersim runs a ticker on a manual clock and advances a
// presentation on an autoplay timer, logging every slide change.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/presentation"
	"github.com/coreman2200/funtimes-sketchpad/internal/sequence"
	"github.com/coreman2200/funtimes-sketchpad/internal/ticker"
)

func main() {
	var (
		fps      = flag.Int("fps", 30, "frame rate cap, 0 ticks on every advance")
		delta    = flag.Float64("delta", 1000.0/60, "clock advance per step (ms)")
		steps    = flag.Int("steps", 180, "number of clock advances")
		slides   = flag.Int("slides", 4, "number of slides")
		interval = flag.Float64("autoplay", 1000, "autoplay interval (ms)")
		loop     = flag.Bool("loop", true, "wrap from the last slide to the first")
		frames   = flag.Bool("frames", false, "log every frame")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	items := make([]int, *slides)
	for i := range items {
		items[i] = i
	}
	p, err := presentation.New(items, presentation.Options{Loop: *loop})
	if err != nil {
		log.Fatal().Err(err).Msg("presentation")
	}
	p.OnChange(func() { log.Info().Int("slide", p.Index()).Str("phase", string(p.Phase())).Msg("change") })
	p.OnBegin(func() { log.Info().Msg("begin") })
	p.OnComplete(func() { log.Info().Msg("complete") })

	auto, err := sequence.NewAutoplay(*interval, sequence.Hooks{
		Advance:      p.Forward,
		StateChanged: func(s sequence.State) { log.Info().Str("state", string(s)).Msg("autoplay") },
	})
	if err != nil {
		log.Fatal().Err(err).Msg("autoplay")
	}

	clock := ticker.NewManual()
	ticks := 0
	t := ticker.New(clock, *fps, ticker.Func(func(d, now float64) {
		ticks++
		auto.Tick(d)
		if *frames {
			log.Debug().Float64("delta", d).Float64("time", now).Msg("tick")
		}
	}))

	auto.Start()
	t.Start()
	for i := 0; i < *steps; i++ {
		clock.Advance(*delta)
		if !*loop && p.IsEnding() {
			auto.Stop()
		}
	}
	t.Stop()

	log.Info().
		Int("steps", *steps).
		Int("ticks", ticks).
		Float64("clock_ms", clock.Now()).
		Int("slide", p.Index()).
		Msg("done")
}
