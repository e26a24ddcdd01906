package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-sketchpad/internal/config"
	"github.com/coreman2200/funtimes-sketchpad/internal/demo"
	diag "github.com/coreman2200/funtimes-sketchpad/internal/diagnostics"
	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/output"
	"github.com/coreman2200/funtimes-sketchpad/internal/preview"
	"github.com/coreman2200/funtimes-sketchpad/internal/settings"
	"github.com/coreman2200/funtimes-sketchpad/internal/sketch"
	"github.com/coreman2200/funtimes-sketchpad/internal/ticker"
)

// statusEvery is how often the loop publishes a /health snapshot, in ms.
const statusEvery = 500

func main() {
	// ---- Flags (config.yaml overrides them where set) ----
	var (
		configPath   = flag.String("config", "sketchpad.yaml", "path to sketchpad.yaml")
		fps          = flag.Int("fps", 60, "frame rate cap, 0 renders every refresh")
		hz           = flag.Int("hz", 60, "loop refresh rate")
		width        = flag.Int("width", 0, "canvas width, 0 follows the viewport")
		height       = flag.Int("height", 0, "canvas height, 0 follows the viewport")
		driver       = flag.String("driver", "console", "output: console | nrz | none")
		spiDev       = flag.String("spi", "", "SPI port for -driver nrz, empty picks the first")
		addr         = flag.String("addr", ":8080", "preview listen address, empty disables it")
		settingsPath = flag.String("settings", "", "settings file (.yaml or .toml), empty keeps them in memory")
		snapshots    = flag.String("snapshots", ".", "directory for PNG snapshots")
		paused       = flag.Bool("paused", false, "open without starting the ticker")
		debug        = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// ---- Load sketchpad.yaml (optional) ----
	cfg := config.Default()
	file := &config.Config{}
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg, file = c, c
	}

	// ---- Effective params (config overrides flags where available) ----
	cfg.FPS = firstNonZeroInt(file.FPS, *fps)
	cfg.Width = firstNonZeroInt(file.Width, *width)
	cfg.Height = firstNonZeroInt(file.Height, *height)
	cfg.Output.Driver = firstNonEmpty(file.Output.Driver, *driver)
	cfg.Output.SPI.Dev = firstNonEmpty(file.Output.SPI.Dev, *spiDev)
	cfg.Preview.Addr = firstNonEmpty(file.Preview.Addr, *addr)
	cfg.Settings.Path = firstNonEmpty(file.Settings.Path, *settingsPath)

	loop := ticker.NewLoop(*hz)
	bus := input.NewBus(cfg.Viewport.Width, cfg.Viewport.Height)

	// ---- Sinks ----
	var sinks []output.Sink
	switch cfg.Output.Driver {
	case "console":
		sinks = append(sinks, &output.Console{Every: cfg.Output.ConsoleEvery})

	case "nrz":
		freq := output.DefaultFreq
		if cfg.Output.SPI.SpeedHz > 0 {
			freq = physic.Frequency(cfg.Output.SPI.SpeedHz) * physic.Hertz
		}
		strip, err := output.OpenNRZ(cfg.Output.SPI.Dev, cfg.Output.Matrix, freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "nrz").
				Str("dev", cfg.Output.SPI.Dev).
				Int("leds", cfg.Output.Matrix.Count()).
				Msg("SPI init failed; falling back to console")
			sinks = append(sinks, &output.Console{Every: cfg.Output.ConsoleEvery})
		} else {
			strip.Brightness = cfg.Output.Brightness
			sinks = append(sinks, strip)
		}

	case "none":

	default:
		log.Warn().Str("driver", cfg.Output.Driver).Msg("unknown driver; using console")
		sinks = append(sinks, &output.Console{Every: cfg.Output.ConsoleEvery})
	}

	// ---- Preview server ----
	var status atomic.Value
	status.Store(map[string]any{})

	publishers := diag.Fanout{diag.Log}
	var prev *preview.Server
	if cfg.Preview.Addr != "" {
		prev = preview.NewServer(preview.Options{
			Dispatch: func(ev *input.Event) { loop.Post(func() { bus.Dispatch(ev) }) },
			Clock:    func() time.Duration { return time.Duration(loop.Now() * float64(time.Millisecond)) },
			Status:   func() map[string]any { return status.Load().(map[string]any) },
		})
		sinks = append(sinks, prev)
		publishers = append(publishers, prev)
	}

	// ---- Settings ----
	var store settings.Store = settings.NewMemoryStore()
	if cfg.Settings.Path != "" {
		fs, err := settings.NewFileStore(cfg.Settings.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Settings.Path).Msg("settings file unusable; keeping settings in memory")
		} else {
			store = fs
		}
	}

	// ---- Sketchpad ----
	pad, err := sketch.New(sketch.Options{
		Window:      bus,
		Driver:      loop,
		FPS:         cfg.FPS,
		Width:       cfg.Width,
		Height:      cfg.Height,
		NoAutoStart: *paused,
		Sinks:       sinks,
		Diagnostics: publishers,
		SnapshotDir: *snapshots,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sketchpad")
	}
	gallery := demo.New(demo.Options{Config: cfg, Store: store})
	if err := pad.Open(context.Background(), gallery); err != nil {
		log.Fatal().Err(err).Msg("open sketch")
	}

	// /health reads a snapshot; sketch state belongs to the loop goroutine.
	sinceStatus := float64(statusEvery)
	pad.Ticker.Add(ticker.Func(func(delta, _ float64) {
		if sinceStatus += delta; sinceStatus < statusEvery {
			return
		}
		sinceStatus = 0
		st := pad.Status()
		st["sketch"] = gallery.State()
		status.Store(st)
	}))

	// ---- Run loop & server ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var srv *http.Server
	if prev != nil {
		srv = &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      withCORS(prev.Handler()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Preview.Addr).Str("driver", cfg.Output.Driver).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}

	// ---- Graceful shutdown ----
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		s := <-ch
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	}()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("loop stopped")
	}

	if srv != nil {
		_ = srv.Close()
	}
	if err := pad.Dispose(); err != nil {
		log.Warn().Err(err).Msg("close outputs")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func firstNonZeroInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
