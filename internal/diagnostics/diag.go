// Package diagnostics describes runtime problems in a form both the log and
// the preview UI can show.
package diagnostics

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Publisher receives diagnostics. Implementations must not block.
type Publisher interface {
	Publish(d Diagnostic)
}

type PublisherFunc func(d Diagnostic)

func (f PublisherFunc) Publish(d Diagnostic) { f(d) }

// Log publishes to the global zerolog logger.
var Log Publisher = PublisherFunc(func(d Diagnostic) {
	ev := log.WithLevel(d.Severity.level()).Str("code", d.Code)
	if d.Detail != "" {
		ev = ev.Str("detail", d.Detail)
	}
	if len(d.Evidence) > 0 {
		ev = ev.Interface("evidence", d.Evidence)
	}
	ev.Msg(d.Summary)
})

// Fanout publishes to every non-nil publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(d Diagnostic) {
	for _, p := range f {
		if p != nil {
			p.Publish(d)
		}
	}
}

func (s Severity) level() zerolog.Level {
	switch s {
	case Err:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// SlowFrame reports a tick that took longer than its frame budget.
func SlowFrame(tookMs, budgetMs float64) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     "FRAME.SLOW",
		Summary:  "Frame exceeded its time budget",
		Detail:   fmt.Sprintf("%.1fms > %.1fms", tookMs, budgetMs),
		LikelyCauses: []string{
			"canvas too large for the chosen effects",
			"blocking output sink",
		},
		SuggestedFixes: []string{"lower the fps", "reduce the canvas size or zoom"},
		Evidence:       map[string]any{"took_ms": tookMs, "budget_ms": budgetMs},
	}
}

// OutputFailed reports a sink write error.
func OutputFailed(sink string, err error) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           "OUTPUT.WRITE",
		Summary:        "Output sink write failed",
		Detail:         err.Error(),
		SuggestedFixes: []string{"check the output device and wiring"},
		Evidence:       map[string]any{"sink": sink},
	}
}

// PowerBudget reports the estimated LED current against the configured limit.
func PowerBudget(estimatedMilliAmps, budgetMilliAmps float64) Diagnostic {
	d := Diagnostic{
		Severity: Info,
		Code:     "POWER.ESTIMATE",
		Summary:  "Estimated LED current",
		Evidence: map[string]any{"estimated_ma": estimatedMilliAmps, "budget_ma": budgetMilliAmps},
	}
	if budgetMilliAmps > 0 && estimatedMilliAmps > budgetMilliAmps {
		d.Severity = Warn
		d.Code = "POWER.OVER_BUDGET"
		d.Summary = "Estimated LED current over budget"
		d.SuggestedFixes = []string{"enable the limiter", "lower exposure"}
	}
	return d
}
