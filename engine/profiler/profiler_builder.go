package profiler

import (
	"log/slog"
	"time"

	"github.com/fooooooooooooooo/PengEngine/common"
)

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often Tick reports statistics.
// Values <= 0 are treated as the default (1 second).
//
// Parameters:
//   - interval: the minimum time between two reports
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval <= 0 {
			interval = time.Second
		}
		p.updateInterval = interval
	}
}

// WithLogger sets the logger that receives the periodic reports. Nil restores the discarding default.
//
// Parameters:
//   - l: the logger to write reports to
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger option to a profiler
func WithLogger(l *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = common.LoggerOrNop(l)
	}
}

// WithClock replaces the time source used for frame and span timing.
// Intended for tests that need deterministic durations.
//
// Parameters:
//   - now: a function returning the current time
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock option to a profiler
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
