package render_queue

import (
	"log/slog"
	"time"

	"github.com/fooooooooooooooo/PengEngine/common"
)

// RenderQueueBuilderOption is a functional option used to configure a RenderQueue during construction.
type RenderQueueBuilderOption func(*renderQueue)

// WithWorkers sets the number of pool workers used to gather sources. A value of 1 disables
// the pool and gathers sources on the calling goroutine.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - RenderQueueBuilderOption: option function to apply
func WithWorkers(n int) RenderQueueBuilderOption {
	return func(q *renderQueue) {
		if n < 1 {
			n = 1
		}
		q.workers = n
	}
}

// WithQueueSize sets the task queue capacity of the worker pool.
//
// Parameters:
//   - n: the queue capacity (minimum 1)
//
// Returns:
//   - RenderQueueBuilderOption: option function to apply
func WithQueueSize(n int) RenderQueueBuilderOption {
	return func(q *renderQueue) {
		if n < 1 {
			n = 1
		}
		q.queueSize = n
	}
}

// WithIdleTimeout sets how long an idle pool worker lives before exiting.
//
// Parameters:
//   - d: the idle timeout, ignored if not positive
//
// Returns:
//   - RenderQueueBuilderOption: option function to apply
func WithIdleTimeout(d time.Duration) RenderQueueBuilderOption {
	return func(q *renderQueue) {
		if d > 0 {
			q.idleTimeout = d
		}
	}
}

// WithInitialCapacity sets the capacity reserved for submitted draw calls each frame.
//
// Parameters:
//   - n: the capacity, ignored if negative
//
// Returns:
//   - RenderQueueBuilderOption: option function to apply
func WithInitialCapacity(n int) RenderQueueBuilderOption {
	return func(q *renderQueue) {
		if n >= 0 {
			q.initialCapacity = n
		}
	}
}

// WithLogger sets the logger used for per-frame collection diagnostics.
//
// Parameters:
//   - l: the logger to use, nil restores the discarding default
//
// Returns:
//   - RenderQueueBuilderOption: option function to apply
func WithLogger(l *slog.Logger) RenderQueueBuilderOption {
	return func(q *renderQueue) {
		q.logger = common.LoggerOrNop(l)
	}
}
