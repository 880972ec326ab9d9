// Package render_queue collects a frame's draw calls from producers before the draw tree is built.
package render_queue

import (
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
)

// DrawSource produces draw calls once per frame, e.g. a scene layer or a particle system.
// Sources are compared by identity, so implementations must be comparable.
type DrawSource interface {
	// DrawCalls returns the draw calls for the current frame. The returned slice is copied
	// into the frame, so the source may reuse it afterwards. Called from a worker goroutine
	// when the queue gathers sources in parallel.
	//
	// Returns:
	//   - []draw_tree.DrawCall: this frame's draw calls
	DrawCalls() []draw_tree.DrawCall
}

// RenderQueue is the per-frame hand-off point between draw call producers and the renderer.
type RenderQueue interface {
	// Submit queues draw calls for the next Collect. Safe for concurrent use.
	//
	// Parameters:
	//   - drawCalls: the draw calls to queue
	Submit(drawCalls ...draw_tree.DrawCall)

	// AddSource registers a source polled on every Collect. Adding a registered source is a no-op.
	//
	// Parameters:
	//   - src: the source to register
	AddSource(src DrawSource)

	// RemoveSource unregisters a source.
	//
	// Parameters:
	//   - src: the source to unregister
	//
	// Returns:
	//   - bool: true if src was registered
	RemoveSource(src DrawSource) bool

	// SourceCount returns the number of registered sources.
	//
	// Returns:
	//   - int: the source count
	SourceCount() int

	// Len returns the number of submitted draw calls waiting for the next Collect.
	//
	// Returns:
	//   - int: the pending draw call count
	Len() int

	// Collect drains the submitted draw calls and polls every source. The result holds the
	// submitted draws in submission order followed by each source's draws in registration
	// order, whether or not sources were gathered in parallel.
	//
	// Returns:
	//   - []draw_tree.DrawCall: the frame's draw calls, owned by the caller
	Collect() []draw_tree.DrawCall
}

// renderQueue is the implementation of the RenderQueue interface.
type renderQueue struct {
	mu      sync.Mutex
	pending []draw_tree.DrawCall
	sources []DrawSource

	workers         int
	queueSize       int
	idleTimeout     time.Duration
	initialCapacity int
	pool            worker.DynamicWorkerPool
	logger          *slog.Logger
}

var _ RenderQueue = &renderQueue{}

// NewRenderQueue creates an empty RenderQueue.
//
// Sources are gathered on a worker pool sized max(NumCPU-1, 1) by default. With a single
// worker or fewer than two sources, Collect polls sources on the calling goroutine.
//
// Parameters:
//   - options: variadic list of RenderQueueBuilderOption functions
//
// Returns:
//   - RenderQueue: the new queue
func NewRenderQueue(options ...RenderQueueBuilderOption) RenderQueue {
	q := &renderQueue{
		workers:         max(runtime.NumCPU()-1, 1),
		queueSize:       256,
		idleTimeout:     1 * time.Second,
		initialCapacity: 64,
		logger:          common.NopLogger(),
	}
	for _, opt := range options {
		opt(q)
	}

	// Created after options so WithWorkers and friends apply.
	if q.workers > 1 {
		q.pool = worker.NewDynamicWorkerPool(q.workers, q.queueSize, q.idleTimeout)
	}
	q.pending = make([]draw_tree.DrawCall, 0, q.initialCapacity)
	return q
}

func (q *renderQueue) Submit(drawCalls ...draw_tree.DrawCall) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, drawCalls...)
}

func (q *renderQueue) AddSource(src DrawSource) {
	if src == nil {
		panic("render_queue: AddSource requires a non-nil DrawSource")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if slices.Contains(q.sources, src) {
		return
	}
	q.sources = append(q.sources, src)
}

func (q *renderQueue) RemoveSource(src DrawSource) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := slices.Index(q.sources, src)
	if i < 0 {
		return false
	}
	q.sources = slices.Delete(q.sources, i, i+1)
	return true
}

func (q *renderQueue) SourceCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sources)
}

func (q *renderQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *renderQueue) Collect() []draw_tree.DrawCall {
	q.mu.Lock()
	frame := q.pending
	q.pending = make([]draw_tree.DrawCall, 0, max(q.initialCapacity, len(frame)))
	sources := slices.Clone(q.sources)
	q.mu.Unlock()

	submitted := len(frame)

	var gathered [][]draw_tree.DrawCall
	if q.pool == nil || len(sources) < 2 {
		gathered = gatherSerial(sources)
	} else {
		gathered = q.gatherParallel(sources)
	}
	for _, dcs := range gathered {
		frame = append(frame, dcs...)
	}

	q.logger.Debug("render queue collected",
		slog.Int("submitted", submitted),
		slog.Int("sources", len(sources)),
		slog.Int("draw_calls", len(frame)),
	)
	return frame
}

func gatherSerial(sources []DrawSource) [][]draw_tree.DrawCall {
	gathered := make([][]draw_tree.DrawCall, len(sources))
	for i, src := range sources {
		gathered[i] = src.DrawCalls()
	}
	return gathered
}

// gatherParallel polls each source on the pool. Each task writes only its own slot, and the
// WaitGroup is the per-frame barrier; the pool's own Wait blocks until workers idle out.
func (q *renderQueue) gatherParallel(sources []DrawSource) [][]draw_tree.DrawCall {
	gathered := make([][]draw_tree.DrawCall, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		q.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				gathered[i] = src.DrawCalls()
				return nil, nil
			},
		})
	}
	wg.Wait()

	return gathered
}
