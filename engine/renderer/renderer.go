package renderer

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/pipeline"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/render_queue"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	queue render_queue.RenderQueue

	tracer           profiler.Tracer
	gpuTracer        profiler.Tracer
	logger           *slog.Logger
	blendOrderPolicy draw_tree.BlendOrderPolicy

	lastStats  draw_tree.RenderQueueStats
	frameCount uint64
}

// Renderer defines the interface for the rendering system.
//
// The Renderer turns a frame's draw calls into a draw tree and executes it. Draw calls reach it
// either through its RenderQueue or as an explicit list passed to Render. It also keeps a cache
// of pipelines by key so producers can look up the pipeline their shaders wrap.
//
// The caller owns the GPU frame: resources that encode into a render pass expect that pass to
// be active for the duration of RenderFrame or Render.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// SetPipeline adds or updates a Pipeline in the cache with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to add or update in the cache
	//   - p: the Pipeline to add or update in the cache
	SetPipeline(key string, p pipeline.Pipeline)

	// Queue returns the render queue drained by RenderFrame.
	//
	// Returns:
	//   - render_queue.RenderQueue: the renderer's queue
	Queue() render_queue.RenderQueue

	// Submit queues draw calls for the next RenderFrame. Safe for concurrent use.
	//
	// Parameters:
	//   - drawCalls: the draw calls to queue
	Submit(drawCalls ...draw_tree.DrawCall)

	// RenderFrame collects the queue, builds the draw tree and executes it.
	//
	// Returns:
	//   - draw_tree.RenderQueueStats: the frame's statistics, partial if execution stopped early
	//   - error: the build or execution error, or nil
	RenderFrame() (draw_tree.RenderQueueStats, error)

	// Render builds and executes a draw tree for an explicit list of draw calls, bypassing the queue.
	// Render takes ownership of drawCalls.
	//
	// Parameters:
	//   - drawCalls: the frame's draw calls
	//
	// Returns:
	//   - draw_tree.RenderQueueStats: the frame's statistics, partial if execution stopped early
	//   - error: the build or execution error, or nil
	Render(drawCalls []draw_tree.DrawCall) (draw_tree.RenderQueueStats, error)

	// LastStats returns the statistics of the most recent frame.
	//
	// Returns:
	//   - draw_tree.RenderQueueStats: the last frame's statistics
	LastStats() draw_tree.RenderQueueStats

	// FrameCount returns the number of frames executed without error.
	//
	// Returns:
	//   - uint64: the frame count
	FrameCount() uint64
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer. Without WithRenderQueue a default queue is created.
//
// Parameters:
//   - options: a variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer instance
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:               &sync.Mutex{},
		pipelineCache:    make(map[string]pipeline.Pipeline),
		tracer:           profiler.NopTracer(),
		gpuTracer:        profiler.NopTracer(),
		logger:           common.NopLogger(),
		blendOrderPolicy: draw_tree.BlendOrderWarn,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.queue == nil {
		r.queue = render_queue.NewRenderQueue(render_queue.WithLogger(r.logger))
	}
	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.pipelineCache)
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache[key] = p
}

func (r *renderer) Queue() render_queue.RenderQueue {
	return r.queue
}

func (r *renderer) Submit(drawCalls ...draw_tree.DrawCall) {
	r.queue.Submit(drawCalls...)
}

func (r *renderer) RenderFrame() (draw_tree.RenderQueueStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := r.tracer.Begin("Render Frame")
	defer span.End()

	return r.render(r.queue.Collect())
}

func (r *renderer) Render(drawCalls []draw_tree.DrawCall) (draw_tree.RenderQueueStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := r.tracer.Begin("Render Frame")
	defer span.End()

	return r.render(drawCalls)
}

// render must be called with r.mu held.
func (r *renderer) render(drawCalls []draw_tree.DrawCall) (draw_tree.RenderQueueStats, error) {
	var stats draw_tree.RenderQueueStats

	tree, err := draw_tree.NewDrawTree(drawCalls,
		draw_tree.WithTracer(r.tracer),
		draw_tree.WithGPUTracer(r.gpuTracer),
		draw_tree.WithLogger(r.logger),
		draw_tree.WithBlendOrderPolicy(r.blendOrderPolicy),
	)
	if err != nil {
		r.lastStats = stats
		return stats, fmt.Errorf("failed to build draw tree: %w", err)
	}

	err = tree.Execute(&stats)
	r.lastStats = stats
	if err != nil {
		r.logger.Error("frame dropped", slog.Uint64("frame", r.frameCount), slog.Any("error", err))
		return stats, fmt.Errorf("failed to execute draw tree: %w", err)
	}

	r.frameCount++
	r.logger.Debug("frame rendered",
		slog.Uint64("frame", r.frameCount),
		slog.Int("shader_switches", stats.ShaderSwitches),
		slog.Int("mesh_switches", stats.MeshSwitches),
		slog.Int("draw_calls", stats.DrawCalls),
		slog.Uint64("triangles", stats.Triangles),
	)
	return stats, nil
}

func (r *renderer) LastStats() draw_tree.RenderQueueStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}
