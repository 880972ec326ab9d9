package renderer

import (
	"log/slog"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/pipeline"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/render_queue"
)

// RendererBuilderOption is a functional option type for configuring the Renderer during initialization.
type RendererBuilderOption func(*renderer)

// WithPipeline adds a Pipeline to the Renderer's pipeline cache with the specified key.
//
// Parameters:
//   - key: the unique identifier for the Pipeline
//   - p: the Pipeline to add to the cache
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(key string, p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache[key] = p
	}
}

// WithRenderQueue sets the queue drained by RenderFrame.
//
// Parameters:
//   - q: the render queue
//
// Returns:
//   - RendererBuilderOption: a function that applies the queue option to a renderer
func WithRenderQueue(q render_queue.RenderQueue) RendererBuilderOption {
	return func(r *renderer) {
		r.queue = q
	}
}

// WithTracer sets the CPU tracer receiving "Render Frame" and the draw tree spans.
//
// Parameters:
//   - t: the tracer, nil restores the no-op tracer
//
// Returns:
//   - RendererBuilderOption: a function that applies the tracer option to a renderer
func WithTracer(t profiler.Tracer) RendererBuilderOption {
	return func(r *renderer) {
		if t == nil {
			t = profiler.NopTracer()
		}
		r.tracer = t
	}
}

// WithGPUTracer sets the tracer receiving per-group spans during execution, e.g. a debug group tracer.
//
// Parameters:
//   - t: the tracer, nil disables GPU spans
//
// Returns:
//   - RendererBuilderOption: a function that applies the GPU tracer option to a renderer
func WithGPUTracer(t profiler.Tracer) RendererBuilderOption {
	return func(r *renderer) {
		if t == nil {
			t = profiler.NopTracer()
		}
		r.gpuTracer = t
	}
}

// WithLogger sets the logger shared with the draw tree and the default render queue.
//
// Parameters:
//   - l: the logger, nil restores the discarding default
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(l *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = common.LoggerOrNop(l)
	}
}

// WithBlendOrderPolicy sets the blend order policy used for every frame's draw tree.
//
// Parameters:
//   - p: the policy
//
// Returns:
//   - RendererBuilderOption: a function that applies the policy option to a renderer
func WithBlendOrderPolicy(p draw_tree.BlendOrderPolicy) RendererBuilderOption {
	return func(r *renderer) {
		r.blendOrderPolicy = p
	}
}
