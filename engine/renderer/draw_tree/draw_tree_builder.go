package draw_tree

import (
	"log/slog"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
)

// DrawTreeBuilderOption is a functional option applied to a draw tree during construction via NewDrawTree.
type DrawTreeBuilderOption func(*drawTree)

// WithTracer sets the CPU tracer that receives the build, merge and execute spans.
// Nil restores the no-op tracer.
//
// Parameters:
//   - t: the tracer to use
//
// Returns:
//   - DrawTreeBuilderOption: a function that applies the tracer option to a draw tree
func WithTracer(t profiler.Tracer) DrawTreeBuilderOption {
	return func(d *drawTree) {
		if t == nil {
			t = profiler.NopTracer()
		}
		d.tracer = t
	}
}

// WithGPUTracer sets the tracer that receives one span per executed shader group and mesh group,
// named "Shader - <name>" and "Mesh - <name>", nested inside a "Draw Scene" span.
// Intended for GPU debug groups; span names are only built when a non-nop tracer is set.
//
// Parameters:
//   - t: the tracer to use
//
// Returns:
//   - DrawTreeBuilderOption: a function that applies the GPU tracer option to a draw tree
func WithGPUTracer(t profiler.Tracer) DrawTreeBuilderOption {
	return func(d *drawTree) {
		if profiler.IsNop(t) {
			d.gpuTracer = nil
			return
		}
		d.gpuTracer = t
	}
}

// WithLogger sets the logger used for build diagnostics and blend order warnings.
// Nil restores the discarding default.
//
// Parameters:
//   - l: the logger to use
//
// Returns:
//   - DrawTreeBuilderOption: a function that applies the logger option to a draw tree
func WithLogger(l *slog.Logger) DrawTreeBuilderOption {
	return func(d *drawTree) {
		d.logger = common.LoggerOrNop(l)
	}
}

// WithBlendOrderPolicy sets how the builder reacts to shader priorities that reorder blended draws.
//
// Parameters:
//   - p: the policy to apply (BlendOrderWarn by default)
//
// Returns:
//   - DrawTreeBuilderOption: a function that applies the policy option to a draw tree
func WithBlendOrderPolicy(p BlendOrderPolicy) DrawTreeBuilderOption {
	return func(d *drawTree) {
		d.blendOrderPolicy = p
	}
}
