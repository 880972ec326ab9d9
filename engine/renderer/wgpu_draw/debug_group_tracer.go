package wgpu_draw

import (
	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
)

// debugGroupTracer maps spans onto render pass debug groups.
type debugGroupTracer struct {
	frame *Frame
}

type debugGroupSpan struct {
	pass PassEncoder
}

func (s debugGroupSpan) End() {
	s.pass.PopDebugGroup()
}

var nopSpan = profiler.NopTracer().Begin("")

// NewDebugGroupTracer returns a tracer that pushes a debug group named after each span onto the
// frame's active pass and pops it when the span ends. Spans opened between frames record nothing.
//
// Parameters:
//   - frame: the frame whose pass receives the debug groups
//
// Returns:
//   - profiler.Tracer: the debug group tracer
func NewDebugGroupTracer(frame *Frame) profiler.Tracer {
	if frame == nil {
		panic("wgpu_draw: NewDebugGroupTracer requires a frame")
	}
	return &debugGroupTracer{frame: frame}
}

func (t *debugGroupTracer) Begin(name string) profiler.Span {
	pass := t.frame.Pass()
	if pass == nil {
		return nopSpan
	}
	pass.PushDebugGroup(name)
	return debugGroupSpan{pass: pass}
}
