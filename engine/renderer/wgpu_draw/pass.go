// Package wgpu_draw implements the draw tree resource capabilities on a WebGPU render pass.
//
// Shaders, meshes and materials do not receive the pass as an argument. They encode into the
// pass held by a Frame, which the caller begins before executing a draw tree and ends after.
package wgpu_draw

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PassEncoder is the subset of *wgpu.RenderPassEncoder used by the draw path.
type PassEncoder interface {
	// SetPipeline binds a render pipeline.
	SetPipeline(p *wgpu.RenderPipeline)
	// SetBindGroup binds a bind group at groupIndex without dynamic offsets.
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup)
	// SetVertexBuffer binds the whole of buf at the vertex slot.
	SetVertexBuffer(slot uint32, buf *wgpu.Buffer)
	// SetIndexBuffer binds the whole of buf as uint32 indices.
	SetIndexBuffer(buf *wgpu.Buffer)
	// DrawIndexed draws indexCount indices for instanceCount instances.
	DrawIndexed(indexCount, instanceCount uint32)
	// PushDebugGroup opens a labelled debug group visible in GPU capture tools.
	PushDebugGroup(label string)
	// PopDebugGroup closes the innermost debug group.
	PopDebugGroup()
}

// renderPassEncoder adapts *wgpu.RenderPassEncoder to PassEncoder.
type renderPassEncoder struct {
	pass *wgpu.RenderPassEncoder
}

var _ PassEncoder = &renderPassEncoder{}

// NewPassEncoder wraps a render pass begun on a command encoder.
//
// Parameters:
//   - pass: the render pass, owned by the caller
//
// Returns:
//   - PassEncoder: the wrapped pass
func NewPassEncoder(pass *wgpu.RenderPassEncoder) PassEncoder {
	if pass == nil {
		panic("wgpu_draw: NewPassEncoder requires a non-nil render pass")
	}
	return &renderPassEncoder{pass: pass}
}

func (e *renderPassEncoder) SetPipeline(p *wgpu.RenderPipeline) {
	e.pass.SetPipeline(p)
}

func (e *renderPassEncoder) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup) {
	e.pass.SetBindGroup(groupIndex, group, nil)
}

func (e *renderPassEncoder) SetVertexBuffer(slot uint32, buf *wgpu.Buffer) {
	e.pass.SetVertexBuffer(slot, buf, 0, wgpu.WholeSize)
}

func (e *renderPassEncoder) SetIndexBuffer(buf *wgpu.Buffer) {
	e.pass.SetIndexBuffer(buf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (e *renderPassEncoder) DrawIndexed(indexCount, instanceCount uint32) {
	e.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (e *renderPassEncoder) PushDebugGroup(label string) {
	e.pass.PushDebugGroup(label)
}

func (e *renderPassEncoder) PopDebugGroup() {
	e.pass.PopDebugGroup()
}

// BufferWriter uploads bytes into a GPU buffer, normally through the device queue.
type BufferWriter interface {
	// WriteBuffer schedules a write of data into buf at offset.
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)
}

// queueWriter adapts *wgpu.Queue to BufferWriter.
type queueWriter struct {
	queue *wgpu.Queue
}

var _ BufferWriter = &queueWriter{}

// NewQueueWriter wraps the device queue.
//
// Parameters:
//   - queue: the device queue
//
// Returns:
//   - BufferWriter: a writer that forwards to queue.WriteBuffer
func NewQueueWriter(queue *wgpu.Queue) BufferWriter {
	if queue == nil {
		panic("wgpu_draw: NewQueueWriter requires a non-nil queue")
	}
	return &queueWriter{queue: queue}
}

func (w *queueWriter) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	w.queue.WriteBuffer(buf, offset, data)
}
