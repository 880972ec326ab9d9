package wgpu_draw

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/bind_group_provider"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/pipeline"
)

// Shader is a draw_tree.Shader backed by a render pipeline.
type Shader struct {
	frame    *Frame
	pipeline pipeline.Pipeline
}

var _ draw_tree.Shader = &Shader{}

// NewShader binds a pipeline to a frame.
//
// Parameters:
//   - frame: the frame the shader encodes into
//   - p: the render pipeline; its key, blend flag and draw order describe the shader
//
// Returns:
//   - *Shader: the new shader
func NewShader(frame *Frame, p pipeline.Pipeline) *Shader {
	if frame == nil || p == nil {
		panic("wgpu_draw: NewShader requires a frame and a pipeline")
	}
	return &Shader{frame: frame, pipeline: p}
}

// Pipeline returns the wrapped pipeline.
func (s *Shader) Pipeline() pipeline.Pipeline { return s.pipeline }

func (s *Shader) Name() string           { return s.pipeline.PipelineKey() }
func (s *Shader) RequiresBlending() bool { return s.pipeline.BlendEnabled() }
func (s *Shader) DrawOrder() int         { return s.pipeline.DrawOrder() }

func (s *Shader) Use() {
	s.frame.mustPass().SetPipeline(s.pipeline.RenderPipeline())
}

// Mesh is a draw_tree.Mesh backed by the vertex and index buffers of a provider.
type Mesh struct {
	frame    *Frame
	provider bind_group_provider.BindGroupProvider
}

var _ draw_tree.Mesh = &Mesh{}

// NewMesh binds a mesh provider to a frame.
//
// Parameters:
//   - frame: the frame the mesh encodes into
//   - provider: a provider holding a vertex buffer, a uint32 index buffer and the index count
//
// Returns:
//   - *Mesh: the new mesh
func NewMesh(frame *Frame, provider bind_group_provider.BindGroupProvider) *Mesh {
	if frame == nil || provider == nil {
		panic("wgpu_draw: NewMesh requires a frame and a provider")
	}
	return &Mesh{frame: frame, provider: provider}
}

// Provider returns the wrapped provider.
func (m *Mesh) Provider() bind_group_provider.BindGroupProvider { return m.provider }

func (m *Mesh) Name() string { return m.provider.Label() }

// TriangleCount assumes a triangle list topology.
func (m *Mesh) TriangleCount() int { return m.provider.IndexCount() / 3 }

func (m *Mesh) Bind() {
	pass := m.frame.mustPass()
	pass.SetVertexBuffer(0, m.provider.VertexBuffer())
	pass.SetIndexBuffer(m.provider.IndexBuffer())
}

func (m *Mesh) Draw() {
	m.DrawInstanced(1)
}

func (m *Mesh) DrawInstanced(instanceCount uint32) {
	m.frame.mustPass().DrawIndexed(uint32(m.provider.IndexCount()), instanceCount)
}

// Material is a draw_tree.Material that binds a run of bind groups and flushes staged
// uniform writes before its draws.
type Material struct {
	name       string
	frame      *Frame
	shader     draw_tree.Shader
	firstGroup uint32
	bindGroups []bind_group_provider.BindGroupProvider
	writer     BufferWriter
	logger     *slog.Logger

	mu     sync.Mutex
	staged []bind_group_provider.BufferWrite
}

var _ draw_tree.Material = &Material{}

// NewMaterial creates a material rendering with shader.
//
// Parameters:
//   - name: a debug name
//   - frame: the frame the material encodes into
//   - shader: the shader the material renders with
//   - options: variadic list of MaterialBuilderOption functions
//
// Returns:
//   - *Material: the new material
func NewMaterial(name string, frame *Frame, shader draw_tree.Shader, options ...MaterialBuilderOption) *Material {
	if frame == nil {
		panic("wgpu_draw: NewMaterial requires a frame")
	}
	m := &Material{
		name:   name,
		frame:  frame,
		shader: shader,
		logger: common.NopLogger(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Material) Name() string             { return m.name }
func (m *Material) Shader() draw_tree.Shader { return m.shader }

// SetShader swaps the material's shader. Trees built before the swap reject the material's draws.
func (m *Material) SetShader(shader draw_tree.Shader) {
	m.shader = shader
}

// Stage queues buffer writes for the next ApplyUniforms. Safe for concurrent use, so
// producers can update material state while collecting the frame.
//
// Parameters:
//   - writes: the writes to queue, applied in order
func (m *Material) Stage(writes ...bind_group_provider.BufferWrite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = append(m.staged, writes...)
}

// Pending returns the number of staged writes.
func (m *Material) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.staged)
}

// ApplyUniforms flushes the staged writes through the buffer writer. Writes whose target buffer
// does not exist are dropped. Without a writer the writes stay staged.
func (m *Material) ApplyUniforms() {
	if m.writer == nil {
		return
	}

	m.mu.Lock()
	staged := m.staged
	m.staged = nil
	m.mu.Unlock()

	for _, w := range staged {
		if !w.Valid() {
			m.logger.Warn("dropping buffer write without target buffer",
				slog.String("material", m.name),
				slog.Int("binding", w.Binding),
			)
			continue
		}
		m.writer.WriteBuffer(w.Provider.Buffer(w.Binding), w.Offset, w.Data)
	}
}

func (m *Material) BindBuffers() {
	if len(m.bindGroups) == 0 {
		return
	}
	pass := m.frame.mustPass()
	for i, bg := range m.bindGroups {
		pass.SetBindGroup(m.firstGroup+uint32(i), bg.BindGroup())
	}
}

// UniformWrite copies v into a BufferWrite for the buffer at binding, so v may change after staging.
//
// Parameters:
//   - provider: the provider owning the target buffer
//   - binding: the binding index of the target buffer
//   - offset: the byte offset in the buffer
//   - v: the uniform block to copy
//
// Returns:
//   - bind_group_provider.BufferWrite: the write, ready for Material.Stage
func UniformWrite[T any](provider bind_group_provider.BindGroupProvider, binding int, offset uint64, v *T) bind_group_provider.BufferWrite {
	return bind_group_provider.BufferWrite{
		Provider: provider,
		Binding:  binding,
		Offset:   offset,
		Data:     bytes.Clone(common.StructToBytes(v)),
	}
}
