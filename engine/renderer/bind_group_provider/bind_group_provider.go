package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label, reused as the mesh or material name in GPU debug groups.
	label string

	// The following fields are GPU allocated resources owned by the provider once set. They are created by the caller on the GPU device, not by the draw path.

	// bindGroup is the GPU bind group bound by materials, or nil for mesh-only providers.
	bindGroup *wgpu.BindGroup
	// buffers holds the uniform and storage buffers referenced by the bind group, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// The following fields are only used by mesh providers.

	// vertexBuffer is the GPU vertex buffer bound at slot 0, or nil.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer holding uint32 indices, or nil.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices issued per DrawIndexed call.
	indexCount int
}

// BindGroupProvider holds the GPU resources a mesh or material binds during a draw.
//
// Mesh providers carry a vertex buffer, a uint32 index buffer and the index count. Material
// providers carry a bind group and the buffers it references, which BufferWrites target.
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider and clears the references.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group for material binding.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group, or nil if none was set
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer for a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer at that binding, or nil if not set
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the vertex buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer, or nil if not set
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer, or nil if not set
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices issued per draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetBindGroup sets the bind group.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer sets the buffer for a binding index. A nil buffer removes the binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetVertexBuffer sets the vertex buffer.
	//
	// Parameters:
	//   - buf: the vertex buffer
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer sets the index buffer.
	//
	// Parameters:
	//   - buf: the index buffer
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices issued per draw.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if buf == nil {
		delete(p.buffers, binding)
		return
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
