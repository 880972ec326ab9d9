package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithMeshBuffers sets the vertex buffer, the uint32 index buffer and the index count of a mesh provider.
//
// Parameters:
//   - vertices: the vertex buffer
//   - indices: the index buffer
//   - indexCount: the number of indices issued per draw
//
// Returns:
//   - BindGroupProviderOption: a function that sets the mesh buffers for this provider
func WithMeshBuffers(vertices, indices *wgpu.Buffer, indexCount int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vertices
		p.indexBuffer = indices
		p.indexCount = indexCount
	}
}
