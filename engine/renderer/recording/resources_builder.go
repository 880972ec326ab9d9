package recording

// ShaderBuilderOption is a functional option used to configure a recording Shader.
type ShaderBuilderOption func(*Shader)

// WithBlending marks the shader as blended, so its draws keep their paint order.
//
// Parameters:
//   - enabled: true for a blended shader
//
// Returns:
//   - ShaderBuilderOption: a function that sets the blending flag
func WithBlending(enabled bool) ShaderBuilderOption {
	return func(s *Shader) {
		s.blending = enabled
	}
}

// WithDrawOrder sets the shader's draw-order priority.
//
// Parameters:
//   - order: the priority, lower values draw first
//
// Returns:
//   - ShaderBuilderOption: a function that sets the draw order
func WithDrawOrder(order int) ShaderBuilderOption {
	return func(s *Shader) {
		s.drawOrder = order
	}
}

// MeshBuilderOption is a functional option used to configure a recording Mesh.
type MeshBuilderOption func(*Mesh)

// WithTriangleCount sets the number of triangles in one instance of the mesh.
//
// Parameters:
//   - n: the triangle count
//
// Returns:
//   - MeshBuilderOption: a function that sets the triangle count
func WithTriangleCount(n int) MeshBuilderOption {
	return func(m *Mesh) {
		m.triangleCount = n
	}
}
