package draw_tree

// Shader is the GPU program capability consumed by the draw tree.
//
// Shaders are grouped by identity, using Go interface equality. Implementations must be
// comparable (a pointer type is the expected shape) and must keep the values returned by
// RequiresBlending and DrawOrder stable for the lifetime of a frame.
type Shader interface {
	// Name returns a human-readable identifier used in diagnostics and GPU debug groups.
	//
	// Returns:
	//   - string: the shader name
	Name() string

	// RequiresBlending reports whether geometry drawn with this shader is translucent and
	// must therefore be submitted in the caller's paint order.
	//
	// Returns:
	//   - bool: true for order-preserving blended draws, false for opaque draws
	RequiresBlending() bool

	// DrawOrder returns the coarse pass priority of this shader. Lower values are drawn first.
	//
	// Returns:
	//   - int: the draw-order priority
	DrawOrder() int

	// Use binds the shader program on the GPU.
	Use()
}

// Mesh is the vertex/index buffer capability consumed by the draw tree.
// Meshes are grouped by identity; implementations must be comparable.
type Mesh interface {
	// Name returns a human-readable identifier used in diagnostics and GPU debug groups.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Bind binds the mesh buffers on the GPU.
	Bind()

	// Draw issues a single-instance draw of the bound mesh.
	Draw()

	// DrawInstanced issues an instanced draw of the bound mesh.
	//
	// Parameters:
	//   - instanceCount: the number of instances to draw
	DrawInstanced(instanceCount uint32)

	// TriangleCount returns the number of triangles in one instance of the mesh.
	//
	// Returns:
	//   - int: the triangle count
	TriangleCount() int
}

// Material is the per-draw state capability consumed by the draw tree.
// A material references exactly one shader and applies its own uniform and buffer state.
type Material interface {
	// Shader returns the shader this material renders with.
	//
	// Returns:
	//   - Shader: the material's shader, never nil for a valid draw call
	Shader() Shader

	// ApplyUniforms uploads the material's uniform state for the next draw.
	ApplyUniforms()

	// BindBuffers binds the material's buffers and bind groups for the next draw.
	BindBuffers()
}
