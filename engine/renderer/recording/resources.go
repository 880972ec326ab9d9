package recording

import (
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
)

// Shader is a recording draw_tree.Shader.
type Shader struct {
	name      string
	blending  bool
	drawOrder int
	recorder  Recorder
}

var _ draw_tree.Shader = &Shader{}

// NewShader creates a recording shader. Shaders are opaque with draw order 0 unless configured otherwise.
//
// Parameters:
//   - name: the shader name, recorded as the command target
//   - recorder: the recorder that receives UseShader commands
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - *Shader: the new shader
func NewShader(name string, recorder Recorder, options ...ShaderBuilderOption) *Shader {
	if recorder == nil {
		panic("recording: NewShader requires a non-nil Recorder")
	}
	s := &Shader{name: name, recorder: recorder}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Shader) Name() string           { return s.name }
func (s *Shader) RequiresBlending() bool { return s.blending }
func (s *Shader) DrawOrder() int         { return s.drawOrder }

// SetDrawOrder changes the shader priority. Only call it between frames.
func (s *Shader) SetDrawOrder(order int) {
	s.drawOrder = order
}

func (s *Shader) Use() {
	s.recorder.Record(Command{Type: UseShader, Target: s.name})
}

// Mesh is a recording draw_tree.Mesh.
type Mesh struct {
	name          string
	triangleCount int
	recorder      Recorder
}

var _ draw_tree.Mesh = &Mesh{}

// NewMesh creates a recording mesh with a triangle count of 1 unless configured otherwise.
//
// Parameters:
//   - name: the mesh name, recorded as the command target
//   - recorder: the recorder that receives BindMesh, Draw and DrawInstanced commands
//   - options: variadic list of MeshBuilderOption functions
//
// Returns:
//   - *Mesh: the new mesh
func NewMesh(name string, recorder Recorder, options ...MeshBuilderOption) *Mesh {
	if recorder == nil {
		panic("recording: NewMesh requires a non-nil Recorder")
	}
	m := &Mesh{name: name, triangleCount: 1, recorder: recorder}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Mesh) Name() string       { return m.name }
func (m *Mesh) TriangleCount() int { return m.triangleCount }

func (m *Mesh) Bind() {
	m.recorder.Record(Command{Type: BindMesh, Target: m.name})
}

func (m *Mesh) Draw() {
	m.recorder.Record(Command{Type: Draw, Target: m.name, InstanceCount: 1})
}

func (m *Mesh) DrawInstanced(instanceCount uint32) {
	m.recorder.Record(Command{Type: DrawInstanced, Target: m.name, InstanceCount: instanceCount})
}

// Material is a recording draw_tree.Material.
type Material struct {
	name     string
	shader   draw_tree.Shader
	recorder Recorder
}

var _ draw_tree.Material = &Material{}

// NewMaterial creates a recording material bound to shader.
//
// Parameters:
//   - name: the material name, recorded as the command target
//   - shader: the shader the material renders with
//   - recorder: the recorder that receives ApplyUniforms and BindBuffers commands
//
// Returns:
//   - *Material: the new material
func NewMaterial(name string, shader draw_tree.Shader, recorder Recorder) *Material {
	if recorder == nil {
		panic("recording: NewMaterial requires a non-nil Recorder")
	}
	return &Material{name: name, shader: shader, recorder: recorder}
}

func (m *Material) Name() string             { return m.name }
func (m *Material) Shader() draw_tree.Shader { return m.shader }

// SetShader swaps the material's shader. A tree built before the swap fails to execute the
// material's draws with draw_tree.ErrShaderMismatch.
func (m *Material) SetShader(shader draw_tree.Shader) {
	m.shader = shader
}

func (m *Material) ApplyUniforms() {
	m.recorder.Record(Command{Type: ApplyUniforms, Target: m.name})
}

func (m *Material) BindBuffers() {
	m.recorder.Record(Command{Type: BindBuffers, Target: m.name})
}
