package wgpu_draw

import (
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/bind_group_provider"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePass logs every encoded command.
type fakePass struct {
	calls []string
}

func (p *fakePass) SetPipeline(*wgpu.RenderPipeline) { p.calls = append(p.calls, "SetPipeline") }
func (p *fakePass) SetBindGroup(i uint32, _ *wgpu.BindGroup) {
	p.calls = append(p.calls, fmt.Sprintf("SetBindGroup(%d)", i))
}
func (p *fakePass) SetVertexBuffer(slot uint32, _ *wgpu.Buffer) {
	p.calls = append(p.calls, fmt.Sprintf("SetVertexBuffer(%d)", slot))
}
func (p *fakePass) SetIndexBuffer(*wgpu.Buffer) { p.calls = append(p.calls, "SetIndexBuffer") }
func (p *fakePass) DrawIndexed(indexCount, instanceCount uint32) {
	p.calls = append(p.calls, fmt.Sprintf("DrawIndexed(%d, %d)", indexCount, instanceCount))
}
func (p *fakePass) PushDebugGroup(label string) { p.calls = append(p.calls, "Push("+label+")") }
func (p *fakePass) PopDebugGroup()              { p.calls = append(p.calls, "Pop") }

type write struct {
	buf    *wgpu.Buffer
	offset uint64
	data   string
}

type fakeWriter struct {
	writes []write
}

func (w *fakeWriter) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	w.writes = append(w.writes, write{buf: buf, offset: offset, data: string(data)})
}

func TestFrame_BeginEnd(t *testing.T) {
	f := NewFrame()
	assert.Nil(t, f.Pass())
	assert.ErrorIs(t, f.End(), ErrNoActiveFrame)

	pass := &fakePass{}
	require.NoError(t, f.Begin(pass))
	assert.ErrorIs(t, f.Begin(pass), ErrFrameActive)
	assert.Same(t, pass, f.Pass())
	require.NoError(t, f.End())
	assert.Nil(t, f.Pass())
}

func TestResources_PanicOutsideFrame(t *testing.T) {
	f := NewFrame()
	s := NewShader(f, pipeline.NewPipeline("lit"))
	assert.PanicsWithValue(t, "wgpu_draw: resource used outside of an active frame", s.Use)
}

func TestShader_DescribesPipeline(t *testing.T) {
	s := NewShader(NewFrame(), pipeline.NewPipeline("glass", pipeline.WithBlendEnabled(true), pipeline.WithDrawOrder(7)))

	assert.Equal(t, "glass", s.Name())
	assert.True(t, s.RequiresBlending())
	assert.Equal(t, 7, s.DrawOrder())
}

func TestMesh_TriangleCountFromIndices(t *testing.T) {
	m := NewMesh(NewFrame(), bind_group_provider.NewBindGroupProvider("cube", bind_group_provider.WithMeshBuffers(nil, nil, 36)))
	assert.Equal(t, "cube", m.Name())
	assert.Equal(t, 12, m.TriangleCount())
}

func TestMaterial_ApplyUniformsFlushesStagedWrites(t *testing.T) {
	buf := new(wgpu.Buffer)
	uniforms := bind_group_provider.NewBindGroupProvider("uniforms", bind_group_provider.WithBuffer(0, buf))
	writer := &fakeWriter{}
	f := NewFrame()
	mat := NewMaterial("red", f, nil, WithBufferWriter(writer))

	mat.Stage(
		bind_group_provider.BufferWrite{Provider: uniforms, Binding: 0, Offset: 16, Data: []byte("rgba")},
		bind_group_provider.BufferWrite{Provider: uniforms, Binding: 3, Data: []byte("lost")},
	)
	assert.Equal(t, 2, mat.Pending())

	mat.ApplyUniforms()
	assert.Equal(t, []write{{buf: buf, offset: 16, data: "rgba"}}, writer.writes)
	assert.Equal(t, 0, mat.Pending())

	mat.ApplyUniforms()
	assert.Len(t, writer.writes, 1)
}

func TestMaterial_ApplyUniformsWithoutWriterKeepsWrites(t *testing.T) {
	mat := NewMaterial("red", NewFrame(), nil)
	mat.Stage(bind_group_provider.BufferWrite{Data: []byte("x")})
	mat.ApplyUniforms()
	assert.Equal(t, 1, mat.Pending())
}

func TestDrawTree_ExecutesOnRenderPass(t *testing.T) {
	f := NewFrame()
	opaque := NewShader(f, pipeline.NewPipeline("opaque"))
	glass := NewShader(f, pipeline.NewPipeline("glass", pipeline.WithBlendEnabled(true), pipeline.WithDrawOrder(1)))
	cube := NewMesh(f, bind_group_provider.NewBindGroupProvider("cube", bind_group_provider.WithMeshBuffers(nil, nil, 36)))
	quad := NewMesh(f, bind_group_provider.NewBindGroupProvider("quad", bind_group_provider.WithMeshBuffers(nil, nil, 6)))

	params := bind_group_provider.NewBindGroupProvider("params")
	textures := bind_group_provider.NewBindGroupProvider("textures")
	stone := NewMaterial("stone", f, opaque, WithBindGroups(1, params, textures))
	window := NewMaterial("window", f, glass)

	tree, err := draw_tree.NewDrawTree([]draw_tree.DrawCall{
		{Mesh: quad, Material: window, Order: 2, InstanceCount: 1},
		{Mesh: cube, Material: stone, Order: 0, InstanceCount: 3},
		{Mesh: quad, Material: window, Order: 1, InstanceCount: 1},
	}, draw_tree.WithGPUTracer(NewDebugGroupTracer(f)))
	require.NoError(t, err)

	pass := &fakePass{}
	require.NoError(t, f.Begin(pass))

	var stats draw_tree.RenderQueueStats
	require.NoError(t, tree.Execute(&stats))
	require.NoError(t, f.End())

	assert.Equal(t, []string{
		"Push(Draw Scene)",
		"Push(Shader - opaque)",
		"SetPipeline",
		"Push(Mesh - cube)",
		"SetVertexBuffer(0)", "SetIndexBuffer",
		"SetBindGroup(1)", "SetBindGroup(2)",
		"DrawIndexed(36, 3)",
		"Pop",
		"Pop",
		"Push(Shader - glass)",
		"SetPipeline",
		"Push(Mesh - quad)",
		"SetVertexBuffer(0)", "SetIndexBuffer",
		"DrawIndexed(6, 1)",
		"DrawIndexed(6, 1)",
		"Pop",
		"Pop",
		"Pop",
	}, pass.calls)
	assert.Equal(t, draw_tree.RenderQueueStats{ShaderSwitches: 2, MeshSwitches: 2, DrawCalls: 3, Triangles: 3*12 + 2*2}, stats)
}

func TestDebugGroupTracer_NoPassRecordsNothing(t *testing.T) {
	tr := NewDebugGroupTracer(NewFrame())
	assert.NotPanics(t, func() { tr.Begin("idle").End() })
}

func TestUniformWrite_CopiesValue(t *testing.T) {
	type tint struct{ R, G, B, A float32 }
	v := tint{1, 0, 0, 1}
	provider := bind_group_provider.NewBindGroupProvider("params")

	w := UniformWrite(provider, 2, 8, &v)
	v.R = 0

	assert.Equal(t, 2, w.Binding)
	assert.Equal(t, uint64(8), w.Offset)
	require.Len(t, w.Data, 16)
	assert.NotEqual(t, []byte{0, 0, 0, 0}, w.Data[:4])
}
