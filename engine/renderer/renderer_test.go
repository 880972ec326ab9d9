package renderer_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/pipeline"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/recording"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/render_queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	draws []draw_tree.DrawCall
}

func (s *staticSource) DrawCalls() []draw_tree.DrawCall { return s.draws }

func TestRenderer_RenderFrameDrainsQueue(t *testing.T) {
	rec := recording.NewRecorder()
	lit := recording.NewShader("lit", rec)
	cube := recording.NewMesh("cube", rec, recording.WithTriangleCount(12))
	stone := recording.NewMaterial("stone", lit, rec)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	prof := profiler.NewProfiler()

	q := render_queue.NewRenderQueue(render_queue.WithWorkers(1))
	q.AddSource(&staticSource{draws: []draw_tree.DrawCall{{Mesh: cube, Material: stone, Order: 1, InstanceCount: 2}}})

	r := renderer.NewRenderer(
		renderer.WithRenderQueue(q),
		renderer.WithTracer(prof),
		renderer.WithLogger(logger),
	)
	assert.Same(t, q, r.Queue())

	r.Submit(draw_tree.DrawCall{Mesh: cube, Material: stone, Order: 0, InstanceCount: 1})
	stats, err := r.RenderFrame()
	require.NoError(t, err)

	want := draw_tree.RenderQueueStats{ShaderSwitches: 1, MeshSwitches: 1, DrawCalls: 2, Triangles: 36}
	assert.Equal(t, want, stats)
	assert.Equal(t, want, r.LastStats())
	assert.Equal(t, uint64(1), r.FrameCount())
	assert.Equal(t, 0, q.Len())
	assert.Contains(t, logs.String(), "frame rendered")

	span, ok := prof.Span("Render Frame")
	require.True(t, ok)
	assert.Equal(t, 1, span.Count)
	_, ok = prof.Span("Building DrawCallTree")
	assert.True(t, ok)
}

func TestRenderer_RenderReportsBuildErrors(t *testing.T) {
	r := renderer.NewRenderer()

	_, err := r.Render([]draw_tree.DrawCall{{InstanceCount: 1}})
	assert.ErrorIs(t, err, draw_tree.ErrNilMesh)
	assert.Contains(t, err.Error(), "failed to build draw tree")
	assert.Equal(t, uint64(0), r.FrameCount())
}

func TestRenderer_RenderReportsExecuteErrors(t *testing.T) {
	rec := recording.NewRecorder()
	a := recording.NewShader("a", rec)
	b := recording.NewShader("b", rec)
	m := recording.NewMesh("m", rec)
	mat := recording.NewMaterial("mat", a, rec)

	// The material is swapped after the tree was built, when execution opens its first GPU span.
	r := renderer.NewRenderer(renderer.WithGPUTracer(swapOnBegin{mat: mat, to: b}))
	r.Submit(draw_tree.DrawCall{Mesh: m, Material: mat, InstanceCount: 1})

	stats, err := r.RenderFrame()
	assert.ErrorIs(t, err, draw_tree.ErrShaderMismatch)
	assert.Contains(t, err.Error(), "failed to execute draw tree")
	assert.Equal(t, draw_tree.RenderQueueStats{ShaderSwitches: 1, MeshSwitches: 1}, stats)
	assert.Equal(t, stats, r.LastStats())
	assert.Equal(t, uint64(0), r.FrameCount())
}

// swapOnBegin swaps the material's shader when execution opens its first span.
type swapOnBegin struct {
	mat *recording.Material
	to  draw_tree.Shader
}

func (s swapOnBegin) Begin(string) profiler.Span {
	s.mat.SetShader(s.to)
	return profiler.NopTracer().Begin("")
}

func TestRenderer_PipelineCache(t *testing.T) {
	glass := pipeline.NewPipeline("glass", pipeline.WithBlendEnabled(true))
	r := renderer.NewRenderer(renderer.WithPipeline("glass", glass))

	assert.Same(t, glass, r.Pipeline("glass"))
	assert.Nil(t, r.Pipeline("missing"))

	opaque := pipeline.NewPipeline("opaque")
	r.SetPipeline("opaque", opaque)
	pipelines := r.Pipelines()
	assert.Len(t, pipelines, 2)

	delete(pipelines, "glass")
	assert.NotNil(t, r.Pipeline("glass"))
}

func TestRenderer_BlendOrderPolicy(t *testing.T) {
	rec := recording.NewRecorder()
	back := recording.NewShader("back", rec, recording.WithBlending(true), recording.WithDrawOrder(1))
	front := recording.NewShader("front", rec, recording.WithBlending(true))
	m := recording.NewMesh("m", rec)

	r := renderer.NewRenderer(renderer.WithBlendOrderPolicy(draw_tree.BlendOrderStrict))
	_, err := r.Render([]draw_tree.DrawCall{
		{Mesh: m, Material: recording.NewMaterial("back", back, rec), Order: 1, InstanceCount: 1},
		{Mesh: m, Material: recording.NewMaterial("front", front, rec), Order: 2, InstanceCount: 1},
	})
	assert.ErrorIs(t, err, draw_tree.ErrBlendOrderViolated)
}
