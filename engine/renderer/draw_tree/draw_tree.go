// Package draw_tree turns a frame's unordered draw calls into a two-level batching tree
// (shader -> mesh -> draw calls) and executes it with the minimum number of shader and mesh binds.
//
// Opaque draw calls are grouped with any earlier draw sharing their shader and mesh. Blended
// draw calls only ever join the most recently appended group, so their paint order survives.
// Shader groups are then sorted by shader draw-order priority and adjacent groups that share a
// shader or mesh are merged.
//
// A tree is built once per frame, executed, and discarded. Building and executing are
// single-threaded and must happen on the goroutine that owns the GPU context.
package draw_tree

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
)

// MeshDrawGroup holds the draw calls of one shader group that share a mesh, in execution order.
type MeshDrawGroup struct {
	mesh      Mesh
	drawCalls []DrawCall
}

// Mesh returns the mesh bound once for the whole group.
func (g MeshDrawGroup) Mesh() Mesh {
	return g.mesh
}

// DrawCalls returns the group's draw calls in execution order. The slice must not be modified.
func (g MeshDrawGroup) DrawCalls() []DrawCall {
	return g.drawCalls
}

// ShaderDrawGroup holds the mesh groups that share a shader, in execution order.
type ShaderDrawGroup struct {
	shader    Shader
	meshDraws []MeshDrawGroup
}

// Shader returns the shader bound once for the whole group.
func (g ShaderDrawGroup) Shader() Shader {
	return g.shader
}

// MeshDraws returns the group's mesh groups in execution order. The slice must not be modified.
func (g ShaderDrawGroup) MeshDraws() []MeshDrawGroup {
	return g.meshDraws
}

// DrawTree is the immutable batching plan for one frame.
type DrawTree interface {
	// ShaderDraws returns the shader groups in execution order. The slice must not be modified.
	//
	// Returns:
	//   - []ShaderDrawGroup: the top level of the tree
	ShaderDraws() []ShaderDrawGroup

	// ShaderDrawCount returns the number of shader groups, which is also the number of shader
	// binds Execute performs.
	//
	// Returns:
	//   - int: the shader group count
	ShaderDrawCount() int

	// MeshDrawCount returns the number of mesh groups across all shader groups, which is also
	// the number of mesh binds Execute performs.
	//
	// Returns:
	//   - int: the mesh group count
	MeshDrawCount() int

	// DrawCallCount returns the number of draw calls held by the tree.
	//
	// Returns:
	//   - int: the draw call count
	DrawCallCount() int

	// DrawCalls flattens the tree into a new slice in execution order.
	//
	// Returns:
	//   - []DrawCall: every draw call in the order Execute dispatches them
	DrawCalls() []DrawCall

	// Execute walks the tree once, binding each shader and mesh exactly once per group,
	// applying per-draw material state and dispatching draws. The counters in stats are
	// incremented, not reset. The tree is not modified, so Execute may be called again.
	//
	// Execution stops at the first draw call whose material no longer references the shader
	// of its group; the commands issued so far stay issued and the frame should be dropped.
	//
	// Panics if stats is nil.
	//
	// Parameters:
	//   - stats: the statistics record to update
	//
	// Returns:
	//   - error: an error wrapping ErrShaderMismatch, or nil
	Execute(stats *RenderQueueStats) error
}

type meshKey struct {
	shader Shader
	mesh   Mesh
}

type meshIndex struct {
	shader int
	mesh   int
}

// drawTree is the implementation of the DrawTree interface.
type drawTree struct {
	shaderDraws   []ShaderDrawGroup
	drawCallCount int

	// Build-only lookup state for the opaque path, cleared once the tree is built.
	shaderIndices map[Shader]int
	meshIndices   map[meshKey]meshIndex

	tracer           profiler.Tracer
	gpuTracer        profiler.Tracer // nil when GPU debug groups are disabled
	logger           *slog.Logger
	blendOrderPolicy BlendOrderPolicy
}

var _ DrawTree = &drawTree{}

// NewDrawTree builds the batching tree for one frame.
//
// NewDrawTree takes ownership of drawCalls: the slice is sorted in place and must not be
// reused by the caller. Every draw call is validated before any grouping happens; the first
// invalid one aborts the build and no tree is returned.
//
// Parameters:
//   - drawCalls: the frame's draw calls, in any order
//   - options: variadic list of DrawTreeBuilderOption functions to configure tracing, logging and the blend order policy
//
// Returns:
//   - DrawTree: the built tree, or nil on error
//   - error: a *DrawCallError for an invalid draw call, an error wrapping ErrBlendOrderViolated under BlendOrderStrict, or nil
func NewDrawTree(drawCalls []DrawCall, options ...DrawTreeBuilderOption) (DrawTree, error) {
	t := &drawTree{
		tracer:           profiler.NopTracer(),
		logger:           common.NopLogger(),
		blendOrderPolicy: BlendOrderWarn,
	}
	for _, opt := range options {
		opt(t)
	}

	span := t.tracer.Begin("Building DrawCallTree")
	defer span.End()

	for i, dc := range drawCalls {
		if err := dc.Validate(); err != nil {
			return nil, &DrawCallError{Index: i, Err: err}
		}
	}

	slices.SortStableFunc(drawCalls, func(x, y DrawCall) int {
		return cmp.Compare(x.Order, y.Order)
	})

	t.shaderIndices = make(map[Shader]int)
	t.meshIndices = make(map[meshKey]meshIndex)
	for _, dc := range drawCalls {
		if dc.Shader().RequiresBlending() {
			t.addBlendedDraw(dc)
		} else {
			t.addOpaqueDraw(dc)
		}
	}
	t.drawCallCount = len(drawCalls)
	t.shaderIndices = nil
	t.meshIndices = nil

	slices.SortStableFunc(t.shaderDraws, func(x, y ShaderDrawGroup) int {
		return cmp.Compare(x.shader.DrawOrder(), y.shader.DrawOrder())
	})

	t.mergeTree()

	if err := t.checkBlendOrder(); err != nil {
		return nil, err
	}

	t.logger.Debug("draw tree built",
		slog.Int("draw_calls", t.drawCallCount),
		slog.Int("shader_draws", t.ShaderDrawCount()),
		slog.Int("mesh_draws", t.MeshDrawCount()),
	)

	return t, nil
}

// MustNewDrawTree is like NewDrawTree but panics on error.
//
// Parameters:
//   - drawCalls: the frame's draw calls, in any order
//   - options: variadic list of DrawTreeBuilderOption functions
//
// Returns:
//   - DrawTree: the built tree
func MustNewDrawTree(drawCalls []DrawCall, options ...DrawTreeBuilderOption) DrawTree {
	t, err := NewDrawTree(drawCalls, options...)
	if err != nil {
		panic(fmt.Sprintf("draw_tree: %v", err))
	}
	return t
}

func (t *drawTree) ShaderDraws() []ShaderDrawGroup {
	return t.shaderDraws
}

func (t *drawTree) ShaderDrawCount() int {
	return len(t.shaderDraws)
}

func (t *drawTree) MeshDrawCount() int {
	n := 0
	for _, sd := range t.shaderDraws {
		n += len(sd.meshDraws)
	}
	return n
}

func (t *drawTree) DrawCallCount() int {
	return t.drawCallCount
}

func (t *drawTree) DrawCalls() []DrawCall {
	out := make([]DrawCall, 0, t.drawCallCount)
	for _, sd := range t.shaderDraws {
		for _, md := range sd.meshDraws {
			out = append(out, md.drawCalls...)
		}
	}
	return out
}

// addOpaqueDraw appends dc to the mesh group for its (shader, mesh) pair wherever that group
// sits in the tree. Opaque draws do not depend on submission order.
func (t *drawTree) addOpaqueDraw(dc DrawCall) {
	md := t.findAddMeshDraw(dc.Shader(), dc.Mesh)
	md.drawCalls = append(md.drawCalls, dc)
}

// addBlendedDraw only considers the last shader group and its last mesh group, so a blended
// draw never jumps over a group appended after its predecessor.
func (t *drawTree) addBlendedDraw(dc DrawCall) {
	shader := dc.Shader()
	if n := len(t.shaderDraws); n == 0 || t.shaderDraws[n-1].shader != shader {
		t.shaderDraws = append(t.shaderDraws, ShaderDrawGroup{shader: shader})
	}
	sd := &t.shaderDraws[len(t.shaderDraws)-1]

	if n := len(sd.meshDraws); n == 0 || sd.meshDraws[n-1].mesh != dc.Mesh {
		sd.meshDraws = append(sd.meshDraws, MeshDrawGroup{mesh: dc.Mesh})
	}
	md := &sd.meshDraws[len(sd.meshDraws)-1]
	md.drawCalls = append(md.drawCalls, dc)
}

func (t *drawTree) findAddShaderDraw(shader Shader) int {
	if i, ok := t.shaderIndices[shader]; ok {
		return i
	}
	i := len(t.shaderDraws)
	t.shaderIndices[shader] = i
	t.shaderDraws = append(t.shaderDraws, ShaderDrawGroup{shader: shader})
	return i
}

// findAddMeshDraw returns a pointer into the tree, valid until the next append to the group slices.
func (t *drawTree) findAddMeshDraw(shader Shader, mesh Mesh) *MeshDrawGroup {
	key := meshKey{shader: shader, mesh: mesh}
	if idx, ok := t.meshIndices[key]; ok {
		return &t.shaderDraws[idx.shader].meshDraws[idx.mesh]
	}

	si := t.findAddShaderDraw(shader)
	sd := &t.shaderDraws[si]
	mi := len(sd.meshDraws)
	sd.meshDraws = append(sd.meshDraws, MeshDrawGroup{mesh: mesh})
	t.meshIndices[key] = meshIndex{shader: si, mesh: mi}

	return &sd.meshDraws[mi]
}
