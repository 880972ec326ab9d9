package draw_tree

import (
	"math"
	"reflect"
)

// DrawCall describes one renderable instance for a single frame.
// It is a plain value: the tree copies draw calls into its groups and never shares them.
type DrawCall struct {
	// Mesh is the mesh to draw. Compared by identity.
	Mesh Mesh
	// Material supplies the shader (compared by identity) and the per-draw GPU state.
	Material Material
	// Order is the caller-assigned paint order. Blended draws are executed in ascending Order;
	// for opaque draws it only seeds the initial sort.
	Order float64
	// InstanceCount is the number of instances to draw. Values above 1 select instanced dispatch.
	InstanceCount uint32
}

// Validate checks the draw call preconditions. A nil pointer stored in Mesh, Material or the
// material's shader counts as nil.
//
// Returns:
//   - error: one of ErrNilMesh, ErrNilMaterial, ErrNilShader, ErrZeroInstanceCount or ErrInvalidOrder, or nil
func (dc DrawCall) Validate() error {
	switch {
	case isNil(dc.Mesh):
		return ErrNilMesh
	case isNil(dc.Material):
		return ErrNilMaterial
	case isNil(dc.Material.Shader()):
		return ErrNilShader
	case dc.InstanceCount == 0:
		return ErrZeroInstanceCount
	case math.IsNaN(dc.Order):
		return ErrInvalidOrder
	}
	return nil
}

// Shader returns the shader of the draw call's material.
func (dc DrawCall) Shader() Shader {
	return dc.Material.Shader()
}

// Triangles returns the number of triangles this draw call submits across all instances.
func (dc DrawCall) Triangles() uint64 {
	return uint64(dc.InstanceCount) * uint64(dc.Mesh.TriangleCount())
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
