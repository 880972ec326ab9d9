package draw_tree

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMesh reports a draw call without a mesh.
	ErrNilMesh = errors.New("draw call has a nil mesh")
	// ErrNilMaterial reports a draw call without a material.
	ErrNilMaterial = errors.New("draw call has a nil material")
	// ErrNilShader reports a draw call whose material has no shader.
	ErrNilShader = errors.New("draw call material has a nil shader")
	// ErrZeroInstanceCount reports a draw call asking for zero instances.
	ErrZeroInstanceCount = errors.New("draw call has a zero instance count")
	// ErrInvalidOrder reports a draw call whose order key cannot be sorted (NaN).
	ErrInvalidOrder = errors.New("draw call has a NaN order key")
	// ErrShaderMismatch reports a draw call whose material shader differs from the shader of
	// the group it was placed in, typically because the material was mutated after the build.
	ErrShaderMismatch = errors.New("draw call shader does not match its shader draw group")
	// ErrBlendOrderViolated reports that shader draw-order priorities moved a blended draw call
	// ahead of one with a lower order key.
	ErrBlendOrderViolated = errors.New("shader draw order reorders blended draw calls")
)

// DrawCallError is returned by NewDrawTree when an input draw call breaks a precondition.
type DrawCallError struct {
	// Index is the position of the offending draw call in the slice passed to NewDrawTree.
	Index int
	// Err is one of the ErrNil*, ErrZeroInstanceCount or ErrInvalidOrder sentinels.
	Err error
}

func (e *DrawCallError) Error() string {
	return fmt.Sprintf("draw call %d: %v", e.Index, e.Err)
}

func (e *DrawCallError) Unwrap() error {
	return e.Err
}
