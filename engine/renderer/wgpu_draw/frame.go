package wgpu_draw

import "errors"

var (
	// ErrFrameActive is returned by Frame.Begin while a pass is already active.
	ErrFrameActive = errors.New("wgpu_draw: frame already has an active render pass")
	// ErrNoActiveFrame is returned by Frame.End when no pass is active.
	ErrNoActiveFrame = errors.New("wgpu_draw: frame has no active render pass")
)

// Frame holds the render pass that resources encode into. It is not safe for concurrent use;
// like the draw tree it belongs to the goroutine that owns the GPU context.
type Frame struct {
	pass PassEncoder
}

// NewFrame creates a Frame with no active pass.
//
// Returns:
//   - *Frame: the new frame
func NewFrame() *Frame {
	return &Frame{}
}

// Begin makes pass the target of every resource bound to this frame.
//
// Parameters:
//   - pass: the pass to encode into
//
// Returns:
//   - error: ErrFrameActive if a pass is already active
func (f *Frame) Begin(pass PassEncoder) error {
	if pass == nil {
		panic("wgpu_draw: Frame.Begin requires a non-nil PassEncoder")
	}
	if f.pass != nil {
		return ErrFrameActive
	}
	f.pass = pass
	return nil
}

// End detaches the active pass. Ending the wgpu pass itself stays with the caller.
//
// Returns:
//   - error: ErrNoActiveFrame if no pass is active
func (f *Frame) End() error {
	if f.pass == nil {
		return ErrNoActiveFrame
	}
	f.pass = nil
	return nil
}

// Pass returns the active pass, or nil between frames.
func (f *Frame) Pass() PassEncoder {
	return f.pass
}

func (f *Frame) mustPass() PassEncoder {
	if f.pass == nil {
		panic("wgpu_draw: resource used outside of an active frame")
	}
	return f.pass
}
