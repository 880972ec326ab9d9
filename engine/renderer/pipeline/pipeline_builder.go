package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithRenderPipeline sets the compiled render pipeline.
//
// Parameters:
//   - rp: the WebGPU render pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the render pipeline
func WithRenderPipeline(rp *wgpu.RenderPipeline) PipelineBuilderOption {
	return func(p *pipeline) {
		p.renderPipeline = rp
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline. Enabling blending also
// turns depth writes off; apply WithDepthWriteEnabled afterwards to override.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
		if enabled {
			p.depthWriteEnabled = false
		}
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithBlendState sets the blend state for this pipeline. Ignored unless blending is enabled.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithDrawOrder sets the pass priority of draws using this pipeline.
//
// Parameters:
//   - order: the priority, lower values draw first
//
// Returns:
//   - PipelineBuilderOption: a function that sets the draw order for this pipeline
func WithDrawOrder(order int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.drawOrder = order
	}
}
