package draw_tree

import (
	"fmt"

	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
)

var nopSpan = profiler.NopTracer().Begin("")

func (t *drawTree) Execute(stats *RenderQueueStats) error {
	if stats == nil {
		panic("draw_tree: Execute requires a non-nil RenderQueueStats")
	}

	span := t.tracer.Begin("DrawCallTree - execute")
	defer span.End()

	sceneSpan := t.beginGPU("Draw Scene")
	defer sceneSpan.End()

	for _, sd := range t.shaderDraws {
		if err := t.executeShaderDraw(sd, stats); err != nil {
			return err
		}
	}
	return nil
}

func (t *drawTree) executeShaderDraw(sd ShaderDrawGroup, stats *RenderQueueStats) error {
	var shaderSpan profiler.Span = nopSpan
	if t.gpuTracer != nil {
		shaderSpan = t.gpuTracer.Begin("Shader - " + sd.shader.Name())
	}
	defer shaderSpan.End()

	sd.shader.Use()
	stats.ShaderSwitches++

	for _, md := range sd.meshDraws {
		// TODO: skip the bind when md.mesh is the last mesh bound by the previous shader group.
		var meshSpan profiler.Span = nopSpan
		if t.gpuTracer != nil {
			meshSpan = t.gpuTracer.Begin("Mesh - " + md.mesh.Name())
		}

		md.mesh.Bind()
		stats.MeshSwitches++

		for _, dc := range md.drawCalls {
			if shader := dc.Material.Shader(); shader != sd.shader {
				meshSpan.End()
				return fmt.Errorf("%w: material shader %q, group shader %q",
					ErrShaderMismatch, shaderName(shader), sd.shader.Name())
			}

			dc.Material.ApplyUniforms()
			dc.Material.BindBuffers()

			if dc.InstanceCount == 1 {
				md.mesh.Draw()
			} else {
				md.mesh.DrawInstanced(dc.InstanceCount)
			}

			stats.DrawCalls++
			stats.Triangles += dc.Triangles()
		}

		meshSpan.End()
	}
	return nil
}

func (t *drawTree) beginGPU(name string) profiler.Span {
	if t.gpuTracer == nil {
		return nopSpan
	}
	return t.gpuTracer.Begin(name)
}

func shaderName(s Shader) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name()
}
