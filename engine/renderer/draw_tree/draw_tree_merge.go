package draw_tree

func (t *drawTree) mergeTree() {
	span := t.tracer.Begin("DrawCallTree - merge shader draws")
	defer span.End()

	t.shaderDraws = mergeShaderDraws(t.shaderDraws)
	for i := range t.shaderDraws {
		t.shaderDraws[i].meshDraws = mergeMeshDraws(t.shaderDraws[i].meshDraws)
	}
}

// mergeShaderDraws folds runs of consecutive groups sharing a shader into one group,
// concatenating their mesh groups in order. The input slice must not be used afterwards.
func mergeShaderDraws(shaderDraws []ShaderDrawGroup) []ShaderDrawGroup {
	merged := make([]ShaderDrawGroup, 0, len(shaderDraws))
	for _, sd := range shaderDraws {
		if n := len(merged); n > 0 && merged[n-1].shader == sd.shader {
			merged[n-1].meshDraws = append(merged[n-1].meshDraws, sd.meshDraws...)
			continue
		}
		merged = append(merged, sd)
	}
	return merged
}

// mergeMeshDraws folds runs of consecutive groups sharing a mesh into one group,
// concatenating their draw calls in order. The input slice must not be used afterwards.
func mergeMeshDraws(meshDraws []MeshDrawGroup) []MeshDrawGroup {
	merged := make([]MeshDrawGroup, 0, len(meshDraws))
	for _, md := range meshDraws {
		if n := len(merged); n > 0 && merged[n-1].mesh == md.mesh {
			merged[n-1].drawCalls = append(merged[n-1].drawCalls, md.drawCalls...)
			continue
		}
		merged = append(merged, md)
	}
	return merged
}
