package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame_DefaultFrame(t *testing.T) {
	cfg, warnings, err := ParseFrame(defaultFrame)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "warn", cfg.Renderer.Policy)
	assert.Len(t, cfg.Shaders, 3)
	assert.Len(t, cfg.Sources, 2)
	assert.Len(t, cfg.Sources[0].Draws, 1)
}

func TestParseFrame_WarnsOnUnknownKeys(t *testing.T) {
	_, warnings, err := ParseFrame(`
[[shader]]
name = "lit"
colour = "red"
`)
	require.NoError(t, err)
	assert.Equal(t, []string{`unknown key "shader.colour"`}, warnings)
}

func TestBuild_ResolvesNames(t *testing.T) {
	cfg, _, err := ParseFrame(`
[[shader]]
name = "lit"

[[mesh]]
name = "cube"

[[material]]
name = "stone"
shader = "lit"

[[draw]]
mesh = "cube"
material = "stone"
order = 2.5
`)
	require.NoError(t, err)

	scene, err := cfg.Build(recording.NewRecorder())
	require.NoError(t, err)
	require.Len(t, scene.Draws, 1)
	assert.Equal(t, uint32(1), scene.Draws[0].InstanceCount)
	assert.Equal(t, 2.5, scene.Draws[0].Order)
	assert.Equal(t, 1, scene.Meshes["cube"].TriangleCount())
	assert.Same(t, scene.Shaders["lit"], scene.Draws[0].Shader())
}

func TestBuild_RejectsUnknownReferences(t *testing.T) {
	tests := []struct {
		name string
		cfg  FrameConfig
		want string
	}{
		{
			name: "material shader",
			cfg:  FrameConfig{Materials: []MaterialConfig{{Name: "m", Shader: "missing"}}},
			want: `material "m": unknown shader "missing"`,
		},
		{
			name: "draw mesh",
			cfg:  FrameConfig{Draws: []DrawConfig{{Mesh: "missing"}}},
			want: `draw 0: unknown mesh "missing"`,
		},
		{
			name: "source material",
			cfg: FrameConfig{
				Meshes:  []MeshConfig{{Name: "cube"}},
				Sources: []SourceConfig{{Name: "fx", Draws: []DrawConfig{{Mesh: "cube", Material: "missing"}}}},
			},
			want: `source "fx": draw 0: unknown material "missing"`,
		},
		{
			name: "duplicate shader",
			cfg:  FrameConfig{Shaders: []ShaderConfig{{Name: "a"}, {Name: "a"}}},
			want: `shader "a": name must be unique and non-empty`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Build(recording.NewRecorder())
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestRun_DefaultFrame(t *testing.T) {
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	require.NoError(t, run(&out, logger, "", 2, "", true))

	assert.Contains(t, out.String(), "shader unlit (opaque, draw order 0)\n  mesh quad\n    order 0 x1\n")
	assert.Contains(t, out.String(), "shader glass (blended, draw order 10)\n  mesh quad\n    order 6 x1\n    order 8 x1\n    order 9 x128\n")
	assert.Contains(t, out.String(), "UseShader(unlit)")
	cfg, _, err := ParseFrame(defaultFrame)
	require.NoError(t, err)
	scene, err := cfg.Build(recording.NewRecorder())
	require.NoError(t, err)

	var triangles uint64
	draws := scene.Draws
	for _, src := range scene.Sources {
		draws = append(draws, src.DrawCalls()...)
	}
	for _, dc := range draws {
		triangles += dc.Triangles()
	}
	require.Len(t, draws, 8)

	assert.Contains(t, out.String(), fmt.Sprintf("frames: 2\nshader switches: 3 | mesh switches: 4 | draw calls: 8 | triangles: %d\n", triangles))
}

func TestBuild_ZeroInstancesRejected(t *testing.T) {
	cfg, _, err := ParseFrame(`
[[shader]]
name = "lit"

[[mesh]]
name = "cube"

[[material]]
name = "stone"
shader = "lit"

[[draw]]
mesh = "cube"
material = "stone"
instances = 0
`)
	require.NoError(t, err)

	_, err = cfg.Build(recording.NewRecorder())
	assert.ErrorIs(t, err, draw_tree.ErrZeroInstanceCount)
	assert.EqualError(t, err, "draw 0: "+draw_tree.ErrZeroInstanceCount.Error())
}

func TestRun_StrictPolicyFails(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), "testdata/strict_violation.toml", 1, "", false)
	assert.ErrorIs(t, err, draw_tree.ErrBlendOrderViolated)

	// The flag overrides the frame file.
	require.NoError(t, run(&out, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), "testdata/strict_violation.toml", 1, "ignore", false))
}

func TestFormatTree_Empty(t *testing.T) {
	assert.Empty(t, FormatTree(draw_tree.MustNewDrawTree(nil)))
}
