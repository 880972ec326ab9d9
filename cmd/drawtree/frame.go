package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/recording"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/render_queue"
)

// FrameConfig is the TOML description of one frame.
type FrameConfig struct {
	Renderer  RendererConfig   `toml:"renderer"`
	Shaders   []ShaderConfig   `toml:"shader"`
	Meshes    []MeshConfig     `toml:"mesh"`
	Materials []MaterialConfig `toml:"material"`
	Draws     []DrawConfig     `toml:"draw"`
	Sources   []SourceConfig   `toml:"source"`
}

// RendererConfig selects the blend order policy and the render queue worker count.
type RendererConfig struct {
	Policy  string `toml:"policy"`
	Workers int    `toml:"workers"`
}

// ShaderConfig declares a named shader.
type ShaderConfig struct {
	Name      string `toml:"name"`
	Blending  bool   `toml:"blending"`
	DrawOrder int    `toml:"draw_order"`
}

// MeshConfig declares a named mesh. Triangles defaults to 1.
type MeshConfig struct {
	Name      string `toml:"name"`
	Triangles int    `toml:"triangles"`
}

// MaterialConfig binds a named material to a shader by name.
type MaterialConfig struct {
	Name   string `toml:"name"`
	Shader string `toml:"shader"`
}

// DrawConfig is one draw call referencing a mesh and a material by name. A missing
// instances key draws a single instance.
type DrawConfig struct {
	Mesh      string  `toml:"mesh"`
	Material  string  `toml:"material"`
	Order     float64 `toml:"order"`
	Instances *uint32 `toml:"instances"`
}

// SourceConfig is a group of draws gathered through the render queue instead of submitted directly.
type SourceConfig struct {
	Name  string       `toml:"name"`
	Draws []DrawConfig `toml:"draw"`
}

// ParseFrame decodes a frame description. Keys the decoder did not use are returned as warnings.
func ParseFrame(data string) (*FrameConfig, []string, error) {
	cfg := &FrameConfig{}
	metadata, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for _, key := range metadata.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown key %q", key.String()))
	}
	return cfg, warnings, nil
}

// LoadFrame reads and decodes a frame description from path.
func LoadFrame(path string) (*FrameConfig, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return ParseFrame(string(data))
}

// layer is a render_queue.DrawSource replaying a fixed list of draws.
type layer struct {
	name  string
	draws []draw_tree.DrawCall
}

func (l *layer) DrawCalls() []draw_tree.DrawCall {
	return slices.Clone(l.draws)
}

// Scene holds the recording resources built from a FrameConfig.
type Scene struct {
	Shaders   map[string]*recording.Shader
	Meshes    map[string]*recording.Mesh
	Materials map[string]*recording.Material
	Draws     []draw_tree.DrawCall
	Sources   []render_queue.DrawSource
}

// Build resolves every name in cfg and creates recording resources on rec.
func (cfg *FrameConfig) Build(rec recording.Recorder) (*Scene, error) {
	s := &Scene{
		Shaders:   make(map[string]*recording.Shader, len(cfg.Shaders)),
		Meshes:    make(map[string]*recording.Mesh, len(cfg.Meshes)),
		Materials: make(map[string]*recording.Material, len(cfg.Materials)),
	}

	for _, sc := range cfg.Shaders {
		if _, dup := s.Shaders[sc.Name]; dup || sc.Name == "" {
			return nil, fmt.Errorf("shader %q: name must be unique and non-empty", sc.Name)
		}
		s.Shaders[sc.Name] = recording.NewShader(sc.Name, rec,
			recording.WithBlending(sc.Blending),
			recording.WithDrawOrder(sc.DrawOrder),
		)
	}
	for _, mc := range cfg.Meshes {
		if _, dup := s.Meshes[mc.Name]; dup || mc.Name == "" {
			return nil, fmt.Errorf("mesh %q: name must be unique and non-empty", mc.Name)
		}
		s.Meshes[mc.Name] = recording.NewMesh(mc.Name, rec, recording.WithTriangleCount(common.Coalesce(mc.Triangles, 1)))
	}
	for _, mc := range cfg.Materials {
		if _, dup := s.Materials[mc.Name]; dup || mc.Name == "" {
			return nil, fmt.Errorf("material %q: name must be unique and non-empty", mc.Name)
		}
		shader, ok := s.Shaders[mc.Shader]
		if !ok {
			return nil, fmt.Errorf("material %q: unknown shader %q", mc.Name, mc.Shader)
		}
		s.Materials[mc.Name] = recording.NewMaterial(mc.Name, shader, rec)
	}

	draws, err := s.resolve(cfg.Draws)
	if err != nil {
		return nil, err
	}
	s.Draws = draws

	for _, src := range cfg.Sources {
		draws, err := s.resolve(src.Draws)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}
		s.Sources = append(s.Sources, &layer{name: src.Name, draws: draws})
	}
	return s, nil
}

func (s *Scene) resolve(draws []DrawConfig) ([]draw_tree.DrawCall, error) {
	out := make([]draw_tree.DrawCall, 0, len(draws))
	for i, dc := range draws {
		mesh, ok := s.Meshes[dc.Mesh]
		if !ok {
			return nil, fmt.Errorf("draw %d: unknown mesh %q", i, dc.Mesh)
		}
		mat, ok := s.Materials[dc.Material]
		if !ok {
			return nil, fmt.Errorf("draw %d: unknown material %q", i, dc.Material)
		}
		instances := uint32(1)
		if dc.Instances != nil {
			instances = *dc.Instances
		}
		if instances == 0 {
			return nil, fmt.Errorf("draw %d: %w", i, draw_tree.ErrZeroInstanceCount)
		}
		out = append(out, draw_tree.DrawCall{
			Mesh:          mesh,
			Material:      mat,
			Order:         dc.Order,
			InstanceCount: instances,
		})
	}
	return out, nil
}
