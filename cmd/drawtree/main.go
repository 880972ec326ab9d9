// Command drawtree builds and executes draw trees for a TOML frame description on the
// recording backend, and prints the batching plan, the command trace and the frame stats.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/profiler"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/recording"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/render_queue"
)

//go:embed default_frame.toml
var defaultFrame string

func main() {
	var (
		framePath = flag.String("frame", "", "frame description (TOML); the built-in scene when empty")
		frames    = flag.Int("frames", 1, "number of frames to render")
		policy    = flag.String("policy", "", "blend order policy: warn, ignore or strict (overrides the frame file)")
		trace     = flag.Bool("trace", false, "print the command trace of the last frame")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(os.Stdout, logger, *framePath, *frames, *policy, *trace); err != nil {
		log.Fatalf("drawtree: %v", err)
	}
}

func run(w io.Writer, logger *slog.Logger, framePath string, frames int, policyFlag string, trace bool) error {
	var (
		cfg      *FrameConfig
		warnings []string
		err      error
	)
	if framePath == "" {
		cfg, warnings, err = ParseFrame(defaultFrame)
	} else {
		cfg, warnings, err = LoadFrame(framePath)
	}
	if err != nil {
		return fmt.Errorf("failed to load frame: %w", err)
	}
	for _, warning := range warnings {
		logger.Warn("frame description", slog.String("warning", warning))
	}

	policy, err := draw_tree.ParseBlendOrderPolicy(common.Coalesce(policyFlag, cfg.Renderer.Policy))
	if err != nil {
		return err
	}

	rec := recording.NewRecorder()
	scene, err := cfg.Build(rec)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}

	queueOptions := []render_queue.RenderQueueBuilderOption{render_queue.WithLogger(logger)}
	if cfg.Renderer.Workers > 0 {
		queueOptions = append(queueOptions, render_queue.WithWorkers(cfg.Renderer.Workers))
	}
	queue := render_queue.NewRenderQueue(queueOptions...)
	for _, src := range scene.Sources {
		queue.AddSource(src)
	}

	prof := profiler.NewProfiler(profiler.WithLogger(logger))
	r := renderer.NewRenderer(
		renderer.WithRenderQueue(queue),
		renderer.WithTracer(prof),
		renderer.WithLogger(logger),
		renderer.WithBlendOrderPolicy(policy),
	)

	for i := 0; i < max(frames, 1); i++ {
		rec.Reset()
		r.Submit(scene.Draws...)
		if _, err := r.RenderFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		prof.Tick()
	}

	// Rebuild the last frame for printing; building does not touch the recorder.
	queue.Submit(scene.Draws...)
	tree, err := draw_tree.NewDrawTree(queue.Collect(), draw_tree.WithBlendOrderPolicy(draw_tree.BlendOrderIgnore))
	if err != nil {
		return err
	}
	fmt.Fprint(w, FormatTree(tree))
	if trace {
		fmt.Fprintln(w)
		fmt.Fprint(w, recording.FormatCommands(rec.Commands()))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "frames: %d\n%s\n", r.FrameCount(), r.LastStats())

	for _, name := range prof.SpanNames() {
		st, _ := prof.Span(name)
		logger.Debug("span", slog.String("span", name), slog.Int("count", st.Count), slog.Duration("avg", st.Average()))
	}
	return nil
}

// FormatTree renders the batching plan of a draw tree as an indented outline.
func FormatTree(tree draw_tree.DrawTree) string {
	var b strings.Builder
	for _, sd := range tree.ShaderDraws() {
		s := sd.Shader()
		mode := "opaque"
		if s.RequiresBlending() {
			mode = "blended"
		}
		fmt.Fprintf(&b, "shader %s (%s, draw order %d)\n", s.Name(), mode, s.DrawOrder())
		for _, md := range sd.MeshDraws() {
			fmt.Fprintf(&b, "  mesh %s\n", md.Mesh().Name())
			for _, dc := range md.DrawCalls() {
				fmt.Fprintf(&b, "    order %g x%d\n", dc.Order, dc.InstanceCount)
			}
		}
	}
	return b.String()
}
