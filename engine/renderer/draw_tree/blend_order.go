package draw_tree

import (
	"fmt"
	"log/slog"
	"strings"
)

// BlendOrderPolicy selects what NewDrawTree does when shader draw-order priorities move a
// blended draw call ahead of a blended draw call with a lower order key.
//
// The priority sort runs after blended draws were inserted in paint order, so two blended
// shaders with different priorities can swap places even though their geometry overlaps.
type BlendOrderPolicy int

const (
	// BlendOrderWarn logs a warning for the first violation and keeps the tree. This is the default.
	BlendOrderWarn BlendOrderPolicy = iota

	// BlendOrderIgnore skips the check entirely.
	BlendOrderIgnore

	// BlendOrderStrict fails the build with ErrBlendOrderViolated.
	BlendOrderStrict
)

func (p BlendOrderPolicy) String() string {
	switch p {
	case BlendOrderWarn:
		return "warn"
	case BlendOrderIgnore:
		return "ignore"
	case BlendOrderStrict:
		return "strict"
	default:
		return fmt.Sprintf("BlendOrderPolicy(%d)", int(p))
	}
}

// ParseBlendOrderPolicy parses "warn", "ignore" or "strict" (case-insensitive). An empty
// string yields the default BlendOrderWarn.
//
// Parameters:
//   - s: the policy name
//
// Returns:
//   - BlendOrderPolicy: the parsed policy
//   - error: an error if s names no policy
func ParseBlendOrderPolicy(s string) (BlendOrderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn":
		return BlendOrderWarn, nil
	case "ignore":
		return BlendOrderIgnore, nil
	case "strict":
		return BlendOrderStrict, nil
	default:
		return BlendOrderWarn, fmt.Errorf("unknown blend order policy %q (want warn, ignore or strict)", s)
	}
}

type blendOrderViolation struct {
	before, after             DrawCall
	beforeShader, afterShader Shader
	count                     int
}

// findBlendOrderViolation walks blended draw calls in execution order and reports the first
// one whose order key is lower than a blended draw executed before it.
func (t *drawTree) findBlendOrderViolation() (blendOrderViolation, bool) {
	var (
		v        blendOrderViolation
		last     DrawCall
		lastSet  bool
		lastShdr Shader
	)
	for _, sd := range t.shaderDraws {
		if !sd.shader.RequiresBlending() {
			continue
		}
		for _, md := range sd.meshDraws {
			for _, dc := range md.drawCalls {
				if lastSet && dc.Order < last.Order {
					if v.count == 0 {
						v.before, v.beforeShader = last, lastShdr
						v.after, v.afterShader = dc, sd.shader
					}
					v.count++
					continue
				}
				last, lastShdr, lastSet = dc, sd.shader, true
			}
		}
	}
	return v, v.count > 0
}

func (t *drawTree) checkBlendOrder() error {
	if t.blendOrderPolicy == BlendOrderIgnore {
		return nil
	}

	v, found := t.findBlendOrderViolation()
	if !found {
		return nil
	}

	if t.blendOrderPolicy == BlendOrderStrict {
		return fmt.Errorf("%w: shader %q (draw order %d) draws order %v before shader %q (draw order %d) draws order %v",
			ErrBlendOrderViolated,
			v.beforeShader.Name(), v.beforeShader.DrawOrder(), v.before.Order,
			v.afterShader.Name(), v.afterShader.DrawOrder(), v.after.Order,
		)
	}

	t.logger.Warn("shader draw order reorders blended draw calls",
		slog.String("first_shader", v.beforeShader.Name()),
		slog.Int("first_draw_order", v.beforeShader.DrawOrder()),
		slog.Float64("first_order", v.before.Order),
		slog.String("second_shader", v.afterShader.Name()),
		slog.Int("second_draw_order", v.afterShader.DrawOrder()),
		slog.Float64("second_order", v.after.Order),
		slog.Int("violations", v.count),
	)
	return nil
}
