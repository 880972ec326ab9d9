package draw_tree

import "fmt"

// RenderQueueStats holds the per-frame counters filled in by DrawTree.Execute.
// The caller resets it before each frame; the builder never reads it.
type RenderQueueStats struct {
	// ShaderSwitches counts shader binds, one per ShaderDrawGroup executed.
	ShaderSwitches int
	// MeshSwitches counts mesh binds, one per MeshDrawGroup executed.
	MeshSwitches int
	// DrawCalls counts draw dispatches, instanced or not.
	DrawCalls int
	// Triangles sums InstanceCount * TriangleCount over all dispatches.
	Triangles uint64
}

// Reset zeroes every counter.
func (s *RenderQueueStats) Reset() {
	*s = RenderQueueStats{}
}

// Add accumulates the counters of other into s, e.g. to total several passes of one frame.
//
// Parameters:
//   - other: the stats to add
func (s *RenderQueueStats) Add(other RenderQueueStats) {
	s.ShaderSwitches += other.ShaderSwitches
	s.MeshSwitches += other.MeshSwitches
	s.DrawCalls += other.DrawCalls
	s.Triangles += other.Triangles
}

func (s RenderQueueStats) String() string {
	return fmt.Sprintf("shader switches: %d | mesh switches: %d | draw calls: %d | triangles: %d",
		s.ShaderSwitches, s.MeshSwitches, s.DrawCalls, s.Triangles)
}
