// Package recording is a headless implementation of the draw tree resource capabilities.
// Every GPU-facing call is appended to a Recorder as a Command, which makes the executed
// command stream observable without a device.
package recording

import (
	"fmt"
	"strings"
	"sync"
)

// CommandType identifies the kind of GPU command that was recorded.
type CommandType int

const (
	// UseShader is recorded by Shader.Use.
	UseShader CommandType = iota
	// BindMesh is recorded by Mesh.Bind.
	BindMesh
	// ApplyUniforms is recorded by Material.ApplyUniforms.
	ApplyUniforms
	// BindBuffers is recorded by Material.BindBuffers.
	BindBuffers
	// Draw is recorded by Mesh.Draw.
	Draw
	// DrawInstanced is recorded by Mesh.DrawInstanced.
	DrawInstanced
)

func (c CommandType) String() string {
	switch c {
	case UseShader:
		return "UseShader"
	case BindMesh:
		return "BindMesh"
	case ApplyUniforms:
		return "ApplyUniforms"
	case BindBuffers:
		return "BindBuffers"
	case Draw:
		return "Draw"
	case DrawInstanced:
		return "DrawInstanced"
	default:
		return fmt.Sprintf("CommandType(%d)", int(c))
	}
}

// Command is one recorded GPU call.
type Command struct {
	// Type is the kind of call.
	Type CommandType
	// Target is the name of the shader, mesh or material the call was made on.
	Target string
	// InstanceCount is the instance count of a DrawInstanced command, 1 for Draw and 0 otherwise.
	InstanceCount uint32
}

func (c Command) String() string {
	if c.Type == DrawInstanced {
		return fmt.Sprintf("%s(%s, %d)", c.Type, c.Target, c.InstanceCount)
	}
	return fmt.Sprintf("%s(%s)", c.Type, c.Target)
}

// Recorder collects commands in the order they were issued.
type Recorder interface {
	// Record appends a command.
	//
	// Parameters:
	//   - cmd: the command to append
	Record(cmd Command)

	// Commands returns a copy of the recorded commands in issue order.
	//
	// Returns:
	//   - []Command: the recorded commands
	Commands() []Command

	// Count returns how many commands of the given type were recorded.
	//
	// Parameters:
	//   - t: the command type to count
	//
	// Returns:
	//   - int: the number of matching commands
	Count(t CommandType) int

	// Reset discards every recorded command.
	Reset()
}

// recorder is the implementation of the Recorder interface.
type recorder struct {
	mu       sync.Mutex
	commands []Command
}

var _ Recorder = &recorder{}

// NewRecorder creates an empty Recorder. It is safe for concurrent use.
//
// Returns:
//   - Recorder: a new empty recorder
func NewRecorder() Recorder {
	return &recorder{}
}

func (r *recorder) Record(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func (r *recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *recorder) Count(t CommandType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = r.commands[:0]
}

// FormatCommands renders one command per line, e.g. for a CLI trace.
//
// Parameters:
//   - cmds: the commands to format
//
// Returns:
//   - string: the formatted trace
func FormatCommands(cmds []Command) string {
	var b strings.Builder
	for i, c := range cmds {
		fmt.Fprintf(&b, "%4d  %s\n", i, c)
	}
	return b.String()
}
