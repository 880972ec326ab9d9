package wgpu_draw

import (
	"log/slog"

	"github.com/fooooooooooooooo/PengEngine/common"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/bind_group_provider"
)

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*Material)

// WithBindGroups sets the bind groups a material binds, starting at group index first.
// Group 0 is usually left to per-frame camera data, so materials commonly start at 1.
//
// Parameters:
//   - first: the group index of the first provider
//   - providers: the providers to bind, in group order
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBindGroups(first uint32, providers ...bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *Material) {
		m.firstGroup = first
		m.bindGroups = providers
	}
}

// WithBufferWriter sets the writer that staged uniform writes are flushed through.
//
// Parameters:
//   - w: the buffer writer, normally NewQueueWriter(device.GetQueue())
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithBufferWriter(w BufferWriter) MaterialBuilderOption {
	return func(m *Material) {
		m.writer = w
	}
}

// WithLogger sets the logger used to report dropped writes.
//
// Parameters:
//   - l: the logger, nil restores the discarding default
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithLogger(l *slog.Logger) MaterialBuilderOption {
	return func(m *Material) {
		m.logger = common.LoggerOrNop(l)
	}
}
