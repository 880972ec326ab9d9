package common

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, uint32(1), Coalesce(uint32(0), 1))
}

func TestBytesViews(t *testing.T) {
	type color struct{ R, G, B, A float32 }
	c := color{1, 0, 0, 1}
	assert.Len(t, StructToBytes(&c), 16)
	assert.Len(t, SliceToBytes([]uint32{1, 2, 3}), 12)
	assert.Nil(t, SliceToBytes([]uint32(nil)))
}

func TestLoggerOrNop(t *testing.T) {
	l := LoggerOrNop(nil)
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))

	custom := slog.Default()
	assert.Same(t, custom, LoggerOrNop(custom))
}
