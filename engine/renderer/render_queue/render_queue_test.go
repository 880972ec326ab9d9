package render_queue_test

import (
	"sync"
	"testing"
	"time"

	"github.com/fooooooooooooooo/PengEngine/engine/renderer/draw_tree"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/recording"
	"github.com/fooooooooooooooo/PengEngine/engine/renderer/render_queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layer struct {
	orders []float64
	delay  time.Duration
	mesh   draw_tree.Mesh
	mat    draw_tree.Material
	polls  int
}

func (l *layer) DrawCalls() []draw_tree.DrawCall {
	time.Sleep(l.delay)
	l.polls++
	out := make([]draw_tree.DrawCall, len(l.orders))
	for i, o := range l.orders {
		out[i] = draw_tree.DrawCall{Mesh: l.mesh, Material: l.mat, Order: o, InstanceCount: 1}
	}
	return out
}

func orders(dcs []draw_tree.DrawCall) []float64 {
	out := make([]float64, len(dcs))
	for i, dc := range dcs {
		out[i] = dc.Order
	}
	return out
}

func fixture() (draw_tree.Mesh, draw_tree.Material) {
	rec := recording.NewRecorder()
	s := recording.NewShader("S", rec)
	return recording.NewMesh("M", rec), recording.NewMaterial("mat", s, rec)
}

func TestRenderQueue_CollectDrainsSubmitted(t *testing.T) {
	mesh, mat := fixture()
	q := render_queue.NewRenderQueue(render_queue.WithWorkers(1))

	q.Submit(draw_tree.DrawCall{Mesh: mesh, Material: mat, Order: 2, InstanceCount: 1})
	q.Submit(
		draw_tree.DrawCall{Mesh: mesh, Material: mat, Order: 1, InstanceCount: 1},
		draw_tree.DrawCall{Mesh: mesh, Material: mat, Order: 3, InstanceCount: 1},
	)
	assert.Equal(t, 3, q.Len())

	assert.Equal(t, []float64{2, 1, 3}, orders(q.Collect()))
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Collect())
}

func TestRenderQueue_SourcesKeepRegistrationOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		mesh, mat := fixture()
		q := render_queue.NewRenderQueue(
			render_queue.WithWorkers(workers),
			render_queue.WithIdleTimeout(50*time.Millisecond),
		)

		// The slowest source is registered first so parallel completion order differs.
		q.AddSource(&layer{orders: []float64{10, 11}, delay: 20 * time.Millisecond, mesh: mesh, mat: mat})
		q.AddSource(&layer{orders: []float64{20}, delay: 5 * time.Millisecond, mesh: mesh, mat: mat})
		q.AddSource(&layer{orders: []float64{30, 31, 32}, mesh: mesh, mat: mat})
		q.Submit(draw_tree.DrawCall{Mesh: mesh, Material: mat, Order: 0, InstanceCount: 1})

		for frame := 0; frame < 3; frame++ {
			got := q.Collect()
			if frame == 0 {
				assert.Equal(t, []float64{0, 10, 11, 20, 30, 31, 32}, orders(got), "workers=%d", workers)
			} else {
				assert.Equal(t, []float64{10, 11, 20, 30, 31, 32}, orders(got), "workers=%d", workers)
			}
		}
	}
}

func TestRenderQueue_AddRemoveSource(t *testing.T) {
	mesh, mat := fixture()
	q := render_queue.NewRenderQueue()
	a := &layer{orders: []float64{1}, mesh: mesh, mat: mat}
	b := &layer{orders: []float64{2}, mesh: mesh, mat: mat}

	q.AddSource(a)
	q.AddSource(a)
	q.AddSource(b)
	assert.Equal(t, 2, q.SourceCount())

	assert.True(t, q.RemoveSource(a))
	assert.False(t, q.RemoveSource(a))
	assert.Equal(t, 1, q.SourceCount())

	assert.Equal(t, []float64{2}, orders(q.Collect()))
	assert.Equal(t, 0, a.polls)
	assert.Equal(t, 1, b.polls)

	assert.Panics(t, func() { q.AddSource(nil) })
}

func TestRenderQueue_ConcurrentSubmit(t *testing.T) {
	mesh, mat := fixture()
	q := render_queue.NewRenderQueue(render_queue.WithInitialCapacity(0))

	const producers, perProducer = 8, 100
	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Submit(draw_tree.DrawCall{Mesh: mesh, Material: mat, Order: float64(p*perProducer + i), InstanceCount: 1})
			}
		}()
	}
	wg.Wait()

	frame := q.Collect()
	require.Len(t, frame, producers*perProducer)

	seen := make(map[float64]bool, len(frame))
	for _, dc := range frame {
		seen[dc.Order] = true
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestRenderQueue_CollectFeedsDrawTree(t *testing.T) {
	mesh, mat := fixture()
	q := render_queue.NewRenderQueue(render_queue.WithWorkers(2))
	q.AddSource(&layer{orders: []float64{3, 1}, mesh: mesh, mat: mat})
	q.AddSource(&layer{orders: []float64{2}, mesh: mesh, mat: mat})

	tree, err := draw_tree.NewDrawTree(q.Collect())
	require.NoError(t, err)
	assert.Equal(t, 1, tree.ShaderDrawCount())
	assert.Equal(t, []float64{1, 2, 3}, orders(tree.DrawCalls()))
}
