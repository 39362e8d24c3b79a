package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/render_object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainPreservesOrder(t *testing.T) {
	q := NewQueue()
	q.Push(ResizeEvent{Width: 800, Height: 600})
	q.Push(DragEvent{DX: 1, DY: 2})
	q.Push(nil)
	q.Push(SpawnEvent{Shape: render_object.ShapePyramid, Placement: render_object.Placement{X: 2}})
	q.Push(WheelEvent{DeltaY: 100})
	assert.Equal(t, 4, q.Len())

	events := q.Drain()
	require.Len(t, events, 4)
	assert.Equal(t, ResizeEvent{Width: 800, Height: 600}, events[0])
	assert.Equal(t, DragEvent{DX: 1, DY: 2}, events[1])
	assert.Equal(t, render_object.ShapePyramid, events[2].(SpawnEvent).Shape)
	assert.Equal(t, WheelEvent{DeltaY: 100}, events[3])

	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}

func TestCoalescing(t *testing.T) {
	q := NewQueue(WithCoalescing(true))
	q.Push(ResizeEvent{Width: 100, Height: 100})
	q.Push(ResizeEvent{Width: 200, Height: 150})
	q.Push(DragEvent{DX: 1, DY: 1})
	q.Push(DragEvent{DX: 2, DY: -3})
	q.Push(KeyEvent{Code: 67})
	q.Push(KeyEvent{Code: 67})
	q.Push(WheelEvent{DeltaY: 50})
	q.Push(WheelEvent{DeltaY: 25})

	events := q.Drain()
	require.Len(t, events, 5)
	assert.Equal(t, ResizeEvent{Width: 200, Height: 150}, events[0])
	assert.Equal(t, DragEvent{DX: 3, DY: -2}, events[1])
	assert.Equal(t, KeyEvent{Code: 67}, events[2])
	assert.Equal(t, KeyEvent{Code: 67}, events[3])
	assert.Equal(t, WheelEvent{DeltaY: 75}, events[4])
}

func TestConcurrentPush(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(WheelEvent{DeltaY: 1})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 800)
}
