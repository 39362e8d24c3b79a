package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatorDrag(t *testing.T) {
	q := NewQueue()
	tr := NewTranslator(q)

	tr.Cursor(10, 10)
	tr.Button(true, 10, 10)
	tr.Cursor(60, 35)
	tr.Cursor(60, 35)
	tr.Button(false, 60, 35)
	tr.Cursor(100, 100)

	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, DragEvent{DX: 50, DY: 25}, events[0])
}

func TestTranslatorScrollKeysAndResize(t *testing.T) {
	q := NewQueue()
	tr := NewTranslator(q)
	assert.Same(t, q, tr.Queue())

	tr.Scroll(-1)
	tr.Scroll(0)
	tr.Key(common.KeyC)
	tr.Resize(1024, 768)
	tr.Key(common.KeyEsc)
	tr.Close()

	assert.Equal(t, []Event{
		WheelEvent{DeltaY: 100},
		KeyEvent{Code: common.KeyC},
		ResizeEvent{Width: 1024, Height: 768},
		QuitEvent{},
		QuitEvent{},
	}, q.Drain())
}
