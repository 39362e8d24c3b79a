package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
)

// WheelLineDelta is the DeltaY produced by one wheel notch, matching browser pixel deltas.
const WheelLineDelta float32 = 100

// Translator turns raw window callbacks into queued events: drags are tracked from the
// primary button press to its release, wheel offsets are scaled to pixel deltas and the
// escape key becomes a QuitEvent. It holds no platform types so any window backend can feed it.
type Translator struct {
	mu    *sync.Mutex
	queue Queue

	dragging bool
	lastX    float64
	lastY    float64
}

// NewTranslator creates a Translator pushing into q.
//
// Parameters:
//   - q: the queue to push events into
//
// Returns:
//   - *Translator: the translator
func NewTranslator(q Queue) *Translator {
	return &Translator{mu: &sync.Mutex{}, queue: q}
}

// Queue returns the queue events are pushed into.
func (t *Translator) Queue() Queue {
	return t.queue
}

// Resize reports a new framebuffer size.
func (t *Translator) Resize(width, height int) {
	t.queue.Push(ResizeEvent{Width: width, Height: height})
}

// Scroll reports a vertical wheel offset in notches; positive scrolls toward the user.
func (t *Translator) Scroll(yoff float64) {
	if yoff == 0 {
		return
	}
	t.queue.Push(WheelEvent{DeltaY: -float32(yoff) * WheelLineDelta})
}

// Button reports the primary pointer button changing state at the given cursor position.
func (t *Translator) Button(pressed bool, x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dragging = pressed
	t.lastX, t.lastY = x, y
}

// Cursor reports a cursor move. A DragEvent is pushed only while the primary button is held.
func (t *Translator) Cursor(x, y float64) {
	t.mu.Lock()
	dragging := t.dragging
	dx, dy := x-t.lastX, y-t.lastY
	t.lastX, t.lastY = x, y
	t.mu.Unlock()

	if !dragging || (dx == 0 && dy == 0) {
		return
	}
	t.queue.Push(DragEvent{DX: float32(dx), DY: float32(dy)})
}

// Key reports a key press.
func (t *Translator) Key(code uint32) {
	if code == common.KeyEsc {
		t.queue.Push(QuitEvent{})
		return
	}
	t.queue.Push(KeyEvent{Code: code})
}

// Close reports the window being closed by the user.
func (t *Translator) Close() {
	t.queue.Push(QuitEvent{})
}
