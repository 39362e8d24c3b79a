package input

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/render_object"
)

// Event is one input delivered by the window layer. The concrete types are ResizeEvent,
// DragEvent, WheelEvent, SpawnEvent, KeyEvent and QuitEvent.
type Event interface {
	isEvent()
}

// ResizeEvent reports a new drawable size in pixels.
type ResizeEvent struct {
	Width  int
	Height int
}

// DragEvent reports a pointer drag delta in pixels while the drag button is held.
type DragEvent struct {
	DX float32
	DY float32
}

// WheelEvent reports a scroll wheel delta. Positive DeltaY scrolls away from the user.
type WheelEvent struct {
	DeltaY float32
}

// SpawnEvent requests a new object of the given shape. Unset placement fields are 0.
type SpawnEvent struct {
	Shape     render_object.ShapeKind
	Placement render_object.Placement
}

// KeyEvent reports a key press using GLFW key codes (see common.KeyC and friends).
type KeyEvent struct {
	Code uint32
}

// QuitEvent requests the engine loop to stop.
type QuitEvent struct{}

func (ResizeEvent) isEvent() {}
func (DragEvent) isEvent()   {}
func (WheelEvent) isEvent()  {}
func (SpawnEvent) isEvent()  {}
func (KeyEvent) isEvent()    {}
func (QuitEvent) isEvent()   {}
