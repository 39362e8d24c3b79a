package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/input"
	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/render_object"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrNotInitialized is returned by operations that need the device before Init has succeeded.
var ErrNotInitialized = errors.New("engine: not initialized")

// spawnsPerRing is how many key-spawned objects share one ring around the origin.
const spawnsPerRing = 8

// Window is the part of a platform window the engine drives: the renderer presents into it,
// and its callbacks fill the input queue during PollEvents.
type Window interface {
	renderer.SurfaceSource

	// PollEvents processes pending platform events and reports whether the window is still open.
	PollEvents() bool

	// Queue returns the queue the window's callbacks push into.
	Queue() input.Queue
}

// engine implements the Engine interface.
type engine struct {
	logger *zap.Logger

	window     Window
	renderer   renderer.Renderer
	scene      scene.Scene
	camera     camera.Camera
	controller camera.CameraController
	queue      input.Queue

	sceneOptions      []scene.SceneBuilderOption
	controllerOptions []camera.CameraControllerOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	spawnSpeed       mgl32.Vec3
	spawnCount       int
	paused           bool

	quit     bool
	quitOnce sync.Once
	now      func() time.Time
}

// Engine is the main entry point. It owns the renderer, the scene and the camera, and runs a
// single-threaded loop: poll the window, drain the input queue, run the tick callback, step
// the scene's animation and render one frame.
type Engine interface {
	// Init acquires the device through the renderer and creates the scene on it.
	//
	// Parameters:
	//   - ctx: cancels device acquisition
	//
	// Returns:
	//   - error: the renderer's Init error, or an error creating the scene
	Init(ctx context.Context) error

	// Run initializes the engine if needed and loops until the window closes, Quit is called
	// or ctx is cancelled. Frame errors are logged and the loop continues.
	//
	// Parameters:
	//   - ctx: stops the loop when cancelled
	//
	// Returns:
	//   - error: an Init error, or nil when the loop ends
	Run(ctx context.Context) error

	// Step runs one loop iteration without polling the window: drains the input queue,
	// runs the tick callback, advances the animation by dt unless paused, and renders a frame.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - error: the first error from event handling or the frame
	Step(dt float32) error

	// Spawn creates an object on the engine's device and adds it to the scene.
	//
	// Parameters:
	//   - shape: the shape to create
	//   - placement: the initial transform
	//
	// Returns:
	//   - render_object.RenderObject: the new object
	//   - error: ErrNotInitialized before Init, or an object creation error
	Spawn(shape render_object.ShapeKind, placement render_object.Placement) (render_object.RenderObject, error)

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// Scene returns the scene, or nil before Init.
	Scene() scene.Scene

	// Camera returns the camera.
	Camera() camera.Camera

	// Controller returns the controller mapping drag and wheel input onto the camera.
	Controller() camera.CameraController

	// Queue returns the input queue drained by Step.
	Queue() input.Queue

	// SetTickCallback registers the function called each iteration before the animation step.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Paused reports whether the animation step is paused.
	Paused() bool

	// SetPaused pauses or resumes the animation step. Frames are still rendered while paused.
	SetPaused(paused bool)

	// Running reports whether Quit has not been requested.
	Running() bool

	// Quit stops the loop after the current iteration. Safe to call multiple times.
	Quit()

	// Release frees the scene and the renderer.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options. The renderer defaults to one
// acquiring a WebGPU device and the camera to the default camera; the input queue defaults to
// the window's queue when a window is set.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.WithLogger(e.logger))
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	e.controller = camera.NewCameraController(e.camera, e.controllerOptions...)
	if e.queue == nil {
		if e.window != nil {
			e.queue = e.window.Queue()
		} else {
			e.queue = input.NewQueue()
		}
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Init(ctx context.Context) error {
	if e.scene != nil {
		return nil
	}
	if e.renderer.State() != renderer.StateReady {
		if e.window == nil {
			return fmt.Errorf("engine init: no window")
		}
		if err := e.renderer.Init(ctx, e.window); err != nil {
			return err
		}
	}

	s, err := scene.NewScene(e.renderer.Device(), e.renderer.Library(), e.sceneOptions...)
	if err != nil {
		return fmt.Errorf("engine init: %w", err)
	}
	e.scene = s

	if w, h := e.renderer.Size(); w > 0 && h > 0 {
		e.camera.SetAspect(float32(w) / float32(h))
	}
	return nil
}

func (e *engine) Run(ctx context.Context) error {
	if err := e.Init(ctx); err != nil {
		return err
	}

	last := e.now()
	for e.Running() && ctx.Err() == nil {
		if e.window != nil && !e.window.PollEvents() {
			break
		}

		frameStart := e.now()
		dt := float32(frameStart.Sub(last).Seconds())
		last = frameStart

		if err := e.Step(dt); err != nil {
			e.logger.Warn("frame failed", zap.Error(err))
		}

		if e.profilingEnabled {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	return nil
}

func (e *engine) Step(dt float32) error {
	if e.scene == nil {
		return ErrNotInitialized
	}

	var errs []error
	for _, ev := range e.queue.Drain() {
		if err := e.handleEvent(ev); err != nil {
			errs = append(errs, err)
		}
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
	if !e.paused {
		e.scene.Animate(dt)
	}

	if err := e.renderer.Frame(e.camera, e.scene); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// handleEvent applies one input event to the renderer, camera or scene.
func (e *engine) handleEvent(ev input.Event) error {
	switch ev := ev.(type) {
	case input.ResizeEvent:
		if ev.Width <= 0 || ev.Height <= 0 {
			return nil
		}
		e.camera.SetAspect(float32(ev.Width) / float32(ev.Height))
		return e.renderer.Update(ev.Width, ev.Height)
	case input.DragEvent:
		e.controller.Drag(ev.DX, ev.DY)
	case input.WheelEvent:
		e.controller.Wheel(ev.DeltaY)
	case input.SpawnEvent:
		_, err := e.Spawn(ev.Shape, ev.Placement)
		return err
	case input.KeyEvent:
		return e.handleKey(ev.Code)
	case input.QuitEvent:
		e.Quit()
	}
	return nil
}

// handleKey applies the key bindings: C and P spawn, Space toggles the animation, Esc quits.
func (e *engine) handleKey(code uint32) error {
	switch code {
	case common.KeyC:
		_, err := e.Spawn(render_object.ShapeCube, e.nextPlacement())
		return err
	case common.KeyP:
		_, err := e.Spawn(render_object.ShapePyramid, e.nextPlacement())
		return err
	case common.KeySpace:
		e.paused = !e.paused
	case common.KeyEsc:
		e.Quit()
	}
	return nil
}

// nextPlacement places key-spawned objects on rings around the origin, eight per ring,
// each ring 2 units wider than the last.
func (e *engine) nextPlacement() render_object.Placement {
	n := e.spawnCount
	angle := float32(n%spawnsPerRing) * 2 * math32.Pi / spawnsPerRing
	radius := 4 + 2*float32(n/spawnsPerRing)
	return render_object.Placement{
		X: radius * math32.Cos(angle),
		Z: radius * math32.Sin(angle),
	}
}

func (e *engine) Spawn(shape render_object.ShapeKind, placement render_object.Placement) (render_object.RenderObject, error) {
	if e.scene == nil {
		return nil, ErrNotInitialized
	}
	obj, err := render_object.NewRenderObject(e.renderer.Device(), e.renderer.Library(), shape,
		render_object.WithPlacement(placement),
		render_object.WithRotationSpeed(e.spawnSpeed.X(), e.spawnSpeed.Y(), e.spawnSpeed.Z()),
	)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", shape, err)
	}
	e.scene.Add(obj)
	e.spawnCount++
	e.logger.Debug("spawned object",
		zap.Stringer("shape", shape),
		zap.Uint64("id", obj.ID()),
		zap.Float32("x", placement.X),
		zap.Float32("y", placement.Y),
		zap.Float32("z", placement.Z),
	)
	return obj, nil
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Controller() camera.CameraController {
	return e.controller
}

func (e *engine) Queue() input.Queue {
	return e.queue
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Paused() bool {
	return e.paused
}

func (e *engine) SetPaused(paused bool) {
	e.paused = paused
}

func (e *engine) Running() bool {
	return !e.quit
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.quit = true
		e.logger.Info("engine quitting")
	})
}

func (e *engine) Release() {
	if e.scene != nil {
		e.scene.Release()
		e.scene = nil
	}
	e.renderer.Release()
}
