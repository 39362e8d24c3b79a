package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// DepthFormat is the format of the color pass depth target.
const DepthFormat = wgpu.TextureFormatDepth24PlusStencil8

// DefaultClearColor is the neutral gray the color pass clears to.
var DefaultClearColor = wgpu.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

// State is the lifecycle state of a Renderer.
type State int

const (
	// StateUninitialized is the state before a successful Init. Frame and Update are no-ops.
	StateUninitialized State = iota

	// StateReady is the state after a successful Init.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SurfaceSource is the platform window the renderer presents into.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform-specific descriptor used to create the surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	logger *zap.Logger
	state  State

	instance     device.Instance
	ownsInstance bool

	// Pre-creation config collected from builder options
	presentMode          device.PresentMode
	forceFallbackAdapter bool
	clearColor           wgpu.Color

	dev     device.Device
	surface device.Surface
	lib     pipeline.Library

	width        int
	height       int
	depthTexture device.Texture
	depthView    device.TextureView

	// colorPass is rebuilt together with the depth target; its color view is filled per frame.
	colorPass device.RenderPassDescriptor
}

// Renderer owns the presentation surface, the device and the color pass depth target, and
// records the two passes of every frame: a depth-only shadow pass into the scene's shadow map
// followed by a lit color pass into the surface image.
type Renderer interface {
	// Init acquires a device and surface for the source window, configures the surface to the
	// window size, builds the shared pipelines and creates the depth target.
	// The context is checked before and after device acquisition. On failure the renderer
	// stays Uninitialized and Init may be retried.
	//
	// Parameters:
	//   - ctx: cancels initialization
	//   - src: the window to present into
	//
	// Returns:
	//   - error: device.ErrNoSurface, device.ErrNoAdapter or device.ErrNoDevice (wrapped) on failure
	Init(ctx context.Context, src SurfaceSource) error

	// Update reconfigures the surface for a new size and recreates the depth target.
	// No-op if the renderer is not Ready or either dimension is not positive.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface or depth target cannot be recreated
	Update(width, height int) error

	// Frame writes the scene uniforms, acquires the next surface image, records the shadow
	// pass and then the color pass over the scene's objects in insertion order, submits once
	// and presents. No-op if the renderer is not Ready.
	//
	// Parameters:
	//   - cam: the camera providing the view-projection matrix
	//   - sc: the scene to draw
	//
	// Returns:
	//   - error: an error if the surface image cannot be acquired or the frame cannot be recorded
	Frame(cam camera.Camera, sc scene.Scene) error

	// State returns the lifecycle state.
	State() State

	// Device returns the acquired device, or nil before Init.
	Device() device.Device

	// Library returns the shared pipelines, or nil before Init.
	Library() pipeline.Library

	// SurfaceFormat returns the color format of the surface, or wgpu.TextureFormatUndefined before Init.
	SurfaceFormat() wgpu.TextureFormat

	// DepthTarget returns the current color pass depth view, or nil before Init.
	DepthTarget() device.TextureView

	// Size returns the current surface size in pixels.
	Size() (int, int)

	// Release frees the depth target, pipelines, surface, device and, when the renderer
	// created it, the instance. The renderer returns to Uninitialized.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates an Uninitialized Renderer. Call Init with a window to acquire the device.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		logger:      zap.NewNop(),
		state:       StateUninitialized,
		presentMode: device.PresentModeVSync,
		clearColor:  DefaultClearColor,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Init(ctx context.Context, src SurfaceSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateReady {
		return nil
	}
	if src == nil {
		return fmt.Errorf("renderer init: %w", device.ErrNoSurface)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("renderer init: %w", err)
	}

	if r.instance == nil {
		r.instance = device.NewWGPUInstance(
			device.WithPresentMode(r.presentMode),
			device.WithForceFallbackAdapter(r.forceFallbackAdapter),
		)
		r.ownsInstance = true
	}

	dev, surface, err := r.instance.RequestDevice(ctx, src.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("renderer init: %w", err)
	}
	if err := ctx.Err(); err != nil {
		surface.Release()
		dev.Release()
		return fmt.Errorf("renderer init: %w", err)
	}
	r.dev, r.surface = dev, surface

	if err := r.setup(src.Width(), src.Height()); err != nil {
		r.teardown()
		return fmt.Errorf("renderer init: %w", err)
	}

	r.state = StateReady
	r.logger.Info("renderer ready",
		zap.Int("width", r.width),
		zap.Int("height", r.height),
		zap.String("surface_format", fmt.Sprint(r.surface.Format())),
		zap.Uint64("uniform_alignment", r.dev.MinUniformBufferOffsetAlignment()),
	)
	return nil
}

// setup configures the surface and creates the pipelines and depth target on a fresh device.
func (r *renderer) setup(width, height int) error {
	if err := r.surface.Configure(width, height); err != nil {
		return err
	}
	lib, err := pipeline.NewLibrary(r.dev, r.surface.Format())
	if err != nil {
		return err
	}
	r.lib = lib
	return r.createDepthTarget(width, height)
}

// createDepthTarget replaces the depth texture and view with ones of the given size and
// rebuilds the color pass descriptor around the new view. The old target is released only
// after the new one exists.
func (r *renderer) createDepthTarget(width, height int) error {
	tex, err := r.dev.CreateTexture(device.TextureDescriptor{
		Label:  "Depth Texture",
		Width:  uint32(width),
		Height: uint32(height),
		Format: DepthFormat,
		Usage:  wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView()
	if err != nil {
		tex.Release()
		return err
	}

	r.releaseDepthTarget()
	r.depthTexture, r.depthView = tex, view
	r.width, r.height = width, height
	r.colorPass = device.RenderPassDescriptor{
		Label: "Color Pass",
		Color: &device.ColorAttachment{ClearValue: r.clearColor},
		Depth: &device.DepthAttachment{
			View:            view,
			DepthClearValue: 1.0,
			StoreDepth:      true,
			HasStencil:      true,
		},
	}
	return nil
}

func (r *renderer) releaseDepthTarget() {
	if r.depthView != nil {
		r.depthView.Release()
		r.depthView = nil
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
		r.depthTexture = nil
	}
}

func (r *renderer) Update(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady || width <= 0 || height <= 0 {
		return nil
	}
	if err := r.surface.Configure(width, height); err != nil {
		return fmt.Errorf("renderer update: %w", err)
	}
	if err := r.createDepthTarget(width, height); err != nil {
		return fmt.Errorf("renderer update: %w", err)
	}
	r.logger.Debug("surface resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (r *renderer) Frame(cam camera.Camera, sc scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady || cam == nil || sc == nil {
		return nil
	}

	if err := sc.WriteUniforms(cam.ViewProjection()); err != nil {
		return fmt.Errorf("frame: write scene uniforms: %w", err)
	}

	view, err := r.surface.AcquireView()
	if err != nil {
		return fmt.Errorf("frame: acquire surface image: %w", err)
	}

	cmd, err := r.record(view, sc)
	if err != nil {
		r.surface.Discard()
		return fmt.Errorf("frame: %w", err)
	}
	r.dev.Submit(cmd)
	cmd.Release()
	r.surface.Present()
	return nil
}

// record encodes the shadow pass and the color pass into one command buffer.
func (r *renderer) record(target device.TextureView, sc scene.Scene) (device.CommandBuffer, error) {
	enc, err := r.dev.CreateCommandEncoder("Frame Encoder")
	if err != nil {
		return nil, err
	}
	defer enc.Release()

	objects := sc.Objects()

	shadowPass := enc.BeginRenderPass(device.RenderPassDescriptor{
		Label: "Shadow Pass",
		Depth: &device.DepthAttachment{
			View:            sc.ShadowPassTarget(),
			DepthClearValue: 1.0,
			StoreDepth:      true,
		},
	})
	for _, obj := range objects {
		if err := obj.ShadowDraw(shadowPass); err != nil {
			return nil, errors.Join(err, shadowPass.End())
		}
	}
	if err := shadowPass.End(); err != nil {
		return nil, err
	}

	desc := r.colorPass
	color := *desc.Color
	color.View = target
	desc.Color = &color

	colorBindGroup := sc.ColorPassBindGroup()
	colorPass := enc.BeginRenderPass(desc)
	for _, obj := range objects {
		if err := obj.ColorDraw(colorPass, colorBindGroup); err != nil {
			return nil, errors.Join(err, colorPass.End())
		}
	}
	if err := colorPass.End(); err != nil {
		return nil, err
	}

	return enc.Finish()
}

func (r *renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) Device() device.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dev
}

func (r *renderer) Library() pipeline.Library {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lib
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.surface == nil {
		return wgpu.TextureFormatUndefined
	}
	return r.surface.Format()
}

func (r *renderer) DepthTarget() device.TextureView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depthView
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teardown()
	if r.instance != nil && r.ownsInstance {
		r.instance.Release()
		r.instance = nil
		r.ownsInstance = false
	}
}

// teardown releases everything acquired by Init and returns to Uninitialized.
func (r *renderer) teardown() {
	r.releaseDepthTarget()
	if r.lib != nil {
		r.lib.Release()
		r.lib = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.dev != nil {
		r.dev.Release()
		r.dev = nil
	}
	r.width, r.height = 0, 0
	r.colorPass = device.RenderPassDescriptor{}
	r.state = StateUninitialized
}
