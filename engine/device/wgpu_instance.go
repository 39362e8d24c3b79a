package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode selects how surface images are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (FIFO). Always supported.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

// wgpuPresentMode maps a PresentMode onto its wgpu value.
func (m PresentMode) wgpuPresentMode() wgpu.PresentMode {
	switch m {
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		return wgpu.PresentModeFifo
	}
}

// wgpuInstance is the WebGPU implementation of Instance.
type wgpuInstance struct {
	mu       *sync.Mutex
	instance *wgpu.Instance

	forceFallbackAdapter bool
	presentMode          PresentMode
}

var _ Instance = &wgpuInstance{}

// NewWGPUInstance creates an Instance backed by the native WebGPU library.
//
// Parameters:
//   - options: functional options for adapter selection and presentation
//
// Returns:
//   - Instance: the WebGPU instance
func NewWGPUInstance(options ...InstanceBuilderOption) Instance {
	w := &wgpuInstance{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: PresentModeVSync,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *wgpuInstance) RequestDevice(ctx context.Context, target *wgpu.SurfaceDescriptor) (Device, Surface, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if target == nil {
		return nil, nil, ErrNoSurface
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	surface := w.instance.CreateSurface(target)
	if surface == nil {
		return nil, nil, ErrNoSurface
	}

	adapter, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: w.forceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil || adapter == nil {
		surface.Release()
		return nil, nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if err := ctx.Err(); err != nil {
		adapter.Release()
		surface.Release()
		return nil, nil, err
	}

	limits := wgpu.DefaultLimits()
	d, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil || d == nil {
		adapter.Release()
		surface.Release()
		return nil, nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	dev := &wgpuDevice{
		mu:        &sync.Mutex{},
		adapter:   adapter,
		device:    d,
		queue:     d.GetQueue(),
		alignment: uint64(limits.MinUniformBufferOffsetAlignment),
	}
	surf := &wgpuSurface{
		mu:          &sync.Mutex{},
		dev:         dev,
		surface:     surface,
		presentMode: w.presentMode.wgpuPresentMode(),
	}
	return dev, surf, nil
}

func (w *wgpuInstance) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.instance != nil {
		w.instance.Release()
		w.instance = nil
	}
}
