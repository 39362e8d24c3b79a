package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuSurface is the WebGPU implementation of Surface.
type wgpuSurface struct {
	mu          *sync.Mutex
	dev         *wgpuDevice
	surface     *wgpu.Surface
	presentMode wgpu.PresentMode
	format      wgpu.TextureFormat
	configured  bool

	frameTexture *wgpu.Texture
	frameView    *wgpuTextureView
}

var _ Surface = &wgpuSurface{}

func (s *wgpuSurface) Configure(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("cannot configure surface to %dx%d", width, height)
	}
	if s.surface == nil {
		return ErrNoSurface
	}

	capabilities := s.surface.GetCapabilities(s.dev.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no supported formats")
	}
	if len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no supported alpha modes")
	}
	s.format = capabilities.Formats[0]

	s.surface.Configure(s.dev.adapter, s.dev.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: s.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	s.configured = true
	return nil
}

func (s *wgpuSurface) Format() wgpu.TextureFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

func (s *wgpuSurface) AcquireView() (TextureView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.configured {
		return nil, errors.New("surface has not been configured")
	}
	if s.frameTexture != nil {
		return nil, errors.New("previous surface image not yet presented")
	}

	texture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface image: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}

	s.frameTexture = texture
	s.frameView = &wgpuTextureView{label: "Surface View", view: view}
	return s.frameView, nil
}

func (s *wgpuSurface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frameTexture == nil {
		return
	}
	s.surface.Present()
	s.releaseFrame()
}

func (s *wgpuSurface) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseFrame()
}

func (s *wgpuSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseFrame()
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}

// releaseFrame drops the acquired image and its view so the next AcquireView can proceed.
// Caller must hold the mutex.
func (s *wgpuSurface) releaseFrame() {
	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	if s.frameTexture != nil {
		s.frameTexture.Release()
		s.frameTexture = nil
	}
}
