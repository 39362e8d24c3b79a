// Package device is the graphics boundary of the renderer. It exposes the small set of GPU
// capabilities the scene needs (buffers, textures, samplers, bind groups, render pipelines and
// command recording) behind interfaces, so that the renderer, scene and objects receive their
// device by injection. NewWGPUInstance provides the WebGPU implementation; the devicetest
// package provides a recording implementation.
package device

import (
	"context"

	"github.com/cogentcore/webgpu/wgpu"
)

// Instance acquires a device and a presentation surface for a platform window.
type Instance interface {
	// RequestDevice creates a surface for the target, then requests a compatible adapter and a device from it.
	//
	// Parameters:
	//   - ctx: cancels the acquisition before or between the adapter and device requests
	//   - target: the platform surface descriptor; nil reports ErrNoSurface
	//
	// Returns:
	//   - Device: the acquired device
	//   - Surface: the presentation surface bound to the device
	//   - error: ErrNoSurface, ErrNoAdapter or ErrNoDevice (wrapped) on failure
	RequestDevice(ctx context.Context, target *wgpu.SurfaceDescriptor) (Device, Surface, error)

	// Release frees the instance.
	Release()
}

// Device creates GPU resources and submits recorded commands.
type Device interface {
	// CreateBuffer creates a buffer. When desc.Contents is set it is uploaded after creation
	// and desc.Size may be left zero.
	CreateBuffer(desc BufferDescriptor) (Buffer, error)

	// CreateTexture creates a single-sample 2D texture.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateSampler creates a sampler.
	CreateSampler(desc SamplerDescriptor) (Sampler, error)

	// CreateBindGroupLayout creates a bind group layout from raw layout entries.
	CreateBindGroupLayout(desc BindGroupLayoutDescriptor) (BindGroupLayout, error)

	// CreateBindGroup creates a bind group against a layout.
	CreateBindGroup(desc BindGroupDescriptor) (BindGroup, error)

	// CreateRenderPipeline compiles the shader sources and creates a render pipeline.
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateCommandEncoder begins a command recording.
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// WriteBuffer schedules a CPU to GPU copy on the queue. The copy happens before any
	// command buffer submitted after this call.
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// Submit hands a finished command buffer to the queue.
	Submit(cmd CommandBuffer)

	// MinUniformBufferOffsetAlignment reports the alignment required for bound uniform sub-ranges.
	MinUniformBufferOffsetAlignment() uint64

	// Release frees the device and its queue.
	Release()
}

// Surface is the presentation target the color pass renders into.
type Surface interface {
	// Configure (re)creates the swapchain at the given pixel size.
	Configure(width, height int) error

	// Format returns the color format chosen for the surface.
	Format() wgpu.TextureFormat

	// AcquireView returns a view of the next presentable image.
	AcquireView() (TextureView, error)

	// Present displays the most recently acquired image and releases it.
	Present()

	// Discard releases the most recently acquired image without presenting it.
	// A failed frame calls it so the next AcquireView succeeds.
	Discard()

	// Release frees the surface.
	Release()
}

// Buffer is a GPU buffer handle.
type Buffer interface {
	Label() string
	Size() uint64
	Release()
}

// Texture is a GPU texture handle.
type Texture interface {
	Label() string
	Width() uint32
	Height() uint32
	Format() wgpu.TextureFormat
	CreateView() (TextureView, error)
	Release()
}

// TextureView is a view onto a texture usable as an attachment or a binding.
type TextureView interface {
	Label() string
	Release()
}

// Sampler is a GPU sampler handle.
type Sampler interface {
	Release()
}

// BindGroupLayout is a GPU bind group layout handle.
type BindGroupLayout interface {
	Label() string
	Release()
}

// BindGroup is a GPU bind group handle.
type BindGroup interface {
	Label() string
	Release()
}

// RenderPipeline is a compiled render pipeline handle.
type RenderPipeline interface {
	Label() string
	Release()
}

// CommandBuffer is a finished, submittable command recording.
type CommandBuffer interface {
	Release()
}

// CommandEncoder records render passes into a command buffer.
type CommandEncoder interface {
	// BeginRenderPass starts a render pass. Only one pass may be open at a time.
	BeginRenderPass(desc RenderPassDescriptor) RenderPass

	// Finish closes the recording.
	Finish() (CommandBuffer, error)

	Release()
}

// RenderPass records draw state and draw calls.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, bg BindGroup)
	SetVertexBuffer(slot uint32, buf Buffer)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
}
