package device

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage wgpu.BufferUsage

	// Contents, when non-empty, is written to the buffer after creation.
	Contents []byte
}

// TextureDescriptor describes a single-sample 2D texture with one mip level.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format wgpu.TextureFormat
	Usage  wgpu.TextureUsage
}

// SamplerDescriptor describes a sampler. Zero values fall back to clamp-to-edge addressing,
// linear filtering and no comparison.
type SamplerDescriptor struct {
	Label       string
	AddressMode wgpu.AddressMode
	Filter      wgpu.FilterMode
	Compare     wgpu.CompareFunction
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []wgpu.BindGroupLayoutEntry
}

// BindGroupEntry binds exactly one of Buffer, TextureView or Sampler at Binding.
// A zero Size binds the buffer from Offset to its end.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      Buffer
	Offset      uint64
	Size        uint64
	TextureView TextureView
	Sampler     Sampler
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// ShaderStage is one programmable stage of a render pipeline.
type ShaderStage struct {
	Label      string
	Code       string
	EntryPoint string
}

// RenderPipelineDescriptor describes a render pipeline. A nil Fragment produces a depth-only
// pipeline with no color targets.
type RenderPipelineDescriptor struct {
	Label         string
	Layouts       []BindGroupLayout
	Vertex        ShaderStage
	VertexBuffers []wgpu.VertexBufferLayout
	Fragment      *ShaderStage
	ColorFormat   wgpu.TextureFormat
	Primitive     wgpu.PrimitiveState
	DepthStencil  *wgpu.DepthStencilState
}

// ColorAttachment is a cleared and stored color target.
type ColorAttachment struct {
	View       TextureView
	ClearValue wgpu.Color
}

// DepthAttachment is a depth (and optionally stencil) target cleared at the start of the pass.
type DepthAttachment struct {
	View            TextureView
	DepthClearValue float32
	StoreDepth      bool

	// HasStencil clears and stores the stencil aspect as well.
	HasStencil bool
}

// RenderPassDescriptor describes a render pass. A nil Color produces a depth-only pass.
type RenderPassDescriptor struct {
	Label string
	Color *ColorAttachment
	Depth *DepthAttachment
}
