package device

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuBuffer struct {
	label  string
	size   uint64
	buffer *wgpu.Buffer
}

var _ Buffer = &wgpuBuffer{}

func (b *wgpuBuffer) Label() string { return b.label }
func (b *wgpuBuffer) Size() uint64  { return b.size }

func (b *wgpuBuffer) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}

type wgpuTexture struct {
	label   string
	width   uint32
	height  uint32
	format  wgpu.TextureFormat
	texture *wgpu.Texture
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Label() string              { return t.label }
func (t *wgpuTexture) Width() uint32              { return t.width }
func (t *wgpuTexture) Height() uint32             { return t.height }
func (t *wgpuTexture) Format() wgpu.TextureFormat { return t.format }

func (t *wgpuTexture) CreateView() (TextureView, error) {
	if t.texture == nil {
		return nil, fmt.Errorf("texture %q has been released", t.label)
	}
	view, err := t.texture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create view of %q: %w", t.label, err)
	}
	return &wgpuTextureView{label: t.label, view: view}, nil
}

func (t *wgpuTexture) Release() {
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

type wgpuTextureView struct {
	label string
	view  *wgpu.TextureView
}

var _ TextureView = &wgpuTextureView{}

func (v *wgpuTextureView) Label() string { return v.label }

func (v *wgpuTextureView) Release() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}

type wgpuSampler struct {
	sampler *wgpu.Sampler
}

var _ Sampler = &wgpuSampler{}

func (s *wgpuSampler) Release() {
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
}

type wgpuBindGroupLayout struct {
	label  string
	layout *wgpu.BindGroupLayout
}

var _ BindGroupLayout = &wgpuBindGroupLayout{}

func (l *wgpuBindGroupLayout) Label() string { return l.label }

func (l *wgpuBindGroupLayout) Release() {
	if l.layout != nil {
		l.layout.Release()
		l.layout = nil
	}
}

type wgpuBindGroup struct {
	label     string
	bindGroup *wgpu.BindGroup
}

var _ BindGroup = &wgpuBindGroup{}

func (g *wgpuBindGroup) Label() string { return g.label }

func (g *wgpuBindGroup) Release() {
	if g.bindGroup != nil {
		g.bindGroup.Release()
		g.bindGroup = nil
	}
}

type wgpuRenderPipeline struct {
	label    string
	pipeline *wgpu.RenderPipeline
}

var _ RenderPipeline = &wgpuRenderPipeline{}

func (p *wgpuRenderPipeline) Label() string { return p.label }

func (p *wgpuRenderPipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
}

type wgpuCommandBuffer struct {
	buffer *wgpu.CommandBuffer
}

var _ CommandBuffer = &wgpuCommandBuffer{}

func (c *wgpuCommandBuffer) Release() {
	if c.buffer != nil {
		c.buffer.Release()
		c.buffer = nil
	}
}

type wgpuCommandEncoder struct {
	encoder *wgpu.CommandEncoder
}

var _ CommandEncoder = &wgpuCommandEncoder{}

func (e *wgpuCommandEncoder) BeginRenderPass(desc RenderPassDescriptor) RenderPass {
	wdesc := &wgpu.RenderPassDescriptor{Label: desc.Label}

	if desc.Color != nil {
		var view *wgpu.TextureView
		if v, ok := desc.Color.View.(*wgpuTextureView); ok {
			view = v.view
		}
		wdesc.ColorAttachments = []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: desc.Color.ClearValue,
			},
		}
	}

	if desc.Depth != nil {
		var view *wgpu.TextureView
		if v, ok := desc.Depth.View.(*wgpuTextureView); ok {
			view = v.view
		}
		depthStore := wgpu.StoreOpDiscard
		if desc.Depth.StoreDepth {
			depthStore = wgpu.StoreOpStore
		}
		attachment := &wgpu.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    depthStore,
			DepthClearValue: desc.Depth.DepthClearValue,
		}
		if desc.Depth.HasStencil {
			attachment.StencilLoadOp = wgpu.LoadOpClear
			attachment.StencilStoreOp = wgpu.StoreOpStore
			attachment.StencilClearValue = 0
		}
		wdesc.DepthStencilAttachment = attachment
	}

	return &wgpuRenderPass{pass: e.encoder.BeginRenderPass(wdesc)}
}

func (e *wgpuCommandEncoder) Finish() (CommandBuffer, error) {
	cb, err := e.encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to finish command encoder: %w", err)
	}
	return &wgpuCommandBuffer{buffer: cb}, nil
}

func (e *wgpuCommandEncoder) Release() {
	if e.encoder != nil {
		e.encoder.Release()
		e.encoder = nil
	}
}

type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) SetPipeline(pipeline RenderPipeline) {
	if rp, ok := pipeline.(*wgpuRenderPipeline); ok && rp.pipeline != nil {
		p.pass.SetPipeline(rp.pipeline)
	}
}

func (p *wgpuRenderPass) SetBindGroup(index uint32, bg BindGroup) {
	if g, ok := bg.(*wgpuBindGroup); ok && g.bindGroup != nil {
		p.pass.SetBindGroup(index, g.bindGroup, nil)
	}
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf Buffer) {
	if b, ok := buf.(*wgpuBuffer); ok && b.buffer != nil {
		p.pass.SetVertexBuffer(slot, b.buffer, 0, wgpu.WholeSize)
	}
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *wgpuRenderPass) End() error {
	if p.pass == nil {
		return nil
	}
	p.pass.End()
	p.pass.Release()
	p.pass = nil
	return nil
}
