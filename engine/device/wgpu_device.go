package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuDevice is the WebGPU implementation of Device.
type wgpuDevice struct {
	mu        *sync.Mutex
	adapter   *wgpu.Adapter
	device    *wgpu.Device
	queue     *wgpu.Queue
	alignment uint64
}

var _ Device = &wgpuDevice{}

func (d *wgpuDevice) CreateBuffer(desc BufferDescriptor) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	size := desc.Size
	if size == 0 {
		size = uint64(len(desc.Contents))
	}
	// buffers written through the queue must be a multiple of four bytes
	size = common.AlignUp(size, 4)

	usage := desc.Usage
	if len(desc.Contents) > 0 {
		usage |= wgpu.BufferUsageCopyDst
	}

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", desc.Label, err)
	}
	if len(desc.Contents) > 0 {
		if err := d.queue.WriteBuffer(buf, 0, desc.Contents); err != nil {
			buf.Release()
			return nil, fmt.Errorf("failed to upload buffer %q: %w", desc.Label, err)
		}
	}
	return &wgpuBuffer{label: desc.Label, size: size, buffer: buf}, nil
}

func (d *wgpuDevice) CreateTexture(desc TextureDescriptor) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", desc.Label, err)
	}
	return &wgpuTexture{
		label:   desc.Label,
		width:   desc.Width,
		height:  desc.Height,
		format:  desc.Format,
		texture: tex,
	}, nil
}

func (d *wgpuDevice) CreateSampler(desc SamplerDescriptor) (Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	addressMode := common.Coalesce(desc.AddressMode, wgpu.AddressModeClampToEdge)
	filter := common.Coalesce(desc.Filter, wgpu.FilterModeLinear)
	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  addressMode,
		AddressModeV:  addressMode,
		AddressModeW:  addressMode,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		Compare:       desc.Compare,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", desc.Label, err)
	}
	return &wgpuSampler{sampler: samp}, nil
}

func (d *wgpuDevice) CreateBindGroupLayout(desc BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: desc.Entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}
	return &wgpuBindGroupLayout{label: desc.Label, layout: layout}, nil
}

func (d *wgpuDevice) CreateBindGroup(desc BindGroupDescriptor) (BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	layout, ok := desc.Layout.(*wgpuBindGroupLayout)
	if !ok || layout == nil {
		return nil, fmt.Errorf("bind group %q: layout was not created by this device", desc.Label)
	}

	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entry := wgpu.BindGroupEntry{Binding: e.Binding}
		switch {
		case e.Buffer != nil:
			buf, ok := e.Buffer.(*wgpuBuffer)
			if !ok {
				return nil, fmt.Errorf("bind group %q binding %d: foreign buffer", desc.Label, e.Binding)
			}
			entry.Buffer = buf.buffer
			entry.Offset = e.Offset
			entry.Size = e.Size
			if entry.Size == 0 {
				entry.Size = wgpu.WholeSize
			}
		case e.TextureView != nil:
			view, ok := e.TextureView.(*wgpuTextureView)
			if !ok {
				return nil, fmt.Errorf("bind group %q binding %d: foreign texture view", desc.Label, e.Binding)
			}
			entry.TextureView = view.view
		case e.Sampler != nil:
			samp, ok := e.Sampler.(*wgpuSampler)
			if !ok {
				return nil, fmt.Errorf("bind group %q binding %d: foreign sampler", desc.Label, e.Binding)
			}
			entry.Sampler = samp.sampler
		default:
			return nil, fmt.Errorf("bind group %q binding %d: no resource", desc.Label, e.Binding)
		}
		entries[i] = entry
	}

	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", desc.Label, err)
	}
	return &wgpuBindGroup{label: desc.Label, bindGroup: bg}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Vertex.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.Vertex.Code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile vertex shader %q: %w", desc.Vertex.Label, err)
	}
	defer vs.Release()

	var fragment *wgpu.FragmentState
	if desc.Fragment != nil {
		fs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label: desc.Fragment.Label,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: desc.Fragment.Code,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compile fragment shader %q: %w", desc.Fragment.Label, err)
		}
		defer fs.Release()

		fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    desc.ColorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		}
	}

	layouts := make([]*wgpu.BindGroupLayout, len(desc.Layouts))
	for i, l := range desc.Layouts {
		layout, ok := l.(*wgpuBindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("pipeline %q group %d: layout was not created by this device", desc.Label, i)
		}
		layouts[i] = layout.layout
	}
	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout %q: %w", desc.Label, err)
	}
	defer pipelineLayout.Release()

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: desc.Vertex.EntryPoint,
			Buffers:    desc.VertexBuffers,
		},
		Fragment:  fragment,
		Primitive: desc.Primitive,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: desc.DepthStencil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", desc.Label, err)
	}
	return &wgpuRenderPipeline{label: desc.Label, pipeline: created}, nil
}

func (d *wgpuDevice) CreateCommandEncoder(label string) (CommandEncoder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	encoder, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder %q: %w", label, err)
	}
	return &wgpuCommandEncoder{encoder: encoder}, nil
}

func (d *wgpuDevice) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := buf.(*wgpuBuffer)
	if !ok || b == nil {
		return errors.New("write buffer: buffer was not created by this device")
	}
	return d.queue.WriteBuffer(b.buffer, offset, data)
}

func (d *wgpuDevice) Submit(cmd CommandBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cb, ok := cmd.(*wgpuCommandBuffer); ok && cb != nil {
		d.queue.Submit(cb.buffer)
	}
}

func (d *wgpuDevice) MinUniformBufferOffsetAlignment() uint64 {
	return d.alignment
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
}
