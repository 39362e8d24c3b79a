package bind_group_provider

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
)

// ErrNoLayout is returned by Build when the provider has no bind group layout.
var ErrNoLayout = errors.New("bind group provider has no layout")

// bufferBinding is a bound sub-range of a buffer. A zero size binds to the end of the buffer.
type bufferBinding struct {
	buffer device.Buffer
	offset uint64
	size   uint64
	// shared buffers are owned elsewhere and survive Release.
	shared bool
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience, also used for the bind group.
	label string

	// layout is borrowed from the pipeline library and is never released here.
	layout device.BindGroupLayout

	// The following fields are GPU allocated resources released together by Release.

	// bindGroup is the bind group created by Build, or nil before it.
	bindGroup device.BindGroup
	// buffers holds the bound buffer ranges, keyed by binding index.
	buffers map[int]bufferBinding
	// textureViews holds the bound texture views, keyed by binding index.
	textureViews map[int]device.TextureView
	// samplers holds the bound samplers, keyed by binding index.
	samplers map[int]device.Sampler

	// vertexBuffer is the vertex buffer drawn alongside this bind group, or nil.
	vertexBuffer device.Buffer
	// vertexCount is the number of vertices in vertexBuffer.
	vertexCount uint32
}

// BindGroupProvider owns the resources behind one bind group: the buffers, texture views and
// samplers at each binding, optionally the vertex buffer drawn with it, and the bind group
// itself once Build has run. Release frees them together.
//
// Usage pattern:
//  1. A Scene or RenderObject creates its buffers, views and samplers on the device
//  2. It creates a provider over them against a layout from the pipeline library
//  3. It calls Build(dev) to create the bind group
//  4. It writes uniform data through ApplyWrites with BufferWrite values
//  5. Draw code binds BindGroup() and VertexBuffer()
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Layout returns the bind group layout the provider binds against.
	//
	// Returns:
	//   - device.BindGroupLayout: the layout, or nil if unset
	Layout() device.BindGroupLayout

	// BindGroup returns the bind group created by Build.
	// Returns nil if Build has not run.
	//
	// Returns:
	//   - device.BindGroup: the bind group or nil
	BindGroup() device.BindGroup

	// Buffer returns the buffer bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - device.Buffer: the buffer or nil
	Buffer(binding int) device.Buffer

	// BufferOffset returns the byte offset at which the buffer at a binding is bound.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the bound offset, 0 if not set
	BufferOffset(binding int) uint64

	// TextureView returns the texture view bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - device.TextureView: the texture view or nil
	TextureView(binding int) device.TextureView

	// Sampler returns the sampler bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - device.Sampler: the sampler or nil
	Sampler(binding int) device.Sampler

	// VertexBuffer returns the vertex buffer drawn with this bind group, or nil.
	//
	// Returns:
	//   - device.Buffer: the vertex buffer or nil
	VertexBuffer() device.Buffer

	// VertexCount returns the number of vertices in VertexBuffer.
	//
	// Returns:
	//   - uint32: the vertex count
	VertexCount() uint32

	// SetBuffer binds an owned buffer range at a binding, releasing the buffer it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer to bind
	//   - offset: the byte offset of the bound range
	//   - size: the byte size of the bound range, 0 for the rest of the buffer
	SetBuffer(binding int, buf device.Buffer, offset, size uint64)

	// ShareBuffer binds a buffer owned elsewhere. Release leaves it alive.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer to bind
	ShareBuffer(binding int, buf device.Buffer)

	// SetTextureView binds a texture view at a binding, releasing the view it replaces.
	// The bind group must be rebuilt to observe the new view.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to bind
	SetTextureView(binding int, tv device.TextureView)

	// SetSampler binds a sampler at a binding, releasing the sampler it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to bind
	SetSampler(binding int, s device.Sampler)

	// SetVertexBuffer stores the vertex buffer drawn with this bind group.
	//
	// Parameters:
	//   - buf: the vertex buffer
	//   - count: the number of vertices it holds
	SetVertexBuffer(buf device.Buffer, count uint32)

	// Build creates the bind group from the bound resources in binding order, replacing any
	// bind group built before.
	//
	// Parameters:
	//   - dev: the device to create the bind group on
	//
	// Returns:
	//   - error: ErrNoLayout, or the device error
	Build(dev device.Device) error

	// Release releases the bind group and every owned resource held by this provider.
	Release()
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label of the provider and its bind group
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]bufferBinding),
		textureViews: make(map[int]device.TextureView),
		samplers:     make(map[int]device.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Layout() device.BindGroupLayout {
	return p.layout
}

func (p *bindGroupProvider) BindGroup() device.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) device.Buffer {
	return p.buffers[binding].buffer
}

func (p *bindGroupProvider) BufferOffset(binding int) uint64 {
	return p.buffers[binding].offset
}

func (p *bindGroupProvider) TextureView(binding int) device.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) device.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() device.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) VertexCount() uint32 {
	return p.vertexCount
}

func (p *bindGroupProvider) SetBuffer(binding int, buf device.Buffer, offset, size uint64) {
	p.replaceBuffer(binding, bufferBinding{buffer: buf, offset: offset, size: size})
}

func (p *bindGroupProvider) ShareBuffer(binding int, buf device.Buffer) {
	p.replaceBuffer(binding, bufferBinding{buffer: buf, shared: true})
}

func (p *bindGroupProvider) replaceBuffer(binding int, b bufferBinding) {
	if old, ok := p.buffers[binding]; ok && !old.shared && old.buffer != nil && old.buffer != b.buffer {
		old.buffer.Release()
	}
	p.buffers[binding] = b
}

func (p *bindGroupProvider) SetTextureView(binding int, tv device.TextureView) {
	if old := p.textureViews[binding]; old != nil && old != tv {
		old.Release()
	}
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s device.Sampler) {
	if old := p.samplers[binding]; old != nil && old != s {
		old.Release()
	}
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf device.Buffer, count uint32) {
	if p.vertexBuffer != nil && p.vertexBuffer != buf {
		p.vertexBuffer.Release()
	}
	p.vertexBuffer = buf
	p.vertexCount = count
}

func (p *bindGroupProvider) Build(dev device.Device) error {
	if p.layout == nil {
		return fmt.Errorf("%s: %w", p.label, ErrNoLayout)
	}

	entries := make([]device.BindGroupEntry, 0, len(p.buffers)+len(p.textureViews)+len(p.samplers))
	for binding, b := range p.buffers {
		entries = append(entries, device.BindGroupEntry{
			Binding: uint32(binding),
			Buffer:  b.buffer,
			Offset:  b.offset,
			Size:    b.size,
		})
	}
	for binding, tv := range p.textureViews {
		entries = append(entries, device.BindGroupEntry{Binding: uint32(binding), TextureView: tv})
	}
	for binding, s := range p.samplers {
		entries = append(entries, device.BindGroupEntry{Binding: uint32(binding), Sampler: s})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })

	bg, err := dev.CreateBindGroup(device.BindGroupDescriptor{
		Label:   p.label,
		Layout:  p.layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	return nil
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, b := range p.buffers {
		if b.buffer != nil && !b.shared {
			b.buffer.Release()
		}
		delete(p.buffers, i)
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
		p.vertexCount = 0
	}
}
