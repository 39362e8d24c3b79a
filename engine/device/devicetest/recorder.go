// Package devicetest provides an in-memory device.Instance that records every resource,
// buffer write, render pass and submission instead of talking to a GPU.
package devicetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// Option configures a recording Instance.
type Option func(i *Instance)

// WithNoAdapter makes RequestDevice fail with device.ErrNoAdapter.
func WithNoAdapter() Option {
	return func(i *Instance) {
		i.failAdapter = true
	}
}

// WithNoDevice makes RequestDevice fail with device.ErrNoDevice.
func WithNoDevice() Option {
	return func(i *Instance) {
		i.failDevice = true
	}
}

// WithAlignment overrides the reported minimum uniform buffer offset alignment.
func WithAlignment(alignment uint64) Option {
	return func(i *Instance) {
		i.alignment = alignment
	}
}

// Instance is a recording device.Instance.
type Instance struct {
	mu          sync.Mutex
	failAdapter bool
	failDevice  bool
	alignment   uint64

	Device   *Device
	Surface  *Surface
	Requests int
	Released bool
}

var _ device.Instance = &Instance{}

// NewInstance creates a recording instance.
func NewInstance(options ...Option) *Instance {
	i := &Instance{alignment: 256}
	for _, opt := range options {
		opt(i)
	}
	return i
}

func (i *Instance) RequestDevice(ctx context.Context, target *wgpu.SurfaceDescriptor) (device.Device, device.Surface, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.Requests++
	if target == nil {
		return nil, nil, device.ErrNoSurface
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if i.failAdapter {
		return nil, nil, fmt.Errorf("%w: recorder configured without adapter", device.ErrNoAdapter)
	}
	if i.failDevice {
		return nil, nil, fmt.Errorf("%w: recorder configured without device", device.ErrNoDevice)
	}

	i.Device = NewDevice(i.alignment)
	i.Surface = &Surface{dev: i.Device, format: wgpu.TextureFormatBGRA8Unorm}
	return i.Device, i.Surface, nil
}

func (i *Instance) Release() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Released = true
}

// Write is one recorded queue buffer write.
type Write struct {
	Seq    int
	Buffer string
	Offset uint64
	Data   []byte
}

// Submission is one recorded queue submission.
type Submission struct {
	Seq    int
	Label  string
	Passes []*Pass
}

// Device is a recording device.Device. All recorded slices are in creation order.
type Device struct {
	mu        sync.Mutex
	seq       int
	alignment uint64

	Buffers     []*Buffer
	Textures    []*Texture
	Samplers    []*Sampler
	Layouts     []*BindGroupLayout
	BindGroups  []*BindGroup
	Pipelines   []*RenderPipeline
	Writes      []Write
	Passes      []*Pass
	Submissions []Submission
	Released    bool
}

var _ device.Device = &Device{}

// NewDevice creates a recording device reporting the given uniform offset alignment.
func NewDevice(alignment uint64) *Device {
	if alignment == 0 {
		alignment = 256
	}
	return &Device{alignment: alignment}
}

func (d *Device) next() int {
	d.seq++
	return d.seq
}

func (d *Device) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	size := desc.Size
	if size == 0 {
		size = uint64(len(desc.Contents))
	}
	if size == 0 {
		return nil, fmt.Errorf("buffer %q has zero size", desc.Label)
	}
	b := &Buffer{
		label: desc.Label,
		size:  size,
		Usage: desc.Usage,
		data:  make([]byte, size),
	}
	copy(b.data, desc.Contents)
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateTexture(desc device.TextureDescriptor) (device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("texture %q has zero extent", desc.Label)
	}
	t := &Texture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		Usage:  desc.Usage,
	}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) CreateSampler(desc device.SamplerDescriptor) (device.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &Sampler{Desc: desc}
	d.Samplers = append(d.Samplers, s)
	return s, nil
}

func (d *Device) CreateBindGroupLayout(desc device.BindGroupLayoutDescriptor) (device.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	l := &BindGroupLayout{label: desc.Label, Entries: desc.Entries}
	d.Layouts = append(d.Layouts, l)
	return l, nil
}

func (d *Device) CreateBindGroup(desc device.BindGroupDescriptor) (device.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok || layout == nil {
		return nil, fmt.Errorf("bind group %q: layout was not created by this device", desc.Label)
	}
	if len(desc.Entries) != len(layout.Entries) {
		return nil, fmt.Errorf("bind group %q: %d entries for a %d entry layout", desc.Label, len(desc.Entries), len(layout.Entries))
	}
	for _, e := range desc.Entries {
		if v, ok := e.TextureView.(*TextureView); ok && v.Released {
			return nil, fmt.Errorf("bind group %q binding %d: texture view was released", desc.Label, e.Binding)
		}
	}
	g := &BindGroup{label: desc.Label, Layout: layout, Entries: desc.Entries}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

func (d *Device) CreateRenderPipeline(desc device.RenderPipelineDescriptor) (device.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if desc.Vertex.Code == "" || desc.Vertex.EntryPoint == "" {
		return nil, fmt.Errorf("pipeline %q: missing vertex stage", desc.Label)
	}
	if desc.Fragment != nil && (desc.Fragment.Code == "" || desc.Fragment.EntryPoint == "") {
		return nil, fmt.Errorf("pipeline %q: incomplete fragment stage", desc.Label)
	}
	p := &RenderPipeline{label: desc.Label, Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) CreateCommandEncoder(label string) (device.CommandEncoder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Released {
		return nil, errors.New("device released")
	}
	return &CommandEncoder{dev: d, Label: label}, nil
}

func (d *Device) WriteBuffer(buf device.Buffer, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := buf.(*Buffer)
	if !ok || b == nil {
		return errors.New("write buffer: buffer was not created by this device")
	}
	if b.Released {
		return fmt.Errorf("write buffer: %q was released", b.label)
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("write buffer: %d bytes at %d overflow %q (%d bytes)", len(data), offset, b.label, b.size)
	}
	copy(b.data[offset:], data)
	d.Writes = append(d.Writes, Write{
		Seq:    d.next(),
		Buffer: b.label,
		Offset: offset,
		Data:   append([]byte(nil), data...),
	})
	return nil
}

func (d *Device) Submit(cmd device.CommandBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cb, ok := cmd.(*CommandBuffer)
	if !ok || cb == nil {
		return
	}
	d.Submissions = append(d.Submissions, Submission{
		Seq:    d.next(),
		Label:  cb.Label,
		Passes: cb.Passes,
	})
}

func (d *Device) MinUniformBufferOffsetAlignment() uint64 {
	return d.alignment
}

func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Released = true
}

// WritesTo returns the recorded writes targeting the labelled buffer.
func (d *Device) WritesTo(label string) []Write {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Write
	for _, w := range d.Writes {
		if w.Buffer == label {
			out = append(out, w)
		}
	}
	return out
}

// Reset forgets recorded writes, passes and submissions but keeps created resources.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Writes = nil
	d.Passes = nil
	d.Submissions = nil
}

// TexturesLabelled returns the recorded textures with the given label.
func (d *Device) TexturesLabelled(label string) []*Texture {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*Texture
	for _, t := range d.Textures {
		if t.label == label {
			out = append(out, t)
		}
	}
	return out
}
