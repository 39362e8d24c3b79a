package devicetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer is a recorded buffer whose contents track every write.
type Buffer struct {
	label    string
	size     uint64
	data     []byte
	Usage    wgpu.BufferUsage
	Released bool
}

var _ device.Buffer = &Buffer{}

func (b *Buffer) Label() string { return b.label }
func (b *Buffer) Size() uint64  { return b.size }
func (b *Buffer) Release()      { b.Released = true }

// Bytes returns a copy of the buffer's current contents.
func (b *Buffer) Bytes() []byte {
	return append([]byte(nil), b.data...)
}

// Texture is a recorded texture.
type Texture struct {
	label    string
	width    uint32
	height   uint32
	format   wgpu.TextureFormat
	Usage    wgpu.TextureUsage
	Views    []*TextureView
	Released bool
}

var _ device.Texture = &Texture{}

func (t *Texture) Label() string              { return t.label }
func (t *Texture) Width() uint32              { return t.width }
func (t *Texture) Height() uint32             { return t.height }
func (t *Texture) Format() wgpu.TextureFormat { return t.format }
func (t *Texture) Release()                   { t.Released = true }

func (t *Texture) CreateView() (device.TextureView, error) {
	if t.Released {
		return nil, fmt.Errorf("texture %q has been released", t.label)
	}
	v := &TextureView{label: t.label, Texture: t}
	t.Views = append(t.Views, v)
	return v, nil
}

// TextureView is a recorded texture view. Texture is nil for surface views.
type TextureView struct {
	label    string
	Texture  *Texture
	Released bool
}

var _ device.TextureView = &TextureView{}

func (v *TextureView) Label() string { return v.label }
func (v *TextureView) Release()      { v.Released = true }

// Sampler is a recorded sampler.
type Sampler struct {
	Desc     device.SamplerDescriptor
	Released bool
}

var _ device.Sampler = &Sampler{}

func (s *Sampler) Release() { s.Released = true }

// BindGroupLayout is a recorded bind group layout.
type BindGroupLayout struct {
	label    string
	Entries  []wgpu.BindGroupLayoutEntry
	Released bool
}

var _ device.BindGroupLayout = &BindGroupLayout{}

func (l *BindGroupLayout) Label() string { return l.label }
func (l *BindGroupLayout) Release()      { l.Released = true }

// BindGroup is a recorded bind group.
type BindGroup struct {
	label    string
	Layout   *BindGroupLayout
	Entries  []device.BindGroupEntry
	Released bool
}

var _ device.BindGroup = &BindGroup{}

func (g *BindGroup) Label() string { return g.label }
func (g *BindGroup) Release()      { g.Released = true }

// RenderPipeline is a recorded render pipeline.
type RenderPipeline struct {
	label    string
	Desc     device.RenderPipelineDescriptor
	Released bool
}

var _ device.RenderPipeline = &RenderPipeline{}

func (p *RenderPipeline) Label() string { return p.label }
func (p *RenderPipeline) Release()      { p.Released = true }

// CommandBuffer is a finished recording.
type CommandBuffer struct {
	Label    string
	Passes   []*Pass
	Released bool
}

var _ device.CommandBuffer = &CommandBuffer{}

func (c *CommandBuffer) Release() { c.Released = true }

// CommandEncoder records passes into the owning Device.
type CommandEncoder struct {
	dev      *Device
	Label    string
	passes   []*Pass
	open     *Pass
	finished bool
	Released bool
}

var _ device.CommandEncoder = &CommandEncoder{}

func (e *CommandEncoder) BeginRenderPass(desc device.RenderPassDescriptor) device.RenderPass {
	p := &Pass{Desc: desc, Label: desc.Label, encoder: e}
	if e.open != nil {
		p.err = errors.New("render pass begun while another pass is open")
	}
	e.open = p
	e.passes = append(e.passes, p)

	e.dev.mu.Lock()
	e.dev.Passes = append(e.dev.Passes, p)
	e.dev.mu.Unlock()
	return p
}

func (e *CommandEncoder) Finish() (device.CommandBuffer, error) {
	if e.open != nil {
		return nil, fmt.Errorf("encoder %q finished with pass %q still open", e.Label, e.open.Label)
	}
	if e.finished {
		return nil, fmt.Errorf("encoder %q already finished", e.Label)
	}
	e.finished = true
	return &CommandBuffer{Label: e.Label, Passes: e.passes}, nil
}

func (e *CommandEncoder) Release() { e.Released = true }

// CommandKind identifies a recorded pass command.
type CommandKind int

const (
	CommandSetPipeline CommandKind = iota
	CommandSetBindGroup
	CommandSetVertexBuffer
	CommandDraw
)

// Command is one recorded pass command. Label names the pipeline, bind group or buffer.
type Command struct {
	Kind          CommandKind
	Label         string
	Index         uint32
	VertexCount   uint32
	InstanceCount uint32
}

// Pass is a recorded render pass.
type Pass struct {
	mu       sync.Mutex
	encoder  *CommandEncoder
	err      error
	Label    string
	Desc     device.RenderPassDescriptor
	Commands []Command
	Ended    bool
}

var _ device.RenderPass = &Pass{}

func (p *Pass) record(c Command) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Ended && p.err == nil {
		p.err = fmt.Errorf("command recorded on ended pass %q", p.Label)
	}
	p.Commands = append(p.Commands, c)
}

func (p *Pass) SetPipeline(pipeline device.RenderPipeline) {
	p.record(Command{Kind: CommandSetPipeline, Label: pipeline.Label()})
}

func (p *Pass) SetBindGroup(index uint32, bg device.BindGroup) {
	p.record(Command{Kind: CommandSetBindGroup, Label: bg.Label(), Index: index})
}

func (p *Pass) SetVertexBuffer(slot uint32, buf device.Buffer) {
	p.record(Command{Kind: CommandSetVertexBuffer, Label: buf.Label(), Index: slot})
}

func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.record(Command{Kind: CommandDraw, VertexCount: vertexCount, InstanceCount: instanceCount})
}

func (p *Pass) End() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Ended {
		return fmt.Errorf("pass %q ended twice", p.Label)
	}
	p.Ended = true
	if p.encoder != nil && p.encoder.open == p {
		p.encoder.open = nil
	}
	return p.err
}

// Draws returns the draw commands of the pass, each paired with the bind group labels and
// vertex buffer label bound at the time of the draw.
func (p *Pass) Draws() []Draw {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		draws    []Draw
		pipeline string
		vertex   string
		groups   = map[uint32]string{}
	)
	for _, c := range p.Commands {
		switch c.Kind {
		case CommandSetPipeline:
			pipeline = c.Label
		case CommandSetBindGroup:
			groups[c.Index] = c.Label
		case CommandSetVertexBuffer:
			vertex = c.Label
		case CommandDraw:
			bound := make(map[uint32]string, len(groups))
			for k, v := range groups {
				bound[k] = v
			}
			draws = append(draws, Draw{
				Pipeline:      pipeline,
				VertexBuffer:  vertex,
				BindGroups:    bound,
				VertexCount:   c.VertexCount,
				InstanceCount: c.InstanceCount,
			})
		}
	}
	return draws
}

// Draw is a draw call with the state it was issued under.
type Draw struct {
	Pipeline      string
	VertexBuffer  string
	BindGroups    map[uint32]string
	VertexCount   uint32
	InstanceCount uint32
}

// Surface is a recorded presentation surface.
type Surface struct {
	mu     sync.Mutex
	dev    *Device
	format wgpu.TextureFormat

	Width    int
	Height   int
	Configs  int
	Acquired int
	Presents int
	Discards int
	Released bool

	// FailAcquire makes the next AcquireView return an error.
	FailAcquire bool
	current     *TextureView
}

var _ device.Surface = &Surface{}

func (s *Surface) Configure(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("cannot configure surface to %dx%d", width, height)
	}
	s.Width, s.Height = width, height
	s.Configs++
	return nil
}

func (s *Surface) Format() wgpu.TextureFormat {
	return s.format
}

func (s *Surface) AcquireView() (device.TextureView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Configs == 0 {
		return nil, errors.New("surface has not been configured")
	}
	if s.FailAcquire {
		s.FailAcquire = false
		return nil, errors.New("surface image unavailable")
	}
	if s.current != nil {
		return nil, errors.New("previous surface image not yet presented")
	}
	s.Acquired++
	s.current = &TextureView{label: fmt.Sprintf("Surface View %d", s.Acquired)}
	return s.current, nil
}

func (s *Surface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.Presents++
	s.current.Release()
	s.current = nil
}

func (s *Surface) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.Discards++
	s.current.Release()
	s.current = nil
}

func (s *Surface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
	s.Released = true
}
