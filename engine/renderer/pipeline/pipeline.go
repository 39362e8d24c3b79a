package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingVertexShader is returned when a pipeline is built without a vertex shader.
var ErrMissingVertexShader = errors.New("vertex shader must be set to create a render pipeline")

// pipeline is the implementation of the Pipeline interface.
// It holds the shaders and the fixed-function state used to create one render pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used as its label
	pipelineKey string

	// fragmentShader is nil for depth-only pipelines.
	vertexShader, fragmentShader shader.Shader

	renderPipeline device.RenderPipeline

	depthFormat         wgpu.TextureFormat
	colorFormat         wgpu.TextureFormat
	depthWriteEnabled   bool
	depthCompare        wgpu.CompareFunction
	depthBias           int32
	depthBiasSlopeScale float32
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
}

// Pipeline is a render pipeline in the making: the shaders plus depth, cull and topology
// state. Build compiles it against a device once its bind group layouts are known. A pipeline
// without a fragment shader is depth-only and has no color target.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified stage, nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage of the shader to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for that stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the compiled device pipeline, nil before Build.
	//
	// Returns:
	//   - device.RenderPipeline: the compiled pipeline
	Pipeline() device.RenderPipeline

	// DepthOnly reports whether the pipeline writes depth without any color target.
	DepthOnly() bool

	// DepthFormat returns the depth attachment format the pipeline renders against.
	DepthFormat() wgpu.TextureFormat

	// ColorFormat returns the color target format, wgpu.TextureFormatUndefined for depth-only pipelines.
	ColorFormat() wgpu.TextureFormat

	// DepthCompare returns the depth comparison function.
	DepthCompare() wgpu.CompareFunction

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// FrontFace returns the front face winding order.
	FrontFace() wgpu.FrontFace

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// Descriptor assembles the device descriptor for this pipeline.
	//
	// Parameters:
	//   - layouts: the bind group layouts indexed by group
	//
	// Returns:
	//   - device.RenderPipelineDescriptor: the descriptor
	//   - error: ErrMissingVertexShader if no vertex shader is set
	Descriptor(layouts []device.BindGroupLayout) (device.RenderPipelineDescriptor, error)

	// Build compiles the pipeline on the device, replacing any previously built pipeline.
	//
	// Parameters:
	//   - dev: the device to compile on
	//   - layouts: the bind group layouts indexed by group
	//
	// Returns:
	//   - error: an error if the descriptor is incomplete or the device rejects it
	Build(dev device.Device, layouts []device.BindGroupLayout) error

	// Release frees the compiled pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline. Defaults are a triangle list with
// counter-clockwise front faces, back-face culling and a depth24plus-stencil8 depth test
// with CompareFunctionLess.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthFormat:       wgpu.TextureFormatDepth24PlusStencil8,
		colorFormat:       wgpu.TextureFormatBGRA8Unorm,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Pipeline() device.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthOnly() bool {
	return p.fragmentShader == nil
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	if p.DepthOnly() {
		return wgpu.TextureFormatUndefined
	}
	return p.colorFormat
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) Descriptor(layouts []device.BindGroupLayout) (device.RenderPipelineDescriptor, error) {
	if p.vertexShader == nil {
		return device.RenderPipelineDescriptor{}, fmt.Errorf("pipeline %s: %w", p.pipelineKey, ErrMissingVertexShader)
	}

	desc := device.RenderPipelineDescriptor{
		Label:         p.pipelineKey + " Render Pipeline",
		Layouts:       layouts,
		Vertex:        p.vertexShader.Module(),
		VertexBuffers: p.vertexShader.VertexLayouts(),
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        p.depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
	if p.fragmentShader != nil {
		fs := p.fragmentShader.Module()
		desc.Fragment = &fs
		desc.ColorFormat = p.colorFormat
	}
	return desc, nil
}

func (p *pipeline) Build(dev device.Device, layouts []device.BindGroupLayout) error {
	desc, err := p.Descriptor(layouts)
	if err != nil {
		return err
	}
	created, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return err
	}
	p.Release()
	p.renderPipeline = created
	return nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
