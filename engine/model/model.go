package model

import "github.com/cogentcore/webgpu/wgpu"

// model is the implementation of the Model interface.
type model struct {
	name           string
	vertices       []GPUVertex
	vertexData     []byte
	boundingRadius float32
}

// Model is an immutable, CPU-side triangle list of interleaved position+normal vertices.
// The RenderObject that draws it owns the GPU vertex buffer built from VertexData.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices returns a copy of the model's vertices.
	//
	// Returns:
	//   - []GPUVertex: the vertices in draw order
	Vertices() []GPUVertex

	// VertexData returns the marshalled vertex buffer contents.
	//
	// Returns:
	//   - []byte: VertexCount()*VertexStride bytes
	VertexData() []byte

	// VertexCount returns the number of vertices to draw.
	//
	// Returns:
	//   - uint32: the vertex count
	VertexCount() uint32

	// BoundingRadius returns the maximum vertex distance from the model origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// VertexStride is the byte size of one interleaved vertex.
const VertexStride = 24

// VertexBufferLayout describes GPUVertex to a render pipeline: position at location 0 and
// normal at location 1.
var VertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: VertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}

	m.vertexData = make([]byte, 0, len(m.vertices)*VertexStride)
	for i := range m.vertices {
		m.vertexData = append(m.vertexData, m.vertices[i].Marshal()...)
	}
	m.boundingRadius = ComputeBoundingRadius(m.vertices)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return append([]GPUVertex(nil), m.vertices...)
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) VertexCount() uint32 {
	return uint32(len(m.vertices))
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}
