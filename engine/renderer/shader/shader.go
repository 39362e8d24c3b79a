package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the programmable stage a shader source targets.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used in pair with a vertex shader.
	ShaderTypeFragment
)

// visibility maps the shader type onto the wgpu stage flag used for reflected bindings.
func (t ShaderType) visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key             string
	source          string
	shaderType      ShaderType
	entryPoint      string
	vertexLayouts   []wgpu.VertexBufferLayout
	bindGroups      map[int][]wgpu.BindGroupLayoutEntry
	bindingVarNames map[int]map[int]string

	pp PreProcessor
}

// Shader is a pre-processed and reflected WGSL shader. It exposes the data needed to build
// a render pipeline: the final source, its entry point, the vertex buffer layouts of its
// vertex input structs and the bind group layout entries its resource declarations imply.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source with all annotations expanded
	Source() string

	// ShaderType returns the stage this shader targets.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_lit")
	EntryPoint() string

	// VertexLayouts returns one vertex buffer layout per vertex input struct, in source order.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the reflected vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutEntries returns the reflected layout entries keyed by group index, each
	// group sorted by binding index and carrying this shader's stage as visibility.
	//
	// Returns:
	//   - map[int][]wgpu.BindGroupLayoutEntry: reflected entries by group
	BindGroupLayoutEntries() map[int][]wgpu.BindGroupLayoutEntry

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is declared there
	BindGroupVarName(group, binding int) string

	// Module returns the stage description used to compile this shader into a pipeline.
	//
	// Returns:
	//   - device.ShaderStage: label, code and entry point
	Module() device.ShaderStage

	// Declarations returns the @oxy:group annotations the pre-processor expanded.
	//
	// Returns:
	//   - []Annotation: the binding declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects a WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, also used as its module label
//   - shaderType: the stage the source targets
//   - source: the raw WGSL source, possibly containing @oxy: annotations
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails or the source has no entry point for the stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader %s: empty source", key)
	}
	s := &shader{
		key:        key,
		shaderType: shaderType,
		pp:         NewPreProcessor(),
	}

	processed, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to pre-process source: %w", key, err)
	}
	s.source = processed

	s.entryPoint = parseEntryPoint(s.source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point found for the shader stage", key)
	}
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(s.source)
	}
	s.bindGroups, s.bindingVarNames = parseBindGroupLayouts(s.source, shaderType.visibility())
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutEntries() map[int][]wgpu.BindGroupLayoutEntry {
	return s.bindGroups
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() device.ShaderStage {
	return device.ShaderStage{
		Label:      s.key,
		Code:       s.source,
		EntryPoint: s.entryPoint,
	}
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}
