package shader

import (
	"embed"
	"fmt"
)

//go:embed assets/*.wgsl
var assets embed.FS

const (
	// ShadowVertexKey is the depth-only vertex shader rendering the scene from the light.
	ShadowVertexKey = "shadow"

	// LitVertexKey is the color pass vertex shader producing shadow-space and world-space inputs.
	LitVertexKey = "lit_vert"

	// LitFragmentKey is the color pass fragment shader applying PCF shadows and Lambert shading.
	LitFragmentKey = "lit_frag"
)

// Load pre-processes and reflects one of the embedded shaders.
//
// Parameters:
//   - key: ShadowVertexKey, LitVertexKey or LitFragmentKey
//   - shaderType: the stage the shader targets
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the key is unknown or the source fails to process
func Load(key string, shaderType ShaderType) (Shader, error) {
	data, err := assets.ReadFile("assets/" + key + ".wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return NewShader(key, shaderType, string(data))
}
