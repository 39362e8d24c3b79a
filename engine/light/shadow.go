package light

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShadowMapResolution is the default width and height in texels of the shadow depth
// texture. Scenes can override it via their builder options.
const ShadowMapResolution = 1024

// ShadowMapFormat is the depth format rendered by the shadow pass and sampled by the color pass.
const ShadowMapFormat = wgpu.TextureFormatDepth32Float

// ShadowDepthBias is the constant depth bias subtracted from the fragment's light-space depth
// before the comparison.
const ShadowDepthBias float32 = 0.007

// AmbientFactor is the floor added to the filtered shadow factor.
const AmbientFactor float32 = 0.2

// PCFKernelSize is the width of the square percentage-closer filter kernel. Must be odd.
const PCFKernelSize = 3

// GPUShadowConstantsSource returns the WGSL constants the lit fragment shader filters with,
// generated from ShadowDepthBias, AmbientFactor and PCFKernelSize.
//
// Returns:
//   - string: WGSL const declarations for depthBias, ambientFactor, pcfRadius and pcfTaps
func GPUShadowConstantsSource() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "const depthBias = %s;\n", wgslFloat(ShadowDepthBias))
	fmt.Fprintf(&sb, "const ambientFactor = %s;\n", wgslFloat(AmbientFactor))
	fmt.Fprintf(&sb, "const pcfRadius = %d;\n", PCFKernelSize/2)
	fmt.Fprintf(&sb, "const pcfTaps = %s;\n", wgslFloat(float32(PCFKernelSize*PCFKernelSize)))
	return sb.String()
}

// wgslFloat formats v as a WGSL float literal, always carrying a decimal point.
func wgslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
