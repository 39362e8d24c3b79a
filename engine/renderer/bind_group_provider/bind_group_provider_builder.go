package bind_group_provider

import "github.com/Carmen-Shannon/oxy-shadow/engine/device"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithLayout sets the bind group layout for this provider. The layout is borrowed.
//
// Parameters:
//   - layout: the bind group layout to build against
//
// Returns:
//   - BindGroupProviderOption: a function that sets the layout for this provider
func WithLayout(layout device.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.layout = layout
	}
}

// WithBuffer binds an owned buffer in full at a binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf device.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = bufferBinding{buffer: buf}
	}
}

// WithBufferRange binds a sub-range of an owned buffer at a binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//   - offset: the byte offset of the range, a multiple of the uniform offset alignment
//   - size: the byte size of the range
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer range for the specified binding
func WithBufferRange(binding int, buf device.Buffer, offset, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = bufferBinding{buffer: buf, offset: offset, size: size}
	}
}

// WithSharedBuffer binds a buffer owned by someone else at a binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the shared buffer for the specified binding
func WithSharedBuffer(binding int, buf device.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = bufferBinding{buffer: buf, shared: true}
	}
}

// WithTextureView binds an owned texture view at a binding index.
//
// Parameters:
//   - binding: the binding index for this view
//   - tv: the texture view
//
// Returns:
//   - BindGroupProviderOption: a function that sets the texture view for the specified binding
func WithTextureView(binding int, tv device.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
	}
}

// WithSampler binds an owned sampler at a binding index.
//
// Parameters:
//   - binding: the binding index for this sampler
//   - s: the sampler
//
// Returns:
//   - BindGroupProviderOption: a function that sets the sampler for the specified binding
func WithSampler(binding int, s device.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
	}
}

// WithVertexBuffer sets the owned vertex buffer drawn with this bind group.
//
// Parameters:
//   - buf: the vertex buffer
//   - count: the number of vertices it holds
//
// Returns:
//   - BindGroupProviderOption: a function that sets the vertex buffer for this provider
func WithVertexBuffer(buf device.Buffer, count uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = buf
		p.vertexCount = count
	}
}
