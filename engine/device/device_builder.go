package device

// InstanceBuilderOption is a functional option for configuring the WebGPU instance.
type InstanceBuilderOption func(w *wgpuInstance)

// WithForceFallbackAdapter requests the software fallback adapter instead of a hardware GPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - InstanceBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) InstanceBuilderOption {
	return func(w *wgpuInstance) {
		w.forceFallbackAdapter = force
	}
}

// WithPresentMode sets the present mode used when the surface is configured.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - InstanceBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) InstanceBuilderOption {
	return func(w *wgpuInstance) {
		w.presentMode = mode
	}
}
