package device

import "errors"

var (
	// ErrNoSurface is returned when device acquisition is attempted without a presentation surface.
	ErrNoSurface = errors.New("device: no presentation surface")

	// ErrNoAdapter is returned when no compatible GPU adapter is available.
	ErrNoAdapter = errors.New("device: no compatible adapter")

	// ErrNoDevice is returned when an adapter was found but the device request failed.
	ErrNoDevice = errors.New("device: device request failed")
)
