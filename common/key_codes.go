package common

// Virtual key codes for the scene's key bindings.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyC     = 67  // C key (ASCII), spawns a cube
	KeyP     = 80  // P key (ASCII), spawns a pyramid
	KeySpace = 32  // Spacebar (ASCII), pauses the animation step
	KeyEsc   = 256 // Escape key (GLFW)
)
