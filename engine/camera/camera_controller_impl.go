package camera

import "sync"

// DefaultInputDivisor scales drag pixels and wheel deltas down to radians and world units.
const DefaultInputDivisor float32 = 100

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu     *sync.Mutex
	camera Camera

	rotateDivisor float32
	zoomDivisor   float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller over a camera. Divisors that are left unset or
// configured as zero or negative fall back to DefaultInputDivisor.
//
// Parameters:
//   - cam: the camera to control
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:            &sync.Mutex{},
		camera:        cam,
		rotateDivisor: DefaultInputDivisor,
		zoomDivisor:   DefaultInputDivisor,
	}
	for _, option := range options {
		option(cc)
	}
	if cc.rotateDivisor <= 0 {
		cc.rotateDivisor = DefaultInputDivisor
	}
	if cc.zoomDivisor <= 0 {
		cc.zoomDivisor = DefaultInputDivisor
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Drag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.camera.Rotate(dy/cc.rotateDivisor, dx/cc.rotateDivisor, 0)
}

func (cc *cameraControllerImpl) Wheel(deltaY float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.camera.Translate(0, 0, -deltaY/cc.zoomDivisor)
}

func (cc *cameraControllerImpl) RotateDivisor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotateDivisor
}

func (cc *cameraControllerImpl) ZoomDivisor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomDivisor
}
