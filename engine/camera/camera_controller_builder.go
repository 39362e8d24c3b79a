package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRotateDivisor sets how many drag pixels make one radian of camera rotation.
//
// Parameters:
//   - divisor: pixels per radian
//
// Returns:
//   - CameraControllerOption: functional option to set the drag divisor
func WithRotateDivisor(divisor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateDivisor = divisor
	}
}

// WithZoomDivisor sets how many wheel units make one world unit of camera travel.
//
// Parameters:
//   - divisor: wheel units per world unit
//
// Returns:
//   - CameraControllerOption: functional option to set the wheel divisor
func WithZoomDivisor(divisor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomDivisor = divisor
	}
}
