package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default perspective settings.
const (
	DefaultFovy   = 2 * math32.Pi / 5
	DefaultAspect = float32(16.0 / 9.0)
	DefaultNear   = float32(1)
	DefaultFar    = float32(1000)
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	rotation mgl32.Vec3

	fovy   float32
	aspect float32
	near   float32
	far    float32
}

// Camera defines the interface for the viewer. It holds a position, rotation angles and
// perspective settings; the view, projection and view-projection matrices are derived on
// every call from the current state.
//
// The view looks from the position toward the world origin with up = +Y, then applies the
// rotation about X, Y and Z in that order on top of the look-at basis. Rotation therefore
// orbits the scene about the viewpoint rather than moving the eye.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - position: the new eye position
	SetPosition(position mgl32.Vec3)

	// Translate moves the camera by a world-space offset.
	//
	// Parameters:
	//   - dx, dy, dz: the offset
	Translate(dx, dy, dz float32)

	// Rotation returns the rotation angles in radians about X, Y and Z.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation angles
	Rotation() mgl32.Vec3

	// SetRotation replaces the rotation angles.
	//
	// Parameters:
	//   - rotation: the new angles in radians
	SetRotation(rotation mgl32.Vec3)

	// Rotate adds to the rotation angles.
	//
	// Parameters:
	//   - dx, dy, dz: angle deltas in radians
	Rotate(dx, dy, dz float32)

	// Fovy returns the vertical field of view in radians.
	Fovy() float32

	// SetFovy sets the vertical field of view in radians.
	SetFovy(fovy float32)

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio. Callers keep it positive.
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetNearFar sets both clipping planes. Callers keep far > near > 0.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetNearFar(near, far float32)

	// View returns lookAt(position, origin, +Y) * Rx * Ry * Rz.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix (column-major)
	View() mgl32.Mat4

	// Projection returns the perspective projection with a [0,1] depth range.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	Projection() mgl32.Mat4

	// ViewProjection returns Projection() * View().
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix (column-major)
	ViewProjection() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin with default perspective settings:
// fovy 2π/5, aspect 16:9, near 1 and far 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fovy:   DefaultFovy,
		aspect: DefaultAspect,
		near:   DefaultNear,
		far:    DefaultFar,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *cameraImpl) Translate(dx, dy, dz float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(mgl32.Vec3{dx, dy, dz})
}

func (c *cameraImpl) Rotation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) SetRotation(rotation mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = rotation
}

func (c *cameraImpl) Rotate(dx, dy, dz float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = c.rotation.Add(mgl32.Vec3{dx, dy, dz})
}

func (c *cameraImpl) Fovy() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovy
}

func (c *cameraImpl) SetFovy(fovy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovy = fovy
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetNearFar(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.far = far
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection()
}

func (c *cameraImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection().Mul4(c.view())
}

// view builds the look-at basis and post-multiplies the rotations. Caller must hold the mutex.
func (c *cameraImpl) view() mgl32.Mat4 {
	lookAt := common.LookAt(c.position, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return common.RotateXYZ(lookAt, c.rotation[0], c.rotation[1], c.rotation[2])
}

// projection builds the perspective matrix. Caller must hold the mutex.
func (c *cameraImpl) projection() mgl32.Mat4 {
	return common.Perspective(c.fovy, c.aspect, c.near, c.far)
}
