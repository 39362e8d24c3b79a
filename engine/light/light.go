package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// OrthoBounds is the orthographic box, in light view space, captured by the shadow map.
type OrthoBounds struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// DefaultBounds is the shadow volume used when no bounds are configured.
var DefaultBounds = OrthoBounds{Left: -80, Right: 80, Bottom: -80, Top: 80, Near: -200, Far: 300}

// DefaultPosition is the light position used when none is configured.
var DefaultPosition = mgl32.Vec3{50, 100, -100}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu       *sync.Mutex
	position mgl32.Vec3
	target   mgl32.Vec3
	bounds   OrthoBounds
}

// Light is the single shadow-casting light of a scene. It looks from its position toward its
// target (the world origin by default) with +Y up, and projects orthographically over its
// bounds. Derived matrices are recomputed on every call and never cached, so a mutation is
// visible to the next caller immediately.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// SetPosition moves the light.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// Target returns the world-space point the light looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// Bounds returns the orthographic shadow volume.
	//
	// Returns:
	//   - OrthoBounds: the current bounds
	Bounds() OrthoBounds

	// SetBounds replaces the orthographic shadow volume.
	//
	// Parameters:
	//   - bounds: the new bounds
	SetBounds(bounds OrthoBounds)

	// View returns the look-at matrix from the light position toward its target, up = +Y.
	//
	// Returns:
	//   - mgl32.Mat4: the light view matrix
	View() mgl32.Mat4

	// Projection returns the orthographic projection over Bounds with a [0,1] depth range.
	//
	// Returns:
	//   - mgl32.Mat4: the light projection matrix
	Projection() mgl32.Mat4

	// ViewProjection returns Projection() x View().
	//
	// Returns:
	//   - mgl32.Mat4: the light view-projection matrix
	ViewProjection() mgl32.Mat4
}

var _ Light = &lightImpl{}

// NewLight creates a new Light with the specified options applied.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:       &sync.Mutex{},
		position: DefaultPosition,
		bounds:   DefaultBounds,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = position
}

func (l *lightImpl) Target() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *lightImpl) Bounds() OrthoBounds {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bounds
}

func (l *lightImpl) SetBounds(bounds OrthoBounds) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bounds = bounds
}

func (l *lightImpl) View() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view()
}

func (l *lightImpl) Projection() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.projection()
}

func (l *lightImpl) ViewProjection() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.projection().Mul4(l.view())
}

func (l *lightImpl) view() mgl32.Mat4 {
	return common.LookAt(l.position, l.target, mgl32.Vec3{0, 1, 0})
}

func (l *lightImpl) projection() mgl32.Mat4 {
	b := l.bounds
	return common.Ortho(b.Left, b.Right, b.Bottom, b.Top, b.Near, b.Far)
}
