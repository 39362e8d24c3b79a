package render_object

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
	"github.com/Carmen-Shannon/oxy-shadow/engine/model"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotAttached is returned by the draw calls of an object that has not been added to a scene.
var ErrNotAttached = errors.New("render object is not attached to a scene")

// modelUniformBinding is the binding of the model matrix within group 1.
const modelUniformBinding = 0

var nextID atomic.Uint64

type renderObject struct {
	mu      *sync.Mutex
	id      uint64
	enabled atomic.Bool
	shape   ShapeKind
	mdl     model.Model

	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3

	dev device.Device
	lib pipeline.Library

	// provider owns the vertex buffer, the model uniform buffer and the model bind group.
	provider bind_group_provider.BindGroupProvider
	// sceneShadow is borrowed from the scene the object was added to.
	sceneShadow device.BindGroup

	uniformOffset     uint64
	uniformBufferSize uint64
}

// RenderObject is a solid shape drawn by both passes. It owns its vertex buffer and a model
// uniform buffer padded to the device's uniform offset alignment, and borrows the shared
// pipelines from a pipeline.Library and the shadow-pass scene bind group from the scene it is
// added to. The model matrix is translate, then rotate about X, Y and Z, so an object spins
// about its own origin after being placed.
type RenderObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Shape returns the shape kind the object was created from.
	//
	// Returns:
	//   - ShapeKind: the shape kind
	Shape() ShapeKind

	// Model returns the geometry uploaded to the vertex buffer.
	//
	// Returns:
	//   - model.Model: the object's model
	Model() model.Model

	// Enabled returns whether the object is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is drawn. Disabled objects issue no commands.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition places the object.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// Rotation returns the rotation angles in radians around X, Y and Z.
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

	// RotationSpeed returns the angular velocity applied by Step, in radians per second.
	//
	// Returns:
	//   - mgl32.Vec3: the angular velocity
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the angular velocity applied by Step.
	//
	// Parameters:
	//   - speed: radians per second around X, Y and Z
	SetRotationSpeed(speed mgl32.Vec3)

	// Step advances the rotation by RotationSpeed x dt.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Step(dt float32)

	// ModelMatrix composes the model matrix from the current transform: T * Rx * Ry * Rz.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// UniformOffset returns the byte offset at which the model uniform is bound. It is always
	// a multiple of the device's uniform offset alignment.
	//
	// Returns:
	//   - uint64: the bound offset
	UniformOffset() uint64

	// UniformBufferSize returns the padded size of the model uniform buffer.
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	UniformBufferSize() uint64

	// ModelBindGroup returns the group 1 bind group exposing the model uniform.
	//
	// Returns:
	//   - device.BindGroup: the model bind group
	ModelBindGroup() device.BindGroup

	// VertexBuffer returns the object's vertex buffer.
	//
	// Returns:
	//   - device.Buffer: the vertex buffer
	VertexBuffer() device.Buffer

	// Attach binds the object to a scene's shadow-pass bind group. Scene.Add calls it.
	//
	// Parameters:
	//   - sceneShadow: the scene's group 0 bind group for the shadow pipeline
	Attach(sceneShadow device.BindGroup)

	// Attached reports whether Attach has been called with a bind group.
	Attached() bool

	// ShadowDraw writes the model matrix and records the object into the shadow pass:
	// shadow pipeline, scene-for-shadow bind group at 0, model bind group at 1, vertex
	// buffer at slot 0 and one instance of every vertex.
	//
	// Parameters:
	//   - pass: the open shadow pass
	//
	// Returns:
	//   - error: ErrNotAttached before the object is added to a scene, or the write error
	ShadowDraw(pass device.RenderPass) error

	// ColorDraw writes the model matrix and records the object into the color pass with the
	// lit pipeline and the caller-supplied scene bind group at 0.
	//
	// Parameters:
	//   - pass: the open color pass
	//   - sceneBindGroup: the scene's group 0 bind group for the lit pipeline
	//
	// Returns:
	//   - error: ErrNotAttached before the object is added to a scene, or the write error
	ColorDraw(pass device.RenderPass, sceneBindGroup device.BindGroup) error

	// Release frees the vertex buffer, uniform buffer and model bind group.
	Release()
}

var _ RenderObject = &renderObject{}

// NewRenderObject creates the GPU resources for a shape on the injected device.
//
// Parameters:
//   - dev: the device the object's buffers are created on
//   - lib: the pipeline library providing the shared pipelines and the model layout
//   - shape: the canonical geometry to upload
//   - options: functional options configuring the initial transform
//
// Returns:
//   - RenderObject: the created object
//   - error: an error if the shape is unknown or a resource cannot be created
func NewRenderObject(dev device.Device, lib pipeline.Library, shape ShapeKind, options ...RenderObjectBuilderOption) (RenderObject, error) {
	mdl, err := shape.Model()
	if err != nil {
		return nil, err
	}

	o := &renderObject{
		mu:    &sync.Mutex{},
		id:    nextID.Add(1),
		shape: shape,
		mdl:   mdl,
		dev:   dev,
		lib:   lib,
	}
	o.enabled.Store(true)
	for _, opt := range options {
		opt(o)
	}

	label := fmt.Sprintf("%s %d", shape, o.id)

	vertexBuffer, err := dev.CreateBuffer(device.BufferDescriptor{
		Label:    label + " Vertex Buffer",
		Usage:    wgpu.BufferUsageVertex,
		Contents: mdl.VertexData(),
	})
	if err != nil {
		return nil, err
	}

	// the matrix sits at offset 0 of a slot padded out to the binding alignment
	o.uniformOffset = 0
	o.uniformBufferSize = common.AlignUp(common.Mat4Size, dev.MinUniformBufferOffsetAlignment()) + common.Mat4Size
	uniformBuffer, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: label + " Model Uniform",
		Size:  o.uniformBufferSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, err
	}

	o.provider = bind_group_provider.NewBindGroupProvider(label+" Model Bind Group",
		bind_group_provider.WithLayout(lib.ModelLayout()),
		bind_group_provider.WithBufferRange(modelUniformBinding, uniformBuffer, o.uniformOffset, common.Mat4Size),
		bind_group_provider.WithVertexBuffer(vertexBuffer, mdl.VertexCount()),
	)
	if err := o.provider.Build(dev); err != nil {
		o.provider.Release()
		return nil, err
	}
	return o, nil
}

func (o *renderObject) ID() uint64 {
	return o.id
}

func (o *renderObject) Shape() ShapeKind {
	return o.shape
}

func (o *renderObject) Model() model.Model {
	return o.mdl
}

func (o *renderObject) Enabled() bool {
	return o.enabled.Load()
}

func (o *renderObject) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
}

func (o *renderObject) Position() mgl32.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

func (o *renderObject) SetPosition(position mgl32.Vec3) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position = position
}

func (o *renderObject) Rotation() mgl32.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rotation
}

func (o *renderObject) SetRotation(rotation mgl32.Vec3) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation = rotation
}

func (o *renderObject) Rotate(dx, dy, dz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation = o.rotation.Add(mgl32.Vec3{dx, dy, dz})
}

func (o *renderObject) RotationSpeed() mgl32.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rotationSpeed
}

func (o *renderObject) SetRotationSpeed(speed mgl32.Vec3) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotationSpeed = speed
}

func (o *renderObject) Step(dt float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation = o.rotation.Add(o.rotationSpeed.Mul(dt))
}

func (o *renderObject) ModelMatrix() mgl32.Mat4 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return common.BuildModelMatrix(o.position, o.rotation)
}

func (o *renderObject) UniformOffset() uint64 {
	return o.uniformOffset
}

func (o *renderObject) UniformBufferSize() uint64 {
	return o.uniformBufferSize
}

func (o *renderObject) ModelBindGroup() device.BindGroup {
	return o.provider.BindGroup()
}

func (o *renderObject) VertexBuffer() device.Buffer {
	return o.provider.VertexBuffer()
}

func (o *renderObject) Attach(sceneShadow device.BindGroup) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sceneShadow = sceneShadow
}

func (o *renderObject) Attached() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sceneShadow != nil
}

func (o *renderObject) ShadowDraw(pass device.RenderPass) error {
	o.mu.Lock()
	sceneShadow := o.sceneShadow
	o.mu.Unlock()
	if sceneShadow == nil {
		return ErrNotAttached
	}
	return o.draw(pass, o.lib.Shadow(), sceneShadow)
}

func (o *renderObject) ColorDraw(pass device.RenderPass, sceneBindGroup device.BindGroup) error {
	if !o.Attached() || sceneBindGroup == nil {
		return ErrNotAttached
	}
	return o.draw(pass, o.lib.Color(), sceneBindGroup)
}

// draw writes the model matrix, then binds and draws. The write is queued before the
// command buffer holding the draw is submitted.
func (o *renderObject) draw(pass device.RenderPass, p pipeline.Pipeline, scene device.BindGroup) error {
	if !o.Enabled() {
		return nil
	}
	if p == nil || p.Pipeline() == nil {
		return fmt.Errorf("%s: pipeline has not been built", o.provider.Label())
	}

	uniform := model.GPUModelUniform{ModelMatrix: o.ModelMatrix()}
	if err := bind_group_provider.ApplyWrites(o.dev, bind_group_provider.BufferWrite{
		Provider: o.provider,
		Binding:  modelUniformBinding,
		Data:     uniform.Marshal(),
	}); err != nil {
		return err
	}

	pass.SetPipeline(p.Pipeline())
	pass.SetBindGroup(pipeline.SceneGroup, scene)
	pass.SetBindGroup(pipeline.ModelGroup, o.provider.BindGroup())
	pass.SetVertexBuffer(0, o.provider.VertexBuffer())
	pass.Draw(o.provider.VertexCount(), 1, 0, 0)
	return nil
}

func (o *renderObject) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sceneShadow = nil
	if o.provider != nil {
		o.provider.Release()
	}
}
