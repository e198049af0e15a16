package scene

import (
	"math"

	reMath "fashion-show/math"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position    reMath.Vec3
	Target      reMath.Vec3
	Up          reMath.Vec3
	FOV         float32 // radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Up:          reMath.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) LookAt(target reMath.Vec3) {
	c.Target = target
}

func (c *Camera) GetViewMatrix() reMath.Mat4 {
	return reMath.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() reMath.Mat4 {
	return reMath.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewProjectionMatrix() reMath.Mat4 {
	return c.GetViewMatrix().Mul(c.GetProjectionMatrix())
}

// OrbitCamera orbits a target on a sphere. Rotation and zoom requests are
// accumulated and applied with exponential damping in Update.
type OrbitCamera struct {
	*Camera
	Distance float32
	Yaw      float32
	Pitch    float32

	// DampingFactor in (0,1]; 1 applies requests immediately.
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32

	yawDelta   float32
	pitchDelta float32
	zoomScale  float32
}

// NewOrbitCamera derives the spherical coordinates from the camera's
// current position and target.
func NewOrbitCamera(camera *Camera, dampingFactor float32) *OrbitCamera {
	offset := camera.Position.Sub(camera.Target)
	distance := offset.Length()
	c := &OrbitCamera{
		Camera:        camera,
		Distance:      distance,
		DampingFactor: dampingFactor,
		MinDistance:   1,
		MaxDistance:   camera.FarPlane,
		zoomScale:     1,
	}
	if distance > 0 {
		c.Yaw = float32(math.Atan2(float64(offset.X), float64(offset.Z)))
		c.Pitch = float32(math.Asin(float64(offset.Y / distance)))
	}
	c.UpdatePosition()
	return c
}

// Orbit requests a rotation in radians.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.yawDelta += deltaYaw
	c.pitchDelta += deltaPitch
}

// Zoom requests a distance multiplier; values below 1 move closer.
func (c *OrbitCamera) Zoom(scale float32) {
	if scale > 0 {
		c.zoomScale *= scale
	}
}

// Update applies one damping step of the pending rotation and zoom.
func (c *OrbitCamera) Update() {
	f := c.DampingFactor
	if f <= 0 || f > 1 {
		f = 1
	}

	c.Yaw += c.yawDelta * f
	c.Pitch += c.pitchDelta * f
	c.Distance *= float32(math.Pow(float64(c.zoomScale), float64(f)))

	c.yawDelta *= 1 - f
	c.pitchDelta *= 1 - f
	c.zoomScale = float32(math.Pow(float64(c.zoomScale), float64(1-f)))

	c.UpdatePosition()
}

func (c *OrbitCamera) UpdatePosition() {
	const maxPitch = 1.5
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.MaxDistance > 0 && c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}

	cosPitch := float32(math.Cos(float64(c.Pitch)))
	sinPitch := float32(math.Sin(float64(c.Pitch)))
	cosYaw := float32(math.Cos(float64(c.Yaw)))
	sinYaw := float32(math.Sin(float64(c.Yaw)))

	offset := reMath.Vec3{
		X: c.Distance * cosPitch * sinYaw,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosPitch * cosYaw,
	}
	c.Position = c.Target.Add(offset)
}
