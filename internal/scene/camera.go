package scene

import (
	"math"
	"sync"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Default camera parameters.
const (
	DefaultFovYDeg = 45.0
	DefaultNear    = 0.1
	DefaultFar     = 1000.0
)

// DefaultCameraPosition is where the camera starts, looking at the origin.
var DefaultCameraPosition = astro.Vec3{X: 0, Y: 30, Z: 100}

var worldUp = astro.Vec3{Y: 1}

// PerspectiveCamera is a pinhole camera with a vertical field of view.
// Project and Ray are inverses of each other, so a ray cast through the
// projection of a point passes through that point.
type PerspectiveCamera struct {
	mu sync.RWMutex

	position astro.Vec3
	target   astro.Vec3
	fovY     float64 // degrees
	aspect   float64 // width / height
	near     float64
	far      float64
}

// NewPerspectiveCamera creates a camera at DefaultCameraPosition looking at
// the origin.
func NewPerspectiveCamera(fovYDeg, aspect, near, far float64) *PerspectiveCamera {
	if aspect <= 0 {
		aspect = 1
	}
	return &PerspectiveCamera{
		position: DefaultCameraPosition,
		fovY:     fovYDeg,
		aspect:   aspect,
		near:     near,
		far:      far,
	}
}

// NewDefaultCamera uses the default field of view and clip planes.
func NewDefaultCamera(aspect float64) *PerspectiveCamera {
	return NewPerspectiveCamera(DefaultFovYDeg, aspect, DefaultNear, DefaultFar)
}

// Position returns the camera position.
func (c *PerspectiveCamera) Position() astro.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

// SetPosition moves the camera without changing its target.
func (c *PerspectiveCamera) SetPosition(p astro.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

// LookAt aims the camera at target.
func (c *PerspectiveCamera) LookAt(target astro.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

// Target returns the current look-at point.
func (c *PerspectiveCamera) Target() astro.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// UpdateProjection sets the viewport aspect ratio. Non-positive values are
// ignored.
func (c *PerspectiveCamera) UpdateProjection(aspect float64) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

// Aspect returns the current aspect ratio.
func (c *PerspectiveCamera) Aspect() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aspect
}

// FovYDeg returns the vertical field of view in degrees.
func (c *PerspectiveCamera) FovYDeg() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fovY
}

// Basis returns the camera's forward, right and up unit vectors.
func (c *PerspectiveCamera) Basis() (forward, right, up astro.Vec3) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.basis()
}

func (c *PerspectiveCamera) basis() (forward, right, up astro.Vec3) {
	forward = c.target.Sub(c.position).Normalized()
	if forward.Norm() == 0 {
		forward = astro.Vec3{Z: -1}
	}
	right = forward.Cross(worldUp)
	if right.Norm() < 1e-9 {
		// Looking straight up or down: pick any horizontal right vector.
		right = forward.Cross(astro.Vec3{Z: -1})
	}
	right = right.Normalized()
	up = right.Cross(forward).Normalized()
	return forward, right, up
}

// Ray returns the ray from the camera through a normalized device
// coordinate. ndcX runs -1 (left) to 1 (right); ndcY runs -1 (bottom) to
// 1 (top).
func (c *PerspectiveCamera) Ray(ndcX, ndcY float64) astro.Ray {
	c.mu.RLock()
	defer c.mu.RUnlock()

	forward, right, up := c.basis()
	tanHalf := math.Tan(c.fovY * math.Pi / 360)

	dir := forward.
		Add(right.Scale(ndcX * tanHalf * c.aspect)).
		Add(up.Scale(ndcY * tanHalf))
	return astro.NewRay(c.position, dir)
}

// Projection is a point mapped into normalized device coordinates.
type Projection struct {
	X, Y    float64 // NDC
	Depth   float64 // Distance along the view direction
	Visible bool    // Inside the clip planes and the view frustum
}

// Project maps a world-space point into normalized device coordinates.
func (c *PerspectiveCamera) Project(p astro.Vec3) Projection {
	c.mu.RLock()
	defer c.mu.RUnlock()

	forward, right, up := c.basis()
	d := p.Sub(c.position)
	depth := d.Dot(forward)
	if depth <= c.near || depth >= c.far {
		return Projection{Depth: depth}
	}

	tanHalf := math.Tan(c.fovY * math.Pi / 360)
	x := d.Dot(right) / (depth * tanHalf * c.aspect)
	y := d.Dot(up) / (depth * tanHalf)
	return Projection{
		X:       x,
		Y:       y,
		Depth:   depth,
		Visible: x >= -1 && x <= 1 && y >= -1 && y <= 1,
	}
}

// WorldPerNDC returns how many world units one NDC unit spans vertically
// at the given depth. Hosts use it to size hit targets to their pixels.
func (c *PerspectiveCamera) WorldPerNDC(depth float64) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return depth * math.Tan(c.fovY*math.Pi/360)
}
