package astro

import "math"

// Ray is a half-line starting at Origin along a unit Direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay builds a ray, normalizing the direction.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalized()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectSphere returns the distance along the ray to the nearest
// intersection with the sphere, or false when the ray misses it or the
// sphere lies entirely behind the origin. A ray starting inside the sphere
// reports the exit point.
func (r Ray) IntersectSphere(center Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}

	// Solve |o + t*d - c|^2 = r^2 with |d| = 1.
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
