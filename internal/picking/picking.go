// Package picking resolves a pointer position on the viewport to the
// nearest body under it.
package picking

import (
	"github.com/litescript/ls-orrery/internal/astro"
)

// Pointer is a pointer event position in host coordinates.
type Pointer struct {
	X, Y float64
}

// Viewport is the rectangle the scene is drawn into, in the same
// coordinates as Pointer.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// Contains reports whether p lies inside the viewport.
func (v Viewport) Contains(p Pointer) bool {
	return p.X >= v.Left && p.X < v.Left+v.Width &&
		p.Y >= v.Top && p.Y < v.Top+v.Height
}

// RayCaster builds a ray from the camera through a normalized device
// coordinate.
type RayCaster interface {
	Ray(ndcX, ndcY float64) astro.Ray
}

// Candidate is a pickable body: a bounding sphere and the name it resolves
// to.
type Candidate struct {
	Name   string
	Center astro.Vec3
	Radius float64
}

// Hit is the result of a successful pick.
type Hit struct {
	Name     string
	Position astro.Vec3 // Candidate center at pick time
	Distance float64    // Distance along the ray to the intersection
}

// NormalizePointer maps a pointer position to [-1, 1] device space. The
// vertical axis is flipped: screen y grows downward, device y upward.
func NormalizePointer(p Pointer, vp Viewport) (ndcX, ndcY float64) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0, 0
	}
	ndcX = ((p.X-vp.Left)/vp.Width)*2 - 1
	ndcY = -((p.Y-vp.Top)/vp.Height)*2 + 1
	return ndcX, ndcY
}

// Pick casts a ray through the pointer and returns the nearest candidate it
// intersects. On equal distances the earlier candidate wins.
func Pick(p Pointer, vp Viewport, cam RayCaster, candidates []Candidate) (Hit, bool) {
	if cam == nil || len(candidates) == 0 || vp.Width <= 0 || vp.Height <= 0 {
		return Hit{}, false
	}

	ndcX, ndcY := NormalizePointer(p, vp)
	return PickRay(cam.Ray(ndcX, ndcY), candidates)
}

// PickRay intersects a ray with the candidates directly.
func PickRay(ray astro.Ray, candidates []Candidate) (Hit, bool) {
	var (
		best  Hit
		found bool
	)
	for _, c := range candidates {
		t, ok := ray.IntersectSphere(c.Center, c.Radius)
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Name: c.Name, Position: c.Center, Distance: t}
			found = true
		}
	}
	return best, found
}
