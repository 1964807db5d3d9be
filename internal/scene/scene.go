// Package scene defines the rendering capabilities the simulation drives and
// provides an in-memory scene graph and perspective camera that implement
// them.
package scene

import (
	"sync"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/registry"
)

// Axis names a rotation axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// MeshHandle identifies a body mesh inside a Scene.
type MeshHandle int

// InvalidHandle is never returned by CreateBody.
const InvalidHandle MeshHandle = -1

// Scene is the renderable-scene capability consumed by the run loop.
type Scene interface {
	CreateBody(size float64, color registry.Color) MeshHandle
	SetPosition(h MeshHandle, pos astro.Vec3)
	SetRotation(h MeshHandle, axis Axis, radians float64)
	Add(h MeshHandle)
	Render(cam Camera)
}

// Camera is the camera capability: a mutable position, a look-at target and
// a projection that tracks the viewport aspect ratio.
type Camera interface {
	Position() astro.Vec3
	SetPosition(p astro.Vec3)
	LookAt(target astro.Vec3)
	Target() astro.Vec3
	UpdateProjection(aspect float64)
}

// Mesh is one body in the graph.
type Mesh struct {
	Handle   MeshHandle
	Label    string
	Size     float64
	Color    registry.Color
	Position astro.Vec3
	Rotation [3]float64
	Visible  bool // Set once the mesh has been added to the scene
}

// Ring is a decorative orbit ring in the y = 0 plane.
type Ring struct {
	Radius float64
	Color  registry.Color
}

// Frame is an immutable copy of the graph taken at Render time.
type Frame struct {
	Seq    uint64
	Meshes []Mesh
	Rings  []Ring
	Stars  []astro.Vec3
	Camera CameraPose
}

// CameraPose is the camera state captured with a frame.
type CameraPose struct {
	Position astro.Vec3
	Target   astro.Vec3
	Aspect   float64
	FovYDeg  float64
}

// Graph is an in-memory Scene. Render snapshots its contents into a Frame
// that a host (the terminal UI, or a test) draws or inspects.
type Graph struct {
	mu sync.RWMutex

	meshes []Mesh
	rings  []Ring
	stars  []astro.Vec3

	frames uint64
	last   Frame
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{}
}

// CreateBody allocates a mesh. It is not drawn until Add is called.
func (g *Graph) CreateBody(size float64, color registry.Color) MeshHandle {
	g.mu.Lock()
	defer g.mu.Unlock()

	h := MeshHandle(len(g.meshes))
	g.meshes = append(g.meshes, Mesh{Handle: h, Size: size, Color: color})
	return h
}

// SetLabel attaches a display name to a mesh.
func (g *Graph) SetLabel(h MeshHandle, label string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m := g.mesh(h); m != nil {
		m.Label = label
	}
}

// SetPosition moves a mesh. Unknown handles are ignored.
func (g *Graph) SetPosition(h MeshHandle, pos astro.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m := g.mesh(h); m != nil {
		m.Position = pos
	}
}

// SetRotation sets a mesh's rotation about one axis.
func (g *Graph) SetRotation(h MeshHandle, axis Axis, radians float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m := g.mesh(h); m != nil && axis >= AxisX && axis <= AxisZ {
		m.Rotation[axis] = radians
	}
}

// Add makes a mesh visible.
func (g *Graph) Add(h MeshHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m := g.mesh(h); m != nil {
		m.Visible = true
	}
}

// AddRing adds an orbit ring.
func (g *Graph) AddRing(radius float64, color registry.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rings = append(g.rings, Ring{Radius: radius, Color: color})
}

// SetStarfield replaces the background point cloud.
func (g *Graph) SetStarfield(field astro.Starfield) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stars = field.Points
}

// Mesh returns a copy of the mesh for h.
func (g *Graph) Mesh(h MeshHandle) (Mesh, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if m := g.mesh(h); m != nil {
		return *m, true
	}
	return Mesh{}, false
}

// Render captures the visible meshes and the camera pose into a new Frame.
func (g *Graph) Render(cam Camera) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.frames++

	meshes := make([]Mesh, 0, len(g.meshes))
	for _, m := range g.meshes {
		if m.Visible {
			meshes = append(meshes, m)
		}
	}

	pose := CameraPose{}
	if cam != nil {
		pose.Position = cam.Position()
		pose.Target = cam.Target()
		if pc, ok := cam.(*PerspectiveCamera); ok {
			pose.Aspect = pc.Aspect()
			pose.FovYDeg = pc.FovYDeg()
		}
	}

	// Rings and stars are never mutated after setup, so the frame can
	// share their backing arrays.
	g.last = Frame{
		Seq:    g.frames,
		Meshes: meshes,
		Rings:  g.rings,
		Stars:  g.stars,
		Camera: pose,
	}
}

// LastFrame returns the most recently rendered frame.
func (g *Graph) LastFrame() Frame {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// Frames returns how many times Render has been called.
func (g *Graph) Frames() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.frames
}

func (g *Graph) mesh(h MeshHandle) *Mesh {
	if h < 0 || int(h) >= len(g.meshes) {
		return nil
	}
	return &g.meshes[h]
}
