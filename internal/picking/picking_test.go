package picking

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/scene"
)

func TestNormalizePointer(t *testing.T) {
	vp := Viewport{Left: 10, Top: 20, Width: 200, Height: 100}

	tests := []struct {
		name  string
		p     Pointer
		wantX float64
		wantY float64
	}{
		{"top left", Pointer{10, 20}, -1, 1},
		{"bottom right", Pointer{210, 120}, 1, -1},
		{"center", Pointer{110, 70}, 0, 0},
		{"quarter", Pointer{60, 45}, -0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := NormalizePointer(tt.p, vp)
			if math.Abs(x-tt.wantX) > 1e-12 || math.Abs(y-tt.wantY) > 1e-12 {
				t.Errorf("NormalizePointer(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestNormalizePointerEmptyViewport(t *testing.T) {
	x, y := NormalizePointer(Pointer{5, 5}, Viewport{})
	if x != 0 || y != 0 {
		t.Errorf("empty viewport = (%v, %v), want (0, 0)", x, y)
	}
}

func TestViewportContains(t *testing.T) {
	vp := Viewport{Left: 0, Top: 5, Width: 10, Height: 10}
	if !vp.Contains(Pointer{0, 5}) {
		t.Error("top-left corner not contained")
	}
	if vp.Contains(Pointer{10, 5}) {
		t.Error("right edge contained")
	}
	if vp.Contains(Pointer{3, 2}) {
		t.Error("point above viewport contained")
	}
}

// pointerFor returns the pointer position whose ray passes through p.
func pointerFor(t *testing.T, cam *scene.PerspectiveCamera, vp Viewport, p astro.Vec3) Pointer {
	t.Helper()
	proj := cam.Project(p)
	if !proj.Visible {
		t.Fatalf("%v not visible", p)
	}
	return Pointer{
		X: vp.Left + (proj.X+1)/2*vp.Width,
		Y: vp.Top + (1-proj.Y)/2*vp.Height,
	}
}

func TestPickThroughCenter(t *testing.T) {
	cam := scene.NewDefaultCamera(2)
	vp := Viewport{Width: 800, Height: 400}
	earth := Candidate{Name: "Earth", Center: astro.Vec3{X: 18}, Radius: 1}

	hit, ok := Pick(pointerFor(t, cam, vp, earth.Center), vp, cam, []Candidate{earth})
	if !ok {
		t.Fatal("pick through Earth's center missed")
	}
	if hit.Name != "Earth" {
		t.Errorf("hit %q, want Earth", hit.Name)
	}
	if hit.Position != earth.Center {
		t.Errorf("hit position %v, want %v", hit.Position, earth.Center)
	}
}

func TestPickMiss(t *testing.T) {
	cam := scene.NewDefaultCamera(2)
	vp := Viewport{Width: 800, Height: 400}
	earth := Candidate{Name: "Earth", Center: astro.Vec3{X: 18}, Radius: 1}

	// Top-left corner looks far away from the orbital plane's center.
	if hit, ok := Pick(Pointer{0, 0}, vp, cam, []Candidate{earth}); ok {
		t.Errorf("corner pick hit %q, want miss", hit.Name)
	}
}

func TestPickNearestWins(t *testing.T) {
	ray := astro.NewRay(astro.Vec3{Z: 100}, astro.Vec3{Z: -1})
	cands := []Candidate{
		{Name: "Far", Center: astro.Vec3{Z: -20}, Radius: 2},
		{Name: "Near", Center: astro.Vec3{Z: 40}, Radius: 1},
		{Name: "Off", Center: astro.Vec3{X: 50, Z: 60}, Radius: 1},
	}

	hit, ok := PickRay(ray, cands)
	if !ok {
		t.Fatal("PickRay missed")
	}
	if hit.Name != "Near" {
		t.Errorf("hit %q, want Near", hit.Name)
	}
	if math.Abs(hit.Distance-59) > 1e-9 {
		t.Errorf("distance = %v, want 59", hit.Distance)
	}
}

func TestPickTieKeepsFirst(t *testing.T) {
	ray := astro.NewRay(astro.Vec3{Z: 100}, astro.Vec3{Z: -1})
	cands := []Candidate{
		{Name: "A", Center: astro.Vec3{}, Radius: 1},
		{Name: "B", Center: astro.Vec3{}, Radius: 1},
	}
	hit, _ := PickRay(ray, cands)
	if hit.Name != "A" {
		t.Errorf("tie resolved to %q, want A", hit.Name)
	}
}

func TestPickNoCandidates(t *testing.T) {
	cam := scene.NewDefaultCamera(1)
	if _, ok := Pick(Pointer{1, 1}, Viewport{Width: 2, Height: 2}, cam, nil); ok {
		t.Error("pick with no candidates succeeded")
	}
	if _, ok := Pick(Pointer{1, 1}, Viewport{Width: 2, Height: 2}, nil, []Candidate{{Name: "A", Radius: 1}}); ok {
		t.Error("pick with nil camera succeeded")
	}
}
