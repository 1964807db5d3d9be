package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/selection"
)

// countingScene wraps a Graph and counts Render calls.
type countingScene struct {
	*scene.Graph
	renders int
}

func (c *countingScene) Render(cam scene.Camera) {
	c.renders++
	c.Graph.Render(cam)
}

type frameRecorder struct {
	frames, advanced int
	ticks            float64
}

func (f *frameRecorder) Frame(advanced bool, ticks float64, _ time.Duration) {
	f.frames++
	f.ticks += ticks
	if advanced {
		f.advanced++
	}
}

type fixture struct {
	loop  *Loop
	store *orbit.Store
	scene *countingScene
	cam   *scene.PerspectiveCamera
	clock *ManualClock
	sel   *selection.Machine
}

func newFixture(t *testing.T, cat registry.Catalog, cfg Config) fixture {
	t.Helper()
	store, err := orbit.NewStoreFromCatalog(cat)
	if err != nil {
		t.Fatalf("NewStoreFromCatalog: %v", err)
	}
	sc := &countingScene{Graph: scene.NewGraph()}
	cam := scene.NewDefaultCamera(1)
	clock := NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sel := selection.NewMachine(cam, selection.DefaultConfig())
	cfg.Starfield.Count = 10

	loop := NewLoop(Deps{
		Catalog:   cat,
		Store:     store,
		Scene:     sc,
		Camera:    cam,
		Selection: sel,
		Clock:     clock,
	}, cfg)
	return fixture{loop: loop, store: store, scene: sc, cam: cam, clock: clock, sel: sel}
}

func TestNewLoopBuildsScene(t *testing.T) {
	cat := registry.DefaultCatalog()
	f := newFixture(t, cat, DefaultConfig())
	f.loop.Tick()

	frame := f.scene.LastFrame()
	// Sun + 8 planets + Moon.
	if len(frame.Meshes) != 10 {
		t.Errorf("meshes = %d, want 10", len(frame.Meshes))
	}
	if len(frame.Rings) != 8 {
		t.Errorf("rings = %d, want 8", len(frame.Rings))
	}
	if len(frame.Stars) != 10 {
		t.Errorf("stars = %d, want 10", len(frame.Stars))
	}

	h, ok := f.loop.Mesh("Earth")
	if !ok {
		t.Fatal("no mesh for Earth")
	}
	m, _ := f.scene.Mesh(h)
	if m.Label != "Earth" || m.Size != 1 || m.Color != 0x3399FF {
		t.Errorf("Earth mesh = %+v", m)
	}
}

func TestTickAdvancesAndRenders(t *testing.T) {
	cat := registry.Catalog{
		Central: registry.CentralBody{Name: "Sun", Size: 5},
		Bodies:  []registry.BodyDefinition{{Name: "Earth", OrbitRadius: 18, Size: 1, BaseSpeed: 0.01}},
	}
	f := newFixture(t, cat, DefaultConfig())

	for i := 0; i < 100; i++ {
		f.clock.Advance(time.Second / 60)
		f.loop.Tick()
	}

	st, _ := f.store.Get("Earth")
	if math.Abs(st.Angle-1.0) > 1e-9 {
		t.Errorf("Earth angle = %v, want 1.0", st.Angle)
	}
	if f.scene.renders != 100 {
		t.Errorf("renders = %d, want 100", f.scene.renders)
	}

	h, _ := f.loop.Mesh("Earth")
	m, _ := f.scene.Mesh(h)
	want := astro.Vec3{X: 18 * math.Cos(1.0), Z: 18 * math.Sin(1.0)}
	if !m.Position.ApproxEqual(want, 1e-6) {
		t.Errorf("Earth mesh at %v, want %v", m.Position, want)
	}
	if math.Abs(m.Rotation[scene.AxisY]-1.0) > 1e-9 {
		t.Errorf("Earth spin = %v, want 1.0", m.Rotation[scene.AxisY])
	}
}

func TestPausedTicksFreezeKinematics(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	f.loop.RunTicks(5)
	before := f.store.States()
	sat, _ := f.store.Satellite()

	f.loop.Pause()
	for i := 0; i < 20; i++ {
		res := f.loop.Tick()
		if res.Advanced {
			t.Fatal("paused tick advanced")
		}
	}

	after := f.store.States()
	for i := range before {
		if before[i].Angle != after[i].Angle {
			t.Errorf("%s angle changed while paused: %v -> %v", before[i].Name, before[i].Angle, after[i].Angle)
		}
	}
	if satAfter, _ := f.store.Satellite(); satAfter.Angle != sat.Angle {
		t.Errorf("satellite moved while paused")
	}
	if f.scene.renders != 25 {
		t.Errorf("renders = %d, want 25 (rendering continues while paused)", f.scene.renders)
	}

	f.loop.Resume()
	if res := f.loop.Tick(); !res.Advanced {
		t.Error("tick after Resume did not advance")
	}
}

func TestSatelliteFollowsParent(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	f.loop.RunTicks(30)

	earthHandle, _ := f.loop.Mesh("Earth")
	earth, _ := f.scene.Mesh(earthHandle)

	var moon scene.Mesh
	for _, m := range f.scene.LastFrame().Meshes {
		if m.Label == "Moon" {
			moon = m
		}
	}
	if d := moon.Position.Distance(earth.Position); math.Abs(d-1.5) > 1e-9 {
		t.Errorf("Moon is %v from Earth, want 1.5", d)
	}
}

func TestSatelliteWithoutParentIsSkipped(t *testing.T) {
	cat := registry.Catalog{
		Central:   registry.CentralBody{Name: "Sun", Size: 5},
		Bodies:    []registry.BodyDefinition{{Name: "Mars", OrbitRadius: 22, Size: 1, BaseSpeed: 0.008}},
		Satellite: registry.SatelliteDefinition{Name: "Moon", Parent: "Earth", OrbitRadius: 1.5, Size: 0.2, Speed: 0.05},
	}
	f := newFixture(t, cat, DefaultConfig())
	f.loop.RunTicks(10)

	for _, m := range f.scene.LastFrame().Meshes {
		if m.Label == "Moon" && m.Position != (astro.Vec3{}) {
			t.Errorf("orphaned Moon moved to %v", m.Position)
		}
	}
}

func TestWallClockMode(t *testing.T) {
	cat := registry.Catalog{
		Central: registry.CentralBody{Name: "Sun", Size: 5},
		Bodies:  []registry.BodyDefinition{{Name: "Earth", OrbitRadius: 18, Size: 1, BaseSpeed: 0.01}},
	}
	cfg := DefaultConfig()
	cfg.Mode = WallClock
	cfg.ReferenceFrame = 10 * time.Millisecond
	cfg.MaxTicks = 5
	f := newFixture(t, cat, cfg)

	// First frame has no previous timestamp.
	if res := f.loop.Tick(); res.Ticks != 0 {
		t.Errorf("first frame ticks = %v, want 0", res.Ticks)
	}

	f.clock.Advance(30 * time.Millisecond)
	if res := f.loop.Tick(); math.Abs(res.Ticks-3) > 1e-12 {
		t.Errorf("ticks for 30ms = %v, want 3", res.Ticks)
	}

	f.clock.Advance(time.Second)
	if res := f.loop.Tick(); res.Ticks != 5 {
		t.Errorf("ticks after stall = %v, want cap 5", res.Ticks)
	}

	st, _ := f.store.Get("Earth")
	if math.Abs(st.Angle-0.08) > 1e-12 {
		t.Errorf("angle = %v, want 0.08", st.Angle)
	}
}

func TestTickStepsCameraTransitionWhilePaused(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	f.loop.Tick()
	f.loop.Pause()

	target := astro.Vec3{X: 18}
	f.sel.Select("Earth", target, 18)
	for i := 0; i < 4; i++ {
		f.clock.Advance(500 * time.Millisecond)
		f.loop.Tick()
	}

	if f.sel.Phase() != selection.Settled {
		t.Errorf("Phase() = %v, want settled", f.sel.Phase())
	}
	if got := f.cam.Position(); !got.ApproxEqual(astro.Vec3{X: 28, Y: 10, Z: 10}, 1e-9) {
		t.Errorf("camera at %v", got)
	}
}

func TestRecorderSeesFrames(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	rec := &frameRecorder{}
	f.loop.recorder = rec

	f.loop.RunTicks(3)
	f.loop.Pause()
	f.loop.RunTicks(2)

	if rec.frames != 5 || rec.advanced != 3 {
		t.Errorf("frames = %d advanced = %d, want 5 and 3", rec.frames, rec.advanced)
	}
	if rec.ticks != 3 {
		t.Errorf("ticks = %v, want 3", rec.ticks)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.loop.Run(ctx, time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestCommands(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())

	if f.loop.Paused() {
		t.Error("loop starts paused")
	}
	if !f.loop.TogglePause() || !f.loop.Paused() {
		t.Error("TogglePause did not pause")
	}
	f.loop.Pause()
	if !f.loop.Paused() {
		t.Error("Pause while paused resumed")
	}
	if f.loop.TogglePause() {
		t.Error("TogglePause did not resume")
	}

	if f.loop.Theme() != ThemeDark {
		t.Errorf("initial theme = %v, want dark", f.loop.Theme())
	}
	if f.loop.ToggleTheme() != ThemeLight {
		t.Error("ToggleTheme did not switch to light")
	}
	if f.loop.ToggleTheme() != ThemeDark {
		t.Error("second ToggleTheme did not switch back")
	}
}

func TestParseHelpers(t *testing.T) {
	if m, ok := ParseTimeMode("wallclock"); !ok || m != WallClock {
		t.Errorf("ParseTimeMode(wallclock) = %v, %v", m, ok)
	}
	if _, ok := ParseTimeMode("warp"); ok {
		t.Error("ParseTimeMode(warp) accepted")
	}
	if th, ok := ParseTheme("light"); !ok || th != ThemeLight {
		t.Errorf("ParseTheme(light) = %v, %v", th, ok)
	}
	if _, ok := ParseTheme("neon"); ok {
		t.Error("ParseTheme(neon) accepted")
	}
}
