// Package sim drives the orrery: it builds the scene from the catalog and
// advances the simulation once per frame.
package sim

import (
	"context"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/selection"
)

// RingColor is the color of the orbit rings.
const RingColor registry.Color = 0xFFFFFF

// Config controls the run loop.
type Config struct {
	Mode           TimeMode
	ReferenceFrame time.Duration // One tick of angular speed in WallClock mode
	MaxTicks       float64       // Cap on ticks per frame in WallClock mode
	Theme          Theme
	Starfield      astro.StarfieldConfig
}

// DefaultConfig returns frame-coupled stepping with a 60 Hz reference frame.
func DefaultConfig() Config {
	return Config{
		Mode:           FrameCoupled,
		ReferenceFrame: time.Second / 60,
		MaxTicks:       10,
		Theme:          ThemeDark,
		Starfield:      astro.DefaultStarfieldConfig(),
	}
}

// Recorder receives per-tick measurements. A nil Recorder is allowed.
type Recorder interface {
	Frame(advanced bool, ticks float64, took time.Duration)
}

// labeler and decorator are optional scene extensions. scene.Graph
// implements both.
type labeler interface {
	SetLabel(h scene.MeshHandle, label string)
}

type decorator interface {
	AddRing(radius float64, color registry.Color)
	SetStarfield(field astro.Starfield)
}

// Deps are the collaborators of a Loop.
type Deps struct {
	Catalog   registry.Catalog
	Store     *orbit.Store
	Scene     scene.Scene
	Camera    scene.Camera
	Selection *selection.Machine // Optional
	Clock     Clock              // Defaults to SystemClock
	Logger    *logging.Logger    // Defaults to Discard
	Recorder  Recorder           // Optional
}

// TickResult describes one call to Tick.
type TickResult struct {
	Seq      uint64
	Advanced bool    // False while paused
	Ticks    float64 // Simulation ticks applied to every body
	Elapsed  time.Duration
}

// Loop is the per-frame driver. It is not safe for concurrent use; the
// host calls Tick and the command methods from one goroutine.
type Loop struct {
	cfg       Config
	store     *orbit.Store
	scene     scene.Scene
	camera    scene.Camera
	selection *selection.Machine
	clock     Clock
	logger    *logging.Logger
	recorder  Recorder

	bodies    map[string]scene.MeshHandle
	central   scene.MeshHandle
	satellite scene.MeshHandle

	paused bool
	theme  Theme
	last   time.Time
	seq    uint64
}

// NewLoop builds the scene for the catalog (central body, orbiting bodies
// with their rings, satellite and starfield) and returns a loop ready to
// tick. Bodies start at their initial positions.
func NewLoop(deps Deps, cfg Config) *Loop {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if cfg.ReferenceFrame <= 0 {
		cfg.ReferenceFrame = time.Second / 60
	}

	l := &Loop{
		cfg:       cfg,
		store:     deps.Store,
		scene:     deps.Scene,
		camera:    deps.Camera,
		selection: deps.Selection,
		clock:     deps.Clock,
		logger:    deps.Logger,
		recorder:  deps.Recorder,
		bodies:    make(map[string]scene.MeshHandle, len(deps.Catalog.Bodies)),
		central:   scene.InvalidHandle,
		satellite: scene.InvalidHandle,
		theme:     cfg.Theme,
	}
	l.build(deps.Catalog)
	l.apply(l.store.Poses())
	return l
}

func (l *Loop) build(cat registry.Catalog) {
	lb, _ := l.scene.(labeler)
	dec, _ := l.scene.(decorator)

	create := func(name string, size float64, color registry.Color) scene.MeshHandle {
		h := l.scene.CreateBody(size, color)
		if lb != nil {
			lb.SetLabel(h, name)
		}
		l.scene.Add(h)
		return h
	}

	l.central = create(cat.Central.Name, cat.Central.Size, cat.Central.Color)
	l.scene.SetPosition(l.central, astro.Vec3{})

	for _, d := range cat.Bodies {
		l.bodies[d.Name] = create(d.Name, d.Size, d.Color)
		if dec != nil {
			dec.AddRing(d.OrbitRadius, RingColor)
		}
	}

	if cat.Satellite.Name != "" {
		l.satellite = create(cat.Satellite.Name, cat.Satellite.Size, cat.Satellite.Color)
	}

	if dec != nil && l.cfg.Starfield.Count > 0 {
		dec.SetStarfield(astro.GenerateStarfield(l.cfg.Starfield))
	}

	l.logger.Debug("scene built: %d bodies, satellite=%q", len(cat.Bodies), cat.Satellite.Name)
}

// Tick runs one frame: advance kinematics unless paused, step the camera
// transition, then render.
func (l *Loop) Tick() TickResult {
	start := time.Now()
	now := l.clock.Now()

	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
		if elapsed < 0 {
			elapsed = 0
		}
	}
	l.last = now
	l.seq++

	res := TickResult{Seq: l.seq, Elapsed: elapsed}
	if !l.paused {
		res.Ticks = l.ticksFor(elapsed)
		l.apply(l.store.Step(res.Ticks))
		res.Advanced = true
	}

	if l.selection != nil {
		l.selection.Step(elapsed)
	}

	l.scene.Render(l.camera)

	if l.recorder != nil {
		l.recorder.Frame(res.Advanced, res.Ticks, time.Since(start))
	}
	return res
}

// ticksFor converts a frame interval into simulation ticks.
func (l *Loop) ticksFor(elapsed time.Duration) float64 {
	if l.cfg.Mode == FrameCoupled {
		return 1
	}
	ticks := float64(elapsed) / float64(l.cfg.ReferenceFrame)
	if l.cfg.MaxTicks > 0 && ticks > l.cfg.MaxTicks {
		ticks = l.cfg.MaxTicks
	}
	return ticks
}

// apply writes poses into the scene. A missing satellite pose leaves the
// satellite mesh where it was.
func (l *Loop) apply(res orbit.StepResult) {
	for _, b := range res.Bodies {
		h, ok := l.bodies[b.Name]
		if !ok {
			continue
		}
		l.scene.SetPosition(h, b.Position)
		l.scene.SetRotation(h, scene.AxisY, b.Spin)
	}
	if res.Satellite != nil && l.satellite != scene.InvalidHandle {
		l.scene.SetPosition(l.satellite, res.Satellite.Position)
	}
}

// Run ticks every interval until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("run loop stopped after %d frames", l.seq)
			return nil
		case <-ticker.C:
			l.Tick()
		}
	}
}

// RunTicks runs n frames back to back.
func (l *Loop) RunTicks(n int) TickResult {
	var res TickResult
	for i := 0; i < n; i++ {
		res = l.Tick()
	}
	return res
}

// Mesh returns the scene handle of the named orbiting body.
func (l *Loop) Mesh(name string) (scene.MeshHandle, bool) {
	h, ok := l.bodies[name]
	return h, ok
}

// Frames returns how many frames have been ticked.
func (l *Loop) Frames() uint64 {
	return l.seq
}

// Mode returns the configured time mode.
func (l *Loop) Mode() TimeMode {
	return l.cfg.Mode
}
