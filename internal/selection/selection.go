// Package selection tracks which body is selected and flies the camera to
// it.
package selection

import (
	"fmt"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Phase is the machine's state.
type Phase int

const (
	Idle          Phase = iota // Nothing selected, info panel hidden
	Transitioning              // Selected, camera still flying
	Settled                    // Selected, camera at rest
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Transitioning:
		return "transitioning"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Selection describes the selected body. The zero value means nothing is
// selected.
type Selection struct {
	Name          string
	WorldPosition astro.Vec3
	OrbitRadius   float64
}

// Selected reports whether s names a body.
func (s Selection) Selected() bool {
	return s.Name != ""
}

// Details is the info panel's second line.
func (s Selection) Details() string {
	return fmt.Sprintf("Distance: %g AU", s.OrbitRadius)
}

// Config controls camera transitions.
type Config struct {
	Offset           astro.Vec3    // Camera destination relative to the target
	Duration         time.Duration // Length of a transition
	CloseStopsCamera bool          // Close also cancels an in-flight transition
	Ease             Easing
}

// DefaultConfig returns the reference behavior: a 1.5s eased flight to
// target + (10, 10, 10) that keeps running after the panel is closed.
func DefaultConfig() Config {
	return Config{
		Offset:   astro.Vec3{X: 10, Y: 10, Z: 10},
		Duration: 1500 * time.Millisecond,
		Ease:     EaseOutQuad,
	}
}

// Recorder receives selection events. A nil Recorder is allowed.
type Recorder interface {
	SelectionChanged(name string)
	TransitionsActive(n int)
}

// Machine owns the selection and the single active camera transition.
// It is driven from the host's update loop and is not safe for concurrent
// use.
type Machine struct {
	cfg      Config
	camera   scene.Camera
	recorder Recorder

	selection  Selection
	transition *Transition
}

// NewMachine creates an idle machine driving cam.
func NewMachine(cam scene.Camera, cfg Config) *Machine {
	if cfg.Duration < 0 {
		cfg.Duration = 0
	}
	return &Machine{cfg: cfg, camera: cam}
}

// SetRecorder attaches a metrics recorder.
func (m *Machine) SetRecorder(r Recorder) {
	m.recorder = r
}

// Phase returns the externally visible state.
func (m *Machine) Phase() Phase {
	if !m.selection.Selected() {
		return Idle
	}
	if m.transition != nil {
		return Transitioning
	}
	return Settled
}

// Selection returns the current selection.
func (m *Machine) Selection() Selection {
	return m.selection
}

// Transition returns a copy of the active transition, if any. It may be
// running while the machine is Idle when the panel was closed mid-flight.
func (m *Machine) Transition() (Transition, bool) {
	if m.transition == nil {
		return Transition{}, false
	}
	return *m.transition, true
}

// Moving reports whether a camera transition is in flight.
func (m *Machine) Moving() bool {
	return m.transition != nil
}

// Select records a successful pick and starts a transition from the
// camera's current position. Any running transition is dropped.
func (m *Machine) Select(name string, pos astro.Vec3, orbitRadius float64) {
	m.selection = Selection{Name: name, WorldPosition: pos, OrbitRadius: orbitRadius}
	m.FlyTo(pos.Add(m.cfg.Offset), pos)

	if m.recorder != nil {
		m.recorder.SelectionChanged(name)
	}
}

// FlyTo starts a transition to destination aimed at lookAt without
// changing the selection.
func (m *Machine) FlyTo(destination, lookAt astro.Vec3) {
	m.transition = &Transition{
		Start:       m.camera.Position(),
		Destination: destination,
		LookAt:      lookAt,
		Duration:    m.cfg.Duration,
		Ease:        m.cfg.Ease,
	}
	m.reportActive()
}

// Step advances the active transition by dt. A finished transition is
// discarded, which moves Transitioning to Settled.
func (m *Machine) Step(dt time.Duration) {
	if m.transition == nil {
		return
	}
	if m.transition.Step(m.camera, dt) {
		m.transition = nil
		m.reportActive()
	}
}

// Close hides the info panel. The camera keeps moving unless the machine
// is configured with CloseStopsCamera.
func (m *Machine) Close() {
	m.selection = Selection{}
	if m.cfg.CloseStopsCamera {
		m.Cancel()
	}
	if m.recorder != nil {
		m.recorder.SelectionChanged("")
	}
}

// Cancel stops camera motion where it is. The selection is untouched.
func (m *Machine) Cancel() {
	if m.transition == nil {
		return
	}
	m.transition = nil
	m.reportActive()
}

func (m *Machine) reportActive() {
	if m.recorder == nil {
		return
	}
	if m.transition != nil {
		m.recorder.TransitionsActive(1)
	} else {
		m.recorder.TransitionsActive(0)
	}
}
