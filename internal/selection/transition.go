package selection

import (
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseOutQuad decelerates toward the end: 1 - (1-t)^2.
func EaseOutQuad(t float64) float64 {
	u := 1 - t
	return 1 - u*u
}

// Transition is a timed camera move from Start to Destination. Every step
// re-aims the camera at LookAt.
type Transition struct {
	Start       astro.Vec3
	Destination astro.Vec3
	LookAt      astro.Vec3
	Duration    time.Duration
	Elapsed     time.Duration
	Ease        Easing
}

// Progress returns linear progress in [0, 1].
func (tr *Transition) Progress() float64 {
	if tr.Duration <= 0 {
		return 1
	}
	p := float64(tr.Elapsed) / float64(tr.Duration)
	if p > 1 {
		return 1
	}
	return p
}

// Done reports whether the transition has reached its destination.
func (tr *Transition) Done() bool {
	return tr.Progress() >= 1
}

// Step advances the transition by dt and applies the interpolated pose to
// cam. It reports whether the transition finished on this step.
func (tr *Transition) Step(cam scene.Camera, dt time.Duration) bool {
	if dt > 0 {
		tr.Elapsed += dt
	}
	ease := tr.Ease
	if ease == nil {
		ease = Linear
	}
	cam.SetPosition(tr.Start.Lerp(tr.Destination, ease(tr.Progress())))
	cam.LookAt(tr.LookAt)
	return tr.Done()
}
