package orbit

import (
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
)

// SpinPerTick is the visual self-rotation applied to every orbiting body
// per tick, independent of its angular speed.
const SpinPerTick = 0.01

// BodyPose is a body's world position and spin after a step.
type BodyPose struct {
	Name     string
	Position astro.Vec3
	Spin     float64
}

// SatellitePose is the satellite's world position after a step.
type SatellitePose struct {
	Name     string
	Position astro.Vec3
}

// StepResult collects the poses produced by one step. Satellite is nil
// when the satellite's parent could not be found.
type StepResult struct {
	Bodies    []BodyPose
	Satellite *SatellitePose
}

// Advance returns s moved forward by dt ticks: angle += speed*dt.
// With dt = 1 this is exactly one unit of angular speed per frame.
func Advance(s State, dt float64) State {
	s.Angle += s.Speed * dt
	s.Spin += SpinPerTick * dt
	return s
}

// Position maps a state to its point on the flat orbital plane (y = 0).
func Position(s State) astro.Vec3 {
	return astro.Vec3{
		X: s.OrbitRadius * math.Cos(s.Angle),
		Y: 0,
		Z: s.OrbitRadius * math.Sin(s.Angle),
	}
}

// SatellitePosition places the satellite on a circle around parent. The
// circle lies in the plane y = parent.Y.
func SatellitePosition(sat SatelliteState, parent astro.Vec3) astro.Vec3 {
	return astro.Vec3{
		X: parent.X + sat.OrbitRadius*math.Cos(sat.Angle),
		Y: parent.Y,
		Z: parent.Z + sat.OrbitRadius*math.Sin(sat.Angle),
	}
}
