// Package controls implements the live speed controls: one slider per
// orbiting body, writing straight into the orbital state store.
package controls

import (
	"math"
	"strconv"
	"strings"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/registry"
)

// Slider range. These are UI affordances; the store accepts any value.
const (
	SpeedMin  = 0.0005
	SpeedMax  = 0.05
	SpeedStep = 0.0005
)

// SpeedSetter is the narrow view of the state store the surface writes to.
type SpeedSetter interface {
	SetSpeed(name string, speed float64) bool
}

// Outcome classifies a change event.
type Outcome string

const (
	OutcomeApplied Outcome = "applied" // Speed written to the store
	OutcomeIgnored Outcome = "ignored" // No body with that name
	OutcomeInvalid Outcome = "invalid" // Value did not parse
)

// Recorder receives change outcomes. A nil Recorder is allowed.
type Recorder interface {
	SpeedChange(outcome Outcome)
}

// Slider is one control bound to a body by name.
type Slider struct {
	Name  string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// Fraction returns the slider position in [0, 1] for drawing.
func (s Slider) Fraction() float64 {
	if s.Max <= s.Min {
		return 0
	}
	f := (s.Value - s.Min) / (s.Max - s.Min)
	return math.Max(0, math.Min(1, f))
}

// Surface holds the sliders in registry order.
type Surface struct {
	store    SpeedSetter
	sliders  []Slider
	index    map[string]int
	logger   *logging.Logger
	recorder Recorder
}

// NewSurface builds one slider per definition, initialized to the body's
// base speed.
func NewSurface(store SpeedSetter, defs []registry.BodyDefinition, logger *logging.Logger) *Surface {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Surface{
		store:   store,
		sliders: make([]Slider, len(defs)),
		index:   make(map[string]int, len(defs)),
		logger:  logger,
	}
	for i, d := range defs {
		s.sliders[i] = Slider{
			Name:  d.Name,
			Min:   SpeedMin,
			Max:   SpeedMax,
			Step:  SpeedStep,
			Value: d.BaseSpeed,
		}
		s.index[d.Name] = i
	}
	return s
}

// SetRecorder attaches a metrics recorder.
func (s *Surface) SetRecorder(r Recorder) {
	s.recorder = r
}

// Sliders returns a copy of every slider.
func (s *Surface) Sliders() []Slider {
	out := make([]Slider, len(s.sliders))
	copy(out, s.sliders)
	return out
}

// Slider returns the slider bound to name.
func (s *Surface) Slider(name string) (Slider, bool) {
	i, ok := s.index[name]
	if !ok {
		return Slider{}, false
	}
	return s.sliders[i], true
}

// OnChange handles a raw value from the control bound to name. The value
// is written to the store as parsed, without clamping. Unparseable input
// and unknown names are dropped.
func (s *Surface) OnChange(name, raw string) Outcome {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		s.logger.Debug("ignoring speed %q for %s: not a number", raw, name)
		s.record(OutcomeInvalid)
		return OutcomeInvalid
	}

	if !s.store.SetSpeed(name, v) {
		s.logger.Debug("ignoring speed for unknown body %q", name)
		s.record(OutcomeIgnored)
		return OutcomeIgnored
	}

	if i, ok := s.index[name]; ok {
		s.sliders[i].Value = v
	}
	s.logger.Debug("speed %s = %g", name, v)
	s.record(OutcomeApplied)
	return OutcomeApplied
}

// Nudge moves the named slider by whole steps, clamped to its range, and
// emits the new value through OnChange the way a range input would.
func (s *Surface) Nudge(name string, steps int) Outcome {
	i, ok := s.index[name]
	if !ok {
		s.record(OutcomeIgnored)
		return OutcomeIgnored
	}
	sl := s.sliders[i]

	// Snap to the step grid first so repeated nudges stay on it.
	n := math.Round((sl.Value-sl.Min)/sl.Step) + float64(steps)
	v := sl.Min + n*sl.Step
	v = math.Max(sl.Min, math.Min(sl.Max, v))

	return s.OnChange(name, FormatSpeed(v))
}

// Reset puts every slider and body back to its definition's exact base
// speed.
func (s *Surface) Reset(defs []registry.BodyDefinition) {
	for _, d := range defs {
		if !s.store.SetSpeed(d.Name, d.BaseSpeed) {
			s.record(OutcomeIgnored)
			continue
		}
		if i, ok := s.index[d.Name]; ok {
			s.sliders[i].Value = d.BaseSpeed
		}
		s.record(OutcomeApplied)
	}
}

// FormatSpeed renders a speed without losing precision. Values on the
// slider's step grid print with four decimals.
func FormatSpeed(v float64) string {
	if r := math.Round(v/SpeedStep) * SpeedStep; math.Abs(v-r) < 1e-12 {
		return strconv.FormatFloat(r, 'f', 4, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Surface) record(o Outcome) {
	if s.recorder != nil {
		s.recorder.SpeedChange(o)
	}
}
