// Package observability exposes the orrery's Prometheus metrics.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-orrery/internal/controls"
)

// Collector bundles the run-loop, picking, control and selection metrics.
// It satisfies the Recorder interfaces of sim, controls and selection, and
// the ui package's pick recorder.
type Collector struct {
	gatherer prometheus.Gatherer

	Frames          *prometheus.CounterVec
	FrameDuration   prometheus.Histogram
	SimTicks        prometheus.Counter
	Paused          prometheus.Gauge
	Picks           *prometheus.CounterVec
	SpeedChanges    *prometheus.CounterVec
	Selections      *prometheus.CounterVec
	ActiveTransfers prometheus.Gauge
	Bodies          prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil. Registering twice against the same
// registry reuses the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_frames_total",
		Help: "Rendered frames, labeled by whether kinematics advanced or were paused.",
	}, []string{"state"}), "orrery_frames_total")
	if err != nil {
		return nil, err
	}

	frameDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_frame_duration_seconds",
		Help:    "Time spent in one run-loop tick, including rendering.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "orrery_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_sim_ticks_total",
		Help: "Simulation ticks applied to the orbital state (fractional in wall-clock mode).",
	}), "orrery_sim_ticks_total")
	if err != nil {
		return nil, err
	}

	paused, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_paused",
		Help: "1 while the simulation is paused.",
	}), "orrery_paused")
	if err != nil {
		return nil, err
	}

	picks, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_picks_total",
		Help: "Pointer picks, labeled by result (hit or miss).",
	}, []string{"result"}), "orrery_picks_total")
	if err != nil {
		return nil, err
	}

	speedChanges, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_speed_changes_total",
		Help: "Speed control change events, labeled by outcome.",
	}, []string{"outcome"}), "orrery_speed_changes_total")
	if err != nil {
		return nil, err
	}

	selections, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_selections_total",
		Help: "Selection changes, labeled by action (select or close).",
	}, []string{"action"}), "orrery_selections_total")
	if err != nil {
		return nil, err
	}

	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_camera_transitions_active",
		Help: "Camera transitions currently in flight (0 or 1).",
	}), "orrery_camera_transitions_active")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_bodies",
		Help: "Number of orbiting bodies in the state store.",
	}), "orrery_bodies")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		Frames:          frames,
		FrameDuration:   frameDuration,
		SimTicks:        ticks,
		Paused:          paused,
		Picks:           picks,
		SpeedChanges:    speedChanges,
		Selections:      selections,
		ActiveTransfers: active,
		Bodies:          bodies,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the gatherer the collector registered with.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Frame records one run-loop tick.
func (c *Collector) Frame(advanced bool, ticks float64, took time.Duration) {
	if c == nil {
		return
	}
	state := "paused"
	if advanced {
		state = "advanced"
		c.Paused.Set(0)
	} else {
		c.Paused.Set(1)
	}
	c.Frames.WithLabelValues(state).Inc()
	if ticks > 0 {
		c.SimTicks.Add(ticks)
	}
	c.FrameDuration.Observe(took.Seconds())
}

// Pick records a pointer pick.
func (c *Collector) Pick(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.Picks.WithLabelValues(result).Inc()
}

// SpeedChange records a control change outcome.
func (c *Collector) SpeedChange(outcome controls.Outcome) {
	if c == nil {
		return
	}
	c.SpeedChanges.WithLabelValues(string(outcome)).Inc()
}

// SelectionChanged records a selection; an empty name is a close.
func (c *Collector) SelectionChanged(name string) {
	if c == nil {
		return
	}
	action := "select"
	if name == "" {
		action = "close"
	}
	c.Selections.WithLabelValues(action).Inc()
}

// TransitionsActive sets the in-flight camera transition gauge.
func (c *Collector) TransitionsActive(n int) {
	if c == nil {
		return
	}
	c.ActiveTransfers.Set(float64(n))
}

// SetBodies sets the body count gauge.
func (c *Collector) SetBodies(n int) {
	if c == nil {
		return
	}
	c.Bodies.Set(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
