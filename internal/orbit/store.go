// Package orbit holds the mutable simulation state of the orrery and the
// kinematics that advance it.
package orbit

import (
	"fmt"
	"sync"

	"github.com/litescript/ls-orrery/internal/registry"
)

// State is the mutable per-body simulation state.
type State struct {
	Name        string
	Angle       float64 // Radians, unbounded; never normalized
	Speed       float64 // Signed radians per tick
	OrbitRadius float64
	Spin        float64 // Visual rotation about the body's own axis
}

// SatelliteState tracks the single satellite. Parent is a name lookup into
// the store; a missing parent makes the satellite freeze, never fail.
type SatelliteState struct {
	Name        string
	Parent      string
	Angle       float64
	Speed       float64
	OrbitRadius float64
}

// Store owns the OrbitalState of every orbiting body, keyed by name.
// The set of bodies is fixed when the store is created.
//
// Speed is written by the control surface and angle by the run loop.
// Both go through the store's lock.
type Store struct {
	mu sync.RWMutex

	order     []string
	states    map[string]*State
	satellite *SatelliteState
}

// NewStore creates one State per definition with angle 0 and the
// definition's base speed. Duplicate names are a configuration error.
func NewStore(defs []registry.BodyDefinition) (*Store, error) {
	s := &Store{
		order:  make([]string, 0, len(defs)),
		states: make(map[string]*State, len(defs)),
	}
	for _, d := range defs {
		if _, exists := s.states[d.Name]; exists {
			return nil, fmt.Errorf("initialize %q: %w", d.Name, registry.ErrDuplicateName)
		}
		s.states[d.Name] = &State{
			Name:        d.Name,
			Angle:       0,
			Speed:       d.BaseSpeed,
			OrbitRadius: d.OrbitRadius,
		}
		s.order = append(s.order, d.Name)
	}
	return s, nil
}

// NewStoreFromCatalog builds a store for the catalog's bodies and attaches
// its satellite.
func NewStoreFromCatalog(cat registry.Catalog) (*Store, error) {
	s, err := NewStore(cat.Bodies)
	if err != nil {
		return nil, err
	}
	s.AttachSatellite(cat.Satellite)
	return s, nil
}

// AttachSatellite sets (or replaces) the satellite tracked by the store.
func (s *Store) AttachSatellite(def registry.SatelliteDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.satellite = &SatelliteState{
		Name:        def.Name,
		Parent:      def.Parent,
		Speed:       def.Speed,
		OrbitRadius: def.OrbitRadius,
	}
}

// SetSpeed overwrites the angular speed of the named body. Unknown names
// are ignored; the return value reports whether a body matched.
func (s *Store) SetSpeed(name string, speed float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[name]
	if !ok {
		return false
	}
	st.Speed = speed
	return true
}

// Get returns a copy of the named body's state.
func (s *Store) Get(name string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[name]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Satellite returns a copy of the satellite state, if one is attached.
func (s *Store) Satellite() (SatelliteState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.satellite == nil {
		return SatelliteState{}, false
	}
	return *s.satellite, true
}

// Names returns body names in registry order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of orbiting bodies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// States returns a copy of every body's state in registry order.
func (s *Store) States() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]State, len(s.order))
	for i, name := range s.order {
		out[i] = *s.states[name]
	}
	return out
}

// Step advances every body by dt ticks, then moves the satellite around
// its parent's new position. It returns the updated states and, when the
// satellite's parent was found, the satellite's world position.
func (s *Store) Step(dt float64) StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := StepResult{Bodies: make([]BodyPose, len(s.order))}
	for i, name := range s.order {
		st := s.states[name]
		*st = Advance(*st, dt)
		res.Bodies[i] = BodyPose{
			Name:     name,
			Position: Position(*st),
			Spin:     st.Spin,
		}
	}

	if s.satellite == nil {
		return res
	}
	parent, ok := s.states[s.satellite.Parent]
	if !ok {
		return res
	}
	s.satellite.Angle += s.satellite.Speed * dt
	res.Satellite = &SatellitePose{
		Name:     s.satellite.Name,
		Position: SatellitePosition(*s.satellite, Position(*parent)),
	}
	return res
}

// Poses returns the current body and satellite poses without advancing.
func (s *Store) Poses() StepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := StepResult{Bodies: make([]BodyPose, len(s.order))}
	for i, name := range s.order {
		st := s.states[name]
		res.Bodies[i] = BodyPose{Name: name, Position: Position(*st), Spin: st.Spin}
	}
	if s.satellite != nil {
		if parent, ok := s.states[s.satellite.Parent]; ok {
			res.Satellite = &SatellitePose{
				Name:     s.satellite.Name,
				Position: SatellitePosition(*s.satellite, Position(*parent)),
			}
		}
	}
	return res
}
