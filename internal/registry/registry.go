// Package registry holds the static catalog of bodies that make up the
// orrery: the central body, the orbiting bodies and the satellite.
package registry

import (
	"errors"
	"fmt"
)

// Configuration errors. They are fatal at startup.
var (
	ErrDuplicateName = errors.New("duplicate body name")
	ErrInvalidBody   = errors.New("invalid body definition")
)

// Color is an opaque 0xRRGGBB visual token.
type Color uint32

// Hex returns the color as a "#RRGGBB" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

// BodyDefinition describes one orbiting body. Definitions are created once
// and never mutated.
type BodyDefinition struct {
	Name        string  `yaml:"name"`
	Color       Color   `yaml:"color"`
	OrbitRadius float64 `yaml:"orbit_radius"`
	Size        float64 `yaml:"size"`
	BaseSpeed   float64 `yaml:"speed"` // Signed radians per tick
}

// CentralBody is the static body at the origin. It has no orbit.
type CentralBody struct {
	Name  string  `yaml:"name"`
	Color Color   `yaml:"color"`
	Size  float64 `yaml:"size"`
}

// SatelliteDefinition describes the single satellite. It orbits the body
// named Parent; the reference is a name lookup, never ownership.
type SatelliteDefinition struct {
	Name        string  `yaml:"name"`
	Parent      string  `yaml:"parent"`
	Color       Color   `yaml:"color"`
	OrbitRadius float64 `yaml:"orbit_radius"`
	Size        float64 `yaml:"size"`
	Speed       float64 `yaml:"speed"`
}

// Catalog is the complete set of definitions for one session.
type Catalog struct {
	Central   CentralBody         `yaml:"central"`
	Bodies    []BodyDefinition    `yaml:"bodies"`
	Satellite SatelliteDefinition `yaml:"satellite"`
}

// DefaultCatalog returns the reference star system: the Sun, eight planets
// and the Moon orbiting Earth.
func DefaultCatalog() Catalog {
	return Catalog{
		Central:   CentralBody{Name: "Sun", Color: 0xFFFF00, Size: 5},
		Bodies:    DefaultBodies(),
		Satellite: SatelliteDefinition{Name: "Moon", Parent: "Earth", Color: 0xCCCCCC, OrbitRadius: 1.5, Size: 0.2, Speed: 0.05},
	}
}

// DefaultBodies returns the eight reference planets, innermost first.
func DefaultBodies() []BodyDefinition {
	return []BodyDefinition{
		{Name: "Mercury", Color: 0xAAAAAA, OrbitRadius: 10, Size: 0.5, BaseSpeed: 0.02},
		{Name: "Venus", Color: 0xFFCC99, OrbitRadius: 14, Size: 0.8, BaseSpeed: 0.015},
		{Name: "Earth", Color: 0x3399FF, OrbitRadius: 18, Size: 1, BaseSpeed: 0.01},
		{Name: "Mars", Color: 0xFF3300, OrbitRadius: 22, Size: 0.9, BaseSpeed: 0.008},
		{Name: "Jupiter", Color: 0xFF9966, OrbitRadius: 28, Size: 2, BaseSpeed: 0.005},
		{Name: "Saturn", Color: 0xFFCC66, OrbitRadius: 34, Size: 1.7, BaseSpeed: 0.0035},
		{Name: "Uranus", Color: 0x66FFFF, OrbitRadius: 40, Size: 1.3, BaseSpeed: 0.002},
		{Name: "Neptune", Color: 0x3366FF, OrbitRadius: 46, Size: 1.2, BaseSpeed: 0.0015},
	}
}

// ValidateBodies checks that every definition is well formed and that names
// are unique.
func ValidateBodies(defs []BodyDefinition) error {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("body %d: empty name: %w", i, ErrInvalidBody)
		}
		if seen[d.Name] {
			return fmt.Errorf("body %q: %w", d.Name, ErrDuplicateName)
		}
		seen[d.Name] = true
		if d.OrbitRadius <= 0 {
			return fmt.Errorf("body %q: orbit radius must be > 0, got %v: %w", d.Name, d.OrbitRadius, ErrInvalidBody)
		}
		if d.Size <= 0 {
			return fmt.Errorf("body %q: size must be > 0, got %v: %w", d.Name, d.Size, ErrInvalidBody)
		}
	}
	return nil
}

// Validate checks the whole catalog. The satellite's parent is not checked:
// a missing parent only freezes the satellite.
func (c Catalog) Validate() error {
	if c.Central.Size <= 0 {
		return fmt.Errorf("central body %q: size must be > 0: %w", c.Central.Name, ErrInvalidBody)
	}
	if err := ValidateBodies(c.Bodies); err != nil {
		return err
	}

	sat := c.Satellite
	if sat.OrbitRadius <= 0 || sat.Size <= 0 {
		return fmt.Errorf("satellite %q: radius and size must be > 0: %w", sat.Name, ErrInvalidBody)
	}
	for _, d := range c.Bodies {
		if d.Name == sat.Name || d.Name == c.Central.Name {
			return fmt.Errorf("body %q: %w", d.Name, ErrDuplicateName)
		}
	}
	return nil
}

// OrphanSatellite reports whether the satellite's parent is missing from
// the orbiting bodies.
func (c Catalog) OrphanSatellite() bool {
	_, ok := c.Body(c.Satellite.Parent)
	return !ok
}

// Body looks up an orbiting body definition by name.
func (c Catalog) Body(name string) (BodyDefinition, bool) {
	for _, d := range c.Bodies {
		if d.Name == name {
			return d, true
		}
	}
	return BodyDefinition{}, false
}
