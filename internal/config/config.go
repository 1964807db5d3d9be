// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/selection"
	"github.com/litescript/ls-orrery/internal/sim"
)

// Terminal defaults. A character grid cannot show ten thousand stars, so
// the backdrop is thinner than the reference field.
const (
	DefaultFPS            = 30
	DefaultStarCount      = 1200
	DefaultMaxTicks       = 10
	maxFPS                = 240
	defaultReferenceFrame = time.Second / 60
)

type Config struct {
	Central   registry.CentralBody         `yaml:"central"`
	Bodies    []registry.BodyDefinition    `yaml:"bodies"`
	Satellite registry.SatelliteDefinition `yaml:"satellite"`
	Loop      LoopConfig                   `yaml:"loop"`
	Camera    CameraConfig                 `yaml:"camera"`
	Selection SelectionConfig              `yaml:"selection"`
	Starfield StarfieldConfig              `yaml:"starfield"`
	Theme     string                       `yaml:"theme"`
	Log       LogConfig                    `yaml:"log"`
	Metrics   MetricsConfig                `yaml:"metrics"`
}

type LoopConfig struct {
	FPS            int           `yaml:"fps"`
	TimeMode       string        `yaml:"time_mode"`
	ReferenceFrame time.Duration `yaml:"reference_frame"`
	MaxTicks       float64       `yaml:"max_ticks"`
	StartPaused    bool          `yaml:"start_paused"`
}

type CameraConfig struct {
	FovDeg   float64     `yaml:"fov_deg"`
	Near     float64     `yaml:"near"`
	Far      float64     `yaml:"far"`
	Position *[3]float64 `yaml:"position"`
}

type SelectionConfig struct {
	Offset           *[3]float64   `yaml:"offset"`
	Duration         time.Duration `yaml:"duration"`
	CloseStopsCamera bool          `yaml:"close_stops_camera"`
	Linear           bool          `yaml:"linear"`
}

type StarfieldConfig struct {
	Hide   bool    `yaml:"hide"`
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"`
	Seed   uint64  `yaml:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads, defaults and validates the file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document, applies defaults and validates it.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	ref := registry.DefaultCatalog()

	// An empty bodies list means the reference system. The central body
	// and satellite default as a whole when left out.
	if len(cfg.Bodies) == 0 {
		cfg.Bodies = registry.DefaultBodies()
	}
	if cfg.Central.Name == "" {
		cfg.Central = ref.Central
	}
	if cfg.Satellite.Name == "" {
		cfg.Satellite = ref.Satellite
	}

	if cfg.Loop.FPS <= 0 {
		cfg.Loop.FPS = DefaultFPS
	}
	if cfg.Loop.TimeMode == "" {
		cfg.Loop.TimeMode = sim.FrameCoupled.String()
	}
	if cfg.Loop.ReferenceFrame <= 0 {
		cfg.Loop.ReferenceFrame = defaultReferenceFrame
	}
	if cfg.Loop.MaxTicks <= 0 {
		cfg.Loop.MaxTicks = DefaultMaxTicks
	}

	if cfg.Camera.FovDeg <= 0 {
		cfg.Camera.FovDeg = scene.DefaultFovYDeg
	}
	if cfg.Camera.Near <= 0 {
		cfg.Camera.Near = scene.DefaultNear
	}
	if cfg.Camera.Far <= 0 {
		cfg.Camera.Far = scene.DefaultFar
	}
	if cfg.Camera.Position == nil {
		p := scene.DefaultCameraPosition
		cfg.Camera.Position = &[3]float64{p.X, p.Y, p.Z}
	}

	sel := selection.DefaultConfig()
	if cfg.Selection.Offset == nil {
		cfg.Selection.Offset = &[3]float64{sel.Offset.X, sel.Offset.Y, sel.Offset.Z}
	}
	if cfg.Selection.Duration <= 0 {
		cfg.Selection.Duration = sel.Duration
	}

	stars := astro.DefaultStarfieldConfig()
	if cfg.Starfield.Count <= 0 {
		cfg.Starfield.Count = DefaultStarCount
	}
	if cfg.Starfield.Spread <= 0 {
		cfg.Starfield.Spread = stars.Spread
	}
	if cfg.Starfield.Seed == 0 {
		cfg.Starfield.Seed = stars.Seed
	}

	if cfg.Theme == "" {
		cfg.Theme = sim.ThemeDark.String()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks a defaulted configuration.
func (c Config) Validate() error {
	if err := c.Catalog().Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if c.Loop.FPS > maxFPS {
		return fmt.Errorf("loop.fps must be <= %d", maxFPS)
	}
	if _, ok := sim.ParseTimeMode(c.Loop.TimeMode); !ok {
		return fmt.Errorf("loop.time_mode must be 'frame' or 'wallclock', got %q", c.Loop.TimeMode)
	}
	if c.Camera.Near >= c.Camera.Far {
		return fmt.Errorf("camera.near must be < camera.far")
	}
	if c.Camera.FovDeg >= 180 {
		return fmt.Errorf("camera.fov_deg must be < 180")
	}
	if _, ok := sim.ParseTheme(c.Theme); !ok {
		return fmt.Errorf("theme must be 'dark' or 'light', got %q", c.Theme)
	}
	return nil
}

// Catalog returns the body catalog described by the file.
func (c Config) Catalog() registry.Catalog {
	return registry.Catalog{
		Central:   c.Central,
		Bodies:    c.Bodies,
		Satellite: c.Satellite,
	}
}

// FrameInterval is the time between display refreshes.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Loop.FPS)
}

// SimConfig converts the loop and starfield sections.
func (c Config) SimConfig() sim.Config {
	mode, _ := sim.ParseTimeMode(c.Loop.TimeMode)
	theme, _ := sim.ParseTheme(c.Theme)

	stars := astro.StarfieldConfig{
		Count:  c.Starfield.Count,
		Spread: c.Starfield.Spread,
		Seed:   c.Starfield.Seed,
	}
	if c.Starfield.Hide {
		stars.Count = 0
	}

	return sim.Config{
		Mode:           mode,
		ReferenceFrame: c.Loop.ReferenceFrame,
		MaxTicks:       c.Loop.MaxTicks,
		Theme:          theme,
		Starfield:      stars,
	}
}

// SelectionConfig converts the selection section.
func (c Config) SelectionConfig() selection.Config {
	cfg := selection.DefaultConfig()
	if c.Selection.Offset != nil {
		cfg.Offset = vec(*c.Selection.Offset)
	}
	cfg.Duration = c.Selection.Duration
	cfg.CloseStopsCamera = c.Selection.CloseStopsCamera
	if c.Selection.Linear {
		cfg.Ease = selection.Linear
	}
	return cfg
}

// NewCamera builds the perspective camera described by the camera section,
// aimed at the origin.
func (c Config) NewCamera(aspect float64) *scene.PerspectiveCamera {
	cam := scene.NewPerspectiveCamera(c.Camera.FovDeg, aspect, c.Camera.Near, c.Camera.Far)
	if c.Camera.Position != nil {
		cam.SetPosition(vec(*c.Camera.Position))
	}
	cam.LookAt(astro.Vec3{})
	return cam
}

// HomePosition is where the camera starts and where "fly home" returns.
func (c Config) HomePosition() astro.Vec3 {
	if c.Camera.Position == nil {
		return scene.DefaultCameraPosition
	}
	return vec(*c.Camera.Position)
}

func vec(a [3]float64) astro.Vec3 {
	return astro.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
