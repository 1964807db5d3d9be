package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/selection"
	"github.com/litescript/ls-orrery/internal/sim"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if len(cfg.Bodies) != 8 {
		t.Errorf("bodies = %d, want 8", len(cfg.Bodies))
	}
	if cfg.Central.Name != "Sun" || cfg.Satellite.Parent != "Earth" {
		t.Errorf("central=%q satellite parent=%q", cfg.Central.Name, cfg.Satellite.Parent)
	}
	if cfg.Loop.FPS != DefaultFPS {
		t.Errorf("fps = %d, want %d", cfg.Loop.FPS, DefaultFPS)
	}
	if cfg.FrameInterval() != time.Second/DefaultFPS {
		t.Errorf("FrameInterval() = %v", cfg.FrameInterval())
	}

	sc := cfg.SimConfig()
	if sc.Mode != sim.FrameCoupled {
		t.Errorf("mode = %v, want frame", sc.Mode)
	}
	if sc.Starfield.Count != DefaultStarCount {
		t.Errorf("star count = %d, want %d", sc.Starfield.Count, DefaultStarCount)
	}

	sel := cfg.SelectionConfig()
	if sel.Offset != (astro.Vec3{X: 10, Y: 10, Z: 10}) || sel.Duration != 1500*time.Millisecond {
		t.Errorf("selection = %+v", sel)
	}
	if sel.CloseStopsCamera {
		t.Error("CloseStopsCamera defaults to true")
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Bodies) != 8 || cfg.Theme != "dark" {
		t.Errorf("bodies=%d theme=%q", len(cfg.Bodies), cfg.Theme)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
bodies:
  - name: Alpha
    color: "#ff0000"
    orbit_radius: 8
    size: 1
    speed: 0.03
  - name: Beta
    color: 0x00ff00
    orbit_radius: 16
    size: 2
    speed: -0.01
satellite:
  name: Tiny
  parent: Beta
  color: "#ffffff"
  orbit_radius: 3
  size: 0.3
  speed: 0.1
loop:
  fps: 60
  time_mode: wallclock
  reference_frame: 20ms
selection:
  offset: [5, 6, 7]
  duration: 2s
  close_stops_camera: true
  linear: true
starfield:
  hide: true
camera:
  position: [0, 50, 50]
theme: light
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Bodies) != 2 {
		t.Fatalf("bodies = %d, want 2", len(cfg.Bodies))
	}
	if cfg.Bodies[0].Color != 0xFF0000 || cfg.Bodies[1].Color != 0x00FF00 {
		t.Errorf("colors = %s %s", cfg.Bodies[0].Color.Hex(), cfg.Bodies[1].Color.Hex())
	}
	if cfg.Bodies[1].BaseSpeed != -0.01 {
		t.Errorf("Beta speed = %v, want -0.01", cfg.Bodies[1].BaseSpeed)
	}
	if cfg.Central.Name != "Sun" {
		t.Errorf("central = %q, want default Sun", cfg.Central.Name)
	}

	sc := cfg.SimConfig()
	if sc.Mode != sim.WallClock || sc.ReferenceFrame != 20*time.Millisecond {
		t.Errorf("sim config = %+v", sc)
	}
	if sc.Starfield.Count != 0 {
		t.Errorf("hidden starfield has %d points", sc.Starfield.Count)
	}
	if sc.Theme != sim.ThemeLight {
		t.Errorf("theme = %v, want light", sc.Theme)
	}

	sel := cfg.SelectionConfig()
	if sel.Offset != (astro.Vec3{X: 5, Y: 6, Z: 7}) || sel.Duration != 2*time.Second || !sel.CloseStopsCamera {
		t.Errorf("selection = %+v", sel)
	}
	if got := sel.Ease(0.5); got != selection.Linear(0.5) {
		t.Errorf("ease(0.5) = %v, want linear", got)
	}

	if got := cfg.HomePosition(); got != (astro.Vec3{Y: 50, Z: 50}) {
		t.Errorf("HomePosition() = %v", got)
	}
	cam := cfg.NewCamera(2)
	if cam.Position() != (astro.Vec3{Y: 50, Z: 50}) || cam.Target() != (astro.Vec3{}) {
		t.Errorf("camera at %v looking at %v", cam.Position(), cam.Target())
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		want    string
		wantErr error
	}{
		{
			name:    "DuplicateBody",
			yaml:    "bodies:\n  - {name: A, orbit_radius: 5, size: 1, speed: 0.01}\n  - {name: A, orbit_radius: 6, size: 1, speed: 0.01}\nsatellite: {name: M, parent: A, orbit_radius: 1, size: 0.1, speed: 0.1}\n",
			wantErr: registry.ErrDuplicateName,
		},
		{
			name:    "ZeroRadius",
			yaml:    "bodies:\n  - {name: A, orbit_radius: 0, size: 1, speed: 0.01}\nsatellite: {name: M, parent: A, orbit_radius: 1, size: 0.1, speed: 0.1}\n",
			wantErr: registry.ErrInvalidBody,
		},
		{
			name: "BadTimeMode",
			yaml: "loop:\n  time_mode: warp\n",
			want: "loop.time_mode must be 'frame' or 'wallclock', got \"warp\"",
		},
		{
			name: "BadTheme",
			yaml: "theme: neon\n",
			want: "theme must be 'dark' or 'light', got \"neon\"",
		},
		{
			name: "FPSTooHigh",
			yaml: "loop:\n  fps: 1000\n",
			want: "loop.fps must be <= 240",
		},
		{
			name: "ClipPlanes",
			yaml: "camera:\n  near: 10\n  far: 5\n",
			want: "camera.near must be < camera.far",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
			if tc.want != "" && err.Error() != tc.want {
				t.Errorf("error = %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoad_BodiesWithoutSatelliteParent(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "DefaultMoonWithoutEarth",
			yaml: "bodies: [{name: Mars, orbit_radius: 22, size: 0.9, speed: 0.008}]\n",
		},
		{
			name: "ExplicitUnknownParent",
			yaml: "satellite: {name: M, parent: Pluto, orbit_radius: 1, size: 0.1, speed: 0.1}\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.yaml))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !cfg.Catalog().OrphanSatellite() {
				t.Errorf("satellite parent %q unexpectedly found", cfg.Satellite.Parent)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := writeTempConfig(t, "bodies: [\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}
