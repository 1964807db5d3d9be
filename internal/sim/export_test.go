package sim

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/registry"
)

func TestExportSnapshot(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	f.loop.RunTicks(100)
	f.loop.Pause()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	export := f.loop.Export(now)

	if export.Timestamp != now || export.Frames != 100 || !export.Paused {
		t.Errorf("header = %+v", export)
	}
	if export.Mode != "frame" || export.Theme != "dark" {
		t.Errorf("mode=%q theme=%q", export.Mode, export.Theme)
	}
	if len(export.Bodies) != 8 {
		t.Fatalf("bodies = %d, want 8", len(export.Bodies))
	}

	earth := export.Bodies[2]
	if earth.Name != "Earth" || math.Abs(earth.Angle-1.0) > 1e-9 {
		t.Errorf("Earth = %+v", earth)
	}
	if math.Abs(earth.Position[0]-18*math.Cos(1.0)) > 1e-9 {
		t.Errorf("Earth x = %v", earth.Position[0])
	}

	if export.Satellite == nil {
		t.Fatal("satellite missing")
	}
	if export.Satellite.Parent != "Earth" || math.Abs(export.Satellite.Angle-5.0) > 1e-9 {
		t.Errorf("satellite = %+v", export.Satellite)
	}
}

func TestExportOmitsOrphanSatellite(t *testing.T) {
	cat := registry.Catalog{
		Central:   registry.CentralBody{Name: "Sun", Size: 5},
		Bodies:    []registry.BodyDefinition{{Name: "Mars", OrbitRadius: 22, Size: 1, BaseSpeed: 0.008}},
		Satellite: registry.SatelliteDefinition{Name: "Moon", Parent: "Earth", OrbitRadius: 1.5, Size: 0.2, Speed: 0.05},
	}
	f := newFixture(t, cat, DefaultConfig())
	if export := f.loop.Export(time.Now()); export.Satellite != nil {
		t.Errorf("orphan satellite exported: %+v", export.Satellite)
	}
}

func TestSnapshotWriteJSON(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	f.loop.RunTicks(3)

	var buf bytes.Buffer
	if err := f.loop.Export(time.Now()).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"timestamp", "frames", "paused", "time_mode", "theme", "bodies", "satellite"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}
}

func TestSnapshotWriteSummaryTable(t *testing.T) {
	f := newFixture(t, registry.DefaultCatalog(), DefaultConfig())
	f.loop.RunTicks(1)

	var buf bytes.Buffer
	f.loop.Export(time.Now()).WriteSummaryTable(&buf)
	out := buf.String()

	for _, want := range []string{"Mercury", "Neptune", "Moon around Earth", "Total: 8 bodies", "running"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
