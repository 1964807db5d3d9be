package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// SnapshotExport is the JSON-serializable state of a running orrery.
type SnapshotExport struct {
	Timestamp time.Time        `json:"timestamp"`
	Frames    uint64           `json:"frames"`
	Paused    bool             `json:"paused"`
	Mode      string           `json:"time_mode"`
	Theme     string           `json:"theme"`
	Bodies    []BodyExport     `json:"bodies"`
	Satellite *SatelliteExport `json:"satellite,omitempty"`
}

// BodyExport is one orbiting body.
type BodyExport struct {
	Name        string     `json:"name"`
	Angle       float64    `json:"angle_rad"`
	Speed       float64    `json:"speed_rad_per_tick"`
	OrbitRadius float64    `json:"orbit_radius"`
	Position    [3]float64 `json:"position"`
}

// SatelliteExport is the satellite and the body it circles.
type SatelliteExport struct {
	Name     string     `json:"name"`
	Parent   string     `json:"parent"`
	Angle    float64    `json:"angle_rad"`
	Position [3]float64 `json:"position"`
}

// Export captures the loop's orbital state. The satellite is omitted when
// its parent is missing.
func (l *Loop) Export(now time.Time) *SnapshotExport {
	poses := l.store.Poses()
	states := l.store.States()

	export := &SnapshotExport{
		Timestamp: now,
		Frames:    l.seq,
		Paused:    l.paused,
		Mode:      l.cfg.Mode.String(),
		Theme:     l.theme.String(),
		Bodies:    make([]BodyExport, len(states)),
	}
	for i, st := range states {
		p := poses.Bodies[i].Position
		export.Bodies[i] = BodyExport{
			Name:        st.Name,
			Angle:       st.Angle,
			Speed:       st.Speed,
			OrbitRadius: st.OrbitRadius,
			Position:    [3]float64{p.X, p.Y, p.Z},
		}
	}

	if sat, ok := l.store.Satellite(); ok && poses.Satellite != nil {
		p := poses.Satellite.Position
		export.Satellite = &SatelliteExport{
			Name:     sat.Name,
			Parent:   sat.Parent,
			Angle:    sat.Angle,
			Position: [3]float64{p.X, p.Y, p.Z},
		}
	}
	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a text table to the given writer.
func (s *SnapshotExport) WriteSummaryTable(w io.Writer) {
	state := "running"
	if s.Paused {
		state = "paused"
	}
	fmt.Fprintf(w, "Orrery @ %s  frame %d  %s  (%s)\n", s.Timestamp.Format(time.RFC3339), s.Frames, state, s.Mode)
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "%-10s %8s %12s %10s %9s %9s\n", "Body", "Radius", "Speed", "Angle", "X", "Z")
	fmt.Fprintln(w, strings.Repeat("─", 64))

	for _, b := range s.Bodies {
		fmt.Fprintf(w, "%-10s %8.1f %12g %10.3f %9.2f %9.2f\n",
			b.Name, b.OrbitRadius, b.Speed, b.Angle, b.Position[0], b.Position[2])
	}
	if s.Satellite != nil {
		fmt.Fprintf(w, "\n%s around %s: angle %.3f at (%.2f, %.2f)\n",
			s.Satellite.Name, s.Satellite.Parent, s.Satellite.Angle, s.Satellite.Position[0], s.Satellite.Position[2])
	}
	fmt.Fprintf(w, "\nTotal: %d bodies\n", len(s.Bodies))
}
