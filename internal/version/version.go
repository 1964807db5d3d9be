// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - YAML configuration, Prometheus metrics, wall-clock stepping, snapshot export
// 0.2.0 - Click-to-select with camera flights, info panel, speed sliders
// 0.1.0 - Initial release: terminal orrery, starfield, pause and theme toggles
