package sim

// Theme is the display theme flag.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// ParseTheme parses "dark" or "light".
func ParseTheme(s string) (Theme, bool) {
	switch s {
	case "", "dark":
		return ThemeDark, true
	case "light":
		return ThemeLight, true
	default:
		return ThemeDark, false
	}
}

// Pause freezes kinematics. Rendering continues.
func (l *Loop) Pause() {
	if !l.paused {
		l.logger.Info("simulation paused")
	}
	l.paused = true
}

// Resume restarts kinematics.
func (l *Loop) Resume() {
	if l.paused {
		l.logger.Info("simulation resumed")
	}
	l.paused = false
}

// TogglePause flips the run flag and returns the new paused state.
func (l *Loop) TogglePause() bool {
	if l.paused {
		l.Resume()
	} else {
		l.Pause()
	}
	return l.paused
}

// Paused reports whether kinematics are frozen.
func (l *Loop) Paused() bool {
	return l.paused
}

// ToggleTheme flips between dark and light and returns the new theme.
func (l *Loop) ToggleTheme() Theme {
	if l.theme == ThemeDark {
		l.theme = ThemeLight
	} else {
		l.theme = ThemeDark
	}
	l.logger.Debug("theme = %s", l.theme)
	return l.theme
}

// Theme returns the current display theme.
func (l *Loop) Theme() Theme {
	return l.theme
}
