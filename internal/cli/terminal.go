// Package cli implements the computor command line: one-shot solving,
// the interactive prompt, batch files, history queries and the MCP server
// entry point.
package cli

import (
	"os"
	"sync"

	"github.com/HendryAvila/computor/internal/config"
	"github.com/HendryAvila/computor/internal/display"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or 0 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

var (
	autoColors     bool
	autoColorsOnce sync.Once
)

// detectColors applies NO_COLOR, then FORCE_COLOR, then TTY detection.
// See https://no-color.org/.
func detectColors() bool {
	autoColorsOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			autoColors = false
			return
		}
		if os.Getenv("FORCE_COLOR") != "" {
			autoColors = true
			return
		}
		autoColors = IsStdoutTTY()
	})
	return autoColors
}

// ForceColorsEnabled overrides detection for the "auto" mode. Tests only.
func ForceColorsEnabled(enabled bool) {
	autoColorsOnce = sync.Once{}
	autoColorsOnce.Do(func() {
		autoColors = enabled
	})
}

// ColorsEnabled resolves a config color mode. "always" and "never" are
// explicit choices and win over the environment.
func ColorsEnabled(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return detectColors()
	}
}

// ColorProfile returns the termenv profile for mode.
func ColorProfile(mode string) termenv.Profile {
	if !ColorsEnabled(mode) {
		return termenv.Ascii
	}
	profile := termenv.ColorProfile()
	if profile == termenv.Ascii {
		// Forced colors on a pipe: termenv sees no terminal.
		profile = termenv.ANSI256
	}
	return profile
}

// ThemeFor returns the display theme for mode and points lipgloss at the
// matching color profile.
func ThemeFor(mode string) display.Theme {
	if !ColorsEnabled(mode) {
		return display.Theme{}
	}
	lipgloss.SetColorProfile(ColorProfile(mode))
	return display.ColorTheme()
}
