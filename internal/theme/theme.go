// Package theme provides color themes for contline's chrome and panes.
package theme

import (
	"fmt"
	"image/color"
	"log"
	"sort"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry and selects themeName. Custom
// themes are loaded from themesDir first so they can be selected by ID.
// If themeName is empty, theming is disabled and standard terminal colors
// are used. An unknown name selects "default" and returns an error.
func Initialize(themeName, themesDir string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if themesDir != "" {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Printf("Warning: error loading custom themes: %v", err)
		}
	}

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// ListThemes returns the IDs of every built-in theme plus the custom themes
// found in themesDir, sorted.
func ListThemes(themesDir string) []string {
	tint.NewDefaultRegistry()
	if themesDir != "" {
		_, _ = LoadCustomThemes(themesDir)
	}
	ids := tint.TintIDs()
	sort.Strings(ids)
	return ids
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// pick returns the theme color chosen by f, or fallback when theming is off.
func pick(fallback string, f func(*tint.Tint) *tint.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	if c := f(t); c != nil {
		return c
	}
	return lipgloss.Color(fallback)
}

// GetANSIPalette returns the 16 ANSI colors (0-15) from the current theme.
// These are injected into each pane's emulator.
func GetANSIPalette() [16]color.Color {
	t := Current()
	if t == nil {
		return [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		}
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// TerminalFg returns the default foreground color of pane text.
func TerminalFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) *tint.Color { return t.Fg })
}

// TerminalBg returns the default background color of panes.
func TerminalBg() color.Color {
	return pick("#000000", func(t *tint.Tint) *tint.Color { return t.Bg })
}

// TerminalCursor returns the color for the terminal cursor.
func TerminalCursor() color.Color {
	return pick("#00ff00", func(t *tint.Tint) *tint.Color { return t.Cursor })
}

// BorderUnfocused returns the border color of panes without focus.
func BorderUnfocused() color.Color {
	return pick("#FAAAAA", func(t *tint.Tint) *tint.Color { return t.Red })
}

// BorderFocused returns the border color of the focused pane.
func BorderFocused() color.Color {
	return pick("#AAFFAA", func(t *tint.Tint) *tint.Color { return t.BrightGreen })
}

// BorderPrefix returns the focused border color while prefix mode is active.
func BorderPrefix() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// TabActiveFg returns the foreground of the active tab label.
func TabActiveFg() color.Color {
	return pick("#000000", func(t *tint.Tint) *tint.Color { return t.Black })
}

// TabActiveBg returns the background of the active tab label.
func TabActiveBg() color.Color {
	return pick("#00cdcd", func(t *tint.Tint) *tint.Color { return t.Cyan })
}

// TabInactiveFg returns the foreground of inactive tab labels.
func TabInactiveFg() color.Color {
	return pick("#a0a0b0", func(t *tint.Tint) *tint.Color { return t.BrightBlack })
}

// BarBg returns the background of the tab bar and status bar.
func BarBg() color.Color {
	return lipgloss.Color("#1a1a2e")
}

// StatusFg returns the foreground of status bar text.
func StatusFg() color.Color {
	return lipgloss.Color("#a0a0b0")
}

// StatusAccent returns the color of the send-text preview in the status bar.
func StatusAccent() color.Color {
	return pick("#ffff00", func(t *tint.Tint) *tint.Color { return t.BrightYellow })
}

// PrefixActive returns the color of the prefix indicator while active.
func PrefixActive() color.Color {
	return pick("#cd0000", func(t *tint.Tint) *tint.Color { return t.Red })
}

// NotificationError returns the color for error notifications.
func NotificationError() color.Color {
	return pick("#cd0000", func(t *tint.Tint) *tint.Color { return t.Red })
}

// NotificationWarning returns the color for warning notifications.
func NotificationWarning() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) *tint.Color { return t.Yellow })
}

// NotificationSuccess returns the color for success notifications.
func NotificationSuccess() color.Color {
	return pick("#00cd00", func(t *tint.Tint) *tint.Color { return t.Green })
}

// NotificationInfo returns the color for info notifications.
func NotificationInfo() color.Color {
	return pick("#0000ee", func(t *tint.Tint) *tint.Color { return t.Blue })
}

// NotificationFg returns the foreground color for notifications.
func NotificationFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) *tint.Color { return t.Fg })
}

// LogViewerTitle returns the color for log viewer titles.
func LogViewerTitle() color.Color {
	return lipgloss.Color("14")
}

// LogViewerError returns the color for error messages in the log viewer.
func LogViewerError() color.Color {
	return lipgloss.Color("9")
}

// LogViewerWarn returns the color for warning messages in the log viewer.
func LogViewerWarn() color.Color {
	return lipgloss.Color("11")
}

// LogViewerInfo returns the color for info messages in the log viewer.
func LogViewerInfo() color.Color {
	return lipgloss.Color("10")
}

// LogViewerDebug returns the color for debug messages in the log viewer.
func LogViewerDebug() color.Color {
	return lipgloss.Color("12")
}

// OverlayBg returns the background color shared by the help, log and
// settings overlays.
func OverlayBg() color.Color {
	return lipgloss.Color("#1a1a2a")
}

// HelpKey returns the color of key names in the help overlay.
func HelpKey() color.Color {
	return lipgloss.Color("#ff6b6b")
}

// HelpText returns the color of descriptions in the help overlay.
func HelpText() color.Color {
	return lipgloss.Color("7")
}

// HelpSection returns the color of section titles in the help overlay.
func HelpSection() color.Color {
	return lipgloss.Color("11")
}

// SettingsTitle returns the color for the settings form title.
func SettingsTitle() color.Color {
	return lipgloss.Color("14")
}

// SettingsLabel returns the color for settings field labels.
func SettingsLabel() color.Color {
	return lipgloss.Color("11")
}

// SettingsPreview returns the color of the rendered text preview.
func SettingsPreview() color.Color {
	return pick("#00ffff", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// SettingsSaved returns the color of the saved confirmation.
func SettingsSaved() color.Color {
	return pick("#00cd00", func(t *tint.Tint) *tint.Color { return t.Green })
}

// SettingsMuted returns the color of usage hints.
func SettingsMuted() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns values in range 0-65535, convert to 0-255
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
