// Package config provides configuration constants, keybinding management, and user settings.
package config

import (
	"time"

	"charm.land/lipgloss/v2"
)

// =============================================================================
// Send Text
// =============================================================================

const (
	// ActionSendText is the hotkey identifier that sends the configured text
	// to the focused pane.
	ActionSendText = "send_text"

	// DefaultSendTextKey is the key bound to ActionSendText out of the box
	DefaultSendTextKey = "shift+enter"

	// SavedFlashDuration is how long the settings form shows its saved marker
	SavedFlashDuration = 2 * time.Second
)

// =============================================================================
// Timeouts and Intervals
// =============================================================================

const (
	// NotificationDuration is the default duration notifications remain visible
	NotificationDuration = 1500 * time.Millisecond

	// PrefixCommandTimeout is the timeout for prefix command mode
	PrefixCommandTimeout = 2 * time.Second

	// ProcessWaitDelay is the delay when waiting for process cleanup
	ProcessWaitDelay = 50 * time.Millisecond

	// ConfigReloadDebounce groups the burst of events editors produce on save
	ConfigReloadDebounce = 100 * time.Millisecond
)

// =============================================================================
// FPS and Refresh Rates
// =============================================================================

const (
	// NormalFPS is the normal refresh rate during regular operation
	NormalFPS = 60

	// IdleFPS is the refresh rate when no pane produced output for a while
	IdleFPS = 10

	// IdleThresholdFrames is the number of consecutive idle frames at NormalFPS
	// before switching to IdleFPS (~500ms at 60 FPS).
	IdleThresholdFrames = 30
)

// =============================================================================
// UI Layout Dimensions
// =============================================================================

const (
	// TabBarHeight is the height of the tab bar at the top
	TabBarHeight = 1

	// StatusBarHeight is the height of the status bar at the bottom
	StatusBarHeight = 1

	// LogViewerWidth is the width of the log viewer overlay
	LogViewerWidth = 80

	// MinPaneWidth is the smallest pane a split will produce
	MinPaneWidth = 4

	// MinPaneHeight is the smallest pane a split will produce
	MinPaneHeight = 2
)

// =============================================================================
// Notification Icons (ASCII-safe)
// =============================================================================

const (
	// NotificationIconError is the error notification icon
	NotificationIconError = "[X]"

	// NotificationIconWarning is the warning notification icon
	NotificationIconWarning = "[!]"

	// NotificationIconSuccess is the success notification icon
	NotificationIconSuccess = "[OK]"

	// NotificationIconInfo is the info notification icon
	NotificationIconInfo = "[i]"
)

// =============================================================================
// Buffer Sizes and Limits
// =============================================================================

const (
	// ReadBufferSize is the size of the PTY read buffer
	ReadBufferSize = 32 * 1024

	// WindowExitChannelBuffer is the buffer size for window exit channel
	WindowExitChannelBuffer = 10

	// MaxLogMessages is the maximum number of log messages to keep in memory
	MaxLogMessages = 100

	// MaxTabs is the maximum number of tabs
	MaxTabs = 9
)

// =============================================================================
// Z-Index Layers
// =============================================================================

const (
	// ZIndexBase is the z-index for panes
	ZIndexBase = 0

	// ZIndexWelcome is the z-index for the screen shown when no tab is open
	ZIndexWelcome = 1

	// ZIndexBars is the z-index for the tab bar and status bar
	ZIndexBars = 10

	// ZIndexHelp is the z-index for help overlay
	ZIndexHelp = 1000

	// ZIndexLogs is the z-index for log viewer overlay
	ZIndexLogs = 1001

	// ZIndexSettings is the z-index for the send-text settings overlay
	ZIndexSettings = 1002

	// ZIndexNotifications is the z-index for notifications
	ZIndexNotifications = 2000
)

// =============================================================================
// Runtime Configuration
// =============================================================================

// BorderStyle controls which border style to use for panes
// Set via --border-style flag or appearance.border_style config
var BorderStyle = "rounded"

// HideStatusBar controls whether the bottom status bar is drawn
// Set via appearance.hide_status_bar config
var HideStatusBar = false

// LeaderKey is the prefix key for commands (default: ctrl+b)
// Set via keybindings.leader_key config
var LeaderKey = "ctrl+b"

// PreferredShell is the shell new panes start; empty means auto-detect
// Set via --shell flag or appearance.preferred_shell config
var PreferredShell = ""

// BorderStyles lists the accepted border_style values.
var BorderStyles = []string{
	"rounded", "normal", "thick", "double", "hidden", "block", "ascii",
	"outer-half-block", "inner-half-block",
}

// GetBorderForStyle returns the lipgloss Border for the current style
func GetBorderForStyle() lipgloss.Border {
	return BorderFor(BorderStyle)
}

// BorderFor returns the lipgloss Border for a border_style value.
func BorderFor(style string) lipgloss.Border {
	switch style {
	case "ascii":
		return lipgloss.ASCIIBorder()
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	case "block":
		return lipgloss.BlockBorder()
	case "outer-half-block":
		return lipgloss.OuterHalfBlockBorder()
	case "inner-half-block":
		return lipgloss.InnerHalfBlockBorder()
	case "rounded":
		fallthrough
	default:
		return lipgloss.RoundedBorder()
	}
}
