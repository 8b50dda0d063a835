// Package input routes key presses and pastes: overlays first, then the
// leader key and prefix commands, then direct hotkeys, and finally the
// focused pane.
package input

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/contline/internal/app"
	"github.com/dodorz/contline/internal/config"
)

// HandleInput is the main input coordinator that routes messages to appropriate handlers
func HandleInput(msg tea.Msg, h *app.Host) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, h)
	case tea.PasteMsg:
		return handlePaste(msg, h)
	}
	return h, nil
}

// handlePaste forwards a bracketed paste to the settings form when it is
// open, otherwise to the focused pane.
func handlePaste(msg tea.PasteMsg, h *app.Host) (*app.Host, tea.Cmd) {
	if h.Settings != nil {
		_, cmd := h.Settings.Update(msg)
		return h, cmd
	}
	if h.ShowHelp || h.ShowLogs {
		return h, nil
	}
	if w := h.FocusedPane(); w != nil {
		if err := w.Paste(msg.Content); err != nil {
			h.LogError("Paste failed: %v", err)
		}
	}
	return h, nil
}

// HandleKeyPress handles all keyboard input
func HandleKeyPress(msg tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	key := msg.String()

	// The settings form takes every key while it is open
	if h.Settings != nil {
		_, cmd := h.Settings.Update(msg)
		return h, cmd
	}
	if h.ShowHelp {
		return handleHelpKey(key, h)
	}
	if h.ShowLogs {
		return handleLogViewerKey(key, h)
	}

	// Timeout prefix mode
	if h.PrefixActive && time.Since(h.LastPrefixTime) > config.PrefixCommandTimeout {
		h.PrefixActive = false
	}

	if h.Registry.IsLeader(key) {
		return handlePrefixKey(msg, h)
	}

	if h.PrefixActive {
		return HandlePrefixCommand(msg, h)
	}

	if action, ok := h.Registry.MatchHotkey(key); ok {
		h.Logger.Debug("hotkey", "key", key, "action", action)
		h.Bus.Publish(action)
		return h, nil
	}

	forwardKey(msg, h)
	return h, nil
}

// handlePrefixKey handles leader key activation. A second leader press sends
// the leader itself to the pane.
func handlePrefixKey(msg tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	if h.PrefixActive {
		h.PrefixActive = false
		forwardKey(msg, h)
		return h, nil
	}
	h.PrefixActive = true
	h.LastPrefixTime = time.Now()
	return h, nil
}

// HandlePrefixCommand handles the key after the leader.
func HandlePrefixCommand(msg tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.PrefixActive = false

	key := msg.String()
	action, ok := h.Registry.MatchPrefix(key)
	if !ok {
		h.Logger.Debug("unbound prefix key", "key", key)
		return h, nil
	}
	return GetDispatcher().Dispatch(action, msg, h)
}

func handleHelpKey(key string, h *app.Host) (*app.Host, tea.Cmd) {
	switch key {
	case "esc", "q", "?":
		h.ToggleHelp()
	case "up", "k":
		h.ScrollHelp(-1)
	case "down", "j":
		h.ScrollHelp(1)
	case "pgup", "ctrl+u":
		h.ScrollHelp(-10)
	case "pgdown", "ctrl+d":
		h.ScrollHelp(10)
	}
	return h, nil
}

func handleLogViewerKey(key string, h *app.Host) (*app.Host, tea.Cmd) {
	switch key {
	case "esc", "q":
		h.ToggleLogs()
	case "up", "k":
		h.ScrollLogs(-1)
	case "down", "j":
		h.ScrollLogs(1)
	case "pgup", "ctrl+u":
		h.ScrollLogs(-h.LogPageSize())
	case "pgdown", "ctrl+d":
		h.ScrollLogs(h.LogPageSize())
	case "g", "home":
		h.ScrollLogsToEnd(false)
	case "G", "end":
		h.ScrollLogsToEnd(true)
	}
	return h, nil
}

// forwardKey types msg into the focused pane.
func forwardKey(msg tea.KeyPressMsg, h *app.Host) {
	w := h.FocusedPane()
	if w == nil {
		return
	}
	if err := w.SendKey(KeyEvent(msg)); err != nil {
		h.LogError("Input to %s failed: %v", w.TargetName(), err)
	}
}
