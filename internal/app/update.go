package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/settings"
)

// TickerMsg represents a periodic tick event for updating the UI.
type TickerMsg time.Time

// WindowExitMsg signals that a pane's shell has exited.
type WindowExitMsg struct {
	WindowID string
}

// ConfigChangedMsg carries a configuration saved or reloaded from disk.
type ConfigChangedMsg struct {
	Config *config.UserConfig
}

// ConfigErrorMsg reports a failed hot reload.
type ConfigErrorMsg struct {
	Err error
}

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, h *Host) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init implements tea.Model.
func (h *Host) Init() tea.Cmd {
	return tea.Batch(
		TickCmd(),
		ListenForWindowExits(h.WindowExitChan),
		ListenForConfigChanges(h.configChanges),
		ListenForConfigErrors(h.configErrors),
	)
}

// ListenForWindowExits creates a command that listens for pane exit signals.
func ListenForWindowExits(exitChan <-chan string) tea.Cmd {
	return func() tea.Msg {
		windowID, ok := <-exitChan
		if !ok {
			return nil
		}
		return WindowExitMsg{WindowID: windowID}
	}
}

// ListenForConfigChanges waits for the next configuration change.
func ListenForConfigChanges(ch <-chan *config.UserConfig) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigChangedMsg{Config: cfg}
	}
}

// ListenForConfigErrors waits for the next hot reload failure.
func ListenForConfigErrors(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigErrorMsg{Err: err}
	}
}

// TickCmd creates a command that generates tick messages at 60 FPS.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second/config.NormalFPS, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// IdleTickCmd creates a command that generates tick messages at 10 FPS.
// Used when no pane has produced output for a while.
func IdleTickCmd() tea.Cmd {
	return tea.Tick(time.Second/config.IdleFPS, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Update implements tea.Model.
func (h *Host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Any non-tick message invalidates the render cache
	if _, isTick := msg.(TickerMsg); !isTick {
		h.renderSkipped = false
	}

	switch msg := msg.(type) {
	case TickerMsg:
		h.reapExitedPanes()

		if h.PrefixActive && time.Since(h.LastPrefixTime) > config.PrefixCommandTimeout {
			h.PrefixActive = false
		}

		hasChanges := h.MarkTerminalsWithNewContent()
		if h.refreshProcessName() {
			hasChanges = true
		}
		if len(h.Notifications) > 0 {
			h.CleanupNotifications()
			hasChanges = true
		}

		nextTick := TickCmd()
		if hasChanges {
			h.idleFrames = 0
		} else {
			h.idleFrames++
			if h.idleFrames >= config.IdleThresholdFrames {
				nextTick = IdleTickCmd()
			}
		}

		// Frame skipping
		h.renderSkipped = !hasChanges && len(h.Tabs) > 0 && h.cachedViewContent != ""
		return h, nextTick

	case WindowExitMsg:
		h.RemovePane(msg.WindowID)
		return h, ListenForWindowExits(h.WindowExitChan)

	case ConfigChangedMsg:
		h.ApplyConfig(msg.Config)
		h.LogInfo("Configuration updated")
		h.Logger.Debug("config applied", "path", h.Store.Path())
		return h, ListenForConfigChanges(h.configChanges)

	case ConfigErrorMsg:
		h.LogError("Config reload failed: %v", msg.Err)
		h.Logger.Error("config reload failed", "err", msg.Err)
		h.ShowNotification("Config reload failed, keeping previous settings", "error", config.NotificationDuration)
		return h, ListenForConfigErrors(h.configErrors)

	case settings.CloseMsg:
		h.CloseSettings()
		return h, nil

	case tea.KeyPressMsg, tea.PasteMsg:
		// Reset idle counter on any user input to restore full tick rate
		h.idleFrames = 0
		if inputHandler != nil {
			return inputHandler(msg, h)
		}
		return h, nil

	case tea.WindowSizeMsg:
		h.Width = msg.Width
		h.Height = msg.Height
		h.MarkAllDirty()
		if h.Settings != nil {
			h.Settings.SetSize(msg.Width, msg.Height)
		}

		if len(h.Tabs) == 0 && h.tabCounter == 0 {
			// First size report: open the initial tab
			if err := h.AddTab(); err != nil {
				h.Logger.Error("initial tab", "err", err)
			}
			return h, nil
		}
		h.LayoutAll()
		return h, nil

	case tea.KeyboardEnhancementsMsg:
		if !msg.SupportsKeyDisambiguation() {
			h.LogWarn("Terminal does not report modified keys; %s may arrive as a plain key",
				h.Registry.GetKeysForDisplay(config.ActionSendText))
		}
		return h, nil
	}

	// Messages for the settings form (its saved flash timer)
	if h.Settings != nil {
		_, cmd := h.Settings.Update(msg)
		return h, cmd
	}
	return h, nil
}
