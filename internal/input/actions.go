package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/contline/internal/app"
	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/terminal"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

// registerHandlers registers all prefix action handlers
func (d *ActionDispatcher) registerHandlers() {
	// Tabs and panes
	d.Register("prefix_new_tab", handleNewTab)
	d.Register("prefix_close_pane", handleClosePane)
	d.Register("prefix_next_tab", handleNextTab)
	d.Register("prefix_prev_tab", handlePrevTab)
	d.Register("prefix_split_horizontal", makeSplitHandler(terminal.Horizontal))
	d.Register("prefix_split_vertical", makeSplitHandler(terminal.Vertical))
	d.Register("prefix_focus_next", handleFocusNext)
	d.Register("prefix_focus_prev", handleFocusPrev)

	// Send text
	d.Register("prefix_send_text", handleSendText)
	d.Register("prefix_settings", handleOpenSettings)

	// Overlays and quitting
	d.Register("prefix_logs", handleToggleLogs)
	d.Register("prefix_help", handleToggleHelp)
	d.Register("prefix_quit", handleQuit)
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (d *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	if handler, ok := d.handlers[action]; ok {
		return handler(msg, h)
	}
	return h, nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// Global action dispatcher instance
var globalDispatcher = NewActionDispatcher()

// GetDispatcher returns the global action dispatcher
func GetDispatcher() *ActionDispatcher {
	return globalDispatcher
}

func handleNewTab(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	_ = h.AddTab()
	return h, nil
}

func handleClosePane(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.ClosePane()
	return h, nil
}

func handleNextTab(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.NextTab()
	return h, nil
}

func handlePrevTab(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.PrevTab()
	return h, nil
}

func makeSplitHandler(orientation terminal.Orientation) ActionHandler {
	return func(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
		_ = h.SplitPane(orientation)
		return h, nil
	}
}

func handleFocusNext(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.FocusNextPane()
	return h, nil
}

func handleFocusPrev(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.FocusPrevPane()
	return h, nil
}

// handleSendText publishes the send-text action as if its hotkey was pressed.
func handleSendText(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.Bus.Publish(config.ActionSendText)
	return h, nil
}

func handleOpenSettings(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.OpenSettings()
	return h, nil
}

func handleToggleLogs(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.ToggleLogs()
	return h, nil
}

func handleToggleHelp(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.ToggleHelp()
	return h, nil
}

func handleQuit(_ tea.KeyPressMsg, h *app.Host) (*app.Host, tea.Cmd) {
	h.Cleanup()
	return h, tea.Quit
}
