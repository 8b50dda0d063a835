// Package app implements the contline host model: tabs of split panes, the
// overlays, and the wiring between key handling and the send-text handler.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/hotkey"
	"github.com/dodorz/contline/internal/logging"
	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/settings"
	"github.com/dodorz/contline/internal/terminal"
)

// ErrTabLimit is returned when opening a tab past config.MaxTabs.
var ErrTabLimit = errors.New("tab limit reached")

// LogMessage represents a log entry with timestamp, level, and message.
type LogMessage struct {
	Time    time.Time
	Level   string // INFO, WARN, ERROR
	Message string
}

// Notification represents a temporary notification message.
type Notification struct {
	ID        string
	Message   string
	Type      string // "info", "success", "warning", "error"
	StartTime time.Time
	Duration  time.Duration
}

// PaneFactory starts a pane. Tests swap in panes over in-memory shells.
type PaneFactory func(id, title string, width, height int, exitChan chan<- string) (*terminal.Window, error)

// Options configures New.
type Options struct {
	// Store is the live configuration. Required.
	Store *config.Store
	// Logger receives file logs. Nil means discard.
	Logger *logging.Logger
	// NewPane starts panes. Nil means terminal.NewWindow.
	NewPane PaneFactory
}

// Host is the Bubble Tea model for the whole screen.
type Host struct {
	Tabs      []*terminal.Split
	ActiveTab int

	Width  int
	Height int

	PrefixActive   bool
	LastPrefixTime time.Time

	ShowHelp         bool
	HelpScrollOffset int
	ShowLogs         bool
	LogScrollOffset  int
	Settings         *settings.Model // non-nil while the settings overlay is open

	LogMessages   []LogMessage
	Notifications []Notification

	Registry *config.KeybindRegistry
	Bus      *hotkey.Bus
	SendText *sendtext.Handler
	Store    *config.Store
	Logger   *logging.Logger

	WindowExitChan chan string
	configChanges  chan *config.UserConfig
	configErrors   chan error

	newPane    PaneFactory
	tabCounter int

	processName      string
	lastProcessCheck time.Time

	idleFrames        int
	renderSkipped     bool
	cachedViewContent string
}

// New builds a host around opts.Store. The send-text handler is constructed
// from the store's configuration and subscribed to the host's hotkey bus
// before New returns.
func New(opts Options) (*Host, error) {
	if opts.Store == nil {
		return nil, errors.New("config store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	newPane := opts.NewPane
	if newPane == nil {
		newPane = terminal.NewWindow
	}

	h := &Host{
		Registry:       config.NewKeybindRegistry(opts.Store.Config()),
		Bus:            hotkey.NewBus(),
		Store:          opts.Store,
		Logger:         logger,
		WindowExitChan: make(chan string, config.WindowExitChannelBuffer),
		configChanges:  make(chan *config.UserConfig, 1),
		configErrors:   make(chan error, 1),
		newPane:        newPane,
	}

	h.SendText = sendtext.NewHandler(sendtext.HandlerOptions{
		Action:   config.ActionSendText,
		Focus:    h,
		Text:     opts.Store,
		Reporter: h,
	})
	if err := h.SendText.Start(h.Bus); err != nil {
		return nil, fmt.Errorf("failed to start send-text handler: %w", err)
	}
	h.Bus.Subscribe(h.handleHotkey)

	opts.Store.OnChange(func(cfg *config.UserConfig) {
		offerLatest(h.configChanges, cfg)
	})
	opts.Store.OnReloadError(func(err error) {
		offerLatest(h.configErrors, err)
	})

	return h, nil
}

// offerLatest sends v without blocking, replacing an unread older value.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// handleHotkey runs the host's own direct hotkeys. send_text is handled by
// the send-text handler subscribed to the same bus.
func (h *Host) handleHotkey(action string) {
	switch action {
	case "next_tab":
		h.NextTab()
	case "prev_tab":
		h.PrevTab()
	}
}

// ActiveTarget returns the active tab's split, or nil when no tab is open.
func (h *Host) ActiveTarget() sendtext.Target {
	split := h.ActiveSplit()
	if split == nil {
		return nil
	}
	return split
}

// ActiveSplit returns the active tab, or nil.
func (h *Host) ActiveSplit() *terminal.Split {
	if h.ActiveTab < 0 || h.ActiveTab >= len(h.Tabs) {
		return nil
	}
	return h.Tabs[h.ActiveTab]
}

// FocusedPane returns the focused pane of the active tab, or nil.
func (h *Host) FocusedPane() *terminal.Window {
	split := h.ActiveSplit()
	if split == nil {
		return nil
	}
	return split.Focused()
}

// Report records a send-text outcome in the log buffer and the file log.
// Failures also raise a short notification.
func (h *Host) Report(ev sendtext.Event) {
	fields := []any{"event", ev.Kind.String(), "target", ev.Target}
	if ev.Method != "" {
		fields = append(fields, "method", ev.Method, "bytes", ev.Bytes)
	}

	switch ev.Kind {
	case sendtext.EventSent:
		h.Logger.Debug("send_text", fields...)
		h.LogInfo("Sent %d bytes to %s via %s", ev.Bytes, ev.Target, ev.Method)
	case sendtext.EventMiss:
		h.Logger.Info("send_text", fields...)
		h.LogWarn("Send text: no focused terminal")
	case sendtext.EventProbeFault:
		h.Logger.Warn("send_text", append(fields, "err", ev.Err)...)
		h.LogWarn("Send text: %v", ev.Err)
	case sendtext.EventNoCapability:
		h.Logger.Error("send_text", append(fields, "capabilities", ev.Capabilities, "err", ev.Err)...)
		h.ShowNotification("Send text failed: pane is not writable", "error", config.NotificationDuration)
		h.LogError("Send text: %v (capabilities: %v)", ev.Err, ev.Capabilities)
	case sendtext.EventWriteFailed:
		h.Logger.Error("send_text", append(fields, "err", ev.Err)...)
		h.ShowNotification("Send text failed", "error", config.NotificationDuration)
		h.LogError("Send text: %v", ev.Err)
	}
}

func createID() string {
	return uuid.New().String()
}

// Log adds a new log message to the log buffer.
func (h *Host) Log(level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	wasAtBottom := h.ShowLogs && h.LogScrollOffset >= h.maxLogScroll()-2

	h.LogMessages = append(h.LogMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	})
	if len(h.LogMessages) > config.MaxLogMessages {
		h.LogMessages = h.LogMessages[len(h.LogMessages)-config.MaxLogMessages:]
	}

	// Sticky scroll
	if wasAtBottom {
		h.LogScrollOffset = h.maxLogScroll()
	}
}

// LogInfo logs an informational message.
func (h *Host) LogInfo(format string, args ...any) {
	h.Log("INFO", format, args...)
}

// LogWarn logs a warning message.
func (h *Host) LogWarn(format string, args ...any) {
	h.Log("WARN", format, args...)
}

// LogError logs an error message.
func (h *Host) LogError(format string, args ...any) {
	h.Log("ERROR", format, args...)
}

// logsPerPage is how many log lines fit in the viewer.
func (h *Host) logsPerPage() int {
	maxDisplayHeight := max(h.Height-8, 8)
	// title, blank, blank, hint
	fixedLines := 4
	if len(h.LogMessages) > maxDisplayHeight-fixedLines {
		// plus blank and scroll indicator
		fixedLines = 6
	}
	return max(maxDisplayHeight-fixedLines, 1)
}

func (h *Host) maxLogScroll() int {
	return max(len(h.LogMessages)-h.logsPerPage(), 0)
}

// ScrollLogs moves the log viewer by delta lines, clamped.
func (h *Host) ScrollLogs(delta int) {
	h.LogScrollOffset = max(0, min(h.LogScrollOffset+delta, h.maxLogScroll()))
}

// ScrollLogsToEnd jumps to the newest (end) or oldest log line.
func (h *Host) ScrollLogsToEnd(end bool) {
	if end {
		h.LogScrollOffset = h.maxLogScroll()
		return
	}
	h.LogScrollOffset = 0
}

// LogPageSize is the half-page step of the log viewer.
func (h *Host) LogPageSize() int {
	return max(h.logsPerPage()/2, 1)
}

// ShowNotification displays a temporary notification.
func (h *Host) ShowNotification(message, notifType string, duration time.Duration) {
	h.Notifications = append(h.Notifications, Notification{
		ID:        createID(),
		Message:   message,
		Type:      notifType,
		StartTime: time.Now(),
		Duration:  duration,
	})
}

// CleanupNotifications removes expired notifications.
func (h *Host) CleanupNotifications() {
	now := time.Now()
	kept := h.Notifications[:0]
	for _, n := range h.Notifications {
		if now.Sub(n.StartTime) < n.Duration {
			kept = append(kept, n)
		}
	}
	h.Notifications = kept
}

// ToggleHelp shows or hides the help overlay.
func (h *Host) ToggleHelp() {
	h.ShowHelp = !h.ShowHelp
	h.HelpScrollOffset = 0
	if h.ShowHelp {
		h.ShowLogs = false
	}
}

// ToggleLogs shows or hides the log viewer, opening it at the newest entry.
func (h *Host) ToggleLogs() {
	h.ShowLogs = !h.ShowLogs
	if h.ShowLogs {
		h.ShowHelp = false
		h.LogScrollOffset = h.maxLogScroll()
	}
}

// OpenSettings shows the send-text settings overlay.
func (h *Host) OpenSettings() {
	h.ShowHelp = false
	h.ShowLogs = false
	h.Settings = settings.New(h.Store, h.Registry.GetKeysForDisplay(config.ActionSendText))
}

// CloseSettings hides the settings overlay.
func (h *Host) CloseSettings() {
	h.Settings = nil
}

// ApplyConfig adopts a reloaded or edited configuration.
func (h *Host) ApplyConfig(cfg *config.UserConfig) {
	h.Registry = config.NewKeybindRegistry(cfg)
	config.HideStatusBar = cfg.Appearance.HideStatusBar
	if cfg.Keybindings.LeaderKey != "" {
		config.LeaderKey = cfg.Keybindings.LeaderKey
	}
	if h.Settings != nil {
		h.Settings.SetKeys(h.Registry.GetKeysForDisplay(config.ActionSendText))
	}
	h.LayoutAll()
	h.MarkAllDirty()
}

// ContentArea is the screen area panes are laid out in.
func (h *Host) ContentArea() terminal.Rect {
	top := config.TabBarHeight
	height := h.Height - top
	if !config.HideStatusBar {
		height -= config.StatusBarHeight
	}
	return terminal.Rect{X: 0, Y: top, Width: max(h.Width, config.MinPaneWidth), Height: max(height, config.MinPaneHeight)}
}

// AddTab opens a tab with one pane and makes it active.
func (h *Host) AddTab() error {
	if len(h.Tabs) >= config.MaxTabs {
		h.ShowNotification(fmt.Sprintf("At most %d tabs", config.MaxTabs), "warning", config.NotificationDuration)
		return ErrTabLimit
	}

	h.tabCounter++
	split := terminal.NewSplit(fmt.Sprintf("tab %d", h.tabCounter), terminal.Vertical)
	if err := h.addPane(split); err != nil {
		return err
	}

	h.Tabs = append(h.Tabs, split)
	h.ActiveTab = len(h.Tabs) - 1
	h.LogInfo("Opened %s", split.Name)
	return nil
}

// SplitPane adds a pane to the active tab. With one pane the tab adopts
// orientation; with more, the whole tab is re-laid out along it.
func (h *Host) SplitPane(orientation terminal.Orientation) error {
	split := h.ActiveSplit()
	if split == nil {
		return h.AddTab()
	}
	split.Orientation = orientation
	return h.addPane(split)
}

func (h *Host) addPane(split *terminal.Split) error {
	area := h.ContentArea()
	w, err := h.newPane(createID(), "", area.Width, area.Height, h.WindowExitChan)
	if err != nil {
		h.LogError("Failed to start pane: %v", err)
		h.ShowNotification("Failed to start shell", "error", config.NotificationDuration)
		return fmt.Errorf("failed to start pane: %w", err)
	}
	split.Add(w)
	split.Layout(area)
	h.Logger.Debug("pane started", "tab", split.Name, "pane", w.ID, "panes", split.Len())
	h.MarkAllDirty()
	return nil
}

// ClosePane closes the focused pane of the active tab.
func (h *Host) ClosePane() {
	if w := h.FocusedPane(); w != nil {
		h.RemovePane(w.ID)
	}
}

// RemovePane closes the pane with id wherever it is. An emptied tab is
// closed too.
func (h *Host) RemovePane(id string) {
	for i, split := range h.Tabs {
		w := split.Remove(id)
		if w == nil {
			continue
		}
		w.Close()
		h.LogInfo("Closed pane %s", w.TargetName())
		if split.Len() == 0 {
			h.removeTab(i)
		} else {
			split.Layout(h.ContentArea())
		}
		h.MarkAllDirty()
		return
	}
}

func (h *Host) removeTab(i int) {
	h.Tabs[i].Close()
	h.Tabs = append(h.Tabs[:i], h.Tabs[i+1:]...)
	if h.ActiveTab >= len(h.Tabs) {
		h.ActiveTab = len(h.Tabs) - 1
	} else if h.ActiveTab > i {
		h.ActiveTab--
	}
	if h.ActiveTab < 0 {
		h.ActiveTab = 0
	}
}

// NextTab activates the next tab, wrapping around.
func (h *Host) NextTab() {
	if n := len(h.Tabs); n > 0 {
		h.ActiveTab = (h.ActiveTab + 1) % n
		h.activateTab()
	}
}

// PrevTab activates the previous tab, wrapping around.
func (h *Host) PrevTab() {
	if n := len(h.Tabs); n > 0 {
		h.ActiveTab = (h.ActiveTab - 1 + n) % n
		h.activateTab()
	}
}

// SelectTab activates tab i (0-based) if it exists.
func (h *Host) SelectTab(i int) {
	if i >= 0 && i < len(h.Tabs) {
		h.ActiveTab = i
		h.activateTab()
	}
}

func (h *Host) activateTab() {
	if split := h.ActiveSplit(); split != nil {
		split.Layout(h.ContentArea())
	}
	h.lastProcessCheck = time.Time{}
	h.MarkAllDirty()
}

// FocusNextPane moves focus to the next pane of the active tab.
func (h *Host) FocusNextPane() {
	if split := h.ActiveSplit(); split != nil {
		split.FocusNext()
		h.lastProcessCheck = time.Time{}
		h.MarkAllDirty()
	}
}

// FocusPrevPane moves focus to the previous pane of the active tab.
func (h *Host) FocusPrevPane() {
	if split := h.ActiveSplit(); split != nil {
		split.FocusPrev()
		h.lastProcessCheck = time.Time{}
		h.MarkAllDirty()
	}
}

// LayoutAll re-lays out every tab so background shells see the right size.
func (h *Host) LayoutAll() {
	area := h.ContentArea()
	for _, split := range h.Tabs {
		split.Layout(area)
	}
}

// MarkAllDirty invalidates the cached frame.
func (h *Host) MarkAllDirty() {
	h.renderSkipped = false
	h.cachedViewContent = ""
}

// MarkTerminalsWithNewContent reports whether any pane of the active tab
// produced output since the last check. Background tabs are drained too so
// switching to them does not show a stale frame.
func (h *Host) MarkTerminalsWithNewContent() bool {
	hasChanges := false
	for i, split := range h.Tabs {
		for _, w := range split.Children() {
			if w.HasNewOutput.Swap(false) && i == h.ActiveTab {
				hasChanges = true
			}
		}
	}
	return hasChanges
}

// reapExitedPanes closes panes whose shell exited without an exit message
// reaching the host.
func (h *Host) reapExitedPanes() {
	var exited []string
	for _, split := range h.Tabs {
		for _, w := range split.Children() {
			if w.ProcessExited.Load() {
				exited = append(exited, w.ID)
			}
		}
	}
	for _, id := range exited {
		h.RemovePane(id)
	}
}

// refreshProcessName updates the focused pane's foreground process name at
// most once a second.
func (h *Host) refreshProcessName() bool {
	if time.Since(h.lastProcessCheck) < time.Second {
		return false
	}
	h.lastProcessCheck = time.Now()

	name := ""
	if w := h.FocusedPane(); w != nil {
		name = w.ForegroundProcess()
	}
	if name == h.processName {
		return false
	}
	h.processName = name
	return true
}

// ProcessName is the focused pane's foreground process as last sampled.
func (h *Host) ProcessName() string { return h.processName }

// Cleanup stops the send-text handler and closes every pane.
func (h *Host) Cleanup() {
	h.SendText.Stop()
	for _, split := range h.Tabs {
		split.Close()
	}
	h.Tabs = nil
	h.ActiveTab = 0
}
