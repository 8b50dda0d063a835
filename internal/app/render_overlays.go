package app

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/theme"
)

func (h *Host) renderOverlays() []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	if len(h.Tabs) == 0 {
		layers = append(layers, h.renderWelcome())
	}

	if h.ShowHelp {
		layers = append(layers, lipgloss.NewLayer(h.RenderHelpMenu()).
			X(0).Y(0).Z(config.ZIndexHelp).ID("help"))
	}

	if h.ShowLogs {
		layers = append(layers, lipgloss.NewLayer(h.renderLogViewer()).
			X(0).Y(0).Z(config.ZIndexLogs).ID("logs"))
	}

	if h.Settings != nil {
		form := lipgloss.Place(h.Width, h.Height, lipgloss.Center, lipgloss.Center, h.Settings.Render())
		layers = append(layers, lipgloss.NewLayer(form).
			X(0).Y(0).Z(config.ZIndexSettings).ID("settings"))
	}

	layers = append(layers, h.renderNotifications()...)
	return layers
}

func (h *Host) renderWelcome() *lipgloss.Layer {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14")).
		Bold(true).
		Render("contline")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Render("Line continuation on a hotkey")

	leader := h.Registry.LeaderDisplay()
	instruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7")).
		Render(fmt.Sprintf("Press %s %s to open a tab, %s %s to quit",
			leader, h.Registry.GetPrefixKeysForDisplay("prefix_new_tab"),
			leader, h.Registry.GetPrefixKeysForDisplay("prefix_quit")))

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", subtitle, "", instruction)

	boxStyle := lipgloss.NewStyle().
		Border(getNormalBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(1, 2)

	centered := lipgloss.Place(h.Width, h.Height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
	return lipgloss.NewLayer(centered).X(0).Y(0).Z(config.ZIndexWelcome).ID("welcome")
}

// HelpLines returns the help overlay body, one entry per line.
func (h *Host) HelpLines() []string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKey()).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(theme.HelpText())
	sectionStyle := lipgloss.NewStyle().Foreground(theme.HelpSection()).Bold(true)

	var lines []string
	for _, section := range config.GetKeybindings(h.Registry) {
		if section.Title != "" {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, sectionStyle.Render(section.Title))
		}
		for _, b := range section.Bindings {
			key := keyStyle.Render(fmt.Sprintf("%-18s", b.Key))
			lines = append(lines, key+" "+textStyle.Render(b.Description))
		}
	}
	return lines
}

// RenderHelpMenu draws the help overlay centered on screen.
func (h *Host) RenderHelpMenu() string {
	lines := h.HelpLines()
	visible := max(h.Height-10, 5)
	maxScroll := max(len(lines)-visible, 0)
	h.HelpScrollOffset = max(0, min(h.HelpScrollOffset, maxScroll))

	end := min(h.HelpScrollOffset+visible, len(lines))
	body := lines[h.HelpScrollOffset:end]

	title := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Render("Keybindings")
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press 'q'/'esc' to close, ↑/↓ to scroll")

	content := title + "\n\n" + strings.Join(body, "\n") + "\n\n" + hint

	box := lipgloss.NewStyle().
		Border(getBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(1, 2).
		Background(theme.OverlayBg()).
		Render(content)

	return lipgloss.Place(h.Width, h.Height, lipgloss.Center, lipgloss.Center, box)
}

// ScrollHelp moves the help overlay by delta lines.
func (h *Host) ScrollHelp(delta int) {
	h.HelpScrollOffset = max(h.HelpScrollOffset+delta, 0)
}

func (h *Host) renderLogViewer() string {
	logTitle := lipgloss.NewStyle().
		Foreground(theme.LogViewerTitle()).
		Bold(true).
		Render("System Logs")

	logsPerPage := h.logsPerPage()
	maxScroll := h.maxLogScroll()
	h.LogScrollOffset = max(0, min(h.LogScrollOffset, maxScroll))

	logLines := []string{logTitle, ""}

	startIdx := h.LogScrollOffset
	displayCount := 0
	for i := startIdx; i < len(h.LogMessages) && displayCount < logsPerPage; i++ {
		msg := h.LogMessages[i]

		levelColor := theme.LogViewerInfo()
		switch msg.Level {
		case "ERROR":
			levelColor = theme.LogViewerError()
		case "WARN":
			levelColor = theme.LogViewerWarn()
		case "DEBUG":
			levelColor = theme.LogViewerDebug()
		}

		levelStr := lipgloss.NewStyle().
			Foreground(levelColor).
			Render(fmt.Sprintf("[%s]", msg.Level))

		logLines = append(logLines, fmt.Sprintf("%s %s %s", msg.Time.Format("15:04:05"), levelStr, msg.Message))
		displayCount++
	}

	if maxScroll > 0 {
		scrollInfo := fmt.Sprintf("Showing %d-%d of %d logs (↑/↓ to scroll)",
			startIdx+1, startIdx+displayCount, len(h.LogMessages))
		logLines = append(logLines, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Render(scrollInfo))
	}

	logLines = append(logLines, "", lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render("Press 'q'/'esc' to exit, j/k or ↑/↓ to scroll"))

	logBox := lipgloss.NewStyle().
		Border(getBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(1, 2).
		Width(min(config.LogViewerWidth, max(h.Width, 20))).
		Background(theme.OverlayBg()).
		Render(strings.Join(logLines, "\n"))

	return lipgloss.Place(h.Width, h.Height, lipgloss.Center, lipgloss.Center, logBox)
}

func (h *Host) renderNotifications() []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	notifY := config.TabBarHeight + 1
	notifSpacing := 4
	now := time.Now()
	shown := 0
	for _, notif := range h.Notifications {
		if shown >= 3 {
			break
		}
		if now.Sub(notif.StartTime) >= notif.Duration {
			continue
		}

		bg := theme.NotificationInfo()
		icon := config.NotificationIconInfo
		switch notif.Type {
		case "error":
			bg = theme.NotificationError()
			icon = config.NotificationIconError
		case "warning":
			bg = theme.NotificationWarning()
			icon = config.NotificationIconWarning
		case "success":
			bg = theme.NotificationSuccess()
			icon = config.NotificationIconSuccess
		}

		maxNotifWidth := min(max(h.Width-8, 20), 60)
		message := notif.Message
		if maxMessageLen := maxNotifWidth - 10; len(message) > maxMessageLen {
			message = message[:maxMessageLen-3] + "..."
		}

		notifBox := lipgloss.NewStyle().
			Background(bg).
			Foreground(theme.NotificationFg()).
			Padding(1, 2).
			Bold(true).
			MaxWidth(maxNotifWidth).
			Render(fmt.Sprintf(" %s  %s ", icon, message))

		notifX := max(h.Width-lipgloss.Width(notifBox)-2, 0)
		layers = append(layers, lipgloss.NewLayer(notifBox).
			X(notifX).Y(notifY+shown*notifSpacing).Z(config.ZIndexNotifications).
			ID("notif-"+notif.ID))
		shown++
	}
	return layers
}
