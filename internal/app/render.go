package app

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/terminal"
	"github.com/dodorz/contline/internal/theme"
)

// GetCanvas composes panes, bars and overlays into one canvas.
func (h *Host) GetCanvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(max(h.Width, 1), max(h.Height, 1))

	var layers []*lipgloss.Layer
	layers = append(layers, h.renderPanes()...)
	layers = append(layers, h.renderTabBar())
	if !config.HideStatusBar {
		layers = append(layers, h.renderStatusBar())
	}
	layers = append(layers, h.renderOverlays()...)

	for _, layer := range layers {
		canvas.Compose(layer)
	}
	return canvas
}

// View implements tea.Model.
func (h *Host) View() tea.View {
	var view tea.View

	// Fast path: nothing changed since the last frame
	if h.renderSkipped && h.cachedViewContent != "" {
		view.SetContent(h.cachedViewContent)
	} else {
		content := lipgloss.Sprint(h.GetCanvas().Render())
		h.cachedViewContent = content
		view.SetContent(content)
	}

	view.AltScreen = true
	view.ReportFocus = true
	view.Cursor = h.getRealCursor()
	return view
}

func (h *Host) renderPanes() []*lipgloss.Layer {
	split := h.ActiveSplit()
	if split == nil || h.Width <= 0 || h.Height <= 0 {
		return nil
	}

	rects := split.Layout(h.ContentArea())
	focused := split.Focused()

	layers := make([]*lipgloss.Layer, 0, len(rects))
	for i, w := range split.Children() {
		r := rects[i]
		borderColor := theme.BorderUnfocused()
		if w == focused {
			borderColor = theme.BorderFocused()
			if h.PrefixActive {
				borderColor = theme.BorderPrefix()
			}
		}

		content := renderPane(w, r, borderColor)
		layers = append(layers, lipgloss.NewLayer(content).
			X(r.X).Y(r.Y).Z(config.ZIndexBase).ID(w.ID))
	}
	return layers
}

// renderPane draws one pane with its border and title.
func renderPane(w *terminal.Window, r terminal.Rect, borderColor color.Color) string {
	innerWidth, innerHeight := max(r.Width-2, 1), max(r.Height-2, 1)
	content := clipLines(w.Render(), innerWidth, innerHeight)

	box := lipgloss.NewStyle().
		Align(lipgloss.Left).
		AlignVertical(lipgloss.Top).
		Border(getBorder()).
		BorderTop(false).
		BorderForeground(borderColor).
		Width(r.Width).
		Height(r.Height - 1)

	return addToBorder(box.Render(content), borderColor, w.Title())
}

func (h *Host) renderTabBar() *lipgloss.Layer {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.TabActiveFg()).
		Background(theme.TabActiveBg()).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(theme.TabInactiveFg()).
		Background(theme.BarBg()).
		Padding(0, 1)

	var labels []string
	for i, split := range h.Tabs {
		label := fmt.Sprintf("%d:%s", i+1, tabLabel(split))
		if i == h.ActiveTab {
			labels = append(labels, activeStyle.Render(label))
		} else {
			labels = append(labels, inactiveStyle.Render(label))
		}
	}

	bar := clipLines(strings.Join(labels, ""), h.Width, config.TabBarHeight)
	bar = lipgloss.NewStyle().Background(theme.BarBg()).Width(h.Width).Render(bar)
	return lipgloss.NewLayer(bar).X(0).Y(0).Z(config.ZIndexBars).ID("tabbar")
}

// tabLabel names a tab after its focused pane.
func tabLabel(split *terminal.Split) string {
	if w := split.Focused(); w != nil && w.Title() != "" {
		return w.Title()
	}
	return split.Name
}

// StatusText returns the status bar segments: the prefix marker (empty when
// inactive), the foreground process, the send-text preview with its keys,
// and the help hint.
func (h *Host) StatusText() (prefix, process, sendText, hint string) {
	if h.PrefixActive {
		prefix = "PREFIX"
	}
	process = h.processName

	keys := h.Registry.GetKeysForDisplay(config.ActionSendText)
	if keys == "" {
		keys = "unbound"
	}
	sendText = fmt.Sprintf("send %s [%s]", sendtext.Preview(sendtext.EffectiveText(h.Store)), keys)

	if help := h.Registry.GetPrefixKeysForDisplay("prefix_help"); help != "" {
		hint = fmt.Sprintf("%s %s help", h.Registry.LeaderDisplay(), help)
	}
	return prefix, process, sendText, hint
}

func (h *Host) renderStatusBar() *lipgloss.Layer {
	prefix, process, sendText, hint := h.StatusText()

	base := lipgloss.NewStyle().Background(theme.BarBg()).Foreground(theme.StatusFg()).Padding(0, 1)

	var left []string
	if prefix != "" {
		left = append(left, lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.PrefixActive()).
			Padding(0, 1).
			Render(prefix))
	}
	if process != "" {
		left = append(left, base.Bold(true).Render(process))
	}
	left = append(left, base.Foreground(theme.StatusAccent()).Render(sendText))

	leftStr := strings.Join(left, "")
	right := base.Render(hint)

	gap := max(h.Width-lipgloss.Width(leftStr)-lipgloss.Width(right), 0)
	line := leftStr + lipgloss.NewStyle().Background(theme.BarBg()).Render(strings.Repeat(" ", gap)) + right
	line = clipLines(line, h.Width, config.StatusBarHeight)

	return lipgloss.NewLayer(line).
		X(0).Y(max(h.Height-config.StatusBarHeight, 0)).Z(config.ZIndexBars).ID("statusbar")
}
