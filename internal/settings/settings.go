// Package settings implements the form that edits the send-text value.
//
// The form has a single field, the raw custom text with \n, \t, \r and \\
// escapes. Every edit is saved immediately; there is no submit step.
package settings

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/theme"
)

// Saver persists the custom text. *config.Store satisfies it.
type Saver interface {
	CustomText() (string, bool)
	SetCustomText(text string) error
	ResetCustomText() error
}

// CloseMsg is sent when an embedded form is dismissed.
type CloseMsg struct{}

// savedFlashExpiredMsg hides the saved marker. seq ties it to the save that
// scheduled it so an older tick does not hide a newer flash.
type savedFlashExpiredMsg struct{ seq int }

// Model is the settings form. It works as a standalone tea.Model or as an
// overlay driven by the host's Update.
type Model struct {
	saver      Saver
	keys       string
	standalone bool

	value  []rune
	cursor int

	saved     bool
	flashSeq  int
	lastError error

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// Standalone makes esc and ctrl+c quit the program instead of sending
// CloseMsg, and makes View fill the screen.
func Standalone() Option {
	return func(m *Model) { m.standalone = true }
}

// New returns a form editing saver's custom text. keys is the display form of
// the keys bound to the send-text hotkey, as shown in the usage line.
func New(saver Saver, keys string, opts ...Option) *Model {
	m := &Model{saver: saver, keys: keys}
	for _, opt := range opts {
		opt(m)
	}
	m.Reload()
	return m
}

// Reload replaces the field with the saver's current value.
func (m *Model) Reload() {
	text, _ := m.saver.CustomText()
	m.value = []rune(text)
	m.cursor = len(m.value)
}

// Value returns the raw text in the field.
func (m *Model) Value() string { return string(m.value) }

// Cursor returns the cursor position in runes.
func (m *Model) Cursor() int { return m.cursor }

// Saved reports whether the saved marker is showing.
func (m *Model) Saved() bool { return m.saved }

// Err returns the last save error, if any.
func (m *Model) Err() error { return m.lastError }

// SetKeys updates the hotkey display after the keybindings change.
func (m *Model) SetKeys(keys string) { m.keys = keys }

// SetSize sets the area the standalone view is centered in.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case savedFlashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.saved = false
		}
		return m, nil
	case tea.PasteMsg:
		return m, m.insert(msg.Content)
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.close()
	case "ctrl+c":
		if m.standalone {
			return tea.Quit
		}
		return m.close()
	case "ctrl+r":
		m.value = nil
		m.cursor = 0
		return m.save()
	case "left":
		m.cursor = max(m.cursor-1, 0)
	case "right":
		m.cursor = min(m.cursor+1, len(m.value))
	case "home", "ctrl+a":
		m.cursor = 0
	case "end", "ctrl+e":
		m.cursor = len(m.value)
	case "backspace", "ctrl+h":
		if m.cursor == 0 {
			return nil
		}
		m.value = append(m.value[:m.cursor-1], m.value[m.cursor:]...)
		m.cursor--
		return m.save()
	case "delete", "ctrl+d":
		if m.cursor >= len(m.value) {
			return nil
		}
		m.value = append(m.value[:m.cursor], m.value[m.cursor+1:]...)
		return m.save()
	case "ctrl+u":
		if m.cursor == 0 {
			return nil
		}
		m.value = m.value[m.cursor:]
		m.cursor = 0
		return m.save()
	case "ctrl+k":
		if m.cursor >= len(m.value) {
			return nil
		}
		m.value = m.value[:m.cursor]
		return m.save()
	default:
		if msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
			return m.insert(msg.Text)
		}
	}
	return nil
}

func (m *Model) close() tea.Cmd {
	if m.standalone {
		return tea.Quit
	}
	return func() tea.Msg { return CloseMsg{} }
}

func (m *Model) insert(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	next := make([]rune, 0, len(m.value)+len(runes))
	next = append(next, m.value[:m.cursor]...)
	next = append(next, runes...)
	next = append(next, m.value[m.cursor:]...)
	m.value = next
	m.cursor += len(runes)
	return m.save()
}

// save persists the field. An empty field clears the setting so the default
// text is sent.
func (m *Model) save() tea.Cmd {
	var err error
	if len(m.value) == 0 {
		err = m.saver.ResetCustomText()
	} else {
		err = m.saver.SetCustomText(string(m.value))
	}
	if err != nil {
		m.lastError = err
		m.saved = false
		return nil
	}

	m.lastError = nil
	m.saved = true
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(config.SavedFlashDuration, func(time.Time) tea.Msg {
		return savedFlashExpiredMsg{seq: seq}
	})
}

// PreviewText returns the preview line for the current field: the field's
// own preview, or the default's preview marked as such.
func (m *Model) PreviewText() string {
	if len(m.value) == 0 {
		return sendtext.Preview(sendtext.DefaultText) + " (default)"
	}
	return sendtext.Preview(string(m.value))
}

// Usage returns the line naming the hotkey that sends the text.
func (m *Model) Usage() string {
	keys := m.keys
	if keys == "" {
		keys = "unbound"
	}
	return fmt.Sprintf("%s: %s", sendTextName(), keys)
}

func sendTextName() string {
	for _, d := range config.HotkeyDescriptions() {
		if d.ID == config.ActionSendText {
			return d.Name
		}
	}
	return config.ActionSendText
}

// Render draws the form as a bordered box.
func (m *Model) Render() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.SettingsTitle())
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.SettingsLabel())
	previewStyle := lipgloss.NewStyle().Foreground(theme.SettingsPreview())
	mutedStyle := lipgloss.NewStyle().Foreground(theme.SettingsMuted())
	savedStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.SettingsSaved())
	errorStyle := lipgloss.NewStyle().Foreground(theme.NotificationError())

	var b strings.Builder
	b.WriteString(titleStyle.Render("Send-text settings"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Custom text"))
	b.WriteString("\n")
	b.WriteString("> " + m.renderField())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Preview: ") + previewStyle.Render(m.PreviewText()))
	b.WriteString("\n\n")
	b.WriteString(m.Usage())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(`Escapes: \n newline  \t tab  \r return  \\ backslash`))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("ctrl+r reset to default • esc close"))

	switch {
	case m.lastError != nil:
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Save failed: " + m.lastError.Error()))
	case m.saved:
		b.WriteString("\n\n")
		b.WriteString(savedStyle.Render("✓ Settings saved"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.SettingsTitle()).
		Background(theme.OverlayBg()).
		Padding(1, 2).
		Render(b.String())
}

// renderField shows the raw value with the cursor cell reversed.
func (m *Model) renderField() string {
	cursorStyle := lipgloss.NewStyle().Reverse(true)
	before := string(m.value[:m.cursor])
	if m.cursor >= len(m.value) {
		return before + cursorStyle.Render(" ")
	}
	return before + cursorStyle.Render(string(m.value[m.cursor])) + string(m.value[m.cursor+1:])
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	content := m.Render()
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	view.SetContent(content)
	view.AltScreen = m.standalone
	return view
}
