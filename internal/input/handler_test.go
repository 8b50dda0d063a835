package input

import (
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/dodorz/contline/internal/app"
	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/terminal"
	"github.com/dodorz/contline/internal/testutil"
)

func newTestHost(t *testing.T) (*app.Host, *[]*testutil.FakeShell) {
	t.Helper()
	store, err := config.OpenStore(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	shells := &[]*testutil.FakeShell{}
	h, err := app.New(app.Options{
		Store: store,
		NewPane: func(id, title string, width, height int, _ chan<- string) (*terminal.Window, error) {
			shell := testutil.NewFakeShell()
			*shells = append(*shells, shell)
			return terminal.NewWindowWithPty(id, title, width, height, shell), nil
		},
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	h.Width, h.Height = 100, 30
	t.Cleanup(h.Cleanup)
	return h, shells
}

func press(h *app.Host, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = HandleKeyPress(m, h)
	}
	return cmd
}

var (
	leader     = tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}
	enter      = tea.KeyPressMsg{Code: tea.KeyEnter}
	shiftEnter = tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
	escape     = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestPrefix_NewTab(t *testing.T) {
	h, _ := newTestHost(t)

	press(h, leader)
	if !h.PrefixActive {
		t.Fatal("leader did not activate prefix mode")
	}
	press(h, char('c'))
	if h.PrefixActive {
		t.Error("prefix mode still active after a command")
	}
	if len(h.Tabs) != 1 {
		t.Errorf("tabs = %d, want 1", len(h.Tabs))
	}
}

func TestHotkey_SendText(t *testing.T) {
	h, shells := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	press(h, shiftEnter)

	if got := (*shells)[0].GetInput(); got != sendtext.DefaultText {
		t.Errorf("shell input = %q, want %q", got, sendtext.DefaultText)
	}
}

func TestPrefix_SendText(t *testing.T) {
	h, shells := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	press(h, leader, enter)

	if got := (*shells)[0].GetInput(); got != sendtext.DefaultText {
		t.Errorf("shell input = %q, want %q", got, sendtext.DefaultText)
	}
}

func TestPrefix_Timeout(t *testing.T) {
	h, _ := newTestHost(t)

	press(h, leader)
	h.LastPrefixTime = time.Now().Add(-2 * config.PrefixCommandTimeout)
	press(h, char('c'))

	if len(h.Tabs) != 0 {
		t.Errorf("expired prefix still ran a command: tabs = %d", len(h.Tabs))
	}
}

func TestPrefix_UnboundKey(t *testing.T) {
	h, _ := newTestHost(t)

	press(h, leader, char('z'))

	if h.PrefixActive || len(h.Tabs) != 0 {
		t.Errorf("prefix=%v tabs=%d, want prefix cleared and nothing run", h.PrefixActive, len(h.Tabs))
	}
}

func TestKeysReachFocusedPane(t *testing.T) {
	h, shells := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	press(h, char('l'), char('s'))

	if !(*shells)[0].WaitForInput("ls", time.Second) {
		t.Errorf("shell input = %q, want ls", (*shells)[0].GetInput())
	}
}

func TestDoubleLeaderSendsLeader(t *testing.T) {
	h, shells := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	press(h, leader, leader)

	if h.PrefixActive {
		t.Error("prefix mode still active after a second leader")
	}
	if !(*shells)[0].WaitForInput("\x02", time.Second) {
		t.Errorf("shell input = %q, want ctrl+b", (*shells)[0].GetInput())
	}
}

func TestOverlaysSwallowKeys(t *testing.T) {
	h, shells := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	press(h, leader, char('?'))
	if !h.ShowHelp {
		t.Fatal("help did not open")
	}
	press(h, shiftEnter)
	if got := (*shells)[0].GetInput(); got != "" {
		t.Errorf("hotkey fired under help overlay: %q", got)
	}
	press(h, escape)
	if h.ShowHelp {
		t.Error("esc did not close help")
	}

	press(h, leader, char('l'))
	if !h.ShowLogs {
		t.Fatal("log viewer did not open")
	}
	press(h, char('q'))
	if h.ShowLogs {
		t.Error("q did not close the log viewer")
	}
}

func TestSettingsTakesKeys(t *testing.T) {
	h, _ := newTestHost(t)

	press(h, leader, char('s'))
	if h.Settings == nil {
		t.Fatal("settings did not open")
	}

	press(h, char('o'), char('k'))
	if text, ok := h.Store.CustomText(); !ok || text != "ok" {
		t.Errorf("CustomText() = %q, %v, want ok", text, ok)
	}

	cmd := press(h, escape)
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	h.Update(cmd())
	if h.Settings != nil {
		t.Error("settings still open after esc")
	}
}

func TestPasteIntoSettings(t *testing.T) {
	h, _ := newTestHost(t)
	h.OpenSettings()

	HandleInput(tea.PasteMsg{Content: `ls\n`}, h)

	if got := h.Settings.Value(); got != `ls\n` {
		t.Errorf("Value() = %q, want %q", got, `ls\n`)
	}
}

func TestPasteIntoPane(t *testing.T) {
	h, shells := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	HandleInput(tea.PasteMsg{Content: "pasted"}, h)

	if !(*shells)[0].WaitForInput("pasted", time.Second) {
		t.Errorf("shell input = %q, want pasted", (*shells)[0].GetInput())
	}
}

func TestQuit(t *testing.T) {
	h, _ := newTestHost(t)
	if err := h.AddTab(); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}

	cmd := press(h, leader, char('q'))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit did not return tea.Quit")
	}
	if len(h.Tabs) != 0 {
		t.Errorf("tabs = %d after quit, want 0", len(h.Tabs))
	}
}

func TestDispatcherCoversPrefixActions(t *testing.T) {
	d := GetDispatcher()
	for _, desc := range config.PrefixDescriptions() {
		if !d.HasAction(desc.ID) {
			t.Errorf("no handler for %s", desc.ID)
		}
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyPressMsg
	}{
		{"printable", char('x')},
		{"ctrl", tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}},
		{"arrow", tea.KeyPressMsg{Code: tea.KeyUp}},
		{"shift enter", shiftEnter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := KeyEvent(tt.msg).(uv.KeyPressEvent)
			if !ok {
				t.Fatalf("KeyEvent() = %T, want uv.KeyPressEvent", KeyEvent(tt.msg))
			}
			if ev.Code != tt.msg.Code || ev.Text != tt.msg.Text || uv.KeyMod(tt.msg.Mod) != ev.Mod {
				t.Errorf("KeyEvent() = %+v, want fields of %+v", ev, tt.msg)
			}
		})
	}
}
