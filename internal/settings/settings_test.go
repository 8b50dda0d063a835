package settings

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type fakeSaver struct {
	text    *string
	saves   int
	resets  int
	failing error
}

func (f *fakeSaver) CustomText() (string, bool) {
	if f.text == nil {
		return "", false
	}
	return *f.text, true
}

func (f *fakeSaver) SetCustomText(text string) error {
	if f.failing != nil {
		return f.failing
	}
	f.saves++
	f.text = &text
	return nil
}

func (f *fakeSaver) ResetCustomText() error {
	if f.failing != nil {
		return f.failing
	}
	f.resets++
	f.text = nil
	return nil
}

func saverWith(text string) *fakeSaver {
	return &fakeSaver{text: &text}
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(m *Model, code rune, mod tea.KeyMod) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code, Mod: mod})
	return cmd
}

func TestNew_LoadsValue(t *testing.T) {
	m := New(saverWith(`&&\n`), "Shift+Enter")
	if m.Value() != `&&\n` {
		t.Errorf("Value() = %q, want %q", m.Value(), `&&\n`)
	}
	if m.Cursor() != 4 {
		t.Errorf("Cursor() = %d, want end of value", m.Cursor())
	}
}

func TestTypingAutosaves(t *testing.T) {
	saver := &fakeSaver{}
	m := New(saver, "Shift+Enter")

	typeText(t, m, `ab\n`)

	if got, _ := saver.CustomText(); got != `ab\n` {
		t.Errorf("saved text = %q, want %q", got, `ab\n`)
	}
	if saver.saves != 4 {
		t.Errorf("saves = %d, want one per keystroke", saver.saves)
	}
	if !m.Saved() {
		t.Error("Saved() = false after a successful save")
	}
}

func TestCursorEditing(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyPressMsg
		want string
	}{
		{
			name: "insert at home",
			keys: []tea.KeyPressMsg{{Code: tea.KeyHome}, {Code: 'x', Text: "x"}},
			want: "xabc",
		},
		{
			name: "backspace in middle",
			keys: []tea.KeyPressMsg{{Code: tea.KeyLeft}, {Code: tea.KeyBackspace}},
			want: "ac",
		},
		{
			name: "delete at cursor",
			keys: []tea.KeyPressMsg{{Code: tea.KeyHome}, {Code: tea.KeyDelete}},
			want: "bc",
		},
		{
			name: "ctrl+u clears before cursor",
			keys: []tea.KeyPressMsg{{Code: tea.KeyLeft}, {Code: 'u', Mod: tea.ModCtrl}},
			want: "c",
		},
		{
			name: "ctrl+k clears after cursor",
			keys: []tea.KeyPressMsg{{Code: tea.KeyHome}, {Code: tea.KeyRight}, {Code: 'k', Mod: tea.ModCtrl}},
			want: "a",
		},
		{
			name: "ctrl chords are not inserted",
			keys: []tea.KeyPressMsg{{Code: 'z', Mod: tea.ModCtrl, Text: "z"}},
			want: "abc",
		},
		{
			name: "backspace at start is ignored",
			keys: []tea.KeyPressMsg{{Code: tea.KeyHome}, {Code: tea.KeyBackspace}},
			want: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := saverWith("abc")
			m := New(saver, "")
			for _, k := range tt.keys {
				m.Update(k)
			}
			if m.Value() != tt.want {
				t.Errorf("Value() = %q, want %q", m.Value(), tt.want)
			}
			if got, _ := saver.CustomText(); got != tt.want {
				t.Errorf("saved = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaste(t *testing.T) {
	saver := saverWith("ab")
	m := New(saver, "")
	m.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	m.Update(tea.PasteMsg{Content: "XY"})

	if m.Value() != "aXYb" {
		t.Errorf("Value() = %q, want aXYb", m.Value())
	}
	if m.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", m.Cursor())
	}
}

func TestResetToDefault(t *testing.T) {
	saver := saverWith("custom")
	m := New(saver, "")

	cmd := press(m, 'r', tea.ModCtrl)
	if cmd == nil {
		t.Error("reset returned no flash command")
	}
	if saver.resets != 1 {
		t.Errorf("resets = %d, want 1", saver.resets)
	}
	if _, ok := saver.CustomText(); ok {
		t.Error("custom text still set after ctrl+r")
	}
	if m.Value() != "" {
		t.Errorf("Value() = %q, want empty", m.Value())
	}
	if !strings.Contains(m.PreviewText(), "(default)") {
		t.Errorf("PreviewText() = %q, want default marker", m.PreviewText())
	}
}

func TestClearingFieldResets(t *testing.T) {
	saver := saverWith("a")
	m := New(saver, "")
	press(m, tea.KeyBackspace, 0)

	if saver.resets != 1 || saver.text != nil {
		t.Errorf("resets = %d, text = %v; want the setting cleared", saver.resets, saver.text)
	}
}

func TestSavedFlashExpires(t *testing.T) {
	m := New(&fakeSaver{}, "")
	typeText(t, m, "a")
	typeText(t, m, "b")

	m.Update(savedFlashExpiredMsg{seq: 1})
	if !m.Saved() {
		t.Error("stale flash tick hid a newer save")
	}
	m.Update(savedFlashExpiredMsg{seq: 2})
	if m.Saved() {
		t.Error("Saved() = true after the flash expired")
	}
}

func TestSaveError(t *testing.T) {
	saver := &fakeSaver{failing: errors.New("disk full")}
	m := New(saver, "")
	typeText(t, m, "a")

	if m.Saved() {
		t.Error("Saved() = true after a failed save")
	}
	if m.Err() == nil || !strings.Contains(m.Render(), "disk full") {
		t.Errorf("Err() = %v; render should show the error", m.Err())
	}
}

func TestPreviewText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "·\\⏎ (default)"},
		{`a b\n`, "a·b⏎"},
		{`x\ty`, "x→y"},
		{`\\`, `\`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m := New(saverWith(tt.raw), "")
			if got := m.PreviewText(); got != tt.want {
				t.Errorf("PreviewText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	m := New(&fakeSaver{}, "Shift+Enter, Ctrl+j")
	if got := m.Usage(); got != "Send configured custom text: Shift+Enter, Ctrl+j" {
		t.Errorf("Usage() = %q", got)
	}
	m.SetKeys("")
	if got := m.Usage(); !strings.HasSuffix(got, "unbound") {
		t.Errorf("Usage() = %q, want unbound", got)
	}
}

func TestEscape(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		m := New(&fakeSaver{}, "")
		cmd := press(m, tea.KeyEscape, 0)
		if cmd == nil {
			t.Fatal("esc returned no command")
		}
		if _, ok := cmd().(CloseMsg); !ok {
			t.Error("esc did not produce CloseMsg")
		}
	})

	t.Run("standalone", func(t *testing.T) {
		m := New(&fakeSaver{}, "", Standalone())
		cmd := press(m, tea.KeyEscape, 0)
		if cmd == nil {
			t.Fatal("esc returned no command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("esc did not quit the standalone form")
		}
	})
}

func TestRenderShowsSavedMarker(t *testing.T) {
	m := New(&fakeSaver{}, "Shift+Enter")
	typeText(t, m, "x")
	out := m.Render()
	for _, want := range []string{"Send-text settings", "✓ Settings saved", "Shift+Enter"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}
