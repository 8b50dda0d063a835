package terminal

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/testutil"
)

func newTestWindow(t *testing.T) (*Window, *testutil.FakeShell) {
	t.Helper()
	shell := testutil.NewFakeShell()
	w := NewWindowWithPty("0123456789abcdef", "", 82, 26, shell)
	t.Cleanup(w.Close)
	return w, shell
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewWindowWithPty_Defaults(t *testing.T) {
	w, shell := newTestWindow(t)

	if w.Title() != "Terminal 01234567" {
		t.Errorf("Title() = %q, want Terminal 01234567", w.Title())
	}
	if w.TargetName() != w.Title() {
		t.Errorf("TargetName() = %q, want title", w.TargetName())
	}
	if got := w.Terminal.Width(); got != 80 {
		t.Errorf("emulator width = %d, want 80 (border excluded)", got)
	}
	if width, height := shell.Size(); width != 80 || height != 24 {
		t.Errorf("shell size = %dx%d, want untouched 80x24", width, height)
	}
}

func TestWindow_Capabilities(t *testing.T) {
	w, _ := newTestWindow(t)

	want := []string{sendtext.CapabilitySession, sendtext.CapabilityFrontend, sendtext.CapabilityInput}
	if got := w.Capabilities().Names(); !slices.Equal(got, want) {
		t.Errorf("Capabilities() = %v, want %v", got, want)
	}

	w.Close()
	if caps := w.Capabilities(); caps.Any() {
		t.Errorf("Capabilities() after Close = %v, want none", caps.Names())
	}

	var nilWindow *Window
	if nilWindow.Capabilities().Any() || !nilWindow.IsNil() {
		t.Error("nil window should report no capabilities")
	}
}

func TestWindow_SessionWrite(t *testing.T) {
	w, shell := newTestWindow(t)

	if err := w.Capabilities().Session.WriteSession([]byte(" \\\n")); err != nil {
		t.Fatalf("WriteSession() error = %v", err)
	}
	if got := shell.GetInput(); got != " \\\n" {
		t.Errorf("shell input = %q, want %q", got, " \\\n")
	}
}

func TestWindow_InputRelaysToPty(t *testing.T) {
	w, shell := newTestWindow(t)

	if err := w.Capabilities().Input.SendInput("echo relayed"); err != nil {
		t.Fatalf("SendInput() error = %v", err)
	}
	if !shell.WaitForInput("echo relayed", time.Second) {
		t.Errorf("shell input = %q, want relayed text", shell.GetInput())
	}
}

func TestWindow_FrontendWrite(t *testing.T) {
	w, shell := newTestWindow(t)

	if err := w.Capabilities().Frontend.WriteFrontend("shown only"); err != nil {
		t.Fatalf("WriteFrontend() error = %v", err)
	}
	if !strings.Contains(w.Render(), "shown only") {
		t.Errorf("Render() does not contain frontend text")
	}
	if !w.HasNewOutput.Load() {
		t.Error("HasNewOutput = false after frontend write")
	}
	if shell.GetInput() != "" {
		t.Errorf("frontend write reached the shell: %q", shell.GetInput())
	}
}

func TestWindow_OutputReachesEmulator(t *testing.T) {
	w, shell := newTestWindow(t)

	shell.SendOutput(testutil.ShellPrompt("user", "host", "~") + "ls")
	waitFor(t, "shell output", func() bool {
		return strings.Contains(w.Render(), "ls") && w.HasNewOutput.Load()
	})
}

func TestWindow_SendKeys(t *testing.T) {
	w, shell := newTestWindow(t)

	if err := w.SendKeys([]byte("ls\r")); err != nil {
		t.Fatalf("SendKeys() error = %v", err)
	}
	if err := w.SendKeys(nil); err != nil {
		t.Errorf("SendKeys(nil) error = %v", err)
	}
	if got := shell.GetInputHistory(); len(got) != 1 || got[0] != "ls\r" {
		t.Errorf("input history = %q", got)
	}

	w.Close()
	if err := w.SendKeys([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("SendKeys() after Close error = %v, want ErrClosed", err)
	}
}

func TestWindow_Resize(t *testing.T) {
	w, shell := newTestWindow(t)

	w.Resize(42, 12)
	if width, height := shell.Size(); width != 40 || height != 10 {
		t.Errorf("shell size = %dx%d, want 40x10", width, height)
	}
	if w.Width != 42 || w.Height != 12 {
		t.Errorf("window size = %dx%d, want 42x12", w.Width, w.Height)
	}
}

func TestWindow_FixCursorReport(t *testing.T) {
	w, _ := newTestWindow(t)

	if err := w.Capabilities().Frontend.WriteFrontend("ab"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in, want string
	}{
		{"\x1b[1;1R", "\x1b[1;3R"},
		{"\x1b[?1;2c", "\x1b[?1;2c"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := string(w.fixCursorReport([]byte(tt.in))); got != tt.want {
			t.Errorf("fixCursorReport(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWindow_DispatchThroughSplit(t *testing.T) {
	w, shell := newTestWindow(t)
	split := NewSplit("tab 1", Vertical)
	split.Add(w)

	var events []sendtext.Event
	handle, err := sendtext.Resolve(split)
	if err != nil || handle == nil {
		t.Fatalf("Resolve() = %v, %v", handle, err)
	}
	res := sendtext.NewDispatcher(sendtext.ReporterFunc(func(ev sendtext.Event) {
		events = append(events, ev)
	})).Dispatch(handle, sendtext.DefaultText)

	if !res.Sent() || res.Method != sendtext.CapabilitySession {
		t.Errorf("Dispatch() = %+v, want sent via session", res)
	}
	if got := shell.GetInput(); got != " \\\n" {
		t.Errorf("shell input = %q, want %q", got, " \\\n")
	}
	if len(events) != 1 || events[0].Target != w.Title() {
		t.Errorf("events = %+v", events)
	}
}

func TestWindow_Paste(t *testing.T) {
	w, shell := newTestWindow(t)

	if err := w.Paste("pasted text"); err != nil {
		t.Fatalf("Paste() error = %v", err)
	}
	if !shell.WaitForInput("pasted text", time.Second) {
		t.Errorf("shell input = %q, want pasted text", shell.GetInput())
	}

	w.Close()
	if err := w.Paste("x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Paste() after Close error = %v, want ErrClosed", err)
	}
}

func TestWindow_SendKey(t *testing.T) {
	w, shell := newTestWindow(t)

	keys := []uv.KeyEvent{
		uv.KeyPressEvent{Code: 'l', Text: "l"},
		uv.KeyPressEvent{Code: 's', Text: "s"},
		uv.KeyPressEvent{Code: uv.KeyEnter},
	}
	for _, k := range keys {
		if err := w.SendKey(k); err != nil {
			t.Fatalf("SendKey(%v) error = %v", k, err)
		}
	}
	if !shell.WaitForInput("ls\r", time.Second) {
		t.Errorf("shell input = %q, want ls\\r", shell.GetInput())
	}

	w.Close()
	if err := w.SendKey(keys[0]); !errors.Is(err, ErrClosed) {
		t.Errorf("SendKey() after Close error = %v, want ErrClosed", err)
	}
}
