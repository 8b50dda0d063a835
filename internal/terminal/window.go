// Package terminal provides PTY-backed panes and the split containers that
// hold them.
package terminal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/vt"
	xpty "github.com/charmbracelet/x/xpty"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/theme"
)

// ErrClosed is returned by writes to a pane whose PTY or emulator is gone.
var ErrClosed = errors.New("pane closed")

// Pty is the part of xpty.Pty a Window uses. Tests substitute an in-memory
// shell.
type Pty interface {
	io.ReadWriteCloser
	Resize(width, height int) error
}

// Window is one pane: a shell process on a PTY, rendered through a VT
// emulator. Width and Height include the one-cell border on each side.
type Window struct {
	ID        string
	Width     int
	Height    int
	Terminal  *vt.Emulator
	Pty       Pty
	Cmd       *exec.Cmd
	ShellPgid int // Process group ID of the shell

	// ProcessExited is set once the shell has exited.
	ProcessExited atomic.Bool

	// HasNewOutput is set when new data is written to the emulator.
	// Used by the host to redraw only when something changed.
	HasNewOutput atomic.Bool

	titleMu sync.RWMutex
	title   string

	cancelFunc  context.CancelFunc
	ioMu        sync.RWMutex // Protects Pty and Terminal
	ioWg        sync.WaitGroup
	cmdWaitOnce sync.Once
}

func innerSize(width, height int) (int, int) {
	return max(width-2, 1), max(height-2, 1)
}

// newWindow builds the emulator side of a pane.
func newWindow(id, title string, width, height int) *Window {
	if title == "" {
		title = "Terminal " + shortID(id)
	}

	termWidth, termHeight := innerSize(width, height)
	emulator := vt.NewEmulator(termWidth, termHeight)

	window := &Window{
		title:    title,
		ID:       id,
		Width:    width,
		Height:   height,
		Terminal: emulator,
	}
	window.applyTheme()

	emulator.SetCallbacks(vt.Callbacks{
		Title: func(t string) {
			// Runs on the PTY reader goroutine.
			window.SetTitle(t)
		},
	})

	return window
}

// NewWindow starts the preferred shell on a new PTY. When the shell exits
// the window ID is sent on exitChan without blocking.
func NewWindow(id, title string, width, height int, exitChan chan<- string) (*Window, error) {
	window := newWindow(id, title, width, height)
	termWidth, termHeight := innerSize(width, height)

	shell := detectShell()
	// #nosec G204 - shell is intentionally user-controlled for terminal functionality
	cmd := exec.Command(shell)

	termType, colorTerm := getTerminalEnv()
	cmd.Env = append(os.Environ(),
		"TERM="+termType,
		"COLORTERM="+colorTerm,
		"TERM_PROGRAM=contline",
		"CONTLINE_PANE_ID="+id,
	)

	// xpty requires dimensions at creation time
	ptyInstance, err := xpty.NewPty(termWidth, termHeight)
	if err != nil {
		_ = window.Terminal.Close()
		return nil, fmt.Errorf("failed to create PTY: %w", err)
	}

	setupPTYCommand(cmd)

	if err := ptyInstance.Start(cmd); err != nil {
		_ = ptyInstance.Close()
		_ = window.Terminal.Close()
		return nil, fmt.Errorf("failed to start %s: %w", shell, err)
	}

	// Some PTY implementations need the process running before a resize sticks
	_ = ptyInstance.Resize(termWidth, termHeight)

	window.Pty = ptyInstance
	window.Cmd = cmd
	if cmd.Process != nil {
		if pgid, err := getPgid(cmd.Process.Pid); err == nil {
			window.ShellPgid = pgid
		}
	}

	window.handleIOOperations()
	go window.monitorProcess(exitChan)

	return window, nil
}

// NewWindowWithPty builds a pane around an already running PTY. No process
// is started or monitored.
func NewWindowWithPty(id, title string, width, height int, pty Pty) *Window {
	window := newWindow(id, title, width, height)
	window.Pty = pty
	window.handleIOOperations()
	return window
}

func (w *Window) monitorProcess(exitChan chan<- string) {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	w.waitForCmd()
	w.ProcessExited.Store(true)

	// Let the read loop drain the final output
	time.Sleep(config.ProcessWaitDelay)

	if exitChan == nil {
		return
	}
	select {
	case exitChan <- w.ID:
	default:
		// Channel full, the host will notice ProcessExited on its next tick
	}
}

func (w *Window) applyTheme() {
	if !theme.IsEnabled() {
		return
	}
	w.Terminal.SetDefaultForegroundColor(theme.TerminalFg())
	w.Terminal.SetDefaultBackgroundColor(theme.TerminalBg())
	w.Terminal.SetDefaultCursorColor(theme.TerminalCursor())
	for i, c := range theme.GetANSIPalette() {
		if c != nil {
			w.Terminal.SetIndexedColor(i, c)
		}
	}
}

// UpdateThemeColors re-applies the active theme to the emulator.
func (w *Window) UpdateThemeColors() {
	w.ioMu.RLock()
	defer w.ioMu.RUnlock()
	if w.Terminal == nil {
		return
	}
	if theme.IsEnabled() {
		w.applyTheme()
	} else {
		w.Terminal.SetDefaultForegroundColor(nil)
		w.Terminal.SetDefaultBackgroundColor(nil)
		w.Terminal.SetDefaultCursorColor(nil)
		for i := range 16 {
			w.Terminal.SetIndexedColor(i, nil)
		}
	}
	w.HasNewOutput.Store(true)
}

func (w *Window) handleIOOperations() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancelFunc = cancel

	// PTY to emulator (output from the shell)
	w.ioWg.Add(1)
	go func() {
		defer w.ioWg.Done()
		defer func() {
			if r := recover(); r != nil {
				_ = r
			}
		}()

		buf := make([]byte, config.ReadBufferSize)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			w.ioMu.RLock()
			pty := w.Pty
			w.ioMu.RUnlock()
			if pty == nil {
				return
			}

			n, err := pty.Read(buf)
			if n > 0 {
				// Written outside ioMu: the emulator may block answering a
				// query until the relay goroutine below reads the reply.
				w.ioMu.RLock()
				terminal := w.Terminal
				w.ioMu.RUnlock()
				if terminal != nil {
					_, _ = terminal.Write(buf[:n])
					w.HasNewOutput.Store(true)
				}
			}
			if err != nil {
				return
			}
		}
	}()

	// Emulator to PTY (query replies and text sent through the emulator)
	w.ioWg.Add(1)
	go func() {
		defer w.ioWg.Done()
		defer func() {
			if r := recover(); r != nil {
				_ = r
			}
		}()

		buf := make([]byte, 4096)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			w.ioMu.RLock()
			terminal := w.Terminal
			w.ioMu.RUnlock()
			if terminal == nil {
				return
			}

			n, err := terminal.Read(buf)
			if n > 0 {
				data := w.fixCursorReport(buf[:n])
				w.ioMu.RLock()
				pty := w.Pty
				w.ioMu.RUnlock()
				if pty != nil {
					_, _ = pty.Write(data)
				}
			}
			if err != nil {
				return
			}
		}
	}()
}

// fixCursorReport rewrites a cursor position report (ESC [ row ; col R)
// with the emulator's current cursor, which can be ahead of the position
// the emulator captured when the query arrived.
func (w *Window) fixCursorReport(data []byte) []byte {
	if len(data) < 6 || data[0] != '\x1b' || data[1] != '[' || data[len(data)-1] != 'R' {
		return data
	}
	if !bytes.Contains(data, []byte(";")) {
		return data
	}

	w.ioMu.RLock()
	defer w.ioMu.RUnlock()
	if w.Terminal == nil {
		return data
	}
	pos := w.Terminal.CursorPosition()
	return fmt.Appendf(nil, "\x1b[%d;%dR", pos.Y+1, pos.X+1)
}

// Resize resizes the window, its emulator and its PTY.
func (w *Window) Resize(width, height int) {
	if w == nil {
		return
	}
	termWidth, termHeight := innerSize(width, height)

	w.ioMu.RLock()
	defer w.ioMu.RUnlock()
	if w.Terminal == nil {
		return
	}
	if w.Width == width && w.Height == height {
		return
	}

	w.Terminal.Resize(termWidth, termHeight)
	if w.Pty != nil {
		_ = w.Pty.Resize(termWidth, termHeight)
	}
	w.Width = width
	w.Height = height
	w.HasNewOutput.Store(true)
}

// Render returns the emulator screen as styled text, or "" once closed.
func (w *Window) Render() string {
	w.ioMu.RLock()
	defer w.ioMu.RUnlock()
	if w.Terminal == nil {
		return ""
	}
	return w.Terminal.Render()
}

// CursorPosition returns the 0-based cursor cell inside the pane.
func (w *Window) CursorPosition() (x, y int, ok bool) {
	w.ioMu.RLock()
	defer w.ioMu.RUnlock()
	if w.Terminal == nil {
		return 0, 0, false
	}
	pos := w.Terminal.CursorPosition()
	return pos.X, pos.Y, true
}

// waitForCmd waits for the command to exit, ensuring Wait() is only called
// once between the process monitor and Close.
func (w *Window) waitForCmd() {
	if w == nil || w.Cmd == nil {
		return
	}
	w.cmdWaitOnce.Do(func() {
		_ = w.Cmd.Wait()
	})
}

// Close stops I/O, closes the PTY and emulator, and kills the shell.
func (w *Window) Close() {
	if w == nil {
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
		w.cancelFunc = nil
	}

	// PTY close unblocks the PTY->emulator goroutine, emulator close
	// unblocks the emulator->PTY goroutine.
	w.ioMu.Lock()
	if w.Pty != nil {
		_ = w.Pty.Close()
		w.Pty = nil
	}
	if w.Terminal != nil {
		_ = w.Terminal.Close()
		w.Terminal = nil
	}
	w.ioMu.Unlock()

	done := make(chan struct{})
	go func() {
		w.ioWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Millisecond):
	}

	if w.Cmd != nil && w.Cmd.Process != nil {
		_ = w.Cmd.Process.Kill()
		w.waitForCmd()
	}
}

// SendKeys writes typed bytes straight to the PTY.
func (w *Window) SendKeys(input []byte) error {
	if w == nil {
		return fmt.Errorf("window is nil")
	}
	if len(input) == 0 {
		return nil
	}

	w.ioMu.RLock()
	pty := w.Pty
	w.ioMu.RUnlock()

	if pty == nil {
		return fmt.Errorf("no PTY available: %w", ErrClosed)
	}

	n, err := pty.Write(input)
	if err != nil {
		return fmt.Errorf("failed to write to PTY: %w", err)
	}
	if n != len(input) {
		return fmt.Errorf("partial write to PTY: wrote %d of %d bytes", n, len(input))
	}
	return nil
}

// SendKey encodes a key press through the emulator, so cursor keys follow
// the application cursor mode the running program selected.
func (w *Window) SendKey(k uv.KeyEvent) error {
	if w == nil {
		return fmt.Errorf("window is nil")
	}
	w.ioMu.RLock()
	terminal, pty := w.Terminal, w.Pty
	w.ioMu.RUnlock()
	if terminal == nil || pty == nil {
		return fmt.Errorf("no input path available: %w", ErrClosed)
	}
	terminal.SendKey(k)
	return nil
}

// Paste sends pasted text through the emulator, which wraps it in bracketed
// paste markers when the running program enabled that mode.
func (w *Window) Paste(text string) error {
	if w == nil {
		return fmt.Errorf("window is nil")
	}
	w.ioMu.RLock()
	terminal, pty := w.Terminal, w.Pty
	w.ioMu.RUnlock()
	if terminal == nil || pty == nil {
		return fmt.Errorf("no input path available: %w", ErrClosed)
	}
	terminal.Paste(text)
	return nil
}

// Title returns the pane title, as last set by the shell or at creation.
func (w *Window) Title() string {
	w.titleMu.RLock()
	defer w.titleMu.RUnlock()
	return w.title
}

// SetTitle replaces the pane title. Empty titles are ignored.
func (w *Window) SetTitle(t string) {
	if t == "" {
		return
	}
	w.titleMu.Lock()
	w.title = t
	w.titleMu.Unlock()
}

// TargetName names the pane in logs and reports.
func (w *Window) TargetName() string {
	if w == nil {
		return ""
	}
	return w.Title()
}

// IsNil reports whether w is a nil pointer.
func (w *Window) IsNil() bool { return w == nil }

// Capabilities reports which write paths are open right now.
func (w *Window) Capabilities() sendtext.Capabilities {
	if w == nil {
		return sendtext.Capabilities{}
	}

	w.ioMu.RLock()
	defer w.ioMu.RUnlock()

	var caps sendtext.Capabilities
	if w.Pty != nil {
		caps.Session = sessionWriter{w}
	}
	if w.Terminal != nil {
		caps.Frontend = frontendWriter{w}
	}
	if w.Pty != nil && w.Terminal != nil {
		caps.Input = inputSender{w}
	}
	return caps
}

// sessionWriter writes raw bytes to the PTY.
type sessionWriter struct{ w *Window }

func (s sessionWriter) WriteSession(p []byte) error {
	return s.w.SendKeys(p)
}

// frontendWriter writes to the emulator display without involving the shell.
type frontendWriter struct{ w *Window }

func (f frontendWriter) WriteFrontend(s string) error {
	f.w.ioMu.RLock()
	terminal := f.w.Terminal
	f.w.ioMu.RUnlock()
	if terminal == nil {
		return fmt.Errorf("no emulator available: %w", ErrClosed)
	}
	if _, err := terminal.Write([]byte(s)); err != nil {
		return fmt.Errorf("failed to write to emulator: %w", err)
	}
	f.w.HasNewOutput.Store(true)
	return nil
}

// inputSender types text through the emulator, which relays it to the PTY
// with the encoding the running program asked for.
type inputSender struct{ w *Window }

func (i inputSender) SendInput(s string) error {
	i.w.ioMu.RLock()
	terminal, pty := i.w.Terminal, i.w.Pty
	i.w.ioMu.RUnlock()
	if terminal == nil || pty == nil {
		return fmt.Errorf("no input path available: %w", ErrClosed)
	}
	// Not under ioMu: the write blocks until the relay goroutine, which
	// takes ioMu itself, has read it.
	terminal.SendText(s)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
