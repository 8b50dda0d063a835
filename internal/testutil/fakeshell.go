// Package testutil provides an in-memory shell that stands in for a PTY,
// and helpers for building the escape sequences a real shell would print.
package testutil

import (
	"bytes"
	"errors"
		"io"
	"strings"
	"sync"
	"time"
)

// ErrShellClosed is returned by Write after Close.
var ErrShellClosed = errors.New("fake shell closed")

// FakeShell is an in-memory PTY. Output queued with SendOutput is returned
// by Read; bytes passed to Write are recorded as input.
type FakeShell struct {
	mu      sync.Mutex
	output  bytes.Buffer
	input   strings.Builder
	history []string
	width   int
	height  int
	closed  bool

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewFakeShell returns an open shell with an 80x24 size.
func NewFakeShell() *FakeShell {
	return &FakeShell{
		width:  80,
		height: 24,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (s *FakeShell) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// SendOutput queues data as if the shell had printed it. Ignored after Close.
func (s *FakeShell) SendOutput(data string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.output.WriteString(data)
	s.mu.Unlock()
	s.wake()
}

// Read blocks until output is queued or the shell is closed. It returns
// io.EOF once closed and drained.
func (s *FakeShell) Read(p []byte) (int, error) {
	for {
		n, ok, err := s.tryRead(p)
		if ok {
			return n, err
		}
		select {
		case <-s.notify:
		case <-s.done:
		}
	}
}

func (s *FakeShell) tryRead(p []byte) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.output.Len() > 0 {
		n, _ := s.output.Read(p)
		if s.output.Len() > 0 {
			s.wake()
		}
		return n, true, nil
	}
	if s.closed {
		return 0, true, io.EOF
	}
	return 0, false, nil
}

// Write records p as input to the shell.
func (s *FakeShell) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrShellClosed
	}
	s.input.Write(p)
	s.history = append(s.history, string(p))
	return len(p), nil
}

// GetInput returns everything written so far.
func (s *FakeShell) GetInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.String()
}

// GetInputHistory returns each Write call's payload in order.
func (s *FakeShell) GetInputHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// WaitForInput polls until the recorded input contains want or timeout
// passes. Writes reach the shell from I/O goroutines, so tests wait.
func (s *FakeShell) WaitForInput(want string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(s.GetInput(), want) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Resize records the new size.
func (s *FakeShell) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrShellClosed
	}
	s.width, s.height = width, height
	return nil
}

// Size returns the last size passed to Resize.
func (s *FakeShell) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Close marks the shell closed. It is safe to call more than once.
func (s *FakeShell) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
	return nil
}
