package testutil

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFakeShell_OutputIsReadable(t *testing.T) {
	s := NewFakeShell()
	s.SendOutput("hello ")
	s.SendOutput("world")

	buf := make([]byte, 4)
	var got strings.Builder
	for got.Len() < len("hello world") {
		n, err := s.Read(buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		got.Write(buf[:n])
	}
	if got.String() != "hello world" {
		t.Errorf("read %q, want %q", got.String(), "hello world")
	}
}

func TestFakeShell_RecordsInput(t *testing.T) {
	s := NewFakeShell()
	for _, p := range []string{"ls", " -la", "\r"} {
		if _, err := s.Write([]byte(p)); err != nil {
			t.Fatalf("Write(%q) error = %v", p, err)
		}
	}

	if got := s.GetInput(); got != "ls -la\r" {
		t.Errorf("GetInput() = %q", got)
	}
	if got := s.GetInputHistory(); len(got) != 3 || got[1] != " -la" {
		t.Errorf("GetInputHistory() = %q", got)
	}
}

func TestFakeShell_Close(t *testing.T) {
	s := NewFakeShell()
	s.SendOutput("tail")

	readDone := make(chan error, 1)
	go func() {
		buf := make([]byte, 16)
		for {
			if _, err := s.Read(buf); err != nil {
				readDone <- err
				return
			}
		}
	}()

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	select {
	case err := <-readDone:
		if !errors.Is(err, io.EOF) {
			t.Errorf("Read() after Close error = %v, want io.EOF", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read() still blocked after Close")
	}

	if _, err := s.Write([]byte("x")); !errors.Is(err, ErrShellClosed) {
		t.Errorf("Write() after Close error = %v, want ErrShellClosed", err)
	}
	if err := s.Resize(10, 10); !errors.Is(err, ErrShellClosed) {
		t.Errorf("Resize() after Close error = %v, want ErrShellClosed", err)
	}
}

func TestFakeShell_Resize(t *testing.T) {
	s := NewFakeShell()
	if w, h := s.Size(); w != 80 || h != 24 {
		t.Errorf("Size() = %dx%d, want 80x24", w, h)
	}
	if err := s.Resize(120, 40); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := s.Size(); w != 120 || h != 40 {
		t.Errorf("Size() = %dx%d, want 120x40", w, h)
	}
}

func TestFakeShell_WaitForInput(t *testing.T) {
	s := NewFakeShell()
	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = s.Write([]byte(" \\\n"))
	}()

	if !s.WaitForInput("\\\n", time.Second) {
		t.Error("WaitForInput() missed a delayed write")
	}
	if s.WaitForInput("never", 20*time.Millisecond) {
		t.Error("WaitForInput() matched text that was never written")
	}
}

func TestFakeShell_ConcurrentWrites(t *testing.T) {
	s := NewFakeShell()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = s.Write([]byte("k"))
			}
		}()
	}
	wg.Wait()

	if got := len(s.GetInput()); got != 400 {
		t.Errorf("recorded %d bytes, want 400", got)
	}
}

func TestShellPrompt(t *testing.T) {
	prompt := ShellPrompt("user", "host", "~/src")
	if !strings.HasSuffix(prompt, "$ ") {
		t.Errorf("prompt %q does not end with $", prompt)
	}
	for _, want := range []string{"user@host", "~/src", "\x1b[1m"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt %q missing %q", prompt, want)
		}
	}
}

func TestANSIBuilder(t *testing.T) {
	tests := []struct {
		name string
		b    *ANSIBuilder
		want string
	}{
		{"bracketed paste", NewANSIBuilder().EnableBracketedPaste(), "\x1b[?2004h"},
		{"title", NewANSIBuilder().OSCTitle("vim"), "\x1b]0;vim\x07"},
		{"color", NewANSIBuilder().FgColor(31).Text("err").Reset(), "\x1b[31merr\x1b[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
