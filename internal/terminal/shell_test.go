package terminal

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/colorprofile"

	"github.com/dodorz/contline/internal/config"
)

func TestProfileToEnv(t *testing.T) {
	tests := []struct {
		name      string
		profile   colorprofile.Profile
		parent    string
		wantTerm  string
		wantColor string
	}{
		{"truecolor keeps parent", colorprofile.TrueColor, "alacritty", "alacritty", "truecolor"},
		{"truecolor default", colorprofile.TrueColor, "", "xterm-256color", "truecolor"},
		{"256 keeps parent", colorprofile.ANSI256, "foot-256color", "foot-256color", ""},
		{"256 screen", colorprofile.ANSI256, "screen", "screen-256color", ""},
		{"256 tmux", colorprofile.ANSI256, "tmux", "tmux-256color", ""},
		{"ansi dumb parent", colorprofile.ANSI, "dumb", "xterm", ""},
		{"no tty", colorprofile.NoTTY, "xterm", "dumb", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, color := profileToEnv(tt.profile, tt.parent)
			if term != tt.wantTerm || color != tt.wantColor {
				t.Errorf("profileToEnv() = %q, %q; want %q, %q", term, color, tt.wantTerm, tt.wantColor)
			}
		})
	}
}

func TestDetectShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell paths")
	}
	defer func() { config.PreferredShell = "" }()

	preferred := filepath.Join(t.TempDir(), "myshell")
	if err := os.WriteFile(preferred, []byte("#!/bin/sh\n"), 0700); err != nil {
		t.Fatal(err)
	}

	config.PreferredShell = preferred
	t.Setenv("SHELL", "/bin/from-env")
	if got := detectShell(); got != preferred {
		t.Errorf("detectShell() = %q, want preferred %q", got, preferred)
	}

	config.PreferredShell = ""
	if got := detectShell(); got != "/bin/from-env" {
		t.Errorf("detectShell() = %q, want $SHELL", got)
	}
}
