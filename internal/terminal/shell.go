package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/colorprofile"

	"github.com/dodorz/contline/internal/config"
)

// Detected once per process and reused for every pane
var (
	localTermType  string
	localColorTerm string
	localEnvOnce   sync.Once
)

func detectShell() string {
	if preferred := config.PreferredShell; preferred != "" {
		if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(preferred), ".exe") {
			preferred += ".exe"
		}
		if shellExists(preferred) {
			return preferred
		}
		fmt.Fprintf(os.Stderr, "Warning: Configured shell '%s' not found. Falling back to defaults.\n", preferred)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	if runtime.GOOS == "windows" {
		for _, shell := range []string{"pwsh.exe", "powershell.exe", "cmd.exe"} {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}

	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}

func shellExists(shell string) bool {
	if runtime.GOOS == "windows" || !strings.ContainsRune(shell, os.PathSeparator) {
		_, err := exec.LookPath(shell)
		return err == nil
	}
	_, err := os.Stat(shell)
	return err == nil
}

// getTerminalEnv returns TERM and COLORTERM for child shells, detected from
// the host terminal on first use.
func getTerminalEnv() (termType, colorTerm string) {
	localEnvOnce.Do(func() {
		envTerm := os.Getenv("TERM")
		envColorTerm := os.Getenv("COLORTERM")

		// Trust an explicit truecolor environment
		if envColorTerm == "truecolor" && envTerm != "" && envTerm != "dumb" {
			localTermType = envTerm
			localColorTerm = envColorTerm
			return
		}

		profile := colorprofile.Detect(os.Stdout, os.Environ())
		localTermType, localColorTerm = profileToEnv(profile, envTerm)
	})
	return localTermType, localColorTerm
}

// profileToEnv maps a color profile to TERM and COLORTERM, keeping the
// parent's TERM when it already describes the profile.
func profileToEnv(profile colorprofile.Profile, parentTerm string) (termType, colorTerm string) {
	switch profile {
	case colorprofile.TrueColor:
		termType = parentTerm
		if termType == "" || termType == "dumb" {
			termType = "xterm-256color"
		}
		colorTerm = "truecolor"

	case colorprofile.ANSI256:
		switch {
		case strings.Contains(parentTerm, "256color"):
			termType = parentTerm
		case strings.HasPrefix(parentTerm, "screen"):
			termType = "screen-256color"
		case strings.HasPrefix(parentTerm, "tmux"):
			termType = "tmux-256color"
		default:
			termType = "xterm-256color"
		}

	case colorprofile.ANSI:
		termType = parentTerm
		if termType == "" || termType == "dumb" {
			termType = "xterm"
		}

	case colorprofile.Ascii, colorprofile.NoTTY:
		termType = "dumb"

	default:
		termType = "xterm-256color"
	}

	return termType, colorTerm
}
