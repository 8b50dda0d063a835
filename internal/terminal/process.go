package terminal

import (
	"path/filepath"

	"github.com/shirou/gopsutil/v4/process"
)

// ForegroundProcess returns the name of the program in the foreground of
// the pane's terminal, falling back to the shell's own name. It returns ""
// when neither can be determined.
func (w *Window) ForegroundProcess() string {
	if w == nil {
		return ""
	}

	w.ioMu.RLock()
	pty := w.Pty
	w.ioMu.RUnlock()

	if f, ok := pty.(interface{ Fd() uintptr }); ok {
		if pgid, err := foregroundPgid(f.Fd()); err == nil && pgid > 0 && pgid != w.ShellPgid {
			if name := processName(pgid); name != "" {
				return name
			}
		}
	}

	if w.Cmd != nil && w.Cmd.Process != nil {
		if name := processName(w.Cmd.Process.Pid); name != "" {
			return name
		}
	}
	if w.Cmd != nil {
		return filepath.Base(w.Cmd.Path)
	}
	return ""
}

// processName looks up a pid; the leader of a process group has pid == pgid.
func processName(pid int) string {
	p, err := process.NewProcess(int32(pid)) // #nosec G115 - pids fit in int32
	if err != nil {
		return ""
	}
	name, err := p.Name()
	if err != nil {
		return ""
	}
	return name
}
