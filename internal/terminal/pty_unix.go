//go:build !windows

package terminal

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setupPTYCommand makes the shell a session leader with the PTY as its
// controlling terminal, so job control and foreground detection work.
func setupPTYCommand(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setctty = true
}

func getPgid(pid int) (int, error) {
	return unix.Getpgid(pid)
}

// foregroundPgid returns the process group owning the terminal on fd.
func foregroundPgid(fd uintptr) (int, error) {
	return unix.IoctlGetInt(int(fd), unix.TIOCGPGRP)
}
