//go:build windows

package terminal

import (
	"errors"
	"os/exec"
)

var errNoProcessGroups = errors.New("process groups are not supported on windows")

func setupPTYCommand(_ *exec.Cmd) {}

func getPgid(_ int) (int, error) {
	return 0, errNoProcessGroups
}

func foregroundPgid(_ uintptr) (int, error) {
	return 0, errNoProcessGroups
}
