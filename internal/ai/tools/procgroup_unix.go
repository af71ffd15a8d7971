//go:build unix

package tools

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs cmd in its own process group and makes cancellation
// SIGKILL the whole group, so children forked by the shell die with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
