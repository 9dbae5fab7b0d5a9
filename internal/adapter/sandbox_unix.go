//go:build unix

package adapter

import (
	"os/exec"
	"syscall"
)

// configureProcess puts the command in its own process group so a timeout
// kills the whole test runner tree, not only the shell.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
