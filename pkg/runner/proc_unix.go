//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// configureProcess runs the sample in its own process group so a timeout
// also kills the browsers it started. Samples attached to the terminal stay
// in the foreground group to keep reading stdin.
func configureProcess(cmd *exec.Cmd, ownGroup bool) {
	if !ownGroup {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
