//go:build !unix

package runner

import "os/exec"

func configureProcess(_ *exec.Cmd, _ bool) {}
