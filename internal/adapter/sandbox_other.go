//go:build !unix

package adapter

import "os/exec"

func configureProcess(_ *exec.Cmd) {}
