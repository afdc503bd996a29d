//go:build !unix

package job

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

// interruptGroup fails where os.Interrupt cannot be delivered, e.g. Windows;
// Interrupt then kills the process.
func interruptGroup(p *os.Process) error { return p.Signal(os.Interrupt) }

func killGroup(p *os.Process) error { return p.Kill() }
