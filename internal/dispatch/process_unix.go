//go:build unix

package dispatch

import (
	"os"
	"os/exec"
	"syscall"
)

// exitCodeFromError extracts the exit code from an exec.ExitError.
// A child killed by a signal reports 128+signal, as shells do.
func exitCodeFromError(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return ExitLaunchFailure
}

// interruptSignals returns the signals to hold off while a child runs.
func interruptSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}
