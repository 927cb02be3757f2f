//go:build !unix

package dispatch

import (
	"os"
	"os/exec"
)

// exitCodeFromError extracts the exit code from an exec.ExitError.
func exitCodeFromError(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return ExitLaunchFailure
}

// interruptSignals returns the signals to hold off while a child runs.
func interruptSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
