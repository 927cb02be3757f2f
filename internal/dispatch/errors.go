package dispatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"runtime"
	"strings"
)

// Exit codes for dispatcher errors. A child that ran to completion exits
// with its own code instead.
const (
	ExitOK            = 0
	ExitLaunchFailure = 1
	ExitUsage         = 2
	ExitNotExecutable = 126
	ExitNotFound      = 127
)

// ErrUnknownTask is returned when the requested name is not registered.
var ErrUnknownTask = errors.New("unknown task")

// ErrTooManyArgs is returned when more than one task name is given.
var ErrTooManyArgs = errors.New("expected at most one task name")

// LaunchError reports that a task's program could not be started.
type LaunchError struct {
	Argv []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitCodeFor maps a dispatcher error to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrUnknownTask) || errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		switch {
		case IsCommandNotFound(launchErr.Err):
			return ExitNotFound
		case errors.Is(launchErr.Err, fs.ErrPermission):
			return ExitNotExecutable
		}
		return ExitLaunchFailure
	}
	return ExitLaunchFailure
}

// IsCommandNotFound checks if the error indicates the command was not found.
// This handles exec.ErrNotFound and platform-specific string fallbacks.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return true
	}
	errStr := err.Error()
	if strings.Contains(errStr, "executable file not found") {
		return true
	}
	if runtime.GOOS != "windows" && strings.Contains(errStr, "no such file or directory") {
		return true
	}
	return false
}
