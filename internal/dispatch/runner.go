package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
)

// Invocation is one child process to run with the given standard streams.
type Invocation struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner spawns a child process and waits for it.
//
// Run returns the child's exit code with a nil error when the child ran to
// completion, whatever that code was. A *LaunchError means the child never
// started. Any other error means the child started but waiting for it
// failed, e.g. its output could not be copied to Stdout.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// ExecRunner runs invocations with os/exec in the caller's environment.
type ExecRunner struct{}

// Run starts inv.Argv and waits for it. While the child runs, interrupt
// signals are caught and discarded so the child (which receives them from
// the terminal) decides how to exit and its code is still reported.
func (ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	if len(inv.Argv) == 0 {
		return ExitLaunchFailure, &LaunchError{Err: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, interruptSignals()...)
	defer signal.Stop(sigChan)

	if err := cmd.Start(); err != nil {
		launchErr := &LaunchError{Argv: inv.Argv, Err: err}
		return ExitCodeFor(launchErr), launchErr
	}

	err := cmd.Wait()
	if err == nil {
		return ExitOK, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitCodeFromError(exitErr), nil
	}
	return ExitLaunchFailure, fmt.Errorf("waiting for %q: %w", strings.Join(inv.Argv, " "), err)
}
