package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/taskr/internal/task"
	"github.com/dkoosis/taskr/internal/ui"
)

// recordingRunner records every invocation instead of spawning a process.
type recordingRunner struct {
	calls  [][]string
	code   int
	err    error
	output string // written to the invocation's stdout when set
}

func (r *recordingRunner) Run(_ context.Context, inv Invocation) (int, error) {
	r.calls = append(r.calls, inv.Argv)
	if r.output != "" {
		_, _ = io.WriteString(inv.Stdout, r.output)
	}
	return r.code, r.err
}

type harness struct {
	d      *Dispatcher
	runner *recordingRunner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()
	h := &harness{
		runner: &recordingRunner{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	cfg := Config{
		Registry: task.Builtin(),
		Runner:   h.runner,
		Printer:  ui.NewPrinter(ui.MonoTheme()),
		Stdin:    strings.NewReader(""),
		Stdout:   h.stdout,
		Stderr:   h.stderr,
		GOOS:     "linux",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.d = New(cfg)
	return h
}

func TestDispatch_SpawnsOneChildPerRegisteredTask(t *testing.T) {
	t.Parallel()

	for _, tk := range task.Builtin().Tasks() {
		t.Run(tk.Name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, nil)

			code, err := h.d.Dispatch(context.Background(), []string{tk.Name})
			require.NoError(t, err)
			assert.Equal(t, 0, code)

			require.Len(t, h.runner.calls, 1)
			if diff := cmp.Diff(tk.Command, h.runner.calls[0]); diff != "" {
				t.Errorf("argv mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatch_Test_RunsWorkspaceTestsWithAllFeatures(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	code, err := h.d.Dispatch(context.Background(), []string{"test"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"cargo", "test", "--workspace", "--all-features"}}, h.runner.calls)
}

func TestDispatch_NoArgs_ListsWithoutSpawning(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	code, err := h.d.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, h.runner.calls)

	listing := h.stdout.String()
	for _, name := range task.Builtin().Names() {
		found := 0
		for _, line := range strings.Split(listing, "\n") {
			if fields := strings.Fields(line); len(fields) > 0 && fields[0] == name {
				found++
			}
		}
		assert.Equal(t, 1, found, "task %q listed %d times", name, found)
	}
}

func TestDispatch_ListingIsIdempotent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	_, err := h.d.Dispatch(context.Background(), []string{})
	require.NoError(t, err)
	first := h.stdout.String()
	h.stdout.Reset()

	_, err = h.d.Dispatch(context.Background(), []string{})
	require.NoError(t, err)
	assert.Equal(t, first, h.stdout.String())
}

func TestDispatch_UnknownTask_DoesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	code, err := h.d.Dispatch(context.Background(), []string{"doesnotexist"})
	require.ErrorIs(t, err, ErrUnknownTask)
	assert.Contains(t, err.Error(), `"doesnotexist"`)
	assert.NotZero(t, code)
	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, h.runner.calls)
	assert.Empty(t, h.stdout.String())
}

func TestDispatch_TooManyArgs_DoesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	code, err := h.d.Dispatch(context.Background(), []string{"fmt", "lint"})
	require.ErrorIs(t, err, ErrTooManyArgs)
	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, h.runner.calls)
	assert.Empty(t, h.stdout.String())
}

func TestDispatch_ForwardsChildExitCode(t *testing.T) {
	t.Parallel()

	for _, want := range []int{0, 1, 3, 101} {
		t.Run(fmt.Sprintf("exit_%d", want), func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, nil)
			h.runner.code = want

			code, err := h.d.Dispatch(context.Background(), []string{"lint"})
			require.NoError(t, err)
			assert.Equal(t, want, code)
		})
	}
}

func TestDispatch_LaunchFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.runner.code = ExitNotFound
	h.runner.err = &LaunchError{Argv: []string{"cargo", "audit"}, Err: exec.ErrNotFound}

	code, err := h.d.Dispatch(context.Background(), []string{"audit"})
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Equal(t, ExitNotFound, code)
	assert.Len(t, h.runner.calls, 1)
}

func TestDispatch_AnnouncesBeforeSpawning(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.runner.output = "child output\n"

	_, err := h.d.Dispatch(context.Background(), []string{"test"})
	require.NoError(t, err)
	assert.Equal(t, "Running workspace tests...\nchild output\n", h.stdout.String())
}

func TestDispatch_NoAnnouncement_When_TaskHasNone(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.runner.output = "formatted\n"

	_, err := h.d.Dispatch(context.Background(), []string{"fmt"})
	require.NoError(t, err)
	assert.Equal(t, "formatted\n", h.stdout.String())
}

func TestDispatch_DryRun_PrintsArgvWithoutSpawning(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(c *Config) { c.DryRun = true })

	code, err := h.d.Dispatch(context.Background(), []string{"test"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, h.runner.calls)
	assert.Equal(t, "Running workspace tests...\n$ cargo test --workspace --all-features\n", h.stdout.String())
}

func TestDispatch_WindowsUsesShell(t *testing.T) {
	t.Parallel()

	reg := task.MustRegistry(
		task.Task{Name: "a", Command: []string{"cargo", "fmt", "--all"}},
		task.Task{Name: "b", Command: []string{"echo", "hi there"}, WindowsShell: []string{"cmd.exe", "/C"}},
	)
	h := newHarness(t, func(c *Config) {
		c.Registry = reg
		c.GOOS = "windows"
	})

	_, err := h.d.Dispatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	_, err = h.d.Dispatch(context.Background(), []string{"b"})
	require.NoError(t, err)

	want := [][]string{
		{"powershell.exe", "-NoLogo", "-Command", "cargo fmt --all"},
		{"cmd.exe", "/C", `echo "hi there"`},
	}
	if diff := cmp.Diff(want, h.runner.calls); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_Debug_TracesToStderr(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(c *Config) { c.Debug = true })

	_, err := h.d.Dispatch(context.Background(), []string{"fmt"})
	require.NoError(t, err)
	assert.Contains(t, h.stderr.String(), "level=debug")
	assert.Contains(t, h.stderr.String(), "fn=run")
	assert.Contains(t, h.stderr.String(), "task=fmt")

	_, _ = h.d.Dispatch(context.Background(), []string{"nope"})
	assert.Contains(t, h.stderr.String(), "fn=Dispatch")
	assert.Contains(t, h.stderr.String(), "resolve failed")
}

func TestResolve_IsSideEffectFree(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	plan, err := h.d.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, ActionList, plan.Action)

	plan, err = h.d.Resolve([]string{"audit"})
	require.NoError(t, err)
	assert.Equal(t, ActionRun, plan.Action)
	assert.Equal(t, "audit", plan.Task.Name)
	assert.Equal(t, []string{"cargo", "audit"}, plan.Argv)

	assert.Empty(t, h.runner.calls)
	assert.Empty(t, h.stdout.String())
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	d := New(Config{})
	assert.NotNil(t, d.cfg.Registry)
	assert.IsType(t, ExecRunner{}, d.cfg.Runner)
	assert.NotEmpty(t, d.cfg.GOOS)
	assert.NotNil(t, d.cfg.Logger)
	assert.Equal(t, task.DefaultWindowsShell, d.cfg.WindowsShell)
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "unknown", err: fmt.Errorf("%w %q", ErrUnknownTask, "x"), want: ExitUsage},
		{name: "too many", err: ErrTooManyArgs, want: ExitUsage},
		{name: "not found", err: &LaunchError{Err: exec.ErrNotFound}, want: ExitNotFound},
		{name: "permission", err: &LaunchError{Err: fmt.Errorf("exec: %w", errPermission)}, want: ExitNotExecutable},
		{name: "other launch", err: &LaunchError{Err: errors.New("resource busy")}, want: ExitLaunchFailure},
		{name: "other", err: errors.New("boom"), want: ExitLaunchFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestAction_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "list", ActionList.String())
	assert.Equal(t, "run", ActionRun.String())
	assert.Equal(t, "Action(9)", Action(9).String())
}
