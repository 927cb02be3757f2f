package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/dkoosis/taskr/internal/logging"
	"github.com/dkoosis/taskr/internal/task"
	"github.com/dkoosis/taskr/internal/ui"
)

// Printer renders the dispatcher's own output. Child output never passes
// through it.
type Printer interface {
	List(w io.Writer, tasks []task.Task)
	Announce(w io.Writer, text string)
	DryRun(w io.Writer, argv []string)
}

// Config wires a Dispatcher. Zero fields get defaults in New.
type Config struct {
	Registry     *task.Registry
	Runner       Runner
	Printer      Printer
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	GOOS         string   // defaults to runtime.GOOS
	WindowsShell []string // shell prefix used when GOOS is windows
	DryRun       bool     // print the resolved argv instead of spawning
	Debug        bool     // used only when Logger is nil
	Logger       *logrus.Logger
}

// Action is what a resolved request does.
type Action int

const (
	// ActionList prints the registered tasks.
	ActionList Action = iota
	// ActionRun announces and spawns one task.
	ActionRun
)

func (a Action) String() string {
	switch a {
	case ActionList:
		return "list"
	case ActionRun:
		return "run"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Plan is a resolved dispatch request.
type Plan struct {
	Action Action
	Task   task.Task // set for ActionRun
	Argv   []string  // set for ActionRun, after shell selection
}

// Dispatcher maps task names to child process invocations.
type Dispatcher struct {
	cfg Config
}

// New returns a Dispatcher for cfg.
func New(cfg Config) *Dispatcher {
	if cfg.Registry == nil {
		cfg.Registry = task.Builtin()
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	if cfg.Printer == nil {
		cfg.Printer = ui.NewPrinter(ui.MonoTheme())
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New(cfg.Stderr, cfg.Debug)
	}
	if cfg.GOOS == "" {
		cfg.GOOS = runtime.GOOS
	}
	if len(cfg.WindowsShell) == 0 {
		cfg.WindowsShell = task.DefaultWindowsShell
	}
	return &Dispatcher{cfg: cfg}
}

// Resolve turns the positional arguments into a plan without side effects.
// No arguments lists the tasks; one argument must name a registered task.
func (d *Dispatcher) Resolve(args []string) (Plan, error) {
	switch len(args) {
	case 0:
		return Plan{Action: ActionList}, nil
	case 1:
		t, ok := d.cfg.Registry.Lookup(args[0])
		if !ok {
			return Plan{}, fmt.Errorf("%w %q", ErrUnknownTask, args[0])
		}
		return Plan{
			Action: ActionRun,
			Task:   t,
			Argv:   BuildArgv(t, d.cfg.GOOS, d.cfg.WindowsShell),
		}, nil
	default:
		return Plan{}, fmt.Errorf("%w, got %d: %q", ErrTooManyArgs, len(args), args)
	}
}

// Dispatch resolves args and executes the plan. It returns the process exit
// code and, for dispatcher failures only, an error describing them. A task
// whose command runs and exits non-zero is not an error: its code is
// returned with a nil error.
func (d *Dispatcher) Dispatch(ctx context.Context, args []string) (int, error) {
	plan, err := d.Resolve(args)
	if err != nil {
		d.debugf("Dispatch", "resolve failed: %v", err)
		return ExitCodeFor(err), err
	}
	return d.Execute(ctx, plan)
}

// Execute carries out a resolved plan.
func (d *Dispatcher) Execute(ctx context.Context, plan Plan) (int, error) {
	switch plan.Action {
	case ActionList:
		d.cfg.Printer.List(d.cfg.Stdout, d.cfg.Registry.Tasks())
		return ExitOK, nil
	case ActionRun:
		return d.run(ctx, plan)
	default:
		return ExitUsage, fmt.Errorf("unsupported action %s", plan.Action)
	}
}

func (d *Dispatcher) run(ctx context.Context, plan Plan) (int, error) {
	if plan.Task.Announcement != "" {
		d.cfg.Printer.Announce(d.cfg.Stdout, plan.Task.Announcement)
	}
	if d.cfg.DryRun {
		d.cfg.Printer.DryRun(d.cfg.Stdout, plan.Argv)
		return ExitOK, nil
	}

	d.debugf("run", "task=%s argv=%q goos=%s", plan.Task.Name, plan.Argv, d.cfg.GOOS)
	code, err := d.cfg.Runner.Run(ctx, Invocation{
		Argv:   plan.Argv,
		Stdin:  d.cfg.Stdin,
		Stdout: d.cfg.Stdout,
		Stderr: d.cfg.Stderr,
	})
	d.debugf("run", "task=%s exit=%d err=%v", plan.Task.Name, code, err)
	if err != nil {
		return ExitCodeFor(err), err
	}
	return code, nil
}

func (d *Dispatcher) debugf(fn, format string, args ...any) {
	d.cfg.Logger.WithField("fn", fn).Debugf(format, args...)
}
