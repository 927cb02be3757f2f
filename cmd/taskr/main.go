// taskr runs a project's developer tasks by name.
//
// Usage:
//
//	taskr                 # list the registered tasks
//	taskr test            # announce and run the "test" task
//	taskr --dry-run lint  # show the command "lint" would run
//	taskr --choose        # pick a task interactively
//
// Tasks come from .taskr.yaml (see internal/config); without one, the
// built-in Cargo workspace tasks (fmt, lint, fix, audit, test) are used.
// Flags must precede the task name.
//
// Exit status is the task's own exit status when it ran, 2 for usage errors
// (unknown task, extra arguments, invalid task file), 127 when the task's
// program is not found and 126 when it is not executable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/dkoosis/taskr/internal/chooser"
	"github.com/dkoosis/taskr/internal/config"
	"github.com/dkoosis/taskr/internal/dispatch"
	"github.com/dkoosis/taskr/internal/logging"
	"github.com/dkoosis/taskr/internal/ui"
	"github.com/dkoosis/taskr/internal/version"
)

var (
	errChooseWithName = errors.New("--choose does not take a task name")
	errChooseNoTTY    = errors.New("--choose needs an interactive terminal")
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("taskr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: taskr [flags] [task]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	configFlag := fs.String("config", "", "Path to the task file (default: ./"+config.FileName+")")
	chooseFlag := fs.Bool("choose", false, "Pick a task interactively")
	dryRunFlag := fs.Bool("dry-run", false, "Print the task's command instead of running it")
	noColorFlag := fs.Bool("no-color", false, "Disable colored output")
	debugFlag := fs.Bool("debug", false, "Print debug tracing to stderr")
	versionFlag := fs.Bool("version", false, "Print version information and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return dispatch.ExitOK
		}
		return dispatch.ExitUsage
	}

	if *versionFlag {
		fmt.Fprintln(stdout, version.String())
		return dispatch.ExitOK
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	logger := logging.New(stderr, false)
	resolved, err := config.ResolveConfig(config.CliFlags{
		ConfigPath: *configFlag,
		NoColor:    *noColorFlag,
		NoColorSet: set["no-color"],
		Debug:      *debugFlag,
		DebugSet:   set["debug"],
	}, logger)
	if err != nil {
		ui.NewPrinter(ui.ThemeFor(stderr, *noColorFlag)).Error(stderr, err)
		return dispatch.ExitUsage
	}
	errPrinter := ui.NewPrinter(ui.ThemeFor(stderr, resolved.NoColor))

	logger.WithFields(logrus.Fields{
		"fn":                   "run",
		"config":               resolved.ConfigPath,
		"registry":             resolved.RegistrySource,
		"windows_shell":        strings.Join(resolved.WindowsShell, " "),
		"windows_shell_source": resolved.WindowsShellSource,
		"no_color":             resolved.NoColor,
		"no_color_source":      resolved.NoColorSource,
		"debug_source":         resolved.DebugSource,
	}).Debug("resolved configuration")

	ctx := context.Background()
	d := dispatch.New(dispatch.Config{
		Registry:     resolved.Registry,
		Printer:      ui.NewPrinter(ui.ThemeFor(stdout, resolved.NoColor)),
		Stdin:        stdin,
		Stdout:       stdout,
		Stderr:       stderr,
		WindowsShell: resolved.WindowsShell,
		DryRun:       *dryRunFlag,
		Logger:       logger,
	})

	positional := fs.Args()
	if *chooseFlag {
		name, ok, code := choose(ctx, positional, resolved, stdin, stderr, errPrinter)
		if !ok {
			return code
		}
		positional = []string{name}
	}

	code, err := d.Dispatch(ctx, positional)
	if err != nil {
		errPrinter.Error(stderr, err)
		if errors.Is(err, dispatch.ErrUnknownTask) {
			fmt.Fprintln(stderr, "Run 'taskr' with no arguments to list tasks.")
		}
	}
	return code
}

// choose runs the interactive picker. It returns ok=false with the exit
// code to use when nothing should be dispatched.
func choose(
	ctx context.Context, positional []string, resolved *config.ResolvedConfig,
	stdin io.Reader, stderr io.Writer, errPrinter *ui.Printer,
) (string, bool, int) {
	if len(positional) > 0 {
		errPrinter.Error(stderr, errChooseWithName)
		return "", false, dispatch.ExitUsage
	}
	if !isTerminal(stdin) || !isTerminal(stderr) {
		errPrinter.Error(stderr, errChooseNoTTY)
		return "", false, dispatch.ExitUsage
	}
	name, ok, err := chooser.Run(ctx, resolved.Registry.Tasks(), ui.ThemeFor(stderr, resolved.NoColor), stdin, stderr)
	if err != nil {
		errPrinter.Error(stderr, err)
		return "", false, dispatch.ExitLaunchFailure
	}
	if !ok {
		return "", false, dispatch.ExitOK
	}
	return name, true, dispatch.ExitOK
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
