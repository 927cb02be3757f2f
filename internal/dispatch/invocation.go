package dispatch

import (
	"strings"

	"github.com/dkoosis/taskr/internal/task"
)

// BuildArgv returns the argv to spawn for t on the given OS. On Windows the
// command is handed to a shell: the task's own WindowsShell if set, otherwise
// windowsShell. The command is quoted for PowerShell when the shell is
// powershell or pwsh, and cmd.exe style otherwise. Other platforms execute
// the command directly.
func BuildArgv(t task.Task, goos string, windowsShell []string) []string {
	if goos != "windows" {
		return append([]string(nil), t.Command...)
	}
	shell := t.WindowsShell
	if len(shell) == 0 {
		shell = windowsShell
	}
	if len(shell) == 0 {
		return append([]string(nil), t.Command...)
	}
	argv := make([]string, 0, len(shell)+1)
	argv = append(argv, shell...)
	return append(argv, joinForShell(shell[0], t.Command))
}

func joinForShell(program string, argv []string) string {
	if isPowerShell(program) {
		return task.JoinPowerShell(argv)
	}
	return task.JoinArgv(argv)
}

// isPowerShell reports whether program names Windows PowerShell or pwsh,
// with or without a directory and .exe suffix.
func isPowerShell(program string) bool {
	name := program[strings.LastIndexAny(program, `/\`)+1:]
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	return name == "powershell" || name == "pwsh"
}
