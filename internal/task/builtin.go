package task

// DefaultWindowsShell runs task commands through PowerShell on Windows.
var DefaultWindowsShell = []string{"powershell.exe", "-NoLogo", "-Command"}

// Builtin returns the registry used when no task file is found: the
// developer commands for a Cargo workspace.
func Builtin() *Registry {
	return MustRegistry(
		Task{
			Name:        "fmt",
			Description: "Format all packages in place",
			Group:       "style",
			Command:     []string{"cargo", "fmt", "--all"},
		},
		Task{
			Name:         "lint",
			Description:  "Run clippy on all targets and features, warnings are errors",
			Group:        "style",
			Announcement: "Linting workspace with clippy...",
			Command: []string{
				"cargo", "clippy", "--workspace", "--all-targets", "--all-features",
				"--", "-D", "warnings",
			},
		},
		Task{
			Name:         "fix",
			Description:  "Apply clippy auto-fixes, allowing a dirty or staged tree",
			Group:        "style",
			Announcement: "Applying clippy fixes...",
			Command: []string{
				"cargo", "clippy", "--fix", "--allow-dirty", "--allow-staged",
				"--workspace", "--all-targets", "--all-features",
			},
		},
		Task{
			Name:         "audit",
			Description:  "Check Cargo.lock against the RustSec advisory database",
			Group:        "checks",
			Announcement: "Auditing dependencies...",
			Command:      []string{"cargo", "audit"},
		},
		Task{
			Name:         "test",
			Description:  "Run the test suite for every package with all features",
			Group:        "checks",
			Announcement: "Running workspace tests...",
			Command:      []string{"cargo", "test", "--workspace", "--all-features"},
		},
	)
}
