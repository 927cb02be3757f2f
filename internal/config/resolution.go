package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dkoosis/taskr/internal/logging"
	"github.com/dkoosis/taskr/internal/task"
)

// Resolution sources, recorded for debugging.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Environment variables read during resolution.
const (
	EnvWindowsShell = "TASKR_WINDOWS_SHELL"
	EnvNoColor      = "TASKR_NO_COLOR"
)

// CliFlags holds the values of command-line flags that take part in resolution.
type CliFlags struct {
	ConfigPath string
	NoColor    bool
	Debug      bool

	// Flags to track if they were explicitly set by the user
	NoColorSet bool
	DebugSet   bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	Registry     *task.Registry
	WindowsShell []string
	NoColor      bool
	Debug        bool

	// Resolution metadata (for debugging)
	ConfigPath         string
	RegistrySource     string // "file", "default"
	WindowsShellSource string // "env", "file", "default"
	NoColorSource      string // "cli", "env", "file", "default"
	DebugSource        string // "cli", "env", "file", "default"
}

// ResolveConfig loads the task file and resolves settings with the priority
// CLI > env > file > default. The registry is built here, once.
//
// log receives the task file discovery trace. Its level is set to debug
// while loading when --debug or TASKR_DEBUG asks for it, and afterwards to
// match the resolved Debug setting. A nil log writes to os.Stderr.
func ResolveConfig(cliFlags CliFlags, log *logrus.Logger) (*ResolvedConfig, error) {
	if log == nil {
		log = logging.New(os.Stderr, false)
	}
	setDebug(log, debugBeforeFile(cliFlags))

	appCfg, err := loadConfig(cliFlags.ConfigPath, log.WithField("fn", "LoadConfig"))
	if err != nil {
		return nil, err
	}

	reg, err := appCfg.Registry()
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		Registry:           reg,
		WindowsShell:       append([]string(nil), task.DefaultWindowsShell...),
		NoColor:            false,
		Debug:              false,
		ConfigPath:         appCfg.Path,
		RegistrySource:     SourceDefault,
		WindowsShellSource: SourceDefault,
		NoColorSource:      SourceDefault,
		DebugSource:        SourceDefault,
	}
	if len(appCfg.Tasks) > 0 {
		resolved.RegistrySource = SourceFile
	}
	if appCfg.Path != "" {
		if len(appCfg.WindowsShell) > 0 {
			resolved.WindowsShell = append([]string(nil), appCfg.WindowsShell...)
			resolved.WindowsShellSource = SourceFile
		}
		if appCfg.NoColor {
			resolved.NoColor = true
			resolved.NoColorSource = SourceFile
		}
		if appCfg.Debug {
			resolved.Debug = true
			resolved.DebugSource = SourceFile
		}
	}

	// Windows shell: ENV > file > default
	if shell := strings.Fields(os.Getenv(EnvWindowsShell)); len(shell) > 0 {
		resolved.WindowsShell = shell
		resolved.WindowsShellSource = SourceEnv
	}

	// NoColor: CLI > ENV > file > default
	if cliFlags.NoColorSet {
		resolved.NoColor = cliFlags.NoColor
		resolved.NoColorSource = SourceCLI
	} else if envNoColor, ok := getEnvNoColor(); ok {
		resolved.NoColor = envNoColor
		resolved.NoColorSource = SourceEnv
	}

	// Debug: CLI > ENV > file > default
	if cliFlags.DebugSet {
		resolved.Debug = cliFlags.Debug
		resolved.DebugSource = SourceCLI
	} else if os.Getenv(logging.EnvDebug) != "" {
		resolved.Debug = true
		resolved.DebugSource = SourceEnv
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	setDebug(log, resolved.Debug)
	return resolved, nil
}

// debugBeforeFile is the debug setting known before the task file is read.
func debugBeforeFile(cliFlags CliFlags) bool {
	if cliFlags.DebugSet {
		return cliFlags.Debug
	}
	return os.Getenv(logging.EnvDebug) != ""
}

func setDebug(log *logrus.Logger, debug bool) {
	if debug {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.WarnLevel)
}

// getEnvNoColor reads TASKR_NO_COLOR as a boolean, then NO_COLOR, where any
// non-empty value disables color (https://no-color.org).
func getEnvNoColor() (noColor, ok bool) {
	if b := getEnvBool(EnvNoColor); b != nil {
		return *b, true
	}
	if os.Getenv("NO_COLOR") != "" {
		return true, true
	}
	return false, false
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set to a parseable value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

func validateResolvedConfig(cfg *ResolvedConfig) error {
	if cfg.Registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	if len(cfg.WindowsShell) == 0 {
		return fmt.Errorf("windows shell cannot be empty")
	}
	return nil
}
