// Package config handles task file loading and settings resolution for taskr.
//
// # Task File
//
// The task file is looked up in the following order, first hit wins:
//
//  1. The --config flag
//  2. .taskr.yaml in the working directory
//  3. taskr/.taskr.yaml under the user config directory (XDG_CONFIG_HOME on Linux)
//
// When no file is found the built-in Cargo workspace registry is used. The
// file is read once at start-up; the resulting registry never changes.
//
// # Configuration Precedence
//
// Settings are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--no-color, --debug)
//  2. Environment variables (TASKR_WINDOWS_SHELL, TASKR_NO_COLOR, NO_COLOR, TASKR_DEBUG)
//  3. The task file (windows_shell, no_color, debug)
//  4. Hardcoded defaults
//
// # Environment Variables
//
//   - TASKR_WINDOWS_SHELL: shell argv prefix used on Windows, split on whitespace
//   - TASKR_NO_COLOR: a boolean ("true", "1", "false", ...); wins over NO_COLOR
//   - NO_COLOR: any non-empty value disables colors
//   - TASKR_DEBUG: set to any non-empty value to enable debug output
package config
