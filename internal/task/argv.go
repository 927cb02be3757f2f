package task

import "strings"

// JoinArgv renders argv as a single command line, double-quoting any
// argument that is empty or contains whitespace or quotes, with embedded
// double quotes backslash-escaped. This is the convention of cmd.exe and
// the Windows C runtime; it is also how dry runs display a command.
// PowerShell interprets more characters, see JoinPowerShell.
func JoinArgv(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = quoteArg(arg)
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"'") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// powerShellSpecial holds the characters PowerShell treats as syntax in a
// bare argument, including its typographic quote variants.
const powerShellSpecial = " \t\"'`$;&|(){}<>,@#‘’“”"

var powerShellEscaper = strings.NewReplacer("'", "''", "‘", "‘‘", "’", "’’")

// JoinPowerShell renders argv for powershell -Command. Arguments that are
// empty or contain PowerShell syntax are single-quoted, which suppresses
// expansion, with embedded single quotes doubled. A quoted program name is
// invoked through the call operator.
func JoinPowerShell(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = quotePowerShell(arg)
	}
	line := strings.Join(parts, " ")
	if parts[0] != argv[0] {
		line = "& " + line
	}
	return line
}

func quotePowerShell(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, powerShellSpecial) {
		return s
	}
	return "'" + powerShellEscaper.Replace(s) + "'"
}
