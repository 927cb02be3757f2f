// Package logging builds the logrus logger used for taskr's debug tracing.
// Tracing always goes to stderr so it never mixes with task output.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// EnvDebug enables debug tracing when set to any non-empty value.
const EnvDebug = "TASKR_DEBUG"

// New returns a logger writing to w. Debug entries pass only when debug is
// set; otherwise warnings and errors do.
func New(w io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	l := New(io.Discard, false)
	l.SetLevel(logrus.PanicLevel)
	return l
}
