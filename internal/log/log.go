// Package log configures the logrus logger shared by the CLI and the
// resolver event sink.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options selects the level, format and destination of log output.
type Options struct {
	// Level is a logrus level name; unknown names fall back to info.
	Level  string
	JSON   bool
	Output io.Writer // defaults to stderr
}

// New returns a logger configured from opts.
func New(opts Options) *logrus.Logger {
	l := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)

	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

// LevelFor maps the debug switch to a level name.
func LevelFor(debug bool) string {
	if debug {
		return logrus.DebugLevel.String()
	}
	return logrus.WarnLevel.String()
}
