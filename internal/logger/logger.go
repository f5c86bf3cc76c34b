// Package logger builds the zerolog logger used by the CLI.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the console quiet unless something goes wrong.
const DefaultLevel = zerolog.WarnLevel

// New returns a console logger writing to w (stderr when nil). Unknown or
// empty level strings fall back to DefaultLevel.
func New(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}

	return zerolog.New(out).With().Timestamp().Logger().Level(ParseLevel(level))
}

func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return DefaultLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return DefaultLevel
	}
	return l
}

// Verbosity lowers the level to info when verbose output was requested,
// unless an even chattier level is already configured.
func Verbosity(level zerolog.Level, verbose bool) zerolog.Level {
	if verbose && level > zerolog.InfoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
