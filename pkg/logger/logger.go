// Package logger owns the process-wide zerolog logger. Configure it once at
// startup with Init, then hand it to constructors; Get retrieves it for code
// that cannot be reached by injection.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn, error.
	// Anything unrecognised falls back to info.
	Level string
	// Pretty switches to human-readable console output for local development.
	// Production keeps the default JSON lines.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu   sync.Mutex
	base *zerolog.Logger
)

// Init builds the logger on first call and returns it. Later calls return the
// already-built instance unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		return *base
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := levelFrom(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	l := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "face-attendance").
		Logger()

	base = &l
	return l
}

// Get returns the logger built by Init. Panics when called first.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		panic("logger: Get called before Init")
	}
	return *base
}

// Reset discards the built logger so the next Init call starts over.
// Only tests should need this.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	base = nil
}

func levelFrom(s string) zerolog.Level {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s))); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}
