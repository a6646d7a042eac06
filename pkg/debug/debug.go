// Package debug provides conditional debug logging for valentine.
//
// Debug logging is enabled by setting the VALENTINE_DEBUG environment variable:
//
//	VALENTINE_DEBUG=1 valentine
//
// The terminal belongs to the TUI while it runs, so messages go to a log file
// (debug.log in the state directory) instead of stderr. When disabled
// (default), all debug functions are no-ops.
//
// Usage:
//
//	debug.Log("restored %s", screen)
//	debug.Logger().Info().Str("from", "proposal").Msg("transition")
package debug

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

var (
	enabled atomic.Bool

	mu      sync.Mutex
	logger  = zerolog.Nop()
	logFile *os.File
)

func init() {
	if os.Getenv("VALENTINE_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns debug logging on or off. Enabling opens the default log
// file lazily; use SetOutput to log somewhere else.
func SetEnabled(e bool) {
	enabled.Store(e)
	if !e {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		return
	}
	w := openLogFile()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// SetOutput routes debug output to w and enables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = zerolog.New(w).With().Timestamp().Logger()
	mu.Unlock()
	enabled.Store(true)
}

// Close flushes and closes the log file, if one was opened.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logger = zerolog.Nop()
}

// Logger returns the structured logger. It is a no-op logger when debug
// logging is disabled.
func Logger() *zerolog.Logger {
	if !enabled.Load() {
		l := zerolog.Nop()
		return &l
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	return &l
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	Logger().Debug().Msgf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	Logger().Debug().Str("op", name).Dur("took", d).Msg("timing")
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

func openLogFile() io.Writer {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return io.Discard
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "valentine")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard
	}
	logFile = f
	return f
}
