package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EnvVar names the environment variable that enables logging when no
// --debug flag is given.
const EnvVar = "TWIG_DEBUG"

var (
	enabled bool
	logFile *os.File
	mu      sync.Mutex
)

// Setup enables logging to path, or to $TWIG_DEBUG when path is empty.
// The returned func closes the log; it is safe to call when nothing was enabled.
func Setup(path string) (func(), error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv(EnvVar)
	}
	if strings.TrimSpace(path) == "" {
		return func() {}, nil
	}
	if err := Enable(path); err != nil {
		return func() {}, err
	}
	return Close, nil
}

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	enabled = true

	write("debug logging enabled (pid %d)", os.Getpid())
	return nil
}

// Close closes the debug log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	enabled = false
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a debug message if debugging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write(format, args...)
}

// write requires mu.
func write(format string, args ...any) {
	if !enabled || logFile == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	_, _ = fmt.Fprintf(logFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Timed logs the duration of an operation. Usage:
//
//	defer debug.Timed("operation name")()
func Timed(name string) func() {
	if !IsEnabled() {
		return func() {}
	}

	start := time.Now()
	Log("%s started", name)

	return func() {
		Log("%s completed in %v", name, time.Since(start))
	}
}
