// Package logger provides the package-level logger used across the client
// library. Probes use it to report the non-fatal degradations that the
// resolver absorbs (unreadable credential files, malformed kubeconfig)
// without failing client construction.
//
// New code should prefer injecting *slog.Logger directly; use Get to obtain
// the underlying logger for injection.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

// EnvReader abstracts environment variable access for Initialize. It is
// declared here rather than imported so that packages this logger serves
// can themselves log without an import cycle; pkg/env's readers satisfy it.
type EnvReader interface {
	Getenv(name string) string
}

type osEnvReader struct{}

func (osEnvReader) Getenv(name string) string {
	return os.Getenv(name)
}

// singleton is the package-level logger created by Initialize.
// Accessed atomically to be safe for concurrent use across goroutines.
var singleton atomic.Pointer[slog.Logger]

func init() {
	// Set a default logger so callers that skip Initialize() don't panic.
	singleton.Store(newLogger(true))
}

func get() *slog.Logger {
	return singleton.Load()
}

// Get returns the underlying *slog.Logger for injection into structs.
func Get() *slog.Logger {
	return get()
}

// Set replaces the singleton logger. This is intended for tests that need
// to capture log output; production code should use Initialize instead.
func Set(l *slog.Logger) {
	singleton.Store(l)
}

// Debugf logs a message at debug level using the singleton logger.
func Debugf(msg string, args ...any) {
	get().Debug(fmt.Sprintf(msg, args...))
}

// Debugw logs a message at debug level with additional key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	get().Debug(msg, keysAndValues...)
}

// Infof logs a message at info level using the singleton logger.
func Infof(msg string, args ...any) {
	get().Info(fmt.Sprintf(msg, args...))
}

// Infow logs a message at info level with additional key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	get().Info(msg, keysAndValues...)
}

// Warnf logs a message at warning level using the singleton logger.
func Warnf(msg string, args ...any) {
	get().Warn(fmt.Sprintf(msg, args...))
}

// Warnw logs a message at warning level with additional key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	get().Warn(msg, keysAndValues...)
}

// Errorf logs a message at error level using the singleton logger.
func Errorf(msg string, args ...any) {
	get().Error(fmt.Sprintf(msg, args...))
}

// Errorw logs a message at error level with additional key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	get().Error(msg, keysAndValues...)
}

// Initialize creates and configures the appropriate logger.
// If the UNSTRUCTURED_LOGS env var is set to false, output is structured
// JSON; otherwise plain text is used.
func Initialize() {
	InitializeWithEnv(osEnvReader{})
}

// InitializeWithEnv creates and configures the appropriate logger with a
// custom environment reader. This allows for dependency injection of
// environment variable access for testing.
func InitializeWithEnv(envReader EnvReader) {
	singleton.Store(newLogger(unstructuredLogs(envReader)))
}

func newLogger(unstructured bool) *slog.Logger {
	if unstructured {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func unstructuredLogs(envReader EnvReader) bool {
	unstructured, err := strconv.ParseBool(envReader.Getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		// Env var unset or empty: default to unstructured output.
		return true
	}
	return unstructured
}
