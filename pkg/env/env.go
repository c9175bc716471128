// Package env provides access to environment-sourced configuration values.
//
// Configuration keys are written in dotted property form (for example
// "kubernetes.auth.token") and read from the corresponding environment
// variable ("KUBERNETES_AUTH_TOKEN"). All lookups go through the Reader
// interface so tests can substitute a fake environment instead of mutating
// process state.
package env

import (
	"os"
	"strconv"
	"strings"

	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

// Reader abstracts environment variable access.
type Reader interface {
	Getenv(name string) string
}

// OSReader is the default Reader backed by the process environment.
type OSReader struct{}

// Getenv returns the value of the environment variable name.
func (*OSReader) Getenv(name string) string {
	return os.Getenv(name)
}

// MapReader is a Reader backed by a plain map, for tests.
type MapReader map[string]string

// Getenv returns the mapped value for name, or the empty string.
func (m MapReader) Getenv(name string) string {
	return m[name]
}

// VarName converts a dotted property key to its environment variable form:
// upper-cased, with dots replaced by underscores.
func VarName(property string) string {
	return strings.ToUpper(strings.ReplaceAll(property, ".", "_"))
}

// Lookup returns the value of the environment variable derived from
// property, and whether it was present. An empty value is treated as
// absent.
func Lookup(r Reader, property string) (string, bool) {
	v := r.Getenv(VarName(property))
	return v, v != ""
}

// GetOrDefault returns the environment value for property, or def when the
// variable is unset or empty.
func GetOrDefault(r Reader, property, def string) string {
	if v, ok := Lookup(r, property); ok {
		return v
	}
	return def
}

// GetBool returns the boolean environment value for property. An unset
// value yields def; an unparsable one is logged and likewise yields def.
func GetBool(r Reader, property string, def bool) bool {
	v, ok := Lookup(r, property)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Debugw("ignoring unparsable boolean override",
			"property", property,
			"value", v)
		return def
	}
	return b
}
