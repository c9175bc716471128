package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mapEnv is a map-backed EnvReader for tests.
type mapEnv map[string]string

func (m mapEnv) Getenv(name string) string {
	return m[name]
}

// TestUnstructuredLogsCheck tests the unstructuredLogs function
func TestUnstructuredLogsCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := mapEnv{}
			if tt.envValue != "" {
				r["UNSTRUCTURED_LOGS"] = tt.envValue
			}
			assert.Equal(t, tt.expected, unstructuredLogs(r))
		})
	}
}

func TestSetAndGet(t *testing.T) {
	var buf bytes.Buffer
	captured := slog.New(slog.NewTextHandler(&buf, nil))

	original := Get()
	defer Set(original)

	Set(captured)
	assert.Same(t, captured, Get())

	Infof("hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")

	Warnw("degraded", "path", "/tmp/x")
	assert.Contains(t, buf.String(), "degraded")
	assert.Contains(t, buf.String(), "/tmp/x")
}

func TestInitializeWithEnv(t *testing.T) {
	original := Get()
	defer Set(original)

	InitializeWithEnv(mapEnv{"UNSTRUCTURED_LOGS": "false"})
	assert.NotNil(t, Get())

	InitializeWithEnv(mapEnv{})
	assert.NotNil(t, Get())
}
