package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServiceAccount(t *testing.T, dir, caPEM, token string) {
	t.Helper()
	if caPEM != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ca.crt"), []byte(caPEM), 0o600))
	}
	if token != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte(token), 0o600))
	}
}

func TestApplyServiceAccount(t *testing.T) {
	t.Parallel()

	t.Run("both files present", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeServiceAccount(t, dir, "dummy-ca", "mounted-token\n")

		cfg := defaultConfig()
		applyServiceAccount(&cfg, dir)

		assert.Equal(t, filepath.Join(dir, "ca.crt"), cfg.CACertFile)
		assert.Equal(t, "mounted-token", cfg.OAuthToken, "token is trimmed of surrounding whitespace")
	})

	t.Run("token only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeServiceAccount(t, dir, "", "mounted-token")

		cfg := defaultConfig()
		applyServiceAccount(&cfg, dir)

		assert.Empty(t, cfg.CACertFile)
		assert.Equal(t, "mounted-token", cfg.OAuthToken)
	})

	t.Run("ca only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeServiceAccount(t, dir, "dummy-ca", "")

		cfg := defaultConfig()
		applyServiceAccount(&cfg, dir)

		assert.Equal(t, filepath.Join(dir, "ca.crt"), cfg.CACertFile)
		assert.Empty(t, cfg.OAuthToken)
	})

	t.Run("missing mount leaves config untouched", func(t *testing.T) {
		t.Parallel()
		cfg := defaultConfig()
		applyServiceAccount(&cfg, filepath.Join(t.TempDir(), "no-such-mount"))

		assert.Empty(t, cfg.CACertFile)
		assert.Empty(t, cfg.OAuthToken)
	})

	t.Run("blank token file is ignored", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeServiceAccount(t, dir, "", "  \n")

		cfg := defaultConfig()
		applyServiceAccount(&cfg, dir)

		assert.Empty(t, cfg.OAuthToken)
	})
}
