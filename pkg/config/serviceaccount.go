package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

// DefaultServiceAccountDir is the well-known mount point of the in-cluster
// service account identity.
const DefaultServiceAccountDir = "/var/run/secrets/kubernetes.io/serviceaccount"

const (
	serviceAccountCAFile    = "ca.crt"
	serviceAccountTokenFile = "token"
)

// applyServiceAccount probes the mounted service account identity and
// applies whatever it finds to the draft. Every failure degrades to "no
// service identity available"; this probe never fails construction.
func applyServiceAccount(cfg *Config, dir string) {
	caPath := filepath.Join(dir, serviceAccountCAFile)
	if info, err := os.Stat(caPath); err == nil && info.Mode().IsRegular() {
		cfg.CACertFile = caPath
	}

	tokenPath := filepath.Join(dir, serviceAccountTokenFile)
	token, err := os.ReadFile(tokenPath) // #nosec G304 - fixed well-known location
	if err != nil {
		logger.Debugw("no service account token available",
			"error", errors.NewProbeIOError("failed to read service account token", err))
		return
	}
	if trimmed := strings.TrimSpace(string(token)); trimmed != "" {
		cfg.OAuthToken = trimmed
	}
}
