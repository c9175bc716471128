package config

import (
	"strings"

	"github.com/kunghenryyong/kubernetes-client/pkg/env"
)

// applyEnvOverrides replaces draft values with environment-sourced ones.
// A field is only touched when its environment variable is present; absent
// sources leave the candidate from probes or defaults untouched. Runs
// exactly once, after both probes.
func applyEnvOverrides(cfg *Config, r env.Reader) {
	cfg.TrustCerts = env.GetBool(r, PropertyTrustCerts, cfg.TrustCerts)
	cfg.MasterURL = env.GetOrDefault(r, PropertyMaster, cfg.MasterURL)
	cfg.APIVersion = env.GetOrDefault(r, PropertyAPIVersion, cfg.APIVersion)
	cfg.OAPIVersion = env.GetOrDefault(r, PropertyOAPIVersion, cfg.OAPIVersion)

	cfg.CACertFile = env.GetOrDefault(r, PropertyCACertFile, cfg.CACertFile)
	cfg.CACertData = env.GetOrDefault(r, PropertyCACertData, cfg.CACertData)
	cfg.ClientCertFile = env.GetOrDefault(r, PropertyClientCertFile, cfg.ClientCertFile)
	cfg.ClientCertData = env.GetOrDefault(r, PropertyClientCertData, cfg.ClientCertData)
	cfg.ClientKeyFile = env.GetOrDefault(r, PropertyClientKeyFile, cfg.ClientKeyFile)
	cfg.ClientKeyData = env.GetOrDefault(r, PropertyClientKeyData, cfg.ClientKeyData)
	cfg.ClientKeyAlgo = env.GetOrDefault(r, PropertyClientKeyAlgo, cfg.ClientKeyAlgo)
	cfg.ClientKeyPassphrase = env.GetOrDefault(r, PropertyClientKeyPassphrase, cfg.ClientKeyPassphrase)

	cfg.OAuthToken = env.GetOrDefault(r, PropertyToken, cfg.OAuthToken)
	cfg.Username = env.GetOrDefault(r, PropertyUsername, cfg.Username)
	cfg.Password = env.GetOrDefault(r, PropertyPassword, cfg.Password)

	if protocols, ok := env.Lookup(r, PropertyTLSProtocols); ok {
		cfg.EnabledProtocols = strings.Split(protocols, ",")
	}
}
