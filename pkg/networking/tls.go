package networking

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/kunghenryyong/kubernetes-client/pkg/certs"
	"github.com/kunghenryyong/kubernetes-client/pkg/config"
	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

// tlsVersions maps configured protocol names to crypto/tls version
// constants.
var tlsVersions = map[string]uint16{
	"TLSv1":   tls.VersionTLS10,
	"TLSv1.1": tls.VersionTLS11,
	"TLSv1.2": tls.VersionTLS12,
	"TLSv1.3": tls.VersionTLS13,
}

// TLSConfigFor assembles the TLS client configuration implied by cfg:
// trust anchors, the client identity pair, the insecure flag and the
// protocol version range. It returns (nil, nil) when the configuration
// carries no TLS-relevant settings at all, leaving the transport on
// library defaults.
func TLSConfigFor(cfg *config.Config) (*tls.Config, error) {
	caPEM, err := certs.ResolvePEM(cfg.CACertFile, cfg.CACertData)
	if err != nil {
		return nil, err
	}

	// Half a client pair is inert: its material is never read, so an
	// unreadable or malformed lone half cannot fail construction.
	hasClientPair := (cfg.ClientCertFile != "" || cfg.ClientCertData != "") &&
		(cfg.ClientKeyFile != "" || cfg.ClientKeyData != "")
	if !cfg.TrustCerts && len(caPEM) == 0 && !hasClientPair {
		return nil, nil
	}

	// #nosec G402 - the minimum version floor is enforced below
	tlsConfig := &tls.Config{}
	if err := applyProtocols(tlsConfig, cfg.EnabledProtocols); err != nil {
		return nil, err
	}

	if len(caPEM) > 0 {
		pool, err := certs.NewCertPool(caPEM)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	} else if cfg.TrustCerts {
		logger.Warnf("insecure mode: server certificate validation is disabled")
		tlsConfig.InsecureSkipVerify = true // #nosec G402 - explicit opt-in
	}

	if hasClientPair {
		certPEM, err := certs.ResolvePEM(cfg.ClientCertFile, cfg.ClientCertData)
		if err != nil {
			return nil, err
		}
		keyPEM, err := certs.ResolvePEM(cfg.ClientKeyFile, cfg.ClientKeyData)
		if err != nil {
			return nil, err
		}
		cert, err := certs.NewClientCertificate(certPEM, keyPEM, cfg.ClientKeyAlgo, cfg.ClientKeyPassphrase)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// applyProtocols translates the ordered protocol name list into the
// version range crypto/tls understands. Versions below TLS 1.2 are never
// offered even when named.
func applyProtocols(tlsConfig *tls.Config, protocols []string) error {
	if len(protocols) == 0 {
		tlsConfig.MinVersion = tls.VersionTLS12
		return nil
	}

	var minVersion, maxVersion uint16
	for _, name := range protocols {
		version, ok := tlsVersions[strings.TrimSpace(name)]
		if !ok {
			return errors.NewTLSBootstrapError(fmt.Sprintf("unknown TLS protocol %q", name), nil)
		}
		if minVersion == 0 || version < minVersion {
			minVersion = version
		}
		if version > maxVersion {
			maxVersion = version
		}
	}

	if minVersion < tls.VersionTLS12 {
		logger.Warnf("TLS versions below 1.2 are not offered; raising the configured minimum")
		minVersion = tls.VersionTLS12
	}
	if maxVersion < minVersion {
		return errors.NewTLSBootstrapError("configured TLS protocols are all below the supported minimum", nil)
	}

	tlsConfig.MinVersion = minVersion
	tlsConfig.MaxVersion = maxVersion
	return nil
}
