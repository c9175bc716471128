// Package certs loads the certificate material used to establish trust in
// the cluster control plane and, optionally, a mutual-TLS client identity.
//
// Material may be supplied as a file path or as inline base64-encoded
// bytes. When the same source supplies both, the file path wins; this
// mirrors long-standing behavior and is kept for compatibility even though
// callers may not expect it.
package certs

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

const (
	// DefaultKeyAlgo is the client key algorithm assumed when none is
	// configured.
	DefaultKeyAlgo = "RSA"

	// DefaultKeyPassphrase is the compatibility default for encrypted
	// client keys. It is a well-known placeholder, not a security
	// recommendation; relying on it for an actually-encrypted key is
	// logged as a warning.
	DefaultKeyPassphrase = "changeit"
)

// ResolvePEM returns the PEM bytes referenced by a (file path, inline
// base64 data) pair. A set file path takes precedence over inline data
// even when both are present. Both absent yields (nil, nil), meaning the
// material was not supplied.
func ResolvePEM(file, data string) ([]byte, error) {
	if file != "" {
		pemBytes, err := os.ReadFile(file) // #nosec G304 - path comes from caller configuration
		if err != nil {
			return nil, errors.NewCredentialMaterialError(
				fmt.Sprintf("failed to read certificate material from %s", file), err)
		}
		return pemBytes, nil
	}
	if data != "" {
		pemBytes, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, errors.NewCredentialMaterialError(
				"failed to decode inline certificate material", err)
		}
		return pemBytes, nil
	}
	return nil, nil
}

// NewCertPool parses one or more PEM-encoded certificates into a fresh
// trust pool. Every PEM block must be a parseable certificate; malformed
// explicit input is never silently replaced by an empty pool.
func NewCertPool(pemBytes []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()

	count := 0
	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			return nil, errors.NewCredentialMaterialError(
				fmt.Sprintf("PEM block %d is not a certificate (found: %s)", count, block.Type), nil)
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.NewCredentialMaterialError(
				fmt.Sprintf("failed to parse certificate %d in bundle", count), err)
		}
		if !cert.IsCA {
			// Some corporate proxies present non-CA certificates as trust
			// anchors; warn but proceed.
			logger.Warnf("certificate %d is not marked as a CA certificate, but proceeding anyway", count)
		}
		pool.AddCert(cert)
		count++
	}

	if count == 0 {
		return nil, errors.NewCredentialMaterialError("no PEM certificate data found", nil)
	}
	return pool, nil
}

// NewClientCertificate combines PEM-encoded certificate and private key
// material into a TLS client identity. Encrypted keys are decrypted with
// the passphrase; the declared key algorithm is checked against the actual
// key type.
func NewClientCertificate(certPEM, keyPEM []byte, algo, passphrase string) (tls.Certificate, error) {
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return tls.Certificate{}, errors.NewCredentialMaterialError(
			"client certificate and key must both be supplied", nil)
	}
	if algo == "" {
		algo = DefaultKeyAlgo
	}
	if passphrase == "" {
		passphrase = DefaultKeyPassphrase
	}

	keyPEM, err := decryptKeyPEM(keyPEM, passphrase)
	if err != nil {
		return tls.Certificate{}, err
	}

	if err := checkKeyAlgo(keyPEM, algo); err != nil {
		return tls.Certificate{}, err
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, errors.NewCredentialMaterialError(
			"failed to combine client certificate and key", err)
	}
	return cert, nil
}

// decryptKeyPEM returns key material with legacy PEM encryption removed.
// Unencrypted input passes through unchanged.
func decryptKeyPEM(keyPEM []byte, passphrase string) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.NewCredentialMaterialError("no PEM data found in client key", nil)
	}
	//nolint:staticcheck // legacy RFC 1423 keys are still found in credential files
	if !x509.IsEncryptedPEMBlock(block) {
		return keyPEM, nil
	}

	if passphrase == DefaultKeyPassphrase {
		logger.Warnf("decrypting client key with the default passphrase; configure kubernetes.certs.client.key.passphrase")
	}

	//nolint:staticcheck // see above
	der, err := x509.DecryptPEMBlock(block, []byte(passphrase))
	if err != nil {
		return nil, errors.NewCredentialMaterialError("failed to decrypt client key", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
}

// checkKeyAlgo verifies that the key parses and matches the declared
// algorithm.
func checkKeyAlgo(keyPEM []byte, algo string) error {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return errors.NewCredentialMaterialError("no PEM data found in client key", nil)
	}

	key, err := parsePrivateKey(block.Bytes)
	if err != nil {
		return errors.NewCredentialMaterialError("failed to parse client key", err)
	}

	switch algo {
	case "RSA":
		if _, ok := key.(*rsa.PrivateKey); !ok {
			return errors.NewCredentialMaterialError(
				fmt.Sprintf("client key algorithm is %s but key is %T", algo, key), nil)
		}
	case "EC", "ECDSA":
		if _, ok := key.(*ecdsa.PrivateKey); !ok {
			return errors.NewCredentialMaterialError(
				fmt.Sprintf("client key algorithm is %s but key is %T", algo, key), nil)
		}
	default:
		return errors.NewCredentialMaterialError(
			fmt.Sprintf("unsupported client key algorithm: %s", algo), nil)
	}
	return nil
}

// parsePrivateKey tries the PEM private key encodings accepted for client
// identities, in the same order crypto/tls does.
func parsePrivateKey(der []byte) (any, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("unrecognized private key encoding")
}
