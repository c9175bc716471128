package networking

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunghenryyong/kubernetes-client/pkg/config"
	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
)

// newCertPair returns a self-signed CA certificate and its key, PEM
// encoded.
func newCertPair(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return certPEM, keyPEM
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestTLSConfigFor(t *testing.T) {
	t.Parallel()

	t.Run("no TLS settings at all", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{EnabledProtocols: []string{"TLSv1.2"}}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		assert.Nil(t, tlsConfig)
	})

	t.Run("trust anchors from file", func(t *testing.T) {
		t.Parallel()
		caPEM, _ := newCertPair(t)
		cfg := &config.Config{CACertFile: writeTemp(t, "ca.crt", caPEM)}

		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		require.NotNil(t, tlsConfig)
		assert.NotNil(t, tlsConfig.RootCAs)
		assert.False(t, tlsConfig.InsecureSkipVerify)
		assert.Equal(t, uint16(tls.VersionTLS12), tlsConfig.MinVersion)
	})

	t.Run("trust anchors from inline data", func(t *testing.T) {
		t.Parallel()
		caPEM, _ := newCertPair(t)
		cfg := &config.Config{CACertData: base64.StdEncoding.EncodeToString(caPEM)}

		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		require.NotNil(t, tlsConfig)
		assert.NotNil(t, tlsConfig.RootCAs)
	})

	t.Run("insecure mode without trust anchors", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{TrustCerts: true}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		require.NotNil(t, tlsConfig)
		assert.True(t, tlsConfig.InsecureSkipVerify)
	})

	t.Run("trust anchors win over insecure mode", func(t *testing.T) {
		t.Parallel()
		caPEM, _ := newCertPair(t)
		cfg := &config.Config{
			TrustCerts: true,
			CACertFile: writeTemp(t, "ca.crt", caPEM),
		}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		require.NotNil(t, tlsConfig)
		assert.NotNil(t, tlsConfig.RootCAs)
		assert.False(t, tlsConfig.InsecureSkipVerify)
	})

	t.Run("client identity pair", func(t *testing.T) {
		t.Parallel()
		certPEM, keyPEM := newCertPair(t)
		cfg := &config.Config{
			ClientCertFile: writeTemp(t, "client.crt", certPEM),
			ClientKeyFile:  writeTemp(t, "client.key", keyPEM),
			ClientKeyAlgo:  "RSA",
		}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		require.NotNil(t, tlsConfig)
		assert.Len(t, tlsConfig.Certificates, 1)
	})

	t.Run("half a client pair is inert", func(t *testing.T) {
		t.Parallel()
		certPEM, _ := newCertPair(t)
		cfg := &config.Config{ClientCertFile: writeTemp(t, "client.crt", certPEM)}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		assert.Nil(t, tlsConfig)
	})

	t.Run("unreadable lone half is never touched", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{ClientCertFile: filepath.Join(t.TempDir(), "does-not-exist.crt")}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		assert.Nil(t, tlsConfig)
	})

	t.Run("malformed lone half is never touched", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{ClientKeyData: "not base64!!"}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		assert.Nil(t, tlsConfig)
	})

	t.Run("lone half stays inert when other TLS state exists", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			TrustCerts:     true,
			ClientCertFile: filepath.Join(t.TempDir(), "does-not-exist.crt"),
		}
		tlsConfig, err := TLSConfigFor(cfg)
		require.NoError(t, err)
		require.NotNil(t, tlsConfig)
		assert.True(t, tlsConfig.InsecureSkipVerify)
		assert.Empty(t, tlsConfig.Certificates)
	})

	t.Run("complete pair with unreadable key still fails", func(t *testing.T) {
		t.Parallel()
		certPEM, _ := newCertPair(t)
		cfg := &config.Config{
			ClientCertFile: writeTemp(t, "client.crt", certPEM),
			ClientKeyFile:  filepath.Join(t.TempDir(), "does-not-exist.key"),
		}
		_, err := TLSConfigFor(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrCredentialMaterial))
	})

	t.Run("unreadable material surfaces as credential error", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{CACertFile: filepath.Join(t.TempDir(), "absent.crt")}
		_, err := TLSConfigFor(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrCredentialMaterial))
	})
}

func TestApplyProtocols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		protocols []string
		wantMin   uint16
		wantMax   uint16
		wantErr   string
	}{
		{
			name:      "empty list falls back to the floor",
			protocols: nil,
			wantMin:   tls.VersionTLS12,
		},
		{
			name:      "single version",
			protocols: []string{"TLSv1.2"},
			wantMin:   tls.VersionTLS12,
			wantMax:   tls.VersionTLS12,
		},
		{
			name:      "range spans named versions",
			protocols: []string{"TLSv1.2", "TLSv1.3"},
			wantMin:   tls.VersionTLS12,
			wantMax:   tls.VersionTLS13,
		},
		{
			name:      "legacy versions are raised to the floor",
			protocols: []string{"TLSv1", "TLSv1.3"},
			wantMin:   tls.VersionTLS12,
			wantMax:   tls.VersionTLS13,
		},
		{
			name:      "only legacy versions",
			protocols: []string{"TLSv1", "TLSv1.1"},
			wantErr:   errors.ErrTLSBootstrap,
		},
		{
			name:      "unknown name",
			protocols: []string{"SSLv3"},
			wantErr:   errors.ErrTLSBootstrap,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
			err := applyProtocols(tlsConfig, tt.protocols)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, tlsConfig.MinVersion)
			assert.Equal(t, tt.wantMax, tlsConfig.MaxVersion)
		})
	}
}
