// Package config resolves how a client authenticates to and trusts the
// cluster control plane. It layers implicit credential discovery (the
// in-cluster service account, the local kubeconfig file) under explicit
// overrides (environment variables, builder calls), and freezes the result
// into an immutable Config consumed by the TLS and transport layers.
package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/kunghenryyong/kubernetes-client/pkg/certs"
	"github.com/kunghenryyong/kubernetes-client/pkg/env"
	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
)

// Property keys recognized by the override resolver. Each is read from the
// environment variable derived by env.VarName (upper-cased, dots to
// underscores).
const (
	PropertyMaster      = "kubernetes.master"
	PropertyAPIVersion  = "kubernetes.api.version"
	PropertyOAPIVersion = "kubernetes.oapi.version"

	PropertyTLSProtocols = "kubernetes.tls.protocols"
	PropertyTrustCerts   = "kubernetes.trust.certificates"

	PropertyCACertFile     = "kubernetes.certs.ca.file"
	PropertyCACertData     = "kubernetes.certs.ca.data"
	PropertyClientCertFile = "kubernetes.certs.client.file"
	PropertyClientCertData = "kubernetes.certs.client.data"

	PropertyClientKeyFile       = "kubernetes.certs.client.key.file"
	PropertyClientKeyData       = "kubernetes.certs.client.key.data"
	PropertyClientKeyAlgo       = "kubernetes.certs.client.key.algo"
	PropertyClientKeyPassphrase = "kubernetes.certs.client.key.passphrase"

	PropertyUsername = "kubernetes.auth.basic.username"
	PropertyPassword = "kubernetes.auth.basic.password"
	PropertyToken    = "kubernetes.auth.token"

	PropertyTryServiceAccount = "kubernetes.auth.tryServiceAccount"
	PropertyTryKubeconfig     = "kubernetes.auth.tryKubeConfig"
	PropertyKubeconfig        = "kubeconfig"
)

// Defaults applied before any probe or override runs.
const (
	DefaultMasterURL   = "https://kubernetes.default.svc"
	DefaultAPIVersion  = "v1"
	DefaultOAPIVersion = "v1"
)

// defaultEnabledProtocols is the protocol list offered when none is
// configured.
var defaultEnabledProtocols = []string{"TLSv1.2"}

// Config is the frozen configuration snapshot produced by Builder.Build.
// Every field is either unset or already normalized; consumers never see
// which source supplied a value. After Build, MasterURL and OpenShiftURL
// are absolute, slash-terminated and version-qualified.
type Config struct {
	MasterURL    string
	OpenShiftURL string
	APIVersion   string
	OAPIVersion  string

	// TrustCerts disables server certificate validation entirely when
	// true (explicit insecure mode).
	TrustCerts bool

	CACertFile string
	CACertData string

	ClientCertFile      string
	ClientCertData      string
	ClientKeyFile       string
	ClientKeyData       string
	ClientKeyAlgo       string
	ClientKeyPassphrase string

	Username   string
	Password   string
	OAuthToken string

	EnabledProtocols []string
}

// defaultConfig returns a fresh draft seeded with hardcoded defaults.
func defaultConfig() Config {
	return Config{
		MasterURL:           DefaultMasterURL,
		APIVersion:          DefaultAPIVersion,
		OAPIVersion:         DefaultOAPIVersion,
		ClientKeyAlgo:       certs.DefaultKeyAlgo,
		ClientKeyPassphrase: certs.DefaultKeyPassphrase,
		EnabledProtocols:    slices.Clone(defaultEnabledProtocols),
	}
}

// Builder assembles a Config. The zero draft is seeded with defaults, then
// the service account and kubeconfig probes and the environment overrides
// run during NewBuilder, in precedence order. Explicit setter calls are
// applied last; Build freezes the draft into a value copy without mutating
// it, so a Builder can keep being adjusted and rebuilt.
type Builder struct {
	cfg Config

	envReader         env.Reader
	serviceAccountDir string
	kubeconfigPath    string
	homeDir           func() (string, error)
	tryServiceAccount bool
	tryKubeconfig     bool
}

// BuilderOption configures a Builder before discovery runs.
type BuilderOption func(*Builder)

// WithEnv replaces the environment reader used by the probes and the
// override resolver. Tests use this to avoid touching process state.
func WithEnv(r env.Reader) BuilderOption {
	return func(b *Builder) {
		b.envReader = r
	}
}

// WithServiceAccountDir overrides the well-known directory probed for the
// in-cluster service account identity.
func WithServiceAccountDir(dir string) BuilderOption {
	return func(b *Builder) {
		b.serviceAccountDir = dir
	}
}

// WithKubeconfigPath sets an explicit kubeconfig location, taking
// precedence over the kubeconfig environment override and the home
// directory default.
func WithKubeconfigPath(path string) BuilderOption {
	return func(b *Builder) {
		b.kubeconfigPath = path
	}
}

// WithoutServiceAccount disables the in-cluster service account probe.
func WithoutServiceAccount() BuilderOption {
	return func(b *Builder) {
		b.tryServiceAccount = false
	}
}

// WithoutKubeconfig disables the local credential file probe.
func WithoutKubeconfig() BuilderOption {
	return func(b *Builder) {
		b.tryKubeconfig = false
	}
}

// NewBuilder creates a Builder and runs credential discovery: defaults,
// then the service account probe, then the kubeconfig probe, then
// environment overrides. Probes can be disabled through options or the
// kubernetes.auth.tryServiceAccount / kubernetes.auth.tryKubeConfig
// environment toggles.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		envReader:         &env.OSReader{},
		serviceAccountDir: DefaultServiceAccountDir,
		homeDir:           os.UserHomeDir,
		tryServiceAccount: true,
		tryKubeconfig:     true,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.cfg = defaultConfig()
	if b.tryServiceAccount && env.GetBool(b.envReader, PropertyTryServiceAccount, true) {
		applyServiceAccount(&b.cfg, b.serviceAccountDir)
	}
	if b.tryKubeconfig && env.GetBool(b.envReader, PropertyTryKubeconfig, true) {
		applyKubeconfig(&b.cfg, b.resolveKubeconfigPath())
	}
	applyEnvOverrides(&b.cfg, b.envReader)

	return b
}

// resolveKubeconfigPath returns the credential file location: the explicit
// builder option, else the kubeconfig environment override, else
// $HOME/.kube/config.
func (b *Builder) resolveKubeconfigPath() string {
	if b.kubeconfigPath != "" {
		return b.kubeconfigPath
	}
	if path, ok := env.Lookup(b.envReader, PropertyKubeconfig); ok {
		return path
	}
	home, err := b.homeDir()
	if err != nil {
		return ""
	}
	return home + "/.kube/config"
}

// MasterURL sets the control plane base URL.
func (b *Builder) MasterURL(masterURL string) *Builder {
	b.cfg.MasterURL = masterURL
	return b
}

// OpenShiftURL sets the extended API base URL. When unset, Build derives
// it from the master URL.
func (b *Builder) OpenShiftURL(openShiftURL string) *Builder {
	b.cfg.OpenShiftURL = openShiftURL
	return b
}

// APIVersion sets the primary API version path segment.
func (b *Builder) APIVersion(version string) *Builder {
	b.cfg.APIVersion = version
	return b
}

// OAPIVersion sets the extended API version path segment.
func (b *Builder) OAPIVersion(version string) *Builder {
	b.cfg.OAPIVersion = version
	return b
}

// TrustCerts disables server certificate validation when set.
func (b *Builder) TrustCerts(trust bool) *Builder {
	b.cfg.TrustCerts = trust
	return b
}

// EnabledProtocols sets the ordered TLS protocol list to offer.
func (b *Builder) EnabledProtocols(protocols []string) *Builder {
	b.cfg.EnabledProtocols = slices.Clone(protocols)
	return b
}

// CACertFile sets the trust anchor file path.
func (b *Builder) CACertFile(file string) *Builder {
	b.cfg.CACertFile = file
	return b
}

// CACertData sets inline base64-encoded trust anchor material.
func (b *Builder) CACertData(data string) *Builder {
	b.cfg.CACertData = data
	return b
}

// ClientCertFile sets the client certificate file path.
func (b *Builder) ClientCertFile(file string) *Builder {
	b.cfg.ClientCertFile = file
	return b
}

// ClientCertData sets inline base64-encoded client certificate material.
func (b *Builder) ClientCertData(data string) *Builder {
	b.cfg.ClientCertData = data
	return b
}

// ClientKeyFile sets the client key file path.
func (b *Builder) ClientKeyFile(file string) *Builder {
	b.cfg.ClientKeyFile = file
	return b
}

// ClientKeyData sets inline base64-encoded client key material.
func (b *Builder) ClientKeyData(data string) *Builder {
	b.cfg.ClientKeyData = data
	return b
}

// ClientKeyAlgo sets the client key algorithm name.
func (b *Builder) ClientKeyAlgo(algo string) *Builder {
	b.cfg.ClientKeyAlgo = algo
	return b
}

// ClientKeyPassphrase sets the passphrase for an encrypted client key.
func (b *Builder) ClientKeyPassphrase(passphrase string) *Builder {
	b.cfg.ClientKeyPassphrase = passphrase
	return b
}

// BasicAuth sets the username/password pair. Both must be non-empty for
// basic authentication to activate.
func (b *Builder) BasicAuth(username, password string) *Builder {
	b.cfg.Username = username
	b.cfg.Password = password
	return b
}

// Token sets the bearer token.
func (b *Builder) Token(token string) *Builder {
	b.cfg.OAuthToken = token
	return b
}

// Build freezes the draft into a Config, composing and validating the two
// base URLs. The draft itself is not modified, so Build may be called
// again after further setter calls.
func (b *Builder) Build() (Config, error) {
	cfg := b.cfg
	cfg.EnabledProtocols = slices.Clone(b.cfg.EnabledProtocols)

	if cfg.MasterURL == "" {
		// No endpoint resolved from any source; client construction will
		// reject this config.
		return cfg, nil
	}

	if !strings.HasSuffix(cfg.MasterURL, "/") {
		cfg.MasterURL += "/"
	}
	if cfg.OpenShiftURL == "" {
		cfg.OpenShiftURL = cfg.MasterURL + "oapi/" + cfg.OAPIVersion + "/"
	}
	cfg.MasterURL = cfg.MasterURL + "api/" + cfg.APIVersion + "/"

	if err := validateAbsoluteURL("master URL", cfg.MasterURL); err != nil {
		return Config{}, err
	}
	if err := validateAbsoluteURL("extended API URL", cfg.OpenShiftURL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// validateAbsoluteURL rejects composed base URLs that do not parse as
// absolute URLs. This fails at build time rather than on first request.
func validateAbsoluteURL(what, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewInvalidEndpointError(fmt.Sprintf("%s %q does not parse", what, rawURL), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.NewInvalidEndpointError(fmt.Sprintf("%s %q is not absolute", what, rawURL), nil)
	}
	return nil
}
