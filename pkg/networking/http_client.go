// Package networking builds the HTTP clients used to talk to the cluster
// control plane: TLS assembly from resolved credential material and
// authenticating transports layered over the standard library client.
package networking

import (
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/kunghenryyong/kubernetes-client/pkg/config"
)

const (
	defaultTLSHandshakeTimeout   = 10 * time.Second
	defaultResponseHeaderTimeout = 10 * time.Second
)

// ClientBuilder constructs HTTP clients with optional TLS settings and a
// single authentication scheme. Username/password and token may both be
// set; basic authentication wins when both halves of the pair are present.
type ClientBuilder struct {
	tlsConfig *tls.Config
	username  string
	password  string
	token     string

	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
}

// NewClientBuilder creates a ClientBuilder with default timeouts.
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		tlsHandshakeTimeout:   defaultTLSHandshakeTimeout,
		responseHeaderTimeout: defaultResponseHeaderTimeout,
	}
}

// WithTLSConfig sets the TLS client configuration. A nil value leaves the
// transport on library defaults.
func (b *ClientBuilder) WithTLSConfig(tlsConfig *tls.Config) *ClientBuilder {
	b.tlsConfig = tlsConfig
	return b
}

// WithBasicAuth sets the username/password pair.
func (b *ClientBuilder) WithBasicAuth(username, password string) *ClientBuilder {
	b.username = username
	b.password = password
	return b
}

// WithToken sets the bearer token.
func (b *ClientBuilder) WithToken(token string) *ClientBuilder {
	b.token = token
	return b
}

// Build assembles the client. Exactly one authentication scheme is wired
// into the transport chain; redirects follow the standard library default
// policy and no overall request timeout is imposed.
func (b *ClientBuilder) Build() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSClientConfig:       b.tlsConfig,
		TLSHandshakeTimeout:   b.tlsHandshakeTimeout,
		ResponseHeaderTimeout: b.responseHeaderTimeout,
	}

	var rt http.RoundTripper = transport
	switch {
	case b.username != "" && b.password != "":
		rt = &basicAuthTransport{base: transport, username: b.username, password: b.password}
	case b.token != "":
		rt = &bearerAuthTransport{
			inner: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: b.token}),
				Base:   transport,
			},
		}
	}

	return &http.Client{Transport: rt}
}

// ForConfig builds the HTTP client a resolved configuration calls for,
// combining its TLS material with its selected authentication scheme.
func ForConfig(cfg *config.Config) (*http.Client, error) {
	tlsConfig, err := TLSConfigFor(cfg)
	if err != nil {
		return nil, err
	}
	return NewClientBuilder().
		WithTLSConfig(tlsConfig).
		WithBasicAuth(cfg.Username, cfg.Password).
		WithToken(cfg.OAuthToken).
		Build(), nil
}

type closeIdler interface {
	CloseIdleConnections()
}

// basicAuthTransport sets the Authorization header on a shallow copy of
// each request, leaving the caller's request untouched.
type basicAuthTransport struct {
	base     http.RoundTripper
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(clone)
}

func (t *basicAuthTransport) CloseIdleConnections() {
	if ci, ok := t.base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// bearerAuthTransport wraps oauth2.Transport so that idle connection
// shutdown still reaches the underlying transport; oauth2.Transport does
// not forward it itself.
type bearerAuthTransport struct {
	inner *oauth2.Transport
}

func (t *bearerAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.inner.RoundTrip(req)
}

func (t *bearerAuthTransport) CloseIdleConnections() {
	if ci, ok := t.inner.Base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}
