// Package client provides the entry point for talking to a cluster
// control plane: it freezes a resolved configuration into a Client that
// owns an authenticated HTTP client and the two composed API base URLs.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/kunghenryyong/kubernetes-client/pkg/config"
	"github.com/kunghenryyong/kubernetes-client/pkg/env"
	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
	"github.com/kunghenryyong/kubernetes-client/pkg/networking"
)

// Client is a handle on one control plane endpoint. It is safe for
// concurrent use; Close is idempotent and only releases pooled
// connections, so in-flight requests are not interrupted.
type Client struct {
	cfg        config.Config
	httpClient *http.Client

	masterURL    *url.URL
	openShiftURL *url.URL

	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates a Client from a frozen configuration. The configuration
// must carry an endpoint; both base URLs must be absolute.
func New(cfg config.Config) (*Client, error) {
	if cfg.MasterURL == "" {
		return nil, errors.NewMissingEndpointError(
			fmt.Sprintf("no endpoint configured: set %s (or the %s environment variable) or call MasterURL on the builder",
				config.PropertyMaster, env.VarName(config.PropertyMaster)), nil)
	}

	masterURL, err := parseBaseURL("master URL", cfg.MasterURL)
	if err != nil {
		return nil, err
	}
	if cfg.OpenShiftURL == "" {
		return nil, errors.NewInvalidEndpointError(
			"no extended API URL present: the configuration was not produced by Build", nil)
	}
	openShiftURL, err := parseBaseURL("extended API URL", cfg.OpenShiftURL)
	if err != nil {
		return nil, err
	}

	httpClient, err := networking.ForConfig(&cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:          cfg,
		httpClient:   httpClient,
		masterURL:    masterURL,
		openShiftURL: openShiftURL,
	}, nil
}

// NewDefault runs full credential discovery and returns a Client for the
// resolved endpoint.
func NewDefault() (*Client, error) {
	cfg, err := config.NewBuilder().Build()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// NewForMaster runs credential discovery with the endpoint pinned to
// masterURL.
func NewForMaster(masterURL string) (*Client, error) {
	cfg, err := config.NewBuilder().MasterURL(masterURL).Build()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

func parseBaseURL(what, rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.NewInvalidEndpointError(fmt.Sprintf("%s %q does not parse", what, rawURL), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.NewInvalidEndpointError(fmt.Sprintf("%s %q is not absolute", what, rawURL), nil)
	}
	return u, nil
}

// Config returns a copy of the frozen configuration the client was built
// from.
func (c *Client) Config() config.Config {
	return c.cfg
}

// MasterURL returns the version-qualified primary API base URL.
func (c *Client) MasterURL() *url.URL {
	u := *c.masterURL
	return &u
}

// OpenShiftURL returns the version-qualified extended API base URL.
func (c *Client) OpenShiftURL() *url.URL {
	u := *c.openShiftURL
	return &u
}

// HTTPClient returns the authenticated HTTP client. Requests issued
// through it carry the client's credentials and TLS settings.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// RootPaths lists the API root paths the server exposes, from the
// server's top-level discovery document.
func (c *Client) RootPaths(ctx context.Context) ([]string, error) {
	if c.closed.Load() {
		return nil, errors.NewClosedError("client is closed")
	}

	rootURL := &url.URL{Scheme: c.masterURL.Scheme, Host: c.masterURL.Host, Path: "/"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rootURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s listing root paths", resp.Status)
	}

	var body struct {
		Paths []string `json:"paths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode root paths response: %w", err)
	}
	return body.Paths, nil
}

// Close releases pooled connections. It may be called any number of
// times; calls after the first are no-ops.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.httpClient.CloseIdleConnections()
	})
}
