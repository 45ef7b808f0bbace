// Package fetch constructs the HTTP clients used across a download run.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Client wraps an http.Client with the request headers every call needs.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewPageClient returns the client shared by archive and episode page
// fetches. It carries no overall timeout; each call blocks until the
// response completes. The pooled transport keeps connections alive so the
// whole run reuses them.
func NewPageClient(userAgent string) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		client:    &http.Client{Transport: transport},
		userAgent: userAgent,
	}
}

// NewAudioClient returns the client used for audio binary fetches, with a
// distinct dial (connect) timeout and an overall timeout bounding the read.
func NewAudioClient(connectTimeout, readTimeout time.Duration, userAgent string) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   readTimeout,
		},
		userAgent: userAgent,
	}
}

// Get issues a GET and fails on any non-2xx status. The caller owns the
// returned body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: http status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}
