// Package httpclient implements scan.Executor on top of net/http.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JakeFAU/fff/internal/scan"
)

// DefaultTimeout bounds each request from dial to the last body byte.
const DefaultTimeout = 10 * time.Second

// Config controls client construction.
type Config struct {
	// Proxy is an optional http, https or socks5 proxy URL used for all requests.
	Proxy     string
	KeepAlive bool
	Timeout   time.Duration
}

// Client executes requests with a single shared http.Client.
type Client struct {
	cfg    Config
	client *http.Client
}

// New builds a Client. It fails only when the proxy setting is unusable.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport, err := newHTTPTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}

// Execute sends req and reads the full response body.
func (c *Client) Execute(ctx context.Context, req scan.Request) (scan.Response, error) {
	var body io.Reader
	if req.HasBody() {
		body = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return scan.Response{}, fmt.Errorf("%w: build request: %v", scan.ErrNetwork, err)
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if req.Host != "" {
		httpReq.Host = req.Host
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return scan.Response{}, fmt.Errorf("%w: %v", scan.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(min(resp.ContentLength, 16<<20)))
	}
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return scan.Response{}, fmt.Errorf("%w: %v", scan.ErrBodyRead, err)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	return scan.Response{
		URL:        finalURL,
		StatusCode: resp.StatusCode,
		ProtoMajor: resp.ProtoMajor,
		ProtoMinor: resp.ProtoMinor,
		Header:     resp.Header.Clone(),
		Body:       buf.Bytes(),
		Duration:   time.Since(start),
	}, nil
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

func newHTTPTransport(cfg Config) (*http.Transport, error) {
	proxy, err := proxyFunc(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	return &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		// #nosec G402 -- scanning targets routinely present invalid certificates.
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: true},
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		DisableKeepAlives:     !cfg.KeepAlive,
	}, nil
}

// proxyFunc parses the proxy setting. An address without a scheme, such as
// "127.0.0.1:8080" or "proxy.internal:3128", is read as an http proxy.
func proxyFunc(raw string) (func(*http.Request) (*url.URL, error), error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	u, err := parseProxyURL(raw)
	if err != nil && !strings.Contains(raw, "://") {
		u, err = parseProxyURL("http://" + raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: proxy %q: %v", scan.ErrClientConstruction, raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w: unsupported proxy scheme in %q", scan.ErrClientConstruction, raw)
	}
	return http.ProxyURL(u), nil
}

func parseProxyURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}
