// Package httpclient builds the HTTP client used to reach the model API.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ClientConfig holds configuration options for creating HTTP clients
type ClientConfig struct {
	// Timeout specifies a time limit for the whole request, including reading a streamed body
	Timeout time.Duration

	// ResponseHeaderTimeout specifies the amount of time to wait for a server's response headers
	ResponseHeaderTimeout time.Duration

	// DialTimeout is the maximum amount of time a dial will wait for a connect to complete
	DialTimeout time.Duration

	// TLSHandshakeTimeout specifies the maximum amount of time to wait for a TLS handshake
	TLSHandshakeTimeout time.Duration

	// Proxy selects the proxy for a request. nil means ProxyFromEnvironment with loopback bypass.
	Proxy func(*http.Request) (*url.URL, error)
}

// getEnvDuration reads a duration from an environment variable, returning the default if not set or invalid.
// Accepts either plain integers (interpreted as seconds) or Go duration strings (e.g., "10m", "1h30m").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}

// DefaultConfig returns the client defaults. Reasoning models can think for
// minutes before the first byte, so both timeouts are generous.
// Overridable via HTTP_TIMEOUT and HTTP_RESPONSE_HEADER_TIMEOUT.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:               getEnvDuration("HTTP_TIMEOUT", 600*time.Second),
		ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 600*time.Second),
		DialTimeout:           30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}
}

// WithOverrides returns a copy of c with every non-zero override applied.
func (c ClientConfig) WithOverrides(timeout, responseHeaderTimeout time.Duration) ClientConfig {
	if timeout > 0 {
		c.Timeout = timeout
	}
	if responseHeaderTimeout > 0 {
		c.ResponseHeaderTimeout = responseHeaderTimeout
	}
	return c
}

// NewHTTPClient creates a new HTTP client with the provided configuration.
// If config is nil, DefaultConfig() is used.
func NewHTTPClient(config *ClientConfig) *http.Client {
	if config == nil {
		cfg := DefaultConfig()
		config = &cfg
	}

	proxy := config.Proxy
	if proxy == nil {
		proxy = ProxyBypassingLoopback(http.ProxyFromEnvironment)
	}

	transport := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          1,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
}

// ProxyBypassingLoopback wraps next so that requests to localhost,
// 127.0.0.0/8 and ::1 never go through a proxy.
func ProxyBypassingLoopback(next func(*http.Request) (*url.URL, error)) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if isLoopback(req.URL.Hostname()) {
			return nil, nil
		}
		return next(req)
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
