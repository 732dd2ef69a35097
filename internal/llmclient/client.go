// Package llmclient provides the base HTTP client for an OpenAI-compatible API:
// request marshaling, response decoding and upstream error parsing.
//
// Requests are never retried. A failed call is terminal for the invocation.
package llmclient

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"clillm/internal/core"
	"clillm/internal/httpclient"
)

// Config holds configuration for the LLM client
type Config struct {
	// BaseURL is the API base URL; a trailing slash is ignored
	BaseURL string
}

// HeaderSetter is a function that sets headers on an HTTP request
type HeaderSetter func(req *http.Request)

// Client is a base HTTP client for the model API
type Client struct {
	httpClient   *http.Client
	config       Config
	headerSetter HeaderSetter
}

// New creates a new LLM client with the default HTTP client
func New(config Config, headerSetter HeaderSetter) *Client {
	return NewWithHTTPClient(httpclient.NewHTTPClient(nil), config, headerSetter)
}

// NewWithHTTPClient creates a new LLM client with a custom HTTP client
func NewWithHTTPClient(httpClient *http.Client, config Config, headerSetter HeaderSetter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		config:       config,
		headerSetter: headerSetter,
	}
}

// BaseURL returns the current base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request represents an HTTP request to be made
type Request struct {
	Method   string
	Endpoint string
	Body     any // Will be JSON marshaled if not nil
	Headers  map[string]string
}

// Do executes a request and unmarshals a 200 response into result
func (c *Client) Do(ctx context.Context, req Request, result any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.NewRequestError(http.StatusBadGateway, "failed to read response: "+err.Error(), err)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return core.NewRequestError(http.StatusBadGateway, "failed to unmarshal response: "+err.Error(), err)
		}
	}
	return nil
}

// DoStream executes a streaming request and returns the decoded body.
// The caller must close it.
func (c *Client) DoStream(ctx context.Context, req Request) (io.ReadCloser, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// send performs the round trip and turns any non-200 status into an error.
// On success the returned body is already decompressed.
func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, core.NewRequestError(0, "request canceled: "+ctxErr.Error(), err)
		}
		return nil, core.NewRequestError(http.StatusBadGateway, "failed to send request: "+err.Error(), err)
	}

	body, err := decodeBody(resp)
	if err != nil {
		_ = resp.Body.Close()
		return nil, core.NewRequestError(http.StatusBadGateway, "failed to decode response: "+err.Error(), err)
	}
	resp.Body = body

	if resp.StatusCode != http.StatusOK {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			respBody = []byte("failed to read error response")
		}
		_ = resp.Body.Close()
		return nil, core.ParseUpstreamError(resp.StatusCode, respBody)
	}
	return resp, nil
}

// buildRequest creates an HTTP request from a Request
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + req.Endpoint

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, core.NewRequestError(0, "failed to marshal request", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, core.NewRequestError(0, "failed to create request: "+err.Error(), err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	// Setting this disables the transport's transparent gzip, so decodeBody handles both.
	httpReq.Header.Set("Accept-Encoding", "br, gzip")

	if c.headerSetter != nil {
		c.headerSetter(httpReq)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// readCloser pairs a decoding reader with the underlying body's Close.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// decodeBody wraps the response body according to Content-Encoding.
// The decoders are streaming, so SSE bodies stay incremental.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return resp.Body, nil
	case "br":
		resp.Header.Del("Content-Encoding")
		return &readCloser{Reader: brotli.NewReader(resp.Body), closers: []io.Closer{resp.Body}}, nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		resp.Header.Del("Content-Encoding")
		return &readCloser{Reader: zr, closers: []io.Closer{zr, resp.Body}}, nil
	default:
		return resp.Body, nil
	}
}
