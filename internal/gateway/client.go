// Package gateway issues requests to the RAG backend and normalizes every
// non-success outcome into an *internal.GatewayError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/iksnae/ragchat/internal"
	"github.com/valyala/fastjson"
)

// ProbeFailedMessage is the fixed message of every failed Probe
const ProbeFailedMessage = "Backend unreachable"

// Client talks to one backend base address
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for baseURL. Timeouts come from the caller's context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "ragchat",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call sends payload as JSON and decodes a 2xx body into out (which may be nil).
// Each call resolves exactly once; there are no retries.
func (c *Client) Call(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &internal.GatewayError{Endpoint: endpoint, Message: fmt.Sprintf("invalid request: %v", err), Err: err}
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := &internal.GatewayError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  errorMessage(resp.StatusCode, data),
		}
		internal.LogDebug("%s %s failed: %d %s", method, endpoint, resp.StatusCode, gerr.Message)
		return gerr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		internal.LogDebug("%s %s: undecodable body: %v", method, endpoint, err)
		return &internal.GatewayError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("invalid response from %s", endpoint),
			Err:      err,
		}
	}
	return nil
}

// Probe issues a read-only GET. Any failure carries ProbeFailedMessage.
func (c *Client) Probe(ctx context.Context, endpoint string, out any) error {
	err := c.Call(ctx, http.MethodGet, endpoint, nil, out)
	if err == nil {
		return nil
	}
	var gerr *internal.GatewayError
	status := 0
	if errors.As(err, &gerr) {
		status = gerr.Status
	}
	return &internal.GatewayError{Endpoint: endpoint, Status: status, Message: ProbeFailedMessage, Err: err}
}

// Open issues a GET and hands back the raw body of a 2xx response.
// The caller must close it.
func (c *Client) Open(ctx context.Context, endpoint string) (io.ReadCloser, int64, error) {
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, 0, &internal.GatewayError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  errorMessage(resp.StatusCode, data),
		}
	}
	return resp.Body, resp.ContentLength, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, &internal.GatewayError{Endpoint: endpoint, Message: fmt.Sprintf("invalid request: %v", err), Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	internal.LogDebug("%s %s", method, req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(endpoint, err)
	}
	return resp, nil
}

func transportError(endpoint string, err error) *internal.GatewayError {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request canceled"
	default:
		var uerr *url.Error
		if errors.As(err, &uerr) {
			msg = uerr.Err.Error()
		}
	}
	return &internal.GatewayError{Endpoint: endpoint, Message: msg, Err: err}
}

// errorMessage prefers the body's "detail" string, else "Error <status>".
// A malformed body never causes a failure of its own.
func errorMessage(status int, body []byte) string {
	generic := fmt.Sprintf("Error %d", status)
	if len(bytes.TrimSpace(body)) == 0 {
		return generic
	}
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return generic
	}
	detail := v.Get("detail")
	if detail == nil {
		return generic
	}
	switch detail.Type() {
	case fastjson.TypeString:
		if s := string(detail.GetStringBytes()); s != "" {
			return s
		}
	case fastjson.TypeArray:
		// validation errors arrive as [{"msg": "..."}]
		var msgs []string
		for _, item := range detail.GetArray() {
			if m := item.GetStringBytes("msg"); len(m) > 0 {
				msgs = append(msgs, string(m))
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return generic
}
