package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/iksnae/ragchat/internal"
)

// ToolStep is one intermediate tool invocation reported by the chat agent
type ToolStep struct {
	Tool  string `json:"tool"`
	Input string `json:"input"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response          string           `json:"response"`
	IntermediateSteps []ToolStep       `json:"intermediate_steps,omitempty"`
	ExportData        internal.Dataset `json:"export_data,omitempty"`
}

type IngestRequest struct {
	URLs []string `json:"urls"`
}

type IngestResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

type SummarizeRequest struct {
	URL string `json:"url"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type ExtractRequest struct {
	ExtractType string `json:"extract_type"`
	Query       string `json:"query"`
}

type ExtractResponse struct {
	Result     string           `json:"result"`
	ExportData internal.Dataset `json:"export_data,omitempty"`
}

// HealthResponse uses pointers so absent fields can be told apart from empty ones
type HealthResponse struct {
	Status   string   `json:"status"`
	VectorDB *string  `json:"vector_db,omitempty"`
	LLMModel *string  `json:"llm_model,omitempty"`
	Tools    []string `json:"tools,omitempty"`
}

type exportsResponse struct {
	Files []string `json:"files"`
}

// Chat sends one user message to the agent
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.Call(ctx, http.MethodPost, "/chat", ChatRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ingest submits URLs for scraping and indexing
func (c *Client) Ingest(ctx context.Context, urls []string) (*IngestResponse, error) {
	var out IngestResponse
	if err := c.Call(ctx, http.MethodPost, "/ingest", IngestRequest{URLs: urls}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize asks the backend to summarize one page
func (c *Client) Summarize(ctx context.Context, pageURL string) (*SummarizeResponse, error) {
	var out SummarizeResponse
	if err := c.Call(ctx, http.MethodPost, "/summarize", SummarizeRequest{URL: pageURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Extract runs a direct structured-data extraction
func (c *Client) Extract(ctx context.Context, extractType, query string) (*ExtractResponse, error) {
	var out ExtractResponse
	req := ExtractRequest{ExtractType: extractType, Query: query}
	if err := c.Call(ctx, http.MethodPost, "/extract", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the backend
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.Probe(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sources lists sources the backend has ingested. Both {"sources": [...]}
// and a bare array are accepted.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := c.Probe(ctx, "/sources", &raw); err != nil {
		return nil, err
	}
	return decodeSources(raw)
}

func decodeSources(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Sources []string `json:"sources"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &internal.GatewayError{Endpoint: "/sources", Message: "invalid response from /sources", Err: err}
	}
	return wrapped.Sources, nil
}

// ListExports returns the export file names the backend has materialized
func (c *Client) ListExports(ctx context.Context) ([]string, error) {
	var out exportsResponse
	if err := c.Probe(ctx, "/exports", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// FetchExport opens a file from the backend export namespace.
// The returned size is -1 when the backend did not report it.
func (c *Client) FetchExport(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if name == "" {
		return nil, 0, &internal.GatewayError{Endpoint: "/exports/", Message: "export name is required"}
	}
	return c.Open(ctx, fmt.Sprintf("/exports/%s", url.PathEscape(name)))
}
