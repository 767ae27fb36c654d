// Package ragtest provides an in-process fake of the RAG backend for tests.
package ragtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Backend is a fake RAG backend. Every route has a default behaviour that
// tests can replace with Handle or Respond.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	overrides map[string]http.HandlerFunc
	calls     map[string]int
	bodies    map[string][]byte
	sources   []string
	exports   map[string][]byte
}

// New starts a fake backend that is closed when the test ends
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		overrides: make(map[string]http.HandlerFunc),
		calls:     make(map[string]int),
		bodies:    make(map[string][]byte),
		exports:   make(map[string][]byte),
	}

	r := chi.NewRouter()
	r.Post("/chat", b.route("POST /chat", b.chat))
	r.Post("/ingest", b.route("POST /ingest", b.ingest))
	r.Post("/summarize", b.route("POST /summarize", b.summarize))
	r.Post("/extract", b.route("POST /extract", b.extract))
	r.Get("/health", b.route("GET /health", b.health))
	r.Get("/sources", b.route("GET /sources", b.listSources))
	r.Get("/exports", b.route("GET /exports", b.listExports))
	r.Get("/exports/{name}", b.route("GET /exports/{name}", b.fetchExport))

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base address of the fake
func (b *Backend) URL() string {
	return b.Server.URL
}

// Handle replaces the handler of a route, e.g. Handle("POST /chat", h).
// A nil handler restores the default behaviour.
func (b *Backend) Handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h == nil {
		delete(b.overrides, route)
		return
	}
	b.overrides[route] = h
}

// Respond makes a route answer with a fixed status and raw body
func (b *Backend) Respond(route string, status int, body string) {
	b.Handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Calls returns how many requests a route has served
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// LastBody returns the last request body a route received
func (b *Backend) LastBody(route string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[route]
}

// AddExport makes a file available under /exports
func (b *Backend) AddExport(name string, content []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exports[name] = content
}

func (b *Backend) route(key string, def http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		b.mu.Lock()
		b.calls[key]++
		b.bodies[key] = body
		h, ok := b.overrides[key]
		b.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		if ok {
			h(w, r)
			return
		}
		def(w, r)
	}
}

func (b *Backend) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "message is required"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"response":           "You said: " + req.Message,
		"intermediate_steps": []any{},
	})
}

func (b *Backend) ingest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.URLs) == 0 {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "urls are required"})
		return
	}
	b.mu.Lock()
	b.sources = append(b.sources, req.URLs...)
	b.mu.Unlock()
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"detail": fmt.Sprintf("Indexed %d chunks from %d URL(s).", len(req.URLs)*5, len(req.URLs)),
	})
}

func (b *Backend) summarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	WriteJSON(w, http.StatusOK, map[string]string{"summary": "Summary of " + req.URL})
}

func (b *Backend) extract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExtractType string `json:"extract_type"`
		Query       string `json:"query"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	w.Header().Set("Content-Type", "application/json")
	// raw JSON so the column order is fixed
	_, _ = fmt.Fprintf(w, `{"result":"Found 2 %s records in %s","export_data":[`+
		`{"Name":"Ada","Type":"Email","Value":"ada@example.com"},`+
		`{"Name":"Bob","Type":"Phone","Value":"+1 555 0100"}]}`, req.ExtractType, req.Query)
}

func (b *Backend) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"vector_db": "chroma",
		"llm_model": "gpt-4",
		"tools":     []string{"web_scraper", "page_summarizer", "contact_extractor"},
	})
}

func (b *Backend) listSources(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	sources := append([]string{}, b.sources...)
	b.mu.Unlock()
	WriteJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func (b *Backend) listExports(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	files := make([]string, 0, len(b.exports))
	for name := range b.exports {
		files = append(files, name)
	}
	b.mu.Unlock()
	sort.Strings(files)
	WriteJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (b *Backend) fetchExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b.mu.Lock()
	content, ok := b.exports[name]
	b.mu.Unlock()
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "export not found: " + name})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(content)
}

// WriteJSON writes v with the given status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
