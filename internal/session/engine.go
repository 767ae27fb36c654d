package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/gateway"
)

var (
	// ErrBusy is returned when a workflow is started while another is in flight
	ErrBusy = errors.New("another workflow is in progress")
	// ErrBackendOffline is returned by Ready while the last health probe failed
	ErrBackendOffline = errors.New("backend is offline")
)

// WelcomeMessage opens every session transcript
const WelcomeMessage = "Welcome! I'm your multi-agent RAG assistant. Ingest some URLs with /ingest, then ask me anything about those pages."

// Backend is the set of remote operations the engine drives.
// *gateway.Client satisfies it.
type Backend interface {
	Chat(ctx context.Context, message string) (*gateway.ChatResponse, error)
	Ingest(ctx context.Context, urls []string) (*gateway.IngestResponse, error)
	Summarize(ctx context.Context, pageURL string) (*gateway.SummarizeResponse, error)
	Extract(ctx context.Context, extractType, query string) (*gateway.ExtractResponse, error)
	Health(ctx context.Context) (*gateway.HealthResponse, error)
	Sources(ctx context.Context) ([]string, error)
	ListExports(ctx context.Context) ([]string, error)
	FetchExport(ctx context.Context, name string) (io.ReadCloser, int64, error)
}

// Engine owns one session: its store, its activity log and the controllers
// that are the only writers of either.
type Engine struct {
	backend Backend
	store   *Store
	log     *ActivityLog
	timeout time.Duration
	now     func() time.Time
	address string
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithTimeout bounds every backend call made by a workflow. Zero disables it.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithClock replaces time.Now for message timestamps and log times
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSessionID fixes the session identifier instead of generating one
func WithSessionID(id string) EngineOption {
	return func(e *Engine) {
		e.store = newStore(id)
	}
}

// WithBackendAddress sets the address quoted in connection failure hints
func WithBackendAddress(addr string) EngineOption {
	return func(e *Engine) {
		e.address = addr
	}
}

// NewEngine creates a session bound to backend and appends the welcome message
func NewEngine(backend Backend, opts ...EngineOption) *Engine {
	e := &Engine{
		backend: backend,
		timeout: internal.DefaultTimeout,
		now:     time.Now,
	}
	if c, ok := backend.(interface{ BaseURL() string }); ok {
		e.address = c.BaseURL()
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = newStore(uuid.NewString())
	}
	e.log = newActivityLog(e.now)

	e.store.appendMessage(e.message(internal.RoleSystem, &internal.AgentRouter, WelcomeMessage))
	internal.LogDebug("Session %s created", e.store.ID())
	return e
}

// Store returns the read side of the session state
func (e *Engine) Store() *Store {
	return e.store
}

// Log returns the activity log
func (e *Engine) Log() *ActivityLog {
	return e.log
}

// Ready reports whether workflows should be offered to the user
func (e *Engine) Ready() error {
	if e.store.Availability() == internal.AvailabilityOffline {
		return ErrBackendOffline
	}
	return nil
}

// SetURLDraft replaces the pending ingestion text
func (e *Engine) SetURLDraft(text string) {
	e.store.setURLDraft(text)
}

// run executes one workflow behind the single-flight gate. The gate is
// released on every path, including panics in fn.
func (e *Engine) run(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	if !e.store.begin(label) {
		internal.LogDebug("Rejected %q: %v", label, ErrBusy)
		return ErrBusy
	}
	defer e.store.end()
	internal.LogDebug("%s", label)

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return fn(ctx)
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Engine) message(role internal.Role, agent *internal.AgentDescriptor, content string) internal.Message {
	msg := internal.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: e.now(),
	}
	if agent != nil {
		msg.Agent = agent.Ptr()
	}
	return msg
}

// notify appends a system message
func (e *Engine) notify(agent internal.AgentDescriptor, content string, failed bool) {
	msg := e.message(internal.RoleSystem, &agent, content)
	msg.Failed = failed
	e.store.appendMessage(msg)
}

// fail records the error branch shared by every workflow
func (e *Engine) fail(agent internal.AgentDescriptor, content string, err error) error {
	e.log.record(agent, "error", err.Error())
	e.notify(agent, content, true)
	internal.LogDebug("%s failed: %v", agent.Name, err)
	return err
}

// storeDataset makes ds the current extracted dataset and logs it for export
func (e *Engine) storeDataset(ds internal.Dataset) {
	csv, err := encodeCSV(ds)
	if err != nil {
		internal.LogWarn("Failed to encode dataset as CSV: %v", err)
	}
	e.store.setDataset(ds, csv)
	e.log.record(internal.AgentExport, "data-ready", recordCount(len(ds))+" ready for export")
}

func isTransportFailure(err error) bool {
	var gerr *internal.GatewayError
	return errors.As(err, &gerr) && gerr.Status == 0
}
