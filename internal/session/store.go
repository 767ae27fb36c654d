package session

import (
	"sync"
	"sync/atomic"

	"github.com/iksnae/ragchat/internal"
)

// Store is the authoritative in-memory state of one session.
// The busy flag is the single-flight gate; everything else sits behind mu.
// Mutating methods are unexported so only the Engine's workflows change state.
type Store struct {
	id   string
	busy atomic.Bool

	mu           sync.RWMutex
	label        string
	transcript   []internal.Message
	sources      []string
	dataset      internal.Dataset
	buckets      []internal.ChartBucket
	csv          []byte
	availability internal.Availability
	info         internal.BackendInfo
	urlDraft     string
}

func newStore(id string) *Store {
	return &Store{id: id}
}

// ID returns the session identifier
func (s *Store) ID() string {
	return s.id
}

// Status reports IDLE or BUSY along with the current progress label
func (s *Store) Status() (internal.Status, string) {
	if !s.busy.Load() {
		return internal.StatusIdle, ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return internal.StatusBusy, s.label
}

// Label returns the progress label, empty when idle
func (s *Store) Label() string {
	_, label := s.Status()
	return label
}

// Availability returns the last known backend availability
func (s *Store) Availability() internal.Availability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availability
}

// Snapshot copies the current state for rendering
func (s *Store) Snapshot() internal.Snapshot {
	status, label := s.Status()

	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := internal.Snapshot{
		SessionID:    s.id,
		Status:       status,
		StatusLabel:  label,
		Transcript:   make([]internal.Message, len(s.transcript)),
		Sources:      make([]string, len(s.sources)),
		Dataset:      s.dataset,
		Buckets:      make([]internal.ChartBucket, len(s.buckets)),
		CSV:          s.csv,
		Availability: s.availability,
		Info:         s.info,
		URLDraft:     s.urlDraft,
	}
	copy(snap.Transcript, s.transcript)
	copy(snap.Sources, s.sources)
	copy(snap.Buckets, s.buckets)
	return snap
}

// begin moves IDLE to BUSY. It fails without side effects when already BUSY.
func (s *Store) begin(label string) bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
	return true
}

// end returns to IDLE unconditionally and clears the label
func (s *Store) end() {
	s.mu.Lock()
	s.label = ""
	s.mu.Unlock()
	s.busy.Store(false)
}

func (s *Store) appendMessage(m internal.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, m)
}

func (s *Store) addSources(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, urls...)
}

// setDataset replaces the extracted dataset and recomputes every derived view
func (s *Store) setDataset(ds internal.Dataset, csv []byte) {
	buckets := Aggregate(ds)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.buckets = buckets
	s.csv = csv
}

func (s *Store) setURLDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urlDraft = text
}

func (s *Store) setOnline(info internal.BackendInfo, fields infoFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability = internal.AvailabilityOnline
	if fields.vectorDB {
		s.info.VectorDB = info.VectorDB
	}
	if fields.llmModel {
		s.info.LLMModel = info.LLMModel
	}
	if fields.tools {
		s.info.ToolCount = info.ToolCount
	}
}

func (s *Store) setOffline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability = internal.AvailabilityOffline
}

// infoFields records which health fields the backend actually sent
type infoFields struct {
	vectorDB bool
	llmModel bool
	tools    bool
}
