package session

import (
	"sync"
	"time"

	"github.com/iksnae/ragchat/internal"
)

// ActivityLog is an append-only record of agent actions, kept in
// chronological order.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []internal.LogEntry
	now     func() time.Time
}

func newActivityLog(now func() time.Time) *ActivityLog {
	return &ActivityLog{now: now}
}

// record appends one entry
func (l *ActivityLog) record(agent internal.AgentDescriptor, action, detail string) {
	entry := internal.LogEntry{
		Agent:  agent,
		Action: action,
		Detail: detail,
		Time:   l.now().Format("15:04:05"),
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	internal.LogDebug("[%s] %s: %s", agent.ID, action, detail)
}

// Entries returns a copy in insertion order
func (l *ActivityLog) Entries() []internal.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]internal.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns a copy with the most recent entry first
func (l *ActivityLog) Recent() []internal.LogEntry {
	entries := l.Entries()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// Len returns the number of entries
func (l *ActivityLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
