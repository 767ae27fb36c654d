package internal

import "time"

// Role identifies who produced a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
)

// Message represents one transcript entry
type Message struct {
	ID         string           `json:"id" yaml:"id"`
	Role       Role             `json:"role" yaml:"role"`
	Content    string           `json:"content" yaml:"content"`
	Agent      *AgentDescriptor `json:"agent,omitempty" yaml:"agent,omitempty"`
	Timestamp  time.Time        `json:"timestamp" yaml:"timestamp"`
	ExportData Dataset          `json:"export_data,omitempty" yaml:"export_data,omitempty"`
	// Failed marks failure notices so they render apart from normal replies.
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// AgentName returns the display name of the attributed agent, or the role
func (m Message) AgentName() string {
	if m.Agent != nil {
		return m.Agent.Name
	}
	return string(m.Role)
}

// LogEntry is one activity log line
type LogEntry struct {
	Agent  AgentDescriptor `json:"agent" yaml:"agent"`
	Action string          `json:"action" yaml:"action"`
	Detail string          `json:"detail" yaml:"detail"`
	Time   string          `json:"time" yaml:"time"`
}

// ChartBucket is a category count derived from a dataset
type ChartBucket struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Status is the global workflow state of a session
type Status int

const (
	StatusIdle Status = iota
	StatusBusy
)

func (s Status) String() string {
	if s == StatusBusy {
		return "busy"
	}
	return "idle"
}

// Availability is the last known reachability of the backend
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityOnline
	AvailabilityOffline
)

func (a Availability) String() string {
	switch a {
	case AvailabilityOnline:
		return "online"
	case AvailabilityOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// BackendInfo is populated from a successful health probe
type BackendInfo struct {
	VectorDB  string `json:"vector_db,omitempty" yaml:"vector_db,omitempty"`
	LLMModel  string `json:"llm_model,omitempty" yaml:"llm_model,omitempty"`
	ToolCount int    `json:"tool_count" yaml:"tool_count"`
}

// Snapshot is a read-only copy of session state handed to renderers
type Snapshot struct {
	SessionID    string
	Status       Status
	StatusLabel  string
	Transcript   []Message
	Sources      []string
	Dataset      Dataset
	Buckets      []ChartBucket
	CSV          []byte
	Availability Availability
	Info         BackendInfo
	URLDraft     string
}
