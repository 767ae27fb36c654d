package internal

// AgentDescriptor attributes transcript and log entries to a logical actor.
type AgentDescriptor struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

var (
	AgentScraper    = AgentDescriptor{ID: "scraper", Name: "Web Scraper", Icon: "🕷️", Color: "#10b981"}
	AgentSummarizer = AgentDescriptor{ID: "summarizer", Name: "Summarizer", Icon: "📝", Color: "#6366f1"}
	AgentQA         = AgentDescriptor{ID: "qa", Name: "Q&A Agent", Icon: "💬", Color: "#f59e0b"}
	AgentRouter     = AgentDescriptor{ID: "router", Name: "Router", Icon: "🔀", Color: "#ec4899"}
	AgentExtractor  = AgentDescriptor{ID: "extractor", Name: "Extractor", Icon: "🧲", Color: "#06b6d4"}
	AgentExport     = AgentDescriptor{ID: "export", Name: "Export", Icon: "📦", Color: "#8b5cf6"}
)

// Agents lists every descriptor in display order
func Agents() []AgentDescriptor {
	return []AgentDescriptor{AgentScraper, AgentSummarizer, AgentQA, AgentRouter, AgentExtractor, AgentExport}
}

// Ptr returns a pointer to a copy of the descriptor for use in optional fields
func (a AgentDescriptor) Ptr() *AgentDescriptor {
	return &a
}
