package session

import (
	"strings"

	"github.com/iksnae/ragchat/internal"
)

// extractionMarker is the substring that marks a tool as an extractor
const extractionMarker = "extract"

// toolAgents maps the tool names the backend reports to the agent that
// owns them. Unknown tools fall back to AgentQA.
var toolAgents = map[string]internal.AgentDescriptor{
	"web_scraper":       internal.AgentScraper,
	"page_summarizer":   internal.AgentSummarizer,
	"contact_extractor": internal.AgentExtractor,
	"custom_extractor":  internal.AgentExtractor,
}

// AgentForTool returns the agent attributed to a tool invocation
func AgentForTool(tool string) internal.AgentDescriptor {
	if agent, ok := toolAgents[tool]; ok {
		return agent
	}
	return internal.AgentQA
}

// ReplyAgent picks the agent an assistant reply is attributed to: Extractor
// when any reported tool is an extractor, QA otherwise.
func ReplyAgent(steps []string) internal.AgentDescriptor {
	for _, tool := range steps {
		if strings.Contains(tool, extractionMarker) {
			return internal.AgentExtractor
		}
	}
	return internal.AgentQA
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
