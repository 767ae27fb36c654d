package session

import (
	"context"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

// Summarize asks the backend for a summary of one page. A blank URL is a no-op.
func (e *Engine) Summarize(ctx context.Context, pageURL string) error {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil
	}

	return e.run(ctx, "Summarizing...", func(ctx context.Context) error {
		e.log.record(internal.AgentSummarizer, "start", pageURL)

		resp, err := e.backend.Summarize(ctx, pageURL)
		if err != nil {
			return e.fail(internal.AgentSummarizer, "Summarize failed: "+err.Error(), err)
		}

		e.store.appendMessage(e.message(internal.RoleAssistant, &internal.AgentSummarizer, resp.Summary))
		e.log.record(internal.AgentSummarizer, "done", pageURL)
		return nil
	})
}
