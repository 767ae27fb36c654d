package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

// ParseURLs splits raw input into one candidate URL per line, trimming
// whitespace and dropping empty lines. Duplicates are kept.
func ParseURLs(raw string) []string {
	var urls []string
	for _, line := range strings.Split(raw, "\n") {
		if u := strings.TrimSpace(line); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Ingest submits the URLs in raw for indexing. Input with no URLs is a
// no-op. On success the URLs join the indexed sources and the draft is
// cleared; on failure the sources are untouched and the draft is kept.
func (e *Engine) Ingest(ctx context.Context, raw string) error {
	urls := ParseURLs(raw)
	if len(urls) == 0 {
		return nil
	}

	label := fmt.Sprintf("Ingesting %d URL(s)...", len(urls))
	return e.run(ctx, label, func(ctx context.Context) error {
		e.store.setURLDraft(raw)
		e.log.record(internal.AgentScraper, "start", fmt.Sprintf("Ingesting %d URL(s)", len(urls)))

		resp, err := e.backend.Ingest(ctx, urls)
		if err != nil {
			return e.fail(internal.AgentScraper, "Ingestion failed: "+err.Error(), err)
		}

		e.store.addSources(urls)
		e.log.record(internal.AgentScraper, "done", resp.Detail)
		e.notify(internal.AgentScraper, resp.Detail, false)
		e.store.setURLDraft("")
		return nil
	})
}
