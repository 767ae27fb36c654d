package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

const (
	// ExtractContacts is the built-in contact information category
	ExtractContacts = "contacts"
	// QueryAll scopes an extraction to every indexed source
	QueryAll = "all"
)

// Extract runs a direct extraction, bypassing the chat tool routing.
// A blank type is a no-op; a blank query means QueryAll.
func (e *Engine) Extract(ctx context.Context, extractType, query string) error {
	extractType = strings.TrimSpace(extractType)
	if extractType == "" {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		query = QueryAll
	}

	label := fmt.Sprintf("Extracting %s...", extractType)
	return e.run(ctx, label, func(ctx context.Context) error {
		e.log.record(internal.AgentExtractor, "start", fmt.Sprintf("type=%s query=%s", extractType, query))

		resp, err := e.backend.Extract(ctx, extractType, query)
		if err != nil {
			return e.fail(internal.AgentExtractor, "Extraction failed: "+err.Error(), err)
		}

		reply := e.message(internal.RoleAssistant, &internal.AgentExtractor, resp.Result)
		if len(resp.ExportData) > 0 {
			reply.ExportData = resp.ExportData
		}
		e.store.appendMessage(reply)
		if len(resp.ExportData) > 0 {
			e.storeDataset(resp.ExportData)
		}

		e.log.record(internal.AgentExtractor, "done", recordCount(len(resp.ExportData)))
		return nil
	})
}

func recordCount(n int) string {
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}
