package session

import (
	"context"
	"fmt"

	"github.com/iksnae/ragchat/internal"
)

// Start probes backend health once at session start
func (e *Engine) Start(ctx context.Context) internal.Availability {
	return e.RefreshHealth(ctx)
}

// RefreshHealth probes the backend and updates availability. It does not
// take the workflow gate: it only touches availability and backend info.
// Fields missing from the response keep their previous values; a failed
// probe leaves the info untouched and posts a failed notice.
func (e *Engine) RefreshHealth(ctx context.Context) internal.Availability {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	resp, err := e.backend.Health(ctx)
	if err != nil {
		e.store.setOffline()
		e.log.record(internal.AgentRouter, "health", "offline: "+err.Error())
		e.notify(internal.AgentRouter, "Health check failed: "+err.Error(), true)
		return internal.AvailabilityOffline
	}

	var info internal.BackendInfo
	var fields infoFields
	if resp.VectorDB != nil {
		info.VectorDB, fields.vectorDB = *resp.VectorDB, true
	}
	if resp.LLMModel != nil {
		info.LLMModel, fields.llmModel = *resp.LLMModel, true
	}
	if resp.Tools != nil {
		info.ToolCount, fields.tools = len(resp.Tools), true
	}
	e.store.setOnline(info, fields)

	snap := e.store.Snapshot().Info
	e.log.record(internal.AgentRouter, "health", fmt.Sprintf("online (%s, %s, %d tools)", orUnknown(snap.VectorDB), orUnknown(snap.LLMModel), snap.ToolCount))
	return internal.AvailabilityOnline
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
