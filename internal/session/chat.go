package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

const (
	routePreviewLen = 50
	toolPreviewLen  = 80
)

// Send runs one chat turn. The user message is appended before the backend
// answers and is never retracted. Blank text is a no-op.
func (e *Engine) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	return e.run(ctx, "Thinking...", func(ctx context.Context) error {
		e.store.appendMessage(e.message(internal.RoleUser, nil, text))
		e.log.record(internal.AgentRouter, "route", fmt.Sprintf("Analyzing: %q", truncate(text, routePreviewLen)))

		resp, err := e.backend.Chat(ctx, text)
		if err != nil {
			content := "Error: " + err.Error()
			if isTransportFailure(err) && e.address != "" {
				content += "\n\nMake sure the backend server is running on " + e.address
			}
			return e.fail(internal.AgentRouter, content, err)
		}

		tools := make([]string, 0, len(resp.IntermediateSteps))
		for _, step := range resp.IntermediateSteps {
			tools = append(tools, step.Tool)
			e.log.record(AgentForTool(step.Tool), "tool: "+step.Tool, "Input: "+truncate(step.Input, toolPreviewLen))
		}

		agent := ReplyAgent(tools)
		reply := e.message(internal.RoleAssistant, &agent, resp.Response)
		if len(resp.ExportData) > 0 {
			reply.ExportData = resp.ExportData
		}
		e.store.appendMessage(reply)
		if len(resp.ExportData) > 0 {
			e.storeDataset(resp.ExportData)
		}

		e.log.record(internal.AgentQA, "done", "Response delivered")
		return nil
	})
}
