// Breadcrumb builders for LLM and tool operations. Message text, tool
// arguments and tool output are never recorded, only their shape.
package agentssdk

import (
	"fmt"

	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	llmsdk "github.com/strongdm/ai-llm-sdk/pkg/llm"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// Breadcrumb categories recorded by the hook adapter.
const (
	CategoryAgent   = "agent"
	CategoryLLM     = "llm"
	CategoryTool    = "tool"
	CategoryHandoff = "handoff"
)

// maxMessageMetadata bounds how many trailing messages are summarized.
const maxMessageMetadata = 10

func llmStartBreadcrumb(agentName string, req llmsdk.Request) raven.Breadcrumb {
	data := map[string]any{
		"model":         req.Model,
		"provider":      string(req.Provider),
		"message_count": len(req.Messages),
		"tool_count":    len(req.Tools),
	}
	if agentName != "" {
		data["agent"] = agentName
	}
	if req.Temperature != nil {
		data["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		data["top_p"] = *req.TopP
	}
	if req.MaxTokens != nil {
		data["max_tokens"] = *req.MaxTokens
	}
	if len(req.Tools) > 0 {
		names := make([]string, len(req.Tools))
		for i, tool := range req.Tools {
			names[i] = tool.Name
		}
		data["tool_names"] = names
	}

	start := 0
	if len(req.Messages) > maxMessageMetadata {
		start = len(req.Messages) - maxMessageMetadata
	}
	messages := make([]map[string]any, 0, len(req.Messages)-start)
	for _, msg := range req.Messages[start:] {
		messages = append(messages, messageMetadata(msg))
	}
	if len(messages) > 0 {
		data["messages"] = messages
	}

	return raven.Breadcrumb{
		Type:     "default",
		Category: CategoryLLM,
		Message:  fmt.Sprintf("request %s", req.Model),
		Level:    raven.LevelInfo,
		Data:     data,
	}
}

// messageMetadata summarizes a message without its content.
func messageMetadata(msg llmsdk.Message) map[string]any {
	contentLength := 0
	meta := map[string]any{
		"role":        string(msg.Role),
		"parts_count": len(msg.Parts),
	}
	for _, part := range msg.Parts {
		contentLength += len(part.Text)
		if part.ImageData != nil {
			meta["has_image"] = true
		}
		if part.ToolCall != nil {
			meta["has_tool_call"] = true
		}
		if part.ToolResult != nil {
			meta["has_tool_result"] = true
		}
	}
	meta["content_length"] = contentLength
	return meta
}

func llmEndBreadcrumb(resp llmsdk.Response) raven.Breadcrumb {
	data := map[string]any{
		"finish_reason":     string(resp.FinishReason),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	}
	if resp.ID != "" {
		data["response_id"] = resp.ID
	}
	if len(resp.ToolCalls) > 0 {
		names := make([]string, len(resp.ToolCalls))
		for i, tc := range resp.ToolCalls {
			names[i] = tc.Name
		}
		data["tool_call_names"] = names
	}
	return raven.Breadcrumb{
		Type:     "default",
		Category: CategoryLLM,
		Message:  "response " + string(resp.FinishReason),
		Level:    raven.LevelInfo,
		Data:     data,
	}
}

func toolStartBreadcrumb(tool agents.Tool, call llmsdk.ToolCall) raven.Breadcrumb {
	return raven.Breadcrumb{
		Type:     "default",
		Category: CategoryTool,
		Message:  "call " + tool.Name,
		Level:    raven.LevelInfo,
		Data: map[string]any{
			"name":       tool.Name,
			"call_id":    call.ID,
			"input_size": len(call.Arguments),
		},
	}
}

func toolEndBreadcrumb(tool agents.Tool, output string) raven.Breadcrumb {
	return raven.Breadcrumb{
		Type:     "default",
		Category: CategoryTool,
		Message:  "done " + tool.Name,
		Level:    raven.LevelInfo,
		Data: map[string]any{
			"name":        tool.Name,
			"output_size": len(output),
		},
	}
}
