// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/rugrat-tui/internal/tools"
)

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatMessage represents a single message in a chat conversation.
// Content is either a plain string or a []ContentPart for multimodal
// messages; the API accepts both shapes.
type ChatMessage struct {
	Role       string            `json:"role"` // "user", "assistant", "system", or "tool"
	Content    interface{}       `json:"content"`
	ToolCalls  []ToolCallPayload `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
}

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image reference, typically a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// ToolCallPayload is a tool invocation as carried on an assistant message.
type ToolCallPayload struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // always "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall names the tool and carries its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// NewToolMessage creates a tool result message answering the given call.
func NewToolMessage(callID, content string) ChatMessage {
	return ChatMessage{Role: "tool", Content: content, ToolCallID: callID}
}

// NewUserImageMessage creates a multimodal user message carrying both
// the typed text and an image read from imagePath, inlined as a base64
// data URL.
func NewUserImageMessage(text, imagePath string) (ChatMessage, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("failed to read image: %w", err)
	}

	dataURL := "data:" + imageMIMEType(imagePath) + ";base64," + base64.StdEncoding.EncodeToString(data)

	return ChatMessage{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}},
		},
	}, nil
}

// imageMIMEType maps an image file extension to its MIME type.
func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// TextContent returns the plain-text rendering of the message content.
// Multimodal parts contribute their text segments only.
func (m ChatMessage) TextContent() string {
	switch content := m.Content.(type) {
	case string:
		return content
	case []ContentPart:
		var sb strings.Builder
		for _, part := range content {
			if part.Type == "text" {
				sb.WriteString(part.Text)
			}
		}
		return sb.String()
	default:
		return ""
	}
}

// =============================================================================
// TOOL SCHEMA CONVERSION
// =============================================================================

// ToolDef is a tool definition in the function-calling wire format:
//
//	{
//	  "type": "function",
//	  "function": {
//	    "name": "tool_name",
//	    "description": "What the tool does",
//	    "parameters": {
//	      "type": "object",
//	      "properties": {...},
//	      "required": [...]
//	    }
//	  }
//	}
type ToolDef struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef describes one callable function.
type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ParametersSpec `json:"parameters"`
}

// ParametersSpec is the JSON Schema object for function parameters.
type ParametersSpec struct {
	Type       string                  `json:"type"`
	Properties map[string]PropertySpec `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

// PropertySpec describes one function parameter.
type PropertySpec struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// ToolDefs converts a registry's tools to the function-calling wire format.
func ToolDefs(registry *tools.Registry) []ToolDef {
	all := registry.All()
	defs := make([]ToolDef, 0, len(all))

	for _, tool := range all {
		properties := make(map[string]PropertySpec)
		var required []string

		for _, param := range tool.Schema.Parameters {
			prop := PropertySpec{
				Type:        param.Type,
				Description: param.Description,
			}
			if param.Default != nil {
				prop.Default = param.Default
			}
			if len(param.Enum) > 0 {
				prop.Enum = param.Enum
			}
			properties[param.Name] = prop

			if param.Required {
				required = append(required, param.Name)
			}
		}

		defs = append(defs, ToolDef{
			Type: "function",
			Function: FunctionDef{
				Name:        tool.Name,
				Description: tool.GetShortDescription(),
				Parameters: ParametersSpec{
					Type:       "object",
					Properties: properties,
					Required:   required,
				},
			},
		})
	}

	return defs
}
