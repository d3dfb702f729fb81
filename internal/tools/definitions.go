// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"strings"
	"time"
)

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// Tool represents an executable lookup tool.
type Tool struct {
	// Name is the tool identifier (e.g., "web_search", "exchange_rates")
	Name string

	// Description explains what the tool does (full description for documentation)
	Description string

	// ShortDescription is a concise description for LLM tool schemas (<125 chars recommended)
	// If empty, the first line of Description is used
	ShortDescription string

	// Schema defines the tool's parameters
	Schema Schema

	// Executor handles the actual execution
	Executor ToolExecutor
}

// GetShortDescription returns the concise description suitable for LLM tool schemas.
// Returns ShortDescription if set, otherwise returns the first line of Description.
func (t *Tool) GetShortDescription() string {
	if t.ShortDescription != "" {
		return t.ShortDescription
	}
	if idx := strings.Index(t.Description, "\n"); idx != -1 {
		return t.Description[:idx]
	}
	return t.Description
}

// Schema defines a tool's parameters.
type Schema struct {
	Parameters []Parameter
}

// Parameter defines a single tool parameter.
type Parameter struct {
	// Name of the parameter
	Name string

	// Type is the parameter type ("string", "number", "boolean", "array")
	Type string

	// Required indicates if the parameter must be provided
	Required bool

	// Description explains the parameter
	Description string

	// Default is the default value if not provided
	Default interface{}

	// Enum contains allowed values for string type
	Enum []string
}

// =============================================================================
// TOOL EXECUTOR INTERFACE
// =============================================================================

// ToolExecutor is the interface for individual tool execution.
// Each tool implements this to define its execution logic.
type ToolExecutor interface {
	Execute(ctx context.Context, params map[string]interface{}) (Result, error)
}

// Result holds the outcome of a tool execution.
type Result struct {
	// Success indicates if the tool executed successfully
	Success bool

	// Output is the tool's output (for successful execution)
	Output string

	// Error is the error message (for failed execution)
	Error string

	// Duration is how long execution took
	Duration time.Duration

	// Truncated indicates output was truncated
	Truncated bool

	// MatchCount for search-style tools
	MatchCount int
}

// Text returns the output for a successful result, or the error
// message prefixed so the model can see the tool failed.
func (r Result) Text() string {
	if r.Success {
		return r.Output
	}
	return "Tool error: " + r.Error
}

// =============================================================================
// TOOL REGISTRY
// =============================================================================

// Registry holds all available tools.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry creates a new tool registry with the built-in lookup tools.
func NewRegistry() *Registry {
	r := &Registry{
		tools: make(map[string]*Tool),
	}
	r.RegisterBuiltins()
	return r
}

// RegisterBuiltins registers all built-in tools.
func (r *Registry) RegisterBuiltins() {
	r.Register(WebSearchTool)
	r.Register(ExchangeRatesTool)
	r.Register(NewsTool)
	r.Register(WikiSummaryTool)
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool *Tool) {
	if r.tools == nil {
		r.tools = make(map[string]*Tool)
	}
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// All returns all registered tools in registration order.
func (r *Registry) All() []*Tool {
	result := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// =============================================================================
// TOOL CALL
// =============================================================================

// ToolCall represents a parsed tool invocation.
type ToolCall struct {
	Name   string
	Params map[string]interface{}
}

// GetString gets a string parameter with a default value.
func (tc *ToolCall) GetString(name string, defaultVal string) string {
	if val, ok := tc.Params[name]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// GetInt gets an integer parameter with a default value.
func (tc *ToolCall) GetInt(name string, defaultVal int) int {
	if val, ok := tc.Params[name]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultVal
}

// =============================================================================
// PARAMETER HELPERS
// =============================================================================

// getStringParam extracts a string parameter with a default.
func getStringParam(params map[string]interface{}, name, defaultVal string) string {
	if val, ok := params[name]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// getIntParam extracts an integer parameter with a default.
// JSON numbers arrive as float64, so all numeric types are accepted.
func getIntParam(params map[string]interface{}, name string, defaultVal int) int {
	if val, ok := params[name]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultVal
}
