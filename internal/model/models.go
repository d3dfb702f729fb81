// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelInfo describes an OpenRouter chat model the assistant knows how
// to drive. The catalog is advisory: any model ID is accepted on the
// wire, but catalogued entries let the UI warn before sending an image
// to a text-only model.
type ModelInfo struct {
	// ID is the OpenRouter model identifier
	ID string

	// Name is the human-readable display name
	Name string

	// ContextTokens is the advertised context window size
	ContextTokens int

	// Vision indicates image inputs are supported
	Vision bool

	// Tools indicates function calling is supported
	Tools bool
}

// Models is the built-in catalog, keyed by OpenRouter model ID.
var Models = map[string]ModelInfo{
	"openai/gpt-4o-mini": {
		ID:            "openai/gpt-4o-mini",
		Name:          "GPT-4o mini",
		ContextTokens: 128000,
		Vision:        true,
		Tools:         true,
	},
	"openai/gpt-4o": {
		ID:            "openai/gpt-4o",
		Name:          "GPT-4o",
		ContextTokens: 128000,
		Vision:        true,
		Tools:         true,
	},
	"anthropic/claude-3.5-sonnet": {
		ID:            "anthropic/claude-3.5-sonnet",
		Name:          "Claude 3.5 Sonnet",
		ContextTokens: 200000,
		Vision:        true,
		Tools:         true,
	},
	"meta-llama/llama-3.1-70b-instruct": {
		ID:            "meta-llama/llama-3.1-70b-instruct",
		Name:          "Llama 3.1 70B Instruct",
		ContextTokens: 131072,
		Vision:        false,
		Tools:         true,
	},
	"google/gemini-flash-1.5": {
		ID:            "google/gemini-flash-1.5",
		Name:          "Gemini 1.5 Flash",
		ContextTokens: 1000000,
		Vision:        true,
		Tools:         true,
	},
}

// Lookup returns catalog information for a model ID.
func Lookup(id string) (ModelInfo, bool) {
	info, ok := Models[id]
	return info, ok
}

// SupportsVision reports whether the model accepts image inputs.
// Unknown models are assumed capable; the API rejects them if not.
func SupportsVision(id string) bool {
	if info, ok := Models[id]; ok {
		return info.Vision
	}
	return true
}

// SupportsTools reports whether the model can call functions.
// Unknown models are assumed capable.
func SupportsTools(id string) bool {
	if info, ok := Models[id]; ok {
		return info.Tools
	}
	return true
}
