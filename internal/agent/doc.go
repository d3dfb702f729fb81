// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent provides the OpenRouter-backed agent runtime.
//
// The client speaks the OpenAI-compatible chat completions API with
// SSE streaming and function-calling. The runner drives the agent
// loop on top of it: it streams a completion, executes any tool calls
// the model requests through the tools registry, feeds the results
// back, and repeats until the model produces a final answer. Callers
// observe the turn as a flat event sequence suitable for the stream
// assembler.
package agent
