// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools provides the lookup tools the assistant calls while
// answering money questions: web search, XCD exchange rates, news
// headlines, and encyclopedia summaries.
//
// Every tool is a read-only network lookup. The assistant is
// instructed to answer factual questions exclusively through these
// tools rather than from model memory, so each executor returns its
// results as preformatted text ready to be quoted back to the model.
//
// # Key Types
//
//   - Tool: Tool definition with name, description, and parameters
//   - Registry: Holds the available tools
//   - Executor: Runs tool calls with timeout and validation
//   - Result: Tool execution result with output and status
package tools
