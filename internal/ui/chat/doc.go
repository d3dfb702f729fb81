// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive TUI for rugrat, built on
// Bubble Tea.
//
// The Model owns one conversation session end to end: it collects the
// typed prompt and any staged attachments, hands the assembled wire
// messages to the agent runner, and folds the resulting event stream
// back into the conversation as it arrives. Token deltas are batched
// through a StreamingBuffer so the viewport repaints at a steady frame
// rate instead of once per token.
//
// Slash commands (/help, /attach, /model, /map, /status, /clear,
// /quit) are parsed from the input line before anything is sent to the
// model. The Eastern Caribbean map panel renders beside the transcript
// on wide terminals and can be toggled at runtime.
package chat
