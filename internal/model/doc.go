// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, and model information.
//
// # Key Types
//
//   - Conversation: Ordered in-memory message history for one session
//   - Message: Single message with role, content, timestamp, and attachments
//   - ModelInfo: Catalog entry for an OpenRouter model (context, vision, tools)
//   - Role: Message role enumeration (user, assistant, system, tool)
//
// # Usage
//
// Create a new conversation and feed it to the agent:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("How do I spot a pyramid scheme?")
//	msgs := conv.ToChatMessages(instructions)
package model
