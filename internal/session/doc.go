// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session ties one chat session together: identity, the
// in-memory conversation, the memoized location lookup, and the
// persona instructions derived from it.
//
// A session resolves its location at most once. The persona
// instructions built from that location are likewise built once and
// reused for every turn, so the assistant's tone cannot drift
// mid-conversation.
//
// # Usage
//
//	sess := session.New(geo.NewResolver())
//	sess.Conversation().AddUserMessage("how much should I save monthly?")
//	msgs, _ := sess.ChatMessages(ctx)
//
// Bubble Tea programs use ResolveLocationCmd to perform the lookup off
// the UI goroutine and TickCmd to drive the footer clock.
package session
