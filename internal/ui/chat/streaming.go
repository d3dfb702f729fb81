// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// flushTokenCount is how many deltas accumulate before an immediate
// flush, regardless of the frame timer.
const flushTokenCount = 15

// StreamingBuffer batches token deltas between repaints. Appending a
// token per Update call would force a full viewport re-render for
// every fragment the API sends; instead deltas pool here and drain on
// the frame tick or once the batch threshold is hit.
type StreamingBuffer struct {
	mu      sync.Mutex
	pending strings.Builder
	tokens  int
}

// NewStreamingBuffer creates an empty buffer.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{}
}

// Add appends a delta and reports whether the batch threshold was
// reached.
func (b *StreamingBuffer) Add(text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending.WriteString(text)
	b.tokens++
	return b.tokens >= flushTokenCount
}

// Flush drains and returns the pooled text.
func (b *StreamingBuffer) Flush() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.pending.String()
	b.pending.Reset()
	b.tokens = 0
	return text
}

// Len returns the number of pooled deltas.
func (b *StreamingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens
}

// Reset discards any pooled text.
func (b *StreamingBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending.Reset()
	b.tokens = 0
}

// =============================================================================
// TURN LAUNCH
// =============================================================================

// startTurnCmd assembles the wire messages for the current
// conversation and launches one agent turn. Assembly happens inside
// the command because the first turn may block on the location lookup
// that personalizes the system instructions.
func (m Model) startTurnCmd() tea.Cmd {
	sess := m.sess
	runner := m.runner
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		messages := sess.ChatMessages(ctx)
		items, errs := runner.RunTurn(ctx, messages)
		return turnStartedMsg{items: items, errs: errs, cancel: cancel}
	}
}
