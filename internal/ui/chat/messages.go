// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rugrat-tui/internal/config"
)

// =============================================================================
// STREAM MESSAGES
// =============================================================================

// turnStartedMsg carries the channels for a freshly launched agent
// turn, plus the cancel func that aborts it.
type turnStartedMsg struct {
	items  <-chan any
	errs   <-chan error
	cancel context.CancelFunc
}

// StreamItemMsg carries one raw item from the runner's event stream.
type StreamItemMsg struct {
	Raw any
}

// StreamDoneMsg signals that the turn finished. Err is nil on a clean
// completion.
type StreamDoneMsg struct {
	Err error
}

// ConfigReloadedMsg delivers a freshly loaded config after the file
// changed on disk.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// streamTickMsg drives the viewport repaint while streaming.
type streamTickMsg time.Time

// streamFrameInterval is the repaint cadence during streaming.
// PERFORMANCE: 30fps keeps the terminal responsive without redrawing
// on every token.
const streamFrameInterval = time.Second / 30

// streamTickCmd schedules the next streaming repaint.
func streamTickCmd() tea.Cmd {
	return tea.Tick(streamFrameInterval, func(t time.Time) tea.Msg {
		return streamTickMsg(t)
	})
}

// waitForItem blocks on the item channel and converts the result into
// a Bubble Tea message. A closed channel means the turn ended; the
// error channel then holds the outcome.
func waitForItem(items <-chan any, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		item, ok := <-items
		if !ok {
			return StreamDoneMsg{Err: <-errs}
		}
		return StreamItemMsg{Raw: item}
	}
}
