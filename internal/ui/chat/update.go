// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rugrat-tui/internal/attach"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
	"github.com/jeranaias/rugrat-tui/internal/stream"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshViewport(false)
		return m, nil

	case session.TickMsg:
		m.now = msg.Time
		return m, session.TickCmd()

	case session.LocationMsg:
		m.location = msg.Location
		m.hasLocation = !msg.Location.IsUnknown()
		m.refreshViewport(false)
		return m, nil

	case ConfigReloadedMsg:
		// Model and API settings are session scoped; the client was
		// built from them at startup and does not follow the file.
		msg.Cfg.Model = m.cfg.Model
		msg.Cfg.API = m.cfg.API
		m.cfg = msg.Cfg
		m.notice = "configuration reloaded"
		m.refreshViewport(false)
		return m, nil

	case turnStartedMsg:
		m.items = msg.items
		m.errs = msg.errs
		m.cancelTurn = msg.cancel
		return m, tea.Batch(waitForItem(m.items, m.errs), streamTickCmd())

	case StreamItemMsg:
		return m.handleStreamItem(msg)

	case streamTickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		if m.buffer.Len() > 0 {
			m.flushStream()
		}
		return m, streamTickCmd()

	case StreamDoneMsg:
		return m.finishTurn(msg.Err)

	case spinner.TickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// STREAM HANDLING
// =============================================================================

// handleStreamItem folds one runner event into the conversation.
// Unrecognized items are dropped, matching the boundary rules in the
// stream package.
func (m Model) handleStreamItem(msg StreamItemMsg) (tea.Model, tea.Cmd) {
	ev, ok := stream.Normalize(msg.Raw)
	if !ok {
		return m, waitForItem(m.items, m.errs)
	}

	switch ev.Kind {
	case stream.KindContentDelta:
		m.stats.RecordFirstToken()
		m.stats.CompletionTokens++
		if m.buffer.Add(ev.Text) {
			m.flushStream()
		}
	case stream.KindToolStarted:
		m.toolActivity = "Calling " + ev.Tool + "..."
	case stream.KindToolCompleted:
		m.toolActivity = ""
	}

	return m, waitForItem(m.items, m.errs)
}

// flushStream drains the buffer into the streaming message and
// repaints the transcript.
func (m *Model) flushStream() {
	if text := m.buffer.Flush(); text != "" {
		m.conversation().AppendToLast(text)
	}
	m.refreshViewport(true)
}

// finishTurn closes out the current turn on both success and error
// paths. The staged image temp file is released here, after the
// stream has fully drained.
func (m Model) finishTurn(err error) (tea.Model, tea.Cmd) {
	m.flushStream()

	m.stats.Finalize(m.stats.CompletionTokens)
	m.conversation().FinalizeLast(m.stats)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			m.notice = "generation cancelled"
		} else if last := m.conversation().GetLastAssistantMessage(); last != nil {
			// The failed turn stays in history as a synthetic
			// assistant reply; the user decides whether to retry.
			last.Content = "Error: " + err.Error()
		}
	}

	m.turnImage.Cleanup()
	m.turnImage = nil

	m.state = StateReady
	m.toolActivity = ""
	m.items = nil
	m.errs = nil
	m.cancelTurn = nil
	m.input.Focus()
	m.refreshViewport(true)

	return m, textinput.Blink
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Cancel):
		if m.state == StateStreaming && m.cancelTurn != nil {
			m.cancelTurn()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.conversation().ClearHistory()
		m.notice = "conversation cleared"
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.ToggleMap):
		m.showMap = !m.showMap
		m.layout()
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollDn):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// quit aborts any in-flight turn and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelTurn != nil {
		m.cancelTurn()
	}
	m.turnImage.Cleanup()
	m.quitting = true
	return m, tea.Quit
}

// =============================================================================
// SUBMIT
// =============================================================================

// handleSubmit routes the input line: slash commands are executed
// locally, everything else becomes a chat turn.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.state != StateReady {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.handleCommand(text)
	}

	return m.sendMessage(text)
}

// sendMessage stages the attachments, records the user message, and
// launches the agent turn.
func (m Model) sendMessage(text string) (tea.Model, tea.Cmd) {
	prompt, imgRef := attach.Normalize(text, m.pendingFiles)

	conv := m.conversation()
	userMsg := conv.AddUserMessage(prompt)
	for _, f := range m.pendingFiles {
		userMsg.AttachmentNames = append(userMsg.AttachmentNames, f.Name)
	}
	if imgRef != nil {
		userMsg.ImagePath = imgRef.Path
		m.turnImage = imgRef
		if !model.SupportsVision(m.cfg.Model) {
			m.notice = "note: " + m.cfg.Model + " may not support images"
		}
	}
	m.pendingFiles = nil

	conv.AddAssistantMessage()
	m.stats = model.NewStatistics()
	m.buffer.Reset()
	m.state = StateStreaming
	m.input.Reset()
	m.input.Blur()
	m.sess.RecordActivity()
	m.refreshViewport(true)

	return m, tea.Batch(m.startTurnCmd(), m.spin.Tick)
}
