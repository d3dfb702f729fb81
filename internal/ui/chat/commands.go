// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rugrat-tui/internal/attach"
	"github.com/jeranaias/rugrat-tui/internal/export"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// maxAttachmentSize caps a single /attach upload.
// SECURITY: attachments are inlined into the prompt; an unbounded read
// would let one file blow past the model's context window.
const maxAttachmentSize = 5 * 1024 * 1024

const helpText = `Commands:
  /help           show this help
  /attach <path>  stage a file for the next message
  /model [id]     show or switch the active model
  /map            toggle the Eastern Caribbean map panel
  /export [json]  save the transcript to a file
  /status         show session status
  /clear          clear the conversation
  /quit           exit

Keys: enter send, esc cancel generation, ctrl+l clear, ctrl+g map, ctrl+c quit`

// parseCommand splits "/attach ./file.csv" into ("attach", "./file.csv").
func parseCommand(input string) (string, string) {
	input = strings.TrimPrefix(input, "/")
	name, args, _ := strings.Cut(input, " ")
	return strings.ToLower(name), strings.TrimSpace(args)
}

// handleCommand executes one slash command.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	name, args := parseCommand(input)

	switch name {
	case "help":
		m.conversation().AddMessage(model.NewSystemMessage(helpText))
		m.refreshViewport(true)
		return m, nil

	case "clear":
		m.conversation().ClearHistory()
		m.pendingFiles = nil
		m.notice = "conversation cleared"
		m.refreshViewport(false)
		return m, nil

	case "attach":
		return m.attachFile(args)

	case "model":
		return m.switchModel(args)

	case "map":
		m.showMap = !m.showMap
		m.layout()
		m.refreshViewport(false)
		return m, nil

	case "export":
		return m.exportTranscript(args)

	case "status":
		m.conversation().AddMessage(model.NewSystemMessage(m.statusReport()))
		m.refreshViewport(true)
		return m, nil

	case "quit", "exit":
		return m.quit()

	default:
		m.notice = "unknown command: /" + name + " (try /help)"
		return m, nil
	}
}

// attachFile reads a file from disk and stages it for the next
// message.
func (m Model) attachFile(path string) (tea.Model, tea.Cmd) {
	if path == "" {
		m.notice = "usage: /attach <path>"
		return m, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		m.notice = "attach failed: " + err.Error()
		return m, nil
	}
	if info.Size() > maxAttachmentSize {
		m.notice = "attach failed: " + filepath.Base(path) + " exceeds 5MB limit"
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.notice = "attach failed: " + err.Error()
		return m, nil
	}

	m.pendingFiles = append(m.pendingFiles, attach.Upload{
		Name: filepath.Base(path),
		Data: data,
	})
	m.notice = "staged " + filepath.Base(path) +
		" (" + strconv.Itoa(len(m.pendingFiles)) + " pending)"
	return m, nil
}

// exportTranscript writes the conversation to a file in the current
// directory. "/export json" picks the JSON format.
func (m Model) exportTranscript(format string) (tea.Model, tea.Cmd) {
	if m.conversation().IsEmpty() {
		m.notice = "nothing to export yet"
		return m, nil
	}

	opts := export.DefaultOptions()
	opts.Model = m.cfg.Model

	var path string
	var err error
	if strings.EqualFold(format, "json") {
		path, err = export.JSON(m.conversation(), opts)
	} else {
		path, err = export.Markdown(m.conversation(), opts)
	}
	if err != nil {
		m.notice = "export failed: " + err.Error()
		return m, nil
	}

	m.notice = "transcript saved to " + path
	return m, nil
}

// switchModel shows or changes the active model.
func (m Model) switchModel(id string) (tea.Model, tea.Cmd) {
	if id == "" {
		m.notice = "model: " + m.cfg.Model
		return m, nil
	}

	m.client.WithModel(id)
	m.cfg.Model = id
	if _, known := model.Lookup(id); known {
		m.notice = "model set to " + id
	} else {
		m.notice = "model set to " + id + " (not in the known catalog)"
	}
	return m, nil
}

// statusReport formats the /status output.
func (m Model) statusReport() string {
	st := m.sess.GetStatus()

	var b strings.Builder
	b.WriteString("Session " + st.SessionID + "\n")
	b.WriteString("  model:    " + m.cfg.Model + "\n")
	b.WriteString("  uptime:   " + session.FormatDuration(st.Duration) + "\n")
	b.WriteString("  messages: " + strconv.Itoa(st.MessageCount) + "\n")
	if st.HasLocation {
		b.WriteString("  location: " + st.Location.Badge())
		if st.Location.IsECCU {
			b.WriteString(" (ECCU)")
		}
	} else {
		b.WriteString("  location: not resolved yet")
	}
	return b.String()
}
