// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rugrat-tui/internal/eccumap"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	headerHeight = 1
	inputHeight  = 2 // notice line + input line
	statusHeight = 1

	// mapPanelWidth reserves room for the island grid plus its legend.
	mapPanelWidth = 38

	// minWidthForMap is the narrowest terminal that fits both columns.
	minWidthForMap = 100
)

// mapVisible reports whether the map panel fits and is enabled.
func (m Model) mapVisible() bool {
	return m.showMap && m.width >= minWidthForMap
}

// chatWidth is the transcript column width.
func (m Model) chatWidth() int {
	if m.mapVisible() {
		return m.width - mapPanelWidth
	}
	return m.width
}

// layout resizes the components after a terminal resize or a map
// toggle, and rebuilds the markdown renderer at the new wrap width.
func (m *Model) layout() {
	w := m.chatWidth()
	m.viewport.Width = w
	m.viewport.Height = m.height - headerHeight - inputHeight - statusHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.input.Width = m.width - 4

	wrap := w - 4
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.renderer = renderer
	}
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting rugrat..."
	}

	transcript := m.viewport.View()
	if m.mapVisible() {
		country := ""
		if m.hasLocation {
			country = m.location.CountryName()
		}
		panel := lipgloss.NewStyle().
			Width(mapPanelWidth).
			Render(eccumap.Render(country))
		transcript = lipgloss.JoinHorizontal(lipgloss.Top, transcript, panel)
	}

	return strings.Join([]string{
		m.headerView(),
		transcript,
		m.noticeView(),
		m.inputView(),
		m.statusView(),
	}, "\n")
}

// headerView renders the title bar.
func (m Model) headerView() string {
	parts := []string{
		m.theme.HeaderTitle.Render("RUGRat"),
		m.theme.HeaderBadge.Render(m.cfg.Model),
	}
	if m.hasLocation {
		badge := m.location.Badge()
		if m.location.IsECCU {
			badge += " (ECCU)"
		}
		parts = append(parts, m.theme.LocationBadge.Render(badge))
	}
	return m.theme.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// noticeView renders the transient feedback line, including pending
// attachment tags.
func (m Model) noticeView() string {
	var parts []string
	for _, f := range m.pendingFiles {
		parts = append(parts, m.theme.AttachmentTag.Render("["+f.Name+"]"))
	}
	if m.notice != "" {
		parts = append(parts, m.theme.StatsLine.Render(m.notice))
	}
	return strings.Join(parts, " ")
}

// inputView renders the prompt line, or the activity indicator while
// a response is streaming.
func (m Model) inputView() string {
	if m.state == StateStreaming {
		label := "thinking"
		if m.toolActivity != "" {
			return m.spin.View() + " " + m.theme.ToolIndicator.Render(m.toolActivity)
		}
		return m.spin.View() + " " + m.theme.ThinkingText.Render(label)
	}
	return m.input.View()
}

// statusView renders the footer bar.
func (m Model) statusView() string {
	left := m.theme.StatusKey.Render("session ") +
		m.theme.StatusValue.Render(session.FormatDuration(m.now.Sub(m.sess.StartTime()))) +
		m.theme.StatusKey.Render("  messages ") +
		m.theme.StatusValue.Render(strconv.Itoa(m.conversation().MessageCount()))

	var shortcuts []string
	for _, b := range m.keys.ShortHelp() {
		shortcuts = append(shortcuts,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	right := strings.Join(shortcuts, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderMessages builds the transcript text for the viewport.
func (m Model) renderMessages() string {
	conv := m.conversation()
	if conv.IsEmpty() {
		return m.theme.ThinkingText.Render(
			"Ask RUGRat about budgeting, scam warning signs, or EC dollar rates.")
	}

	wrap := m.chatWidth() - 2
	if wrap < 20 {
		wrap = 20
	}

	var blocks []string
	for _, msg := range conv.Messages {
		switch msg.Role {
		case model.RoleUser:
			blocks = append(blocks, m.renderUser(msg, wrap))
		case model.RoleAssistant:
			if block := m.renderAssistant(msg); block != "" {
				blocks = append(blocks, block)
			}
		case model.RoleSystem:
			blocks = append(blocks,
				m.theme.SystemNotice.Width(wrap).Render(msg.GetDisplayContent()))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// renderUser renders a user message with its attachment tags.
func (m Model) renderUser(msg *model.Message, wrap int) string {
	label := m.theme.UserLabel.Render("You")
	if len(msg.AttachmentNames) > 0 {
		label += " " + m.theme.AttachmentTag.Render("["+strings.Join(msg.AttachmentNames, ", ")+"]")
	}
	body := m.theme.UserBubble.Width(wrap).Render(msg.GetDisplayContent())
	return label + "\n" + body
}

// renderAssistant renders an assistant message, markdown-formatted
// once the stream has finalized. Returns "" for empty finalized
// messages, which occur when a turn errors before any content.
func (m Model) renderAssistant(msg *model.Message) string {
	if msg.IsEmpty() && !msg.IsStreaming {
		return ""
	}

	label := m.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName())
	content := msg.GetDisplayContent()
	if !msg.IsStreaming {
		content = m.renderMarkdown(content)
	}

	block := label + "\n" + content
	if m.cfg.UI.ShowStats {
		if stats := msg.FormatStats(); stats != "" {
			block += "\n" + m.theme.StatsLine.Render(stats)
		}
	}
	return block
}

// renderMarkdown formats assistant markdown for the terminal, falling
// back to the raw text if rendering fails.
func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
