// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Header
	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderBadge   lipgloss.Style
	LocationBadge lipgloss.Style

	// Message rendering
	UserLabel      lipgloss.Style
	UserBubble     lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemNotice   lipgloss.Style
	AttachmentTag  lipgloss.Style
	StatsLine      lipgloss.Style

	// Tool activity
	ToolIndicator lipgloss.Style

	// Input area
	InputPrompt lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusKey    lipgloss.Style
	StatusValue  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Feedback
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ErrorText    lipgloss.Style
}

// NewTheme builds the theme for the current terminal.
// mode is "dark", "light", or "auto".
func NewTheme(mode string) *Theme {
	output := termenv.DefaultOutput()

	isDark := true
	switch mode {
	case "light":
		isDark = false
	case "dark":
		isDark = true
	default:
		isDark = output.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	profile := output.Profile

	return &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,

		Header: lipgloss.NewStyle().
			Background(SurfaceDim).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Teal),
		HeaderBadge: lipgloss.NewStyle().
			Foreground(TextSecondary),
		LocationBadge: lipgloss.NewStyle().
			Foreground(Palm).
			Bold(true),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(UserBubbleFg),
		UserBubble: lipgloss.NewStyle().
			Foreground(UserBubbleFg).
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(UserBubbleBorder).
			PaddingLeft(1),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(AssistantBubbleFg),
		SystemNotice: lipgloss.NewStyle().
			Foreground(SystemBubbleFg).
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(SystemBubbleBorder).
			PaddingLeft(1),
		AttachmentTag: lipgloss.NewStyle().
			Foreground(Gold),
		StatsLine: lipgloss.NewStyle().
			Foreground(TextMuted),

		ToolIndicator: lipgloss.NewStyle().
			Foreground(Amber).
			Italic(true),

		InputPrompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(Teal),

		StatusBar: lipgloss.NewStyle().
			Background(SurfaceDim).
			Foreground(TextSecondary).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(TextMuted),
		StatusValue: lipgloss.NewStyle().
			Foreground(TextPrimary),
		ShortcutKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(Teal),
		ShortcutDesc: lipgloss.NewStyle().
			Foreground(TextMuted),

		Spinner: lipgloss.NewStyle().
			Foreground(Teal),
		ThinkingText: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Italic(true),
		ErrorText: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),
	}
}
