// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rugrat-tui/internal/agent"
	"github.com/jeranaias/rugrat-tui/internal/attach"
	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/geo"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
	"github.com/jeranaias/rugrat-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the top-level mode of the chat view.
type State int

const (
	// StateReady accepts input.
	StateReady State = iota

	// StateStreaming renders an in-flight response.
	StateStreaming
)

// inputCharLimit caps the typed prompt length.
const inputCharLimit = 4096

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	cfg    *config.Config
	theme  *styles.Theme
	sess   *session.Session
	client *agent.Client
	runner *agent.Runner

	// Components
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer
	keys     KeyMap
	buffer   *StreamingBuffer

	// Layout
	width   int
	height  int
	ready   bool
	showMap bool

	// Turn state
	state        State
	items        <-chan any
	errs         <-chan error
	cancelTurn   context.CancelFunc
	stats        *model.Statistics
	toolActivity string
	turnImage    *attach.ImageRef

	// Staged attachments for the next message
	pendingFiles []attach.Upload

	// Session context
	location    geo.Location
	hasLocation bool
	now         time.Time

	// Transient feedback shown above the input line
	notice   string
	quitting bool
}

// New creates the chat model.
func New(cfg *config.Config, theme *styles.Theme, sess *session.Session, client *agent.Client, runner *agent.Runner) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Ask about budgeting, scams, or XCD rates (/help for commands)"
	input.CharLimit = inputCharLimit
	input.PromptStyle = theme.InputPrompt
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 30,
	}
	spin.Style = theme.Spinner

	vp := viewport.New(80, 20)

	return Model{
		cfg:      cfg,
		theme:    theme,
		sess:     sess,
		client:   client,
		runner:   runner,
		viewport: vp,
		input:    input,
		spin:     spin,
		keys:     DefaultKeyMap(),
		buffer:   NewStreamingBuffer(),
		showMap:  cfg.UI.ShowMap,
		state:    StateReady,
		now:      time.Now(),
	}
}

// Init starts the blink cursor, the footer clock, and the background
// location lookup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		session.TickCmd(),
		m.sess.ResolveLocationCmd(context.Background()),
	)
}

// conversation is a shorthand for the session's conversation.
func (m Model) conversation() *model.Conversation {
	return m.sess.Conversation()
}
