// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/rugrat-tui/internal/agent"
	"github.com/jeranaias/rugrat-tui/internal/geo"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/persona"
)

// =============================================================================
// SESSION
// =============================================================================

// Session owns the state for one chat session: a stable ID, the
// conversation history, and the location resolver the persona
// instructions derive from.
type Session struct {
	mu sync.Mutex

	// Identity and activity
	id           string
	startTime    time.Time
	lastActivity time.Time

	// Conversation history (in memory only)
	conversation *model.Conversation

	// Location, resolved at most once per session
	resolver *geo.Resolver
}

// New creates a session over the given resolver.
func New(resolver *geo.Resolver) *Session {
	now := time.Now()
	return &Session{
		id:           "sess_" + uuid.NewString(),
		startTime:    now,
		lastActivity: now,
		conversation: model.NewConversation(),
		resolver:     resolver,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// StartTime returns when the session started.
func (s *Session) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// Duration returns how long the session has been active.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.startTime)
}

// IdleTime returns how long since last activity.
func (s *Session) IdleTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity)
}

// RecordActivity updates the last activity timestamp.
// Called on user input or other interaction.
func (s *Session) RecordActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// Conversation returns the session's message history.
func (s *Session) Conversation() *model.Conversation {
	return s.conversation
}

// =============================================================================
// LOCATION AND INSTRUCTIONS
// =============================================================================

// Location resolves the session location. The underlying resolver
// memoizes, so only the first call can block on the network.
func (s *Session) Location(ctx context.Context) geo.Location {
	return s.resolver.Resolve(ctx)
}

// Instructions returns the persona instructions for this session,
// rebuilt on every call from the cached location. The builder is pure,
// so only the first call can block on the resolver.
func (s *Session) Instructions(ctx context.Context) string {
	return persona.BuildInstructions(s.resolver.Resolve(ctx))
}

// ChatMessages builds the wire-format history for the next agent turn:
// persona instructions first, then the conversation so far.
func (s *Session) ChatMessages(ctx context.Context) []agent.ChatMessage {
	return s.conversation.ToChatMessages(s.Instructions(ctx))
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to refresh session displays.
type TickMsg struct {
	Time time.Time
}

// LocationMsg carries the resolved session location.
type LocationMsg struct {
	Location geo.Location
}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// ResolveLocationCmd performs the location lookup off the UI
// goroutine and delivers the result as a LocationMsg.
func (s *Session) ResolveLocationCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return LocationMsg{Location: s.resolver.Resolve(ctx)}
	}
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is a point-in-time snapshot for status displays.
type Status struct {
	SessionID    string
	StartTime    time.Time
	Duration     time.Duration
	IdleTime     time.Duration
	MessageCount int
	Location     geo.Location
	HasLocation  bool
}

// GetStatus returns the current session status. The location field is
// populated only if a lookup has already completed; Status never
// triggers one.
func (s *Session) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	loc, ok := s.resolver.Cached()

	return Status{
		SessionID:    s.id,
		StartTime:    s.startTime,
		Duration:     now.Sub(s.startTime),
		IdleTime:     now.Sub(s.lastActivity),
		MessageCount: s.conversation.MessageCount(),
		Location:     loc,
		HasLocation:  ok,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
