// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/rugrat-tui/internal/agent"
)

// MaxMessages caps in-memory history; older messages are pruned.
// PERFORMANCE: Prevents unbounded memory growth in long sessions.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered message history for one chat session.
// History lives in memory only; nothing is written to disk.
type Conversation struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Messages []*Message `json:"messages"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Running token estimate, refreshed on every append
	tokenEstimate int
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        "conv_" + uuid.NewString(),
		Title:     "New Conversation",
		Messages:  make([]*Message, 0, 16),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.tokenEstimate += msg.EstimateTokens()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends a streaming assistant message.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastAssistantMessage returns the most recent assistant message, or nil.
func (c *Conversation) GetLastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// AppendToLast appends a streamed token to the last message.
func (c *Conversation) AppendToLast(token string) {
	if msg := c.GetLastMessage(); msg != nil {
		msg.AppendToken(token)
	}
}

// FinalizeLast completes streaming on the last message.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	if msg := c.GetLastMessage(); msg != nil {
		msg.FinalizeStream(stats)
		c.tokenEstimate += msg.EstimateTokens()
		c.UpdatedAt = time.Now()
	}
}

// ClearHistory removes all messages but keeps the conversation identity.
func (c *Conversation) ClearHistory() {
	c.Messages = c.Messages[:0]
	c.tokenEstimate = 0
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true when no messages have been exchanged.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// EstimateTokens returns the running token estimate for the history.
func (c *Conversation) EstimateTokens() int {
	return c.tokenEstimate
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// ToChatMessages converts the history to API chat messages, with the
// given system instructions first. User messages carrying an image
// attachment become multimodal content parts; if the staged image can
// no longer be read, the message degrades to its text.
func (c *Conversation) ToChatMessages(instructions string) []agent.ChatMessage {
	out := make([]agent.ChatMessage, 0, len(c.Messages)+1)
	if instructions != "" {
		out = append(out, agent.NewSystemMessage(instructions))
	}

	for _, msg := range c.Messages {
		switch msg.Role {
		case RoleUser:
			if msg.HasImage() {
				if m, err := agent.NewUserImageMessage(msg.Content, msg.ImagePath); err == nil {
					out = append(out, m)
					continue
				}
			}
			out = append(out, agent.NewUserMessage(msg.Content))
		case RoleAssistant:
			// Skip messages still streaming or abandoned empty.
			if !msg.IsStreaming && !msg.IsEmpty() {
				out = append(out, agent.NewAssistantMessage(msg.Content))
			}
		}
		// System and tool roles never re-enter the wire history: the
		// system prompt is rebuilt each turn, and tool traffic stays
		// internal to the agent loop.
	}
	return out
}

// =============================================================================
// TITLE HANDLING
// =============================================================================

// updateTitle derives a title from the first user message.
func (c *Conversation) updateTitle() {
	if c.Title != "New Conversation" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// SetTitle sets an explicit title.
func (c *Conversation) SetTitle(title string) {
	title = strings.TrimSpace(title)
	if title != "" {
		c.Title = title
	}
}

// pruneOldMessages drops the oldest messages past MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append(c.Messages[:0:0], c.Messages[excess:]...)
}
