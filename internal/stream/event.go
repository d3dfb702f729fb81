// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

// =============================================================================
// EVENT UNION
// =============================================================================

// Kind discriminates the event union.
type Kind int

const (
	// KindContentDelta carries a fragment of the reply text.
	KindContentDelta Kind = iota

	// KindToolStarted announces a tool invocation by name.
	KindToolStarted

	// KindToolCompleted announces that the in-flight tool finished.
	KindToolCompleted
)

// String returns the string representation of an event kind.
func (k Kind) String() string {
	switch k {
	case KindContentDelta:
		return "ContentDelta"
	case KindToolStarted:
		return "ToolStarted"
	case KindToolCompleted:
		return "ToolCompleted"
	default:
		return "Unknown"
	}
}

// Event is one canonical unit of the response sequence.
type Event struct {
	Kind Kind

	// Text is the content fragment for KindContentDelta.
	Text string

	// Tool is the tool name for KindToolStarted.
	Tool string
}

// ContentDelta builds a content fragment event.
func ContentDelta(text string) Event {
	return Event{Kind: KindContentDelta, Text: text}
}

// ToolStarted builds a tool start event.
func ToolStarted(name string) Event {
	return Event{Kind: KindToolStarted, Tool: name}
}

// ToolCompleted builds a tool completion event.
func ToolCompleted() Event {
	return Event{Kind: KindToolCompleted}
}

// =============================================================================
// BOUNDARY NORMALIZATION
// =============================================================================

// ContentCarrier is the legacy bare-object shape: anything that can
// hand over a content fragment but has no event discriminator.
type ContentCarrier interface {
	GetContent() string
}

// Normalize canonicalizes one raw item from the runtime into the
// tagged union. The two legacy shapes - a bare content object and a
// raw string - are treated identically to a content delta. Items that
// match no known shape are dropped (ok=false), mirroring how the
// runtime's own readers skip malformed frames.
func Normalize(raw any) (Event, bool) {
	switch v := raw.(type) {
	case Event:
		return v, true
	case *Event:
		if v == nil {
			return Event{}, false
		}
		return *v, true
	case string:
		if v == "" {
			return Event{}, false
		}
		return ContentDelta(v), true
	case ContentCarrier:
		if content := v.GetContent(); content != "" {
			return ContentDelta(content), true
		}
		return Event{}, false
	default:
		return Event{}, false
	}
}
