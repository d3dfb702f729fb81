// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"strings"
)

// =============================================================================
// ASSEMBLER STATE MACHINE
// =============================================================================

// State tracks where the assembler is within one turn.
type State int

const (
	StateIdle State = iota
	StateAccumulating
	StateToolRunning
	StateDone
	StateFailed
)

// String returns the string representation of an assembler state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAccumulating:
		return "Accumulating"
	case StateToolRunning:
		return "ToolRunning"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// UpdateFunc receives incremental render state: the accumulated text
// so far and the current in-flight tool indicator ("" when none).
type UpdateFunc func(text, indicator string)

// Assembler folds one turn's event sequence into the final reply text
// while tracking a transient "tool is running" indicator. It is a
// single-writer state machine with no locking: one turn, one goroutine.
type Assembler struct {
	state State

	// PERFORMANCE: strings.Builder avoids quadratic allocations
	content strings.Builder

	// activeTool is the most recent in-flight tool name, or "".
	// Only one indicator is modeled; a new ToolStarted replaces it.
	activeTool string

	onUpdate UpdateFunc
}

// NewAssembler creates an assembler in the Idle state.
func NewAssembler() *Assembler {
	return &Assembler{state: StateIdle}
}

// WithUpdates registers a callback invoked after every state change,
// letting a UI repaint incrementally.
func (a *Assembler) WithUpdates(fn UpdateFunc) *Assembler {
	a.onUpdate = fn
	return a
}

// State returns the current state.
func (a *Assembler) State() State {
	return a.state
}

// Text returns the accumulated reply text so far.
func (a *Assembler) Text() string {
	return a.content.String()
}

// Indicator returns the in-flight tool indicator, or "" when no tool
// is running.
func (a *Assembler) Indicator() string {
	if a.activeTool == "" {
		return ""
	}
	return "Calling " + a.activeTool + "..."
}

// Feed applies one canonical event.
func (a *Assembler) Feed(ev Event) {
	if a.state == StateDone || a.state == StateFailed {
		return
	}

	switch ev.Kind {
	case KindContentDelta:
		// Content resuming means the tool finished, even without an
		// explicit completion event. Tolerates out-of-order and
		// missing ToolCompleted frames from the runtime.
		a.activeTool = ""
		a.content.WriteString(ev.Text)
		a.state = StateAccumulating

	case KindToolStarted:
		a.activeTool = ev.Tool
		a.state = StateToolRunning

	case KindToolCompleted:
		a.activeTool = ""
		a.state = StateAccumulating
	}

	a.notify()
}

// FeedRaw normalizes and applies one raw runtime item. Unknown shapes
// are skipped.
func (a *Assembler) FeedRaw(raw any) {
	if ev, ok := Normalize(raw); ok {
		a.Feed(ev)
	}
}

// Finish marks the sequence as cleanly exhausted and returns the
// assembled reply.
func (a *Assembler) Finish() string {
	if a.state != StateFailed {
		a.state = StateDone
		a.activeTool = ""
		a.notify()
	}
	return a.content.String()
}

// Fail records a stream error and returns the synthetic error reply
// that stands in for the assistant's answer this turn. Any in-flight
// indicator is cleared.
func (a *Assembler) Fail(err error) string {
	a.state = StateFailed
	a.activeTool = ""
	a.content.Reset()
	a.content.WriteString("Error: " + err.Error())
	a.notify()
	return a.content.String()
}

// notify pushes the render state to the registered callback.
func (a *Assembler) notify() {
	if a.onUpdate != nil {
		a.onUpdate(a.content.String(), a.Indicator())
	}
}

// =============================================================================
// SEQUENCE ASSEMBLY
// =============================================================================

// Assemble consumes the runtime's item and error channels until the
// item channel closes, then returns the final reply text. An error
// observed on errs yields the synthetic error reply instead. The fold
// is synchronous: it blocks between events exactly as the producer
// does.
func (a *Assembler) Assemble(items <-chan any, errs <-chan error) string {
	for raw := range items {
		a.FeedRaw(raw)
	}
	if errs != nil {
		if err, ok := <-errs; ok && err != nil {
			return a.Fail(err)
		}
	}
	return a.Finish()
}

// AssembleEvents folds an in-memory event slice. Convenience for
// callers and tests that already hold the full sequence.
func AssembleEvents(events []Event) string {
	a := NewAssembler()
	for _, ev := range events {
		a.Feed(ev)
	}
	return a.Finish()
}
