// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/rugrat-tui/internal/stream"
	"github.com/jeranaias/rugrat-tui/internal/tools"
)

// DefaultMaxToolRounds caps how many times one turn may loop through
// tool execution before the runner gives up.
const DefaultMaxToolRounds = 5

// ErrToolLoopLimit indicates the model kept requesting tools past the
// round limit without producing an answer.
var ErrToolLoopLimit = errors.New("tool call limit exceeded")

// =============================================================================
// RUNNER
// =============================================================================

// Runner drives the agent loop: stream a completion, execute requested
// tools, feed results back, repeat until the model answers in text.
type Runner struct {
	client        *Client
	executor      *tools.Executor
	toolDefs      []ToolDef
	maxToolRounds int
}

// NewRunner creates a runner over the given client and tool executor.
func NewRunner(client *Client, executor *tools.Executor) *Runner {
	return &Runner{
		client:        client,
		executor:      executor,
		toolDefs:      ToolDefs(executor.Registry()),
		maxToolRounds: DefaultMaxToolRounds,
	}
}

// WithMaxToolRounds sets the tool round cap.
func (r *Runner) WithMaxToolRounds(n int) *Runner {
	if n > 0 {
		r.maxToolRounds = n
	}
	return r
}

// pendingCall accumulates one tool call from streamed deltas.
type pendingCall struct {
	index   int
	id      string
	name    string
	args    strings.Builder
	started bool
}

// RunTurn executes one full agent turn. Events for the stream
// assembler arrive on the items channel; at most one error arrives on
// the error channel. Both channels close when the turn ends.
//
// The messages slice is the full conversation so far, system prompt
// included. Intermediate assistant/tool messages created by tool
// rounds stay internal to the turn; callers record only the final
// assembled reply.
func (r *Runner) RunTurn(ctx context.Context, messages []ChatMessage) (<-chan any, <-chan error) {
	items := make(chan any, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		convo := make([]ChatMessage, len(messages))
		copy(convo, messages)

		for round := 0; round < r.maxToolRounds; round++ {
			calls, err := r.streamRound(ctx, convo, items)
			if err != nil {
				errs <- err
				return
			}

			// No tool calls means the model answered in text.
			if len(calls) == 0 {
				return
			}

			convo = append(convo, assistantCallMessage(calls))

			for _, call := range calls {
				convo = append(convo, r.executeCall(ctx, call, items))
			}
		}

		errs <- ErrToolLoopLimit
	}()

	return items, errs
}

// streamRound streams one completion, emitting content deltas and
// ToolStarted events as they arrive. It returns the tool calls the
// model requested this round, in index order.
func (r *Runner) streamRound(ctx context.Context, convo []ChatMessage, items chan<- any) ([]*pendingCall, error) {
	pending := make(map[int]*pendingCall)

	emit := func(ev stream.Event) {
		select {
		case items <- ev:
		case <-ctx.Done():
		}
	}

	err := r.client.ChatStream(ctx, convo, r.toolDefs, func(chunk StreamChunk) {
		if content := chunk.GetContent(); content != "" {
			emit(stream.ContentDelta(content))
		}

		for _, delta := range chunk.ToolCallDeltas() {
			call, ok := pending[delta.Index]
			if !ok {
				call = &pendingCall{index: delta.Index}
				pending[delta.Index] = call
			}
			if delta.ID != "" {
				call.id = delta.ID
			}
			if delta.Function.Name != "" {
				call.name = delta.Function.Name
				if !call.started {
					call.started = true
					emit(stream.ToolStarted(call.name))
				}
			}
			call.args.WriteString(delta.Function.Arguments)
		}
	})
	if err != nil {
		return nil, err
	}

	calls := make([]*pendingCall, 0, len(pending))
	for _, call := range pending {
		if call.name == "" {
			continue
		}
		if call.id == "" {
			call.id = "call_" + uuid.NewString()
		}
		calls = append(calls, call)
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].index < calls[j].index })

	return calls, nil
}

// assistantCallMessage rebuilds the assistant message that requested
// the given tool calls, as the API expects it echoed back.
func assistantCallMessage(calls []*pendingCall) ChatMessage {
	payloads := make([]ToolCallPayload, len(calls))
	for i, call := range calls {
		args := call.args.String()
		if args == "" {
			args = "{}"
		}
		payloads[i] = ToolCallPayload{
			ID:   call.id,
			Type: "function",
			Function: FunctionCall{
				Name:      call.name,
				Arguments: args,
			},
		}
	}
	return ChatMessage{Role: "assistant", Content: "", ToolCalls: payloads}
}

// executeCall runs one tool call and returns the tool result message.
// A ToolCompleted event is emitted once the call finishes, success or not.
func (r *Runner) executeCall(ctx context.Context, call *pendingCall, items chan<- any) ChatMessage {
	var params map[string]interface{}
	args := call.args.String()
	if args == "" {
		args = "{}"
	}

	var resultText string
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		resultText = fmt.Sprintf("Tool error: invalid arguments for %s: %v", call.name, err)
	} else {
		result := r.executor.Execute(ctx, tools.ToolCall{Name: call.name, Params: params})
		resultText = result.Text()
	}

	select {
	case items <- stream.ToolCompleted():
	case <-ctx.Done():
	}

	return NewToolMessage(call.id, resultText)
}
