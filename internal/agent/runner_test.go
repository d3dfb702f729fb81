// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jeranaias/rugrat-tui/internal/stream"
	"github.com/jeranaias/rugrat-tui/internal/tools"
)

// rateLookupExecutor is a canned stand-in for a network lookup tool.
type rateLookupExecutor struct{}

func (rateLookupExecutor) Execute(ctx context.Context, params map[string]interface{}) (tools.Result, error) {
	base, _ := params["base"].(string)
	return tools.Result{Success: true, Output: "1 " + base + " = 0.37 USD"}, nil
}

func lookupRegistry() *tools.Registry {
	r := &tools.Registry{}
	r.Register(&tools.Tool{
		Name:        "exchange_rates",
		Description: "Look up exchange rates",
		Schema: tools.Schema{Parameters: []tools.Parameter{
			{Name: "base", Type: "string", Required: true},
		}},
		Executor: rateLookupExecutor{},
	})
	return r
}

func TestRunner_PlainAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sseBody(
			`{"choices":[{"delta":{"content":"Budget first, "}}]}`,
			`{"choices":[{"delta":{"content":"spend after."}}]}`,
			`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
		)))
	}))
	defer server.Close()

	runner := NewRunner(NewClient("sk-or-test").WithBaseURL(server.URL), tools.NewExecutor(lookupRegistry()))

	items, errs := runner.RunTurn(context.Background(), []ChatMessage{NewUserMessage("how do I save?")})
	reply := stream.NewAssembler().Assemble(items, errs)

	if reply != "Budget first, spend after." {
		t.Errorf("reply = %q", reply)
	}
}

func TestRunner_ToolRoundTrip(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		n := atomic.AddInt32(&requests, 1)

		switch n {
		case 1:
			// Model requests a tool call, arguments split across deltas.
			w.Write([]byte(sseBody(
				`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"exchange_rates","arguments":"{\"base\":"}}]}}]}`,
				`{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"XCD\"}"}}]}}]}`,
				`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
			)))
		case 2:
			// Second round must carry the echoed call and the tool result.
			var req ChatRequest
			if err := json.Unmarshal(body, &req); err != nil {
				t.Errorf("second request unparseable: %v", err)
			}
			var sawCall, sawResult bool
			for _, msg := range req.Messages {
				if msg.Role == "assistant" && len(msg.ToolCalls) == 1 && msg.ToolCalls[0].Function.Name == "exchange_rates" {
					sawCall = true
				}
				if msg.Role == "tool" && msg.ToolCallID == "call_1" {
					sawResult = true
					if text, _ := msg.Content.(string); !strings.Contains(text, "0.37 USD") {
						t.Errorf("tool result = %q", text)
					}
				}
			}
			if !sawCall || !sawResult {
				t.Errorf("second round missing call echo (%v) or result (%v)", sawCall, sawResult)
			}

			w.Write([]byte(sseBody(
				`{"choices":[{"delta":{"content":"One EC dollar is about 37 US cents."}}]}`,
				`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
			)))
		}
	}))
	defer server.Close()

	runner := NewRunner(NewClient("sk-or-test").WithBaseURL(server.URL), tools.NewExecutor(lookupRegistry()))

	items, errs := runner.RunTurn(context.Background(), []ChatMessage{NewUserMessage("what's XCD worth?")})

	var events []stream.Event
	for raw := range items {
		if ev, ok := stream.Normalize(raw); ok {
			events = append(events, ev)
		}
	}
	if err, ok := <-errs; ok && err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	var sawStarted, sawCompleted bool
	var text strings.Builder
	for _, ev := range events {
		switch ev.Kind {
		case stream.KindToolStarted:
			sawStarted = true
			if ev.Tool != "exchange_rates" {
				t.Errorf("tool = %q", ev.Tool)
			}
		case stream.KindToolCompleted:
			sawCompleted = true
		case stream.KindContentDelta:
			text.WriteString(ev.Text)
		}
	}

	if !sawStarted || !sawCompleted {
		t.Errorf("tool lifecycle incomplete: started=%v completed=%v", sawStarted, sawCompleted)
	}
	if text.String() != "One EC dollar is about 37 US cents." {
		t.Errorf("final text = %q", text.String())
	}
	if atomic.LoadInt32(&requests) != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
}

func TestRunner_ToolLoopLimit(t *testing.T) {
	// Server always requests another tool call; the runner must bail.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sseBody(
			`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"c","type":"function","function":{"name":"exchange_rates","arguments":"{\"base\":\"XCD\"}"}}]}}]}`,
			`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
		)))
	}))
	defer server.Close()

	runner := NewRunner(NewClient("sk-or-test").WithBaseURL(server.URL), tools.NewExecutor(lookupRegistry())).
		WithMaxToolRounds(2)

	items, errs := runner.RunTurn(context.Background(), []ChatMessage{NewUserMessage("loop")})
	for range items {
	}
	err := <-errs
	if err != ErrToolLoopLimit {
		t.Errorf("err = %v, want ErrToolLoopLimit", err)
	}
}

func TestToolDefs_Conversion(t *testing.T) {
	defs := ToolDefs(lookupRegistry())
	if len(defs) != 1 {
		t.Fatalf("defs = %d", len(defs))
	}

	def := defs[0]
	if def.Type != "function" || def.Function.Name != "exchange_rates" {
		t.Errorf("def = %+v", def)
	}
	if def.Function.Parameters.Type != "object" {
		t.Errorf("parameters type = %q", def.Function.Parameters.Type)
	}
	if _, ok := def.Function.Parameters.Properties["base"]; !ok {
		t.Error("missing base property")
	}
	if len(def.Function.Parameters.Required) != 1 || def.Function.Parameters.Required[0] != "base" {
		t.Errorf("required = %v", def.Function.Parameters.Required)
	}
}
