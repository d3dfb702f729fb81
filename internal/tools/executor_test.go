// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"strings"
	"testing"
	"time"
)

// echoExecutor returns its "text" parameter.
type echoExecutor struct{}

func (echoExecutor) Execute(ctx context.Context, params map[string]interface{}) (Result, error) {
	return Result{Success: true, Output: getStringParam(params, "text", "")}, nil
}

// hangExecutor blocks until the context is cancelled.
type hangExecutor struct{}

func (hangExecutor) Execute(ctx context.Context, params map[string]interface{}) (Result, error) {
	<-ctx.Done()
	return Result{}, ctx.Err()
}

func testRegistry() *Registry {
	r := &Registry{}
	r.Register(&Tool{
		Name:        "echo",
		Description: "Echo text back",
		Schema: Schema{Parameters: []Parameter{
			{Name: "text", Type: "string", Required: true},
		}},
		Executor: echoExecutor{},
	})
	r.Register(&Tool{
		Name:        "hang",
		Description: "Never returns",
		Executor:    hangExecutor{},
	})
	return r
}

func TestExecutor_Execute(t *testing.T) {
	e := NewExecutor(testRegistry())

	result := e.Execute(context.Background(), ToolCall{
		Name:   "echo",
		Params: map[string]interface{}{"text": "hello"},
	})

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Output != "hello" {
		t.Errorf("output = %q", result.Output)
	}
	if len(e.History()) != 1 {
		t.Errorf("expected 1 history record, got %d", len(e.History()))
	}
}

func TestExecutor_UnknownTool(t *testing.T) {
	e := NewExecutor(testRegistry())

	result := e.Execute(context.Background(), ToolCall{Name: "nope"})
	if result.Success {
		t.Fatal("expected failure for unknown tool")
	}
	if !strings.Contains(result.Error, "unknown tool") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestExecutor_MissingRequiredParam(t *testing.T) {
	e := NewExecutor(testRegistry())

	result := e.Execute(context.Background(), ToolCall{
		Name:   "echo",
		Params: map[string]interface{}{},
	})
	if result.Success {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(result.Error, "required parameter") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestExecutor_WrongParamType(t *testing.T) {
	e := NewExecutor(testRegistry())

	result := e.Execute(context.Background(), ToolCall{
		Name:   "echo",
		Params: map[string]interface{}{"text": 42},
	})
	if result.Success {
		t.Fatal("expected type validation failure")
	}
}

func TestExecutor_Timeout(t *testing.T) {
	e := NewExecutor(testRegistry())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := e.Execute(ctx, ToolCall{Name: "hang"})
	if result.Success {
		t.Fatal("expected timeout failure")
	}
}

func TestExecutor_Stats(t *testing.T) {
	e := NewExecutor(testRegistry())

	e.Execute(context.Background(), ToolCall{
		Name:   "echo",
		Params: map[string]interface{}{"text": "ok"},
	})
	e.Execute(context.Background(), ToolCall{Name: "nope"})

	stats := e.Stats()
	// Unknown-tool calls fail before a history record is written.
	if stats.TotalExecutions != 1 || stats.Successful != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"web_search", "exchange_rates", "news_headlines", "wiki_summary"} {
		if r.Get(name) == nil {
			t.Errorf("builtin %q not registered", name)
		}
	}

	all := r.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 builtins, got %d", len(all))
	}
	if all[0].Name != "web_search" {
		t.Errorf("registration order not preserved: first = %q", all[0].Name)
	}
}

func TestResult_Text(t *testing.T) {
	ok := Result{Success: true, Output: "data"}
	if ok.Text() != "data" {
		t.Errorf("Text() = %q", ok.Text())
	}

	bad := Result{Success: false, Error: "boom"}
	if bad.Text() != "Tool error: boom" {
		t.Errorf("Text() = %q", bad.Text())
	}
}
