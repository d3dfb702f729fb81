// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"sync"
	"time"
)

// DefaultToolTimeout is applied when the context carries no deadline.
const DefaultToolTimeout = 30 * time.Second

// maxOutputSize caps tool output fed back into the conversation.
const maxOutputSize = 30000

// =============================================================================
// EXECUTION RECORD
// =============================================================================

// ExecutionRecord tracks the result of a tool execution for audit purposes.
type ExecutionRecord struct {
	// ToolName is the name of the executed tool
	ToolName string

	// Params are the parameters passed to the tool
	Params map[string]interface{}

	// Result is the outcome of the execution
	Result Result

	// Timestamp is when the execution started
	Timestamp time.Time

	// Duration is how long the execution took
	Duration time.Duration
}

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor orchestrates tool execution with timeout handling and audit logging.
type Executor struct {
	registry *Registry
	history  []ExecutionRecord
	mu       sync.Mutex
}

// NewExecutor creates a new tool executor with the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
		history:  make([]ExecutionRecord, 0),
	}
}

// Registry returns the tool registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// History returns a copy of the execution history.
func (e *Executor) History() []ExecutionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]ExecutionRecord, len(e.history))
	copy(result, e.history)
	return result
}

// ClearHistory clears the execution history.
func (e *Executor) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = make([]ExecutionRecord, 0)
}

// Execute runs a tool call and returns the result.
// It handles parameter validation, timeout handling, and history recording.
func (e *Executor) Execute(ctx context.Context, call ToolCall) Result {
	start := time.Now()

	tool := e.registry.Get(call.Name)
	if tool == nil {
		return Result{
			Success:  false,
			Error:    "unknown tool: " + call.Name,
			Duration: time.Since(start),
		}
	}

	record := ExecutionRecord{
		ToolName:  call.Name,
		Params:    call.Params,
		Timestamp: start,
	}

	if err := validateParams(tool, call.Params); err != nil {
		result := Result{
			Success:  false,
			Error:    "parameter validation failed: " + err.Error(),
			Duration: time.Since(start),
		}
		record.Duration = result.Duration
		record.Result = result
		e.addToHistory(record)
		return result
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultToolTimeout)
		defer cancel()
	}

	// Run in a goroutine so a hung executor cannot outlive the deadline.
	resultCh := make(chan Result, 1)
	errCh := make(chan error, 1)

	go func() {
		result, err := tool.Executor.Execute(ctx, call.Params)
		if err != nil {
			errCh <- err
		} else {
			resultCh <- result
		}
	}()

	var result Result
	select {
	case result = <-resultCh:
	case err := <-errCh:
		result = Result{
			Success: false,
			Error:   err.Error(),
		}
	case <-ctx.Done():
		result = Result{
			Success: false,
			Error:   "tool execution timed out: " + ctx.Err().Error(),
		}
	}

	result.Duration = time.Since(start)

	if len(result.Output) > maxOutputSize {
		result.Output = result.Output[:maxOutputSize]
		result.Truncated = true
	}

	record.Duration = result.Duration
	record.Result = result
	e.addToHistory(record)

	return result
}

// addToHistory adds an execution record to the history.
func (e *Executor) addToHistory(record ExecutionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const maxHistorySize = 1000
	if len(e.history) >= maxHistorySize {
		e.history = e.history[len(e.history)-maxHistorySize+1:]
	}

	e.history = append(e.history, record)
}

// =============================================================================
// PARAMETER VALIDATION
// =============================================================================

// ValidationError represents a parameter validation error.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Param + ": " + e.Message
}

// validateParams validates tool parameters against the schema.
func validateParams(tool *Tool, params map[string]interface{}) error {
	for _, param := range tool.Schema.Parameters {
		val, exists := params[param.Name]

		if param.Required && (!exists || val == nil) {
			return &ValidationError{
				Param:   param.Name,
				Message: "required parameter is missing",
			}
		}

		if !exists || val == nil {
			continue
		}

		if err := validateType(param, val); err != nil {
			return err
		}
	}

	return nil
}

// validateType validates a parameter value against its expected type.
func validateType(param Parameter, val interface{}) error {
	switch param.Type {
	case "string":
		if _, ok := val.(string); !ok {
			return &ValidationError{
				Param:   param.Name,
				Message: "expected string",
			}
		}
	case "number", "integer":
		switch val.(type) {
		case int, int64, float64:
			// OK
		default:
			return &ValidationError{
				Param:   param.Name,
				Message: "expected number",
			}
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return &ValidationError{
				Param:   param.Name,
				Message: "expected boolean",
			}
		}
	case "array":
		if _, ok := val.([]interface{}); !ok {
			return &ValidationError{
				Param:   param.Name,
				Message: "expected array",
			}
		}
	}

	return nil
}

// =============================================================================
// EXECUTION STATISTICS
// =============================================================================

// ExecutionStats provides statistics about tool executions.
type ExecutionStats struct {
	TotalExecutions int
	Successful      int
	Failed          int
	TotalDuration   time.Duration
	AvgDuration     time.Duration
}

// Stats returns statistics about the execution history.
func (e *Executor) Stats() ExecutionStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := ExecutionStats{}
	stats.TotalExecutions = len(e.history)

	for _, record := range e.history {
		if record.Result.Success {
			stats.Successful++
		} else {
			stats.Failed++
		}
		stats.TotalDuration += record.Duration
	}

	if stats.TotalExecutions > 0 {
		stats.AvgDuration = stats.TotalDuration / time.Duration(stats.TotalExecutions)
	}

	return stats
}
