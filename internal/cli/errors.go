// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit code mapping for CLI commands.
//
// ERROR HANDLING: handlers return errors; main decides how to exit.
package cli

import (
	"context"
	"errors"

	"github.com/jeranaias/rugrat-tui/internal/agent"
)

// Exit codes by error category.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
	ExitNetworkError = 5
	ExitTimeoutError = 8
)

// UsageError marks invalid invocations so they exit with code 2.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// GetExitCode maps an error to its exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	switch {
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.Is(err, agent.ErrNotConfigured):
		return ExitConfigError
	case errors.Is(err, agent.ErrAuthFailed):
		return ExitAuthError
	case errors.Is(err, agent.ErrRateLimited),
		errors.Is(err, agent.ErrInsufficientCredits):
		return ExitNetworkError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	default:
		return ExitGeneralError
	}
}
