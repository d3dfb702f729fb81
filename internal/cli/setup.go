// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Shared construction of the client, runner, and session
// used by the TUI, ask, and chat commands.
package cli

import (
	"time"

	"github.com/jeranaias/rugrat-tui/internal/agent"
	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/geo"
	"github.com/jeranaias/rugrat-tui/internal/session"
	"github.com/jeranaias/rugrat-tui/internal/tools"
)

// Runtime bundles the wired components one command invocation needs.
type Runtime struct {
	Cfg     *config.Config
	Client  *agent.Client
	Runner  *agent.Runner
	Session *session.Session
}

// BuildRuntime loads configuration and wires the agent stack.
// CLI flags override config values.
func BuildRuntime(args Args) (*Runtime, error) {
	cfg := config.Global()

	if args.Model != "" {
		cfg.Model = args.Model
	}
	if args.NoGeo {
		cfg.Geo.Enabled = false
	}
	if args.Verbose {
		cfg.Debug = true
	}

	if cfg.API.OpenRouterKey == "" {
		return nil, agent.ErrNotConfigured
	}

	client := agent.NewClient(cfg.API.OpenRouterKey).
		WithBaseURL(cfg.API.BaseURL).
		WithModel(cfg.Model).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.API.MaxRetries)

	registry := tools.NewRegistry()
	if cfg.Tools.Enabled {
		registry.RegisterBuiltins()
	}
	runner := agent.NewRunner(client, tools.NewExecutor(registry)).
		WithMaxToolRounds(cfg.Tools.MaxToolRounds)

	resolver := geo.NewResolver().WithDebug(cfg.Debug)
	if !cfg.Geo.Enabled {
		// An empty provider list resolves to the unknown location, so
		// the persona falls back to region-generic guidance.
		resolver = resolver.WithProviders(nil)
	}

	return &Runtime{
		Cfg:     cfg,
		Client:  client,
		Runner:  runner,
		Session: session.New(resolver),
	}, nil
}
