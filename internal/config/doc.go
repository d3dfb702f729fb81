// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for rugrat.
//
// # Sources
//
// Configuration is resolved in order of precedence:
//
//   - Environment variables (OPENROUTER_API_KEY, RUGRAT_MODEL, ...)
//   - ~/.rugrat/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg := config.Global()
//	client := agent.NewClient(cfg.API.OpenRouterKey).WithModel(cfg.Model)
//
// A Watcher can hot-reload the file while the TUI runs:
//
//	w, _ := config.NewWatcher(path, func(cfg *config.Config) {
//	    config.SetGlobal(cfg)
//	})
//	w.Watch()
package config
