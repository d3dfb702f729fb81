// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of rugrat.
//
// Three entry points exist besides the default TUI: "ask" for a
// one-shot question, "chat" for a readline-style REPL without the full
// TUI, and "status" for a quick configuration and connectivity check.
// Argument parsing is hand-rolled; the flag surface is small enough
// that a parsing framework would add more weight than it removes.
package cli
