// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing for the rugrat CLI.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	NoGeo   bool

	// Command-specific
	Query string
	Files []string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `rugrat - financial literacy assistant for the Eastern Caribbean

RUGRat answers questions about budgeting, scam awareness, and the EC
dollar, localized for the eight ECCU member territories.

Usage:
  rugrat                     Start the TUI (default)
  rugrat ask "question"      Ask a single question and exit
  rugrat chat                Interactive chat without the full TUI
  rugrat status, s           Show configuration and session status
  rugrat version             Show version information
  rugrat help                Show this help

Ask flags:
  -f, --file PATH    Attach a file (repeatable; CSV, PDF, images, text)
  -m, --model NAME   Override the configured model

Global flags:
  -q, --quiet        Minimal output (response only)
  -v, --verbose      Debug output
  --model NAME       Override the configured model
  --no-geo           Skip the location lookup

Environment:
  OPENROUTER_API_KEY   API key (or RUGRAT_OPENROUTER_KEY)
  RUGRAT_MODEL         Default model override
  RUGRAT_NO_GEO        Disable geolocation

Examples:
  rugrat ask "How do I spot a lottery scam?"
  rugrat ask "Summarize my spending" --file budget.csv
  rugrat ask -m openai/gpt-4o "Is this receipt legit?" -f receipt.png
  cat statement.txt | rugrat ask "Any suspicious charges here?"
  rugrat chat --model anthropic/claude-3.5-sonnet

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("rugrat version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments (without the program name) and
// returns the command plus its arguments.
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "status", "s":
		return CmdStatus, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown word is treated as a bare question for ask.
		args.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&args, args.Raw)
		return CmdAsk, args
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "--verbose":
			args.Verbose = true
		case arg == "--no-geo":
			args.NoGeo = true
		case arg == "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		case strings.HasPrefix(arg, "--model="):
			args.Model = strings.TrimPrefix(arg, "--model=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// parseAskArgs parses ask-specific flags; bare words join the query.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "-f" || arg == "--file":
			if i+1 < len(remaining) {
				i++
				args.Files = append(args.Files, remaining[i])
			}
		case strings.HasPrefix(arg, "--file="):
			args.Files = append(args.Files, strings.TrimPrefix(arg, "--file="))
		case arg == "-m" || arg == "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		case strings.HasPrefix(arg, "--model="):
			args.Model = strings.TrimPrefix(arg, "--model=")
		case arg == "-v":
			args.Verbose = true
		case strings.HasPrefix(arg, "-"):
			// Unknown flag, skip.
		default:
			query = append(query, arg)
		}
	}

	args.Query = strings.Join(query, " ")
}
