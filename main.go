// rugrat - a financial literacy assistant for the Eastern Caribbean.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jeranaias/rugrat-tui/internal/cli"
	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/ui/chat"
	"github.com/jeranaias/rugrat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdAsk:
		exitOnError(cli.HandleAsk(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChat(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// exitOnError prints the error and exits with the mapped code.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cli.GetExitCode(err))
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	// The TUI needs a real terminal; piped invocations get the usage
	// text instead of a garbled alternate screen.
	if !cli.IsTTY() {
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}

	rt, err := cli.BuildRuntime(args)
	if err != nil {
		exitOnError(err)
	}

	theme := styles.NewTheme(rt.Cfg.UI.Theme)
	m := chat.New(rt.Cfg, theme, rt.Session, rt.Client, rt.Runner)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Reload the config live when the file changes on disk. Failure to
	// watch is not fatal; the session just keeps its startup config.
	if path, err := config.ConfigPath(); err == nil {
		watcher, werr := config.NewWatcher(path, func(cfg *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Cfg: cfg})
		})
		if werr == nil {
			if watcher.Watch() == nil {
				defer watcher.Close()
			} else {
				watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running rugrat: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
}
