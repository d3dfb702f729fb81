// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL chat for the rugrat CLI.
//
// USABILITY: liner provides arrow-key history and line editing; history
// persists across sessions in the config directory.
//
// Interactive commands:
//
//	/help, /h       Show available commands
//	/clear, /c      Clear conversation history
//	/model [name]   Show or switch model
//	/export [json]  Save the transcript to a file
//	/status, /s     Show session status
//	/history        Show conversation history
//	/quit, /q       Exit chat
//	Ctrl+C          Cancel current generation
//	Ctrl+D          Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/export"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
	"github.com/jeranaias/rugrat-tui/internal/stream"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates the line editor and loads prior history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line, recording non-empty input in history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history with owner-only permissions.
func (c *ChatCLI) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive REPL.
func HandleChat(args Args) error {
	rt, err := BuildRuntime(args)
	if err != nil {
		return err
	}

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		printWelcome(rt)
	}

	turns := 0
	for {
		line, err := input.ReadInput(promptStyle.Render("rugrat> "))
		if err != nil {
			// Ctrl+C at the prompt or Ctrl+D both exit cleanly.
			fmt.Println()
			printExitSummary(rt, turns)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			keepGoing, err := handleSlashCommand(line, rt)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				printExitSummary(rt, turns)
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printExitSummary(rt, turns)
			return nil
		}

		if err := processTurn(rt, line, args.Quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			continue
		}
		turns++
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// processTurn sends one message and streams the reply to stdout.
func processTurn(rt *Runtime, input string, quiet bool) error {
	conv := rt.Session.Conversation()
	conv.AddUserMessage(input)
	rt.Session.RecordActivity()

	// Ctrl+C during generation cancels the turn, not the REPL.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopSignals := notifyInterrupt(cancel)
	defer stopSignals()

	messages := rt.Session.ChatMessages(ctx)
	stats := model.NewStatistics()
	assembler := stream.NewAssembler()
	useMarkdown := IsStdoutTTY()

	fmt.Println()

	items, errs := rt.Runner.RunTurn(ctx, messages)
	for raw := range items {
		ev, ok := stream.Normalize(raw)
		if !ok {
			continue
		}
		switch ev.Kind {
		case stream.KindContentDelta:
			stats.RecordFirstToken()
			stats.CompletionTokens++
			if !useMarkdown {
				fmt.Print(ev.Text)
			}
		case stream.KindToolStarted:
			if !quiet {
				fmt.Fprintf(os.Stderr, "%s %s\n",
					toolStyle.Render("[tool]"), ev.Tool)
			}
		}
		assembler.Feed(ev)
	}

	if err, ok := <-errs; ok && err != nil {
		// The failed turn stays in history as a synthetic assistant
		// reply; the user decides whether to retry.
		failed := assembler.Fail(err)
		stats.Finalize(stats.CompletionTokens)
		asst := conv.AddAssistantMessage()
		asst.AppendToken(failed)
		conv.FinalizeLast(stats)
		if !useMarkdown {
			fmt.Println()
		}
		return err
	}

	reply := assembler.Finish()
	stats.Finalize(stats.CompletionTokens)

	if useMarkdown {
		fmt.Print(renderMarkdown(reply))
	}
	fmt.Println()

	asst := conv.AddAssistantMessage()
	asst.AppendToken(reply)
	conv.FinalizeLast(stats)

	if !quiet {
		fmt.Fprintln(os.Stderr, statsStyle.Render(stats.Format()))
		fmt.Println()
	}
	return nil
}

// notifyInterrupt cancels the in-flight turn on SIGINT/SIGTERM.
// The returned func tears the handler down when the turn ends.
func notifyInterrupt(cancel context.CancelFunc) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-ch:
			cancel()
			fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes one slash command. A false return
// means exit the REPL.
func handleSlashCommand(cmd string, rt *Runtime) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?":
		printReplHelp()
		return true, nil

	case "/clear", "/c":
		rt.Session.Conversation().ClearHistory()
		fmt.Println(commandStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/model", "/m":
		if len(rest) == 0 {
			fmt.Printf("%s %s\n", infoStyle.Render("[Model]"),
				commandStyle.Render(rt.Cfg.Model))
			return true, nil
		}
		id := rest[0]
		rt.Client.WithModel(id)
		rt.Cfg.Model = id
		if _, known := model.Lookup(id); !known {
			fmt.Fprintf(os.Stderr, "%s %s is not in the known catalog, using anyway\n",
				warningStyle.Render("[Warning]"), id)
		}
		fmt.Printf("%s Switched to model: %s\n", commandStyle.Render("[OK]"), id)
		return true, nil

	case "/export", "/e":
		format := ""
		if len(rest) > 0 {
			format = rest[0]
		}
		return true, exportTranscript(rt, format)

	case "/status", "/s":
		printReplStatus(rt)
		return true, nil

	case "/history":
		printReplHistory(rt)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// exportTranscript saves the conversation to the current directory.
func exportTranscript(rt *Runtime, format string) error {
	conv := rt.Session.Conversation()
	if conv.IsEmpty() {
		fmt.Println(infoStyle.Render("[No messages to export]"))
		return nil
	}

	opts := export.DefaultOptions()
	opts.Model = rt.Cfg.Model

	var path string
	var err error
	if strings.EqualFold(format, "json") {
		path, err = export.JSON(conv, opts)
	} else {
		path, err = export.Markdown(conv, opts)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s Transcript saved to %s\n", commandStyle.Render("[OK]"), path)
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func printWelcome(rt *Runtime) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("rugrat interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n", infoStyle.Render("Model:"), commandStyle.Render(rt.Cfg.Model))
	if rt.Cfg.Geo.Enabled {
		fmt.Printf("%s %s\n", infoStyle.Render("Location:"),
			infoStyle.Render("resolved on first message"))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

func printReplHelp() {
	fmt.Println()
	fmt.Println(headerStyle.Render("Available Commands"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/clear, /c", "Clear conversation history"},
		{"/model [name]", "Show or switch model"},
		{"/export [json]", "Save the transcript to a file"},
		{"/status, /s", "Show session status"},
		{"/history", "Show conversation history"},
		{"/quit, /q", "Exit chat"},
	}
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels current generation, Ctrl+D exits"))
	fmt.Println()
}

func printReplStatus(rt *Runtime) {
	st := rt.Session.GetStatus()

	fmt.Println()
	fmt.Println(headerStyle.Render("Session Status"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Printf("  %s %s\n", infoStyle.Render("Session:"), st.SessionID)
	fmt.Printf("  %s %s\n", infoStyle.Render("Model:"), commandStyle.Render(rt.Cfg.Model))
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"), session.FormatDuration(st.Duration))
	fmt.Printf("  %s %d messages\n", infoStyle.Render("History:"), st.MessageCount)
	if st.HasLocation {
		badge := st.Location.Badge()
		if st.Location.IsECCU {
			badge += " (ECCU)"
		}
		fmt.Printf("  %s %s\n", infoStyle.Render("Location:"), commandStyle.Render(badge))
	} else {
		fmt.Printf("  %s %s\n", infoStyle.Render("Location:"), infoStyle.Render("not resolved yet"))
	}
	fmt.Println()
}

func printReplHistory(rt *Runtime) {
	conv := rt.Session.Conversation()
	if conv.IsEmpty() {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Conversation History"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 25)))

	for i, msg := range conv.Messages {
		role := msg.Role.DisplayName()
		switch msg.Role {
		case model.RoleUser:
			role = promptStyle.Render(role)
		case model.RoleAssistant:
			role = commandStyle.Render(role)
		default:
			role = warningStyle.Render(role)
		}
		preview := strings.ReplaceAll(msg.Preview(100), "\n", " ")
		fmt.Printf("  %d. %s: %s\n", i+1, role, preview)
	}
	fmt.Println()
}

func printExitSummary(rt *Runtime, turns int) {
	if turns == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	st := rt.Session.GetStatus()
	fmt.Println()
	fmt.Println(headerStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))
	fmt.Printf("  %s %d\n", infoStyle.Render("Turns:"), turns)
	fmt.Printf("  %s %d\n", infoStyle.Render("Messages:"), st.MessageCount)
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"),
		session.FormatDuration(time.Since(st.StartTime)))
	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
