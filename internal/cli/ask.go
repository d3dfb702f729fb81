// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question handler for the rugrat CLI.
//
// USABILITY: streams plain tokens when piped, renders markdown on a TTY.
//
// Examples:
//
//	rugrat ask "How do I spot a lottery scam?"
//	rugrat ask "Summarize my spending" --file budget.csv
//	cat statement.txt | rugrat ask "Any suspicious charges?"
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rugrat-tui/internal/attach"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/stream"
)

// MaxAskFileSize caps a single --file attachment.
const MaxAskFileSize = 5 * 1024 * 1024

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders final replies on a TTY. Lazily built so
// piped invocations never pay for it.
var markdownRenderer *glamour.TermRenderer

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		wrap := TerminalWidth() - 2
		if wrap > 100 {
			wrap = 100
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return content
		}
		markdownRenderer = r
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command: one question, one streamed
// reply, then exit.
func HandleAsk(args Args) error {
	question := strings.TrimSpace(args.Query)

	// Piped stdin becomes the question (or extends it).
	if StdinIsPiped() {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err == nil && len(data) > 0 {
			if question == "" {
				question = strings.TrimSpace(string(data))
			} else {
				question = question + "\n\n" + strings.TrimSpace(string(data))
			}
		}
	}

	if question == "" {
		return &UsageError{Message: `no question provided. Usage: rugrat ask "your question"`}
	}

	rt, err := BuildRuntime(args)
	if err != nil {
		return err
	}

	uploads, err := readUploads(args.Files)
	if err != nil {
		return err
	}

	prompt, imgRef := attach.Normalize(question, uploads)
	defer imgRef.Cleanup()

	conv := rt.Session.Conversation()
	userMsg := conv.AddUserMessage(prompt)
	if imgRef != nil {
		userMsg.ImagePath = imgRef.Path
	}

	ctx := context.Background()
	messages := rt.Session.ChatMessages(ctx)

	useMarkdown := IsStdoutTTY()
	stats := model.NewStatistics()
	assembler := stream.NewAssembler()

	if !args.Quiet && useMarkdown {
		fmt.Println()
	}

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
			if !args.Quiet {
				fmt.Fprintf(os.Stderr, "%s %s\n",
					toolStyle.Render("[tool]"), ev.Tool)
			}
		}
		assembler.Feed(ev)
	}

	if err, ok := <-errs; ok && err != nil {
		if !useMarkdown {
			fmt.Println()
		}
		return err
	}

	reply := assembler.Finish()
	stats.Finalize(stats.CompletionTokens)

	if useMarkdown {
		fmt.Print(renderMarkdown(reply))
	} else {
		fmt.Println()
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, statsStyle.Render(stats.Format()))
	}
	return nil
}

// readUploads loads the --file attachments from disk.
func readUploads(paths []string) ([]attach.Upload, error) {
	var uploads []attach.Upload
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", path, err)
		}
		if info.Size() > MaxAskFileSize {
			return nil, fmt.Errorf("attachment %s exceeds 5MB limit", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", path, err)
		}
		uploads = append(uploads, attach.Upload{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return uploads, nil
}
