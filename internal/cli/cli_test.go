// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/rugrat-tui/internal/agent"
	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/geo"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
	"github.com/jeranaias/rugrat-tui/internal/tools"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestParse_DefaultsToTUI(t *testing.T) {
	cmd, _ := Parse(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParse_Ask(t *testing.T) {
	cmd, args := Parse([]string{"ask", "what", "is", "the", "XCD", "peg?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is the XCD peg?" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParse_AskWithFiles(t *testing.T) {
	cmd, args := Parse([]string{"ask", "check", "this", "-f", "budget.csv", "--file=receipt.png"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if len(args.Files) != 2 || args.Files[0] != "budget.csv" || args.Files[1] != "receipt.png" {
		t.Errorf("files = %v", args.Files)
	}
	if args.Query != "check this" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := Parse([]string{"--model", "openai/gpt-4o", "-q", "--no-geo", "chat"})
	if cmd != CmdChat {
		t.Fatalf("cmd = %v, want CmdChat", cmd)
	}
	if args.Model != "openai/gpt-4o" {
		t.Errorf("model = %q", args.Model)
	}
	if !args.Quiet || !args.NoGeo {
		t.Errorf("quiet = %v, noGeo = %v", args.Quiet, args.NoGeo)
	}
}

func TestParse_ModelEquals(t *testing.T) {
	_, args := Parse([]string{"--model=openai/gpt-4o-mini"})
	if args.Model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", args.Model)
	}
}

func TestParse_BareWordsBecomeAsk(t *testing.T) {
	cmd, args := Parse([]string{"how", "do", "budgets", "work"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "how do budgets work" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParse_StatusAlias(t *testing.T) {
	cmd, _ := Parse([]string{"s"})
	if cmd != CmdStatus {
		t.Errorf("cmd = %v, want CmdStatus", cmd)
	}
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Message: "no question"}, ExitUsageError},
		{"not configured", agent.ErrNotConfigured, ExitConfigError},
		{"auth", agent.ErrAuthFailed, ExitAuthError},
		{"rate limited", agent.ErrRateLimited, ExitNetworkError},
		{"timeout", context.DeadlineExceeded, ExitTimeoutError},
		{"generic", errors.New("boom"), ExitGeneralError},
	}
	for _, tc := range cases {
		if got := GetExitCode(tc.err); got != tc.want {
			t.Errorf("%s: GetExitCode = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestGetExitCode_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("turn failed"), agent.ErrAuthFailed)
	if got := GetExitCode(err); got != ExitAuthError {
		t.Errorf("wrapped auth error = %d, want %d", got, ExitAuthError)
	}
}

// =============================================================================
// ATTACHMENT LOADING
// =============================================================================

func TestReadUploads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "budget.csv")
	if err := os.WriteFile(path, []byte("item,cost\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	uploads, err := readUploads([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 1 || uploads[0].Name != "budget.csv" {
		t.Errorf("uploads = %+v", uploads)
	}
}

func TestReadUploads_Missing(t *testing.T) {
	_, err := readUploads([]string{"/nonexistent/x.txt"})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// A failed stream leaves the turn in history as a synthetic assistant
// reply instead of dropping the user message.
func TestProcessTurn_RecordsFailedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := agent.NewClient("test-key").WithBaseURL(srv.URL)
	rt := &Runtime{
		Cfg:     config.Default(),
		Client:  client,
		Runner:  agent.NewRunner(client, tools.NewExecutor(tools.NewRegistry())),
		Session: session.New(geo.NewResolver().WithProviders(nil)),
	}

	err := processTurn(rt, "is this message a scam?", true)
	if !errors.Is(err, agent.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}

	msgs := rt.Session.Conversation().Messages
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want user + failed assistant", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "is this message a scam?" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant {
		t.Fatalf("last role = %v, want assistant", msgs[1].Role)
	}
	if !strings.HasPrefix(msgs[1].Content, "Error: ") {
		t.Errorf("failed reply = %q", msgs[1].Content)
	}
	if msgs[1].IsStreaming {
		t.Error("failed reply still streaming")
	}
}

// =============================================================================
// RUNTIME CONSTRUCTION
// =============================================================================

func TestBuildRuntime_RequiresKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("RUGRAT_OPENROUTER_KEY", "")
	t.Setenv("HOME", t.TempDir())
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	_, err := BuildRuntime(Args{})
	if !errors.Is(err, agent.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestBuildRuntime_Overrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("HOME", t.TempDir())
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	rt, err := BuildRuntime(Args{Model: "openai/gpt-4o", NoGeo: true})
	if err != nil {
		t.Fatal(err)
	}
	if rt.Cfg.Model != "openai/gpt-4o" {
		t.Errorf("model = %q", rt.Cfg.Model)
	}
	if rt.Cfg.Geo.Enabled {
		t.Error("geo should be disabled")
	}
	if rt.Client.Model() != "openai/gpt-4o" {
		t.Errorf("client model = %q", rt.Client.Model())
	}
}
