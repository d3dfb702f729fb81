// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rugrat-tui/internal/agent"
	"github.com/jeranaias/rugrat-tui/internal/attach"
	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/geo"
	"github.com/jeranaias/rugrat-tui/internal/model"
	"github.com/jeranaias/rugrat-tui/internal/session"
	"github.com/jeranaias/rugrat-tui/internal/stream"
	"github.com/jeranaias/rugrat-tui/internal/tools"
	"github.com/jeranaias/rugrat-tui/internal/ui/styles"
)

// testModel builds a chat model with a canned geolocation provider
// and no live API client. Nothing here touches the network.
func testModel(t *testing.T) Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"country": "Grenada"})
	}))
	t.Cleanup(srv.Close)

	parse := func(body []byte) geo.Location {
		var raw struct {
			Country string `json:"country"`
		}
		json.Unmarshal(body, &raw)
		loc := geo.Location{}
		if raw.Country != "" {
			loc.Country = &raw.Country
		}
		return loc
	}
	resolver := geo.NewResolver().WithProviders([]geo.Provider{
		{Name: "test", URL: srv.URL, Parse: parse},
	})

	cfg := config.Default()
	client := agent.NewClient("test-key")
	runner := agent.NewRunner(client, tools.NewExecutor(tools.NewRegistry()))
	sess := session.New(resolver)

	m := New(cfg, styles.NewTheme("dark"), sess, client, runner)
	m.width = 120
	m.height = 40
	m.ready = true
	m.layout()
	return m
}

// pngUpload builds an image upload; classification is by extension,
// so the payload does not need to be a decodable PNG.
func pngUpload(name string) attach.Upload {
	return attach.Upload{Name: name, Data: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}}
}

// update is a convenience wrapper that keeps the concrete type.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want chat.Model", next)
	}
	return out, cmd
}

// =============================================================================
// STREAMING BUFFER
// =============================================================================

func TestStreamingBuffer_BatchThreshold(t *testing.T) {
	b := NewStreamingBuffer()

	for i := 0; i < flushTokenCount-1; i++ {
		if b.Add("x") {
			t.Fatalf("flush signaled at token %d", i+1)
		}
	}
	if !b.Add("y") {
		t.Error("flush not signaled at threshold")
	}

	got := b.Flush()
	if len(got) != flushTokenCount {
		t.Errorf("flushed %d chars, want %d", len(got), flushTokenCount)
	}
	if b.Len() != 0 {
		t.Errorf("Len after flush = %d, want 0", b.Len())
	}
}

func TestStreamingBuffer_Reset(t *testing.T) {
	b := NewStreamingBuffer()
	b.Add("hello")
	b.Reset()

	if got := b.Flush(); got != "" {
		t.Errorf("Flush after Reset = %q, want empty", got)
	}
}

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseCommand(t *testing.T) {
	cases := []struct {
		input string
		name  string
		args  string
	}{
		{"/help", "help", ""},
		{"/attach ./budget.csv", "attach", "./budget.csv"},
		{"/MODEL openai/gpt-4o", "model", "openai/gpt-4o"},
		{"/attach  spaced path.txt", "attach", "spaced path.txt"},
	}
	for _, tc := range cases {
		name, args := parseCommand(tc.input)
		if name != tc.name || args != tc.args {
			t.Errorf("parseCommand(%q) = (%q, %q), want (%q, %q)",
				tc.input, name, args, tc.name, tc.args)
		}
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	m := testModel(t)

	next, _ := m.handleCommand("/bogus")
	got := next.(Model)
	if !strings.Contains(got.notice, "unknown command") {
		t.Errorf("notice = %q", got.notice)
	}
}

func TestHandleCommand_HelpAddsSystemMessage(t *testing.T) {
	m := testModel(t)

	next, _ := m.handleCommand("/help")
	got := next.(Model)

	last := got.conversation().GetLastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Fatal("expected a system message")
	}
	if !strings.Contains(last.Content, "/attach") {
		t.Errorf("help text missing commands: %q", last.Content)
	}
}

func TestHandleCommand_AttachStagesFile(t *testing.T) {
	m := testModel(t)

	path := filepath.Join(t.TempDir(), "budget.csv")
	if err := os.WriteFile(path, []byte("item,cost\nrent,1200\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	next, _ := m.handleCommand("/attach " + path)
	got := next.(Model)

	if len(got.pendingFiles) != 1 {
		t.Fatalf("pendingFiles = %d, want 1", len(got.pendingFiles))
	}
	if got.pendingFiles[0].Name != "budget.csv" {
		t.Errorf("staged name = %q", got.pendingFiles[0].Name)
	}
	if !strings.Contains(got.notice, "budget.csv") {
		t.Errorf("notice = %q", got.notice)
	}
}

func TestHandleCommand_AttachMissingFile(t *testing.T) {
	m := testModel(t)

	next, _ := m.handleCommand("/attach /nonexistent/file.txt")
	got := next.(Model)

	if len(got.pendingFiles) != 0 {
		t.Error("missing file should not be staged")
	}
	if !strings.Contains(got.notice, "attach failed") {
		t.Errorf("notice = %q", got.notice)
	}
}

func TestHandleCommand_ModelSwitch(t *testing.T) {
	m := testModel(t)

	next, _ := m.handleCommand("/model openai/gpt-4o")
	got := next.(Model)

	if got.cfg.Model != "openai/gpt-4o" {
		t.Errorf("cfg.Model = %q", got.cfg.Model)
	}
	if got.client.Model() != "openai/gpt-4o" {
		t.Errorf("client model = %q", got.client.Model())
	}
}

func TestHandleCommand_ClearResetsConversation(t *testing.T) {
	m := testModel(t)
	m.conversation().AddUserMessage("hello")

	next, _ := m.handleCommand("/clear")
	got := next.(Model)

	if !got.conversation().IsEmpty() {
		t.Error("conversation not cleared")
	}
}

func TestHandleCommand_ExportWritesTranscript(t *testing.T) {
	t.Chdir(t.TempDir())

	m := testModel(t)
	m.conversation().AddUserMessage("is this pyramid scheme legit?")

	next, _ := m.handleCommand("/export")
	got := next.(Model)

	if !strings.HasPrefix(got.notice, "transcript saved to ") {
		t.Fatalf("notice = %q", got.notice)
	}
	path := strings.TrimPrefix(got.notice, "transcript saved to ")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "pyramid scheme") {
		t.Error("transcript missing message content")
	}
}

func TestHandleCommand_ExportEmptyConversation(t *testing.T) {
	m := testModel(t)

	next, _ := m.handleCommand("/export")
	got := next.(Model)

	if got.notice != "nothing to export yet" {
		t.Errorf("notice = %q", got.notice)
	}
}

// =============================================================================
// STREAM FOLDING
// =============================================================================

// primeStreaming puts the model into the state sendMessage leaves it
// in, without launching a real turn.
func primeStreaming(m Model) Model {
	m.conversation().AddUserMessage("what is the XCD peg?")
	m.conversation().AddAssistantMessage()
	m.stats = model.NewStatistics()
	m.state = StateStreaming
	return m
}

func TestUpdate_ContentDeltasReachConversation(t *testing.T) {
	m := primeStreaming(testModel(t))
	items := make(chan any)
	errs := make(chan error, 1)
	m.items = items
	m.errs = errs

	m, _ = update(t, m, StreamItemMsg{Raw: stream.ContentDelta("The EC dollar ")})
	m, _ = update(t, m, StreamItemMsg{Raw: stream.ContentDelta("is pegged at 2.70.")})
	m, _ = update(t, m, streamTickMsg{})

	last := m.conversation().GetLastAssistantMessage()
	if got := last.GetDisplayContent(); got != "The EC dollar is pegged at 2.70." {
		t.Errorf("streamed content = %q", got)
	}
	if m.stats.CompletionTokens != 2 {
		t.Errorf("CompletionTokens = %d, want 2", m.stats.CompletionTokens)
	}
}

func TestUpdate_ToolEventsDriveIndicator(t *testing.T) {
	m := primeStreaming(testModel(t))

	m, _ = update(t, m, StreamItemMsg{Raw: stream.ToolStarted("exchange_rates")})
	if m.toolActivity != "Calling exchange_rates..." {
		t.Errorf("toolActivity = %q", m.toolActivity)
	}

	m, _ = update(t, m, StreamItemMsg{Raw: stream.ToolCompleted()})
	if m.toolActivity != "" {
		t.Errorf("toolActivity after completion = %q", m.toolActivity)
	}
}

func TestUpdate_StreamDoneFinalizes(t *testing.T) {
	m := primeStreaming(testModel(t))
	m, _ = update(t, m, StreamItemMsg{Raw: stream.ContentDelta("Save 10% first.")})
	m, _ = update(t, m, StreamDoneMsg{})

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	last := m.conversation().GetLastAssistantMessage()
	if last.IsStreaming {
		t.Error("message still streaming after done")
	}
	if last.Content != "Save 10% first." {
		t.Errorf("content = %q", last.Content)
	}
	if last.TokenCount != 1 {
		t.Errorf("TokenCount = %d, want 1", last.TokenCount)
	}
}

// A failed stream leaves the turn in history as a synthetic assistant
// reply. It is never retried automatically and never becomes a
// system-role notice.
func TestUpdate_StreamErrorRecordsFailedReply(t *testing.T) {
	m := primeStreaming(testModel(t))
	m, _ = update(t, m, StreamDoneMsg{Err: errors.New("connection reset")})

	if n := m.conversation().MessageCount(); n != 2 {
		t.Fatalf("message count = %d, want user + failed assistant", n)
	}
	last := m.conversation().GetLastMessage()
	if last.Role != model.RoleAssistant {
		t.Fatalf("last role = %v, want assistant", last.Role)
	}
	if last.Content != "Error: connection reset" {
		t.Errorf("failed reply = %q", last.Content)
	}
	if last.IsStreaming {
		t.Error("failed reply still streaming")
	}
	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
}

// Wrapped sentinel errors surface their description the same way.
func TestUpdate_StreamErrorKeepsSentinelDescription(t *testing.T) {
	m := primeStreaming(testModel(t))
	m, _ = update(t, m, StreamDoneMsg{Err: agent.ErrRateLimited})

	last := m.conversation().GetLastAssistantMessage()
	if !strings.HasPrefix(last.Content, "Error: ") ||
		!strings.Contains(last.Content, "rate limited") {
		t.Errorf("failed reply = %q", last.Content)
	}
}

// =============================================================================
// VIEW
// =============================================================================

func TestView_RendersTranscriptAndStatus(t *testing.T) {
	m := testModel(t)
	m.conversation().AddUserMessage("is this text message a scam?")
	m.refreshViewport(false)

	out := m.View()
	if !strings.Contains(out, "RUGRat") {
		t.Error("header missing brand")
	}
	if !strings.Contains(out, "is this text message a scam?") {
		t.Error("transcript missing user message")
	}
}

func TestView_MapToggle(t *testing.T) {
	m := testModel(t)

	if !m.mapVisible() {
		t.Fatal("map should be visible at width 120")
	}
	if !strings.Contains(m.View(), "Eastern Caribbean Currency Union") {
		t.Error("map panel not rendered")
	}

	m.showMap = false
	if strings.Contains(m.View(), "Eastern Caribbean Currency Union") {
		t.Error("map rendered while disabled")
	}
}

func TestView_NarrowTerminalHidesMap(t *testing.T) {
	m := testModel(t)
	m.width = 80
	m.layout()

	if m.mapVisible() {
		t.Error("map should hide below the width threshold")
	}
}

func TestSendMessage_StagesImageAndAttachments(t *testing.T) {
	m := testModel(t)
	m.pendingFiles = append(m.pendingFiles, pngUpload("receipt.png"))
	m.input.SetValue("what is this charge?")

	next, cmd := m.handleSubmit()
	got := next.(Model)

	if cmd == nil {
		t.Fatal("expected a turn launch command")
	}
	if got.state != StateStreaming {
		t.Errorf("state = %v, want StateStreaming", got.state)
	}
	if got.turnImage == nil {
		t.Fatal("image not staged for the turn")
	}
	t.Cleanup(func() { got.turnImage.Cleanup() })

	userMsg := got.conversation().Messages[0]
	if len(userMsg.AttachmentNames) != 1 || userMsg.AttachmentNames[0] != "receipt.png" {
		t.Errorf("AttachmentNames = %v", userMsg.AttachmentNames)
	}
	if !userMsg.HasImage() {
		t.Error("user message missing image path")
	}
	if len(got.pendingFiles) != 0 {
		t.Error("pending files not consumed")
	}
}

// =============================================================================
// IMAGE TEMP FILE LIFETIME
// =============================================================================

// stageImageTurn submits a message with a staged image and returns the
// streaming model plus the temp file path.
func stageImageTurn(t *testing.T, m Model) (Model, string) {
	t.Helper()

	m.pendingFiles = append(m.pendingFiles, pngUpload("receipt.png"))
	m.input.SetValue("what is this charge?")

	next, _ := m.handleSubmit()
	got := next.(Model)
	if got.turnImage == nil {
		t.Fatal("image not staged for the turn")
	}

	path := got.turnImage.Path
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("staged image unreadable before turn end: %v", err)
	}
	return got, path
}

func TestFinishTurn_RemovesStagedImage(t *testing.T) {
	m, path := stageImageTurn(t, testModel(t))

	m, _ = update(t, m, StreamDoneMsg{})

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("image temp file still present after clean turn: %v", err)
	}
	if m.turnImage != nil {
		t.Error("turn image reference not released")
	}
}

func TestFinishTurn_RemovesStagedImageOnError(t *testing.T) {
	m, path := stageImageTurn(t, testModel(t))

	m, _ = update(t, m, StreamDoneMsg{Err: errors.New("connection reset")})

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("image temp file still present after failed turn: %v", err)
	}
	if got := m.conversation().GetLastAssistantMessage().Content; got != "Error: connection reset" {
		t.Errorf("failed reply = %q", got)
	}
}
