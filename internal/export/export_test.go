// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/jeranaias/rugrat-tui/internal/model"
)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage("How do I spot a lottery scam?")
	asst := conv.AddAssistantMessage()
	asst.AppendToken("If you never entered, you never won.")
	stats := model.NewStatistics()
	stats.RecordFirstToken()
	stats.Finalize(8)
	conv.FinalizeLast(stats)
	return conv
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdownExporter_Export(t *testing.T) {
	conv := sampleConversation()

	data, err := NewMarkdownExporter(nil).Export(conv)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"### You",
		"### RUGRat",
		"lottery scam",
		"never entered",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownExporter_SkipsEmptyAssistant(t *testing.T) {
	conv := model.NewConversation()
	conv.AddUserMessage("hi")
	conv.AddAssistantMessage()
	conv.FinalizeLast(nil)

	data, err := NewMarkdownExporter(nil).Export(conv)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "### RUGRat") {
		t.Error("empty assistant message should be skipped")
	}
}

func TestMarkdownExporter_EmptyConversation(t *testing.T) {
	if _, err := NewMarkdownExporter(nil).Export(model.NewConversation()); err == nil {
		t.Error("expected error for empty conversation")
	}
}

func TestMarkdownExporter_AttachmentNames(t *testing.T) {
	conv := sampleConversation()
	conv.Messages[0].AttachmentNames = []string{"budget.csv"}

	data, err := NewMarkdownExporter(nil).Export(conv)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "budget.csv") {
		t.Error("attachment name missing from transcript")
	}
}

// =============================================================================
// JSON
// =============================================================================

func TestJSONExporter_RoundTrips(t *testing.T) {
	conv := sampleConversation()

	data, err := NewJSONExporter().Export(conv)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	msgs, ok := decoded["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Errorf("messages = %v", decoded["messages"])
	}
}

// =============================================================================
// FILE WRITING
// =============================================================================

func TestToFile_WritesTranscript(t *testing.T) {
	conv := sampleConversation()
	conv.SetTitle("scam check: lottery")

	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	path, err := Markdown(conv, opts)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "lottery") {
		t.Error("written transcript missing content")
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a/b:c", "a-b-c"},
		{"two words", "two_words"},
		{"", "conversation"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
