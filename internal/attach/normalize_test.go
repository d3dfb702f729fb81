// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"os"
	"strings"
	"testing"
)

// =============================================================================
// CLASSIFICATION AND COMPOSITE TEXT TESTS
// =============================================================================

func TestNormalize_CSVInlined(t *testing.T) {
	composite, image := Normalize("summarize this", []Upload{
		{Name: "notes.csv", Data: []byte("a,b\n1,2")},
	})

	if image != nil {
		t.Fatal("csv upload must not produce an image ref")
	}
	if !strings.Contains(composite, "summarize this") {
		t.Error("composite should keep the typed prompt")
	}
	if !strings.Contains(composite, "notes.csv") {
		t.Error("block should be tagged with the filename")
	}
	if !strings.Contains(composite, "a,b\n1,2") {
		t.Error("composite should carry the literal file content")
	}
}

func TestNormalize_ExtensionCaseInsensitive(t *testing.T) {
	composite, _ := Normalize("", []Upload{
		{Name: "README.MD", Data: []byte("# hi")},
	})
	if !strings.Contains(composite, "# hi") {
		t.Error("uppercase extensions should classify the same as lowercase")
	}
}

func TestNormalize_FileOrderPreserved(t *testing.T) {
	composite, _ := Normalize("prompt", []Upload{
		{Name: "one.txt", Data: []byte("FIRST")},
		{Name: "two.txt", Data: []byte("SECOND")},
	})
	first := strings.Index(composite, "FIRST")
	second := strings.Index(composite, "SECOND")
	if first < 0 || second < 0 || first > second {
		t.Errorf("blocks out of order: first=%d second=%d", first, second)
	}
	if strings.Index(composite, "prompt") > first {
		t.Error("typed prompt must precede file blocks")
	}
}

func TestNormalize_Latin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 and invalid as a standalone UTF-8 byte.
	composite, _ := Normalize("", []Upload{
		{Name: "menu.txt", Data: []byte{'c', 'a', 'f', 0xE9}},
	})
	if !strings.Contains(composite, "café") {
		t.Errorf("expected Latin-1 fallback decode, got %q", composite)
	}
}

func TestNormalize_UnsupportedBinaryPlaceholder(t *testing.T) {
	composite, _ := Normalize("", []Upload{
		{Name: "firmware.bin", Data: []byte{0x7f, 0x00, 0x01, 0x02}},
	})
	if !strings.Contains(composite, "Unsupported file type: firmware.bin") {
		t.Errorf("expected unsupported placeholder, got %q", composite)
	}
}

func TestNormalize_UnknownExtensionBestEffortText(t *testing.T) {
	composite, _ := Normalize("", []Upload{
		{Name: "notes.log", Data: []byte("plain log line")},
	})
	if !strings.Contains(composite, "plain log line") {
		t.Error("text-looking unknown extensions should be inlined")
	}
}

func TestNormalize_BadPDFInlineError(t *testing.T) {
	composite, _ := Normalize("", []Upload{
		{Name: "report.pdf", Data: []byte("not really a pdf")},
	})
	if !strings.Contains(composite, "Error reading PDF") {
		t.Errorf("pdf failure should surface inline, got %q", composite)
	}
	if !strings.Contains(composite, "report.pdf") {
		t.Error("error block should still be tagged with the filename")
	}
}

// =============================================================================
// IMAGE PATH TESTS
// =============================================================================

func TestNormalize_FirstImageOnly(t *testing.T) {
	composite, image := Normalize("look", []Upload{
		{Name: "a.png", Data: []byte("png-bytes-a")},
		{Name: "b.jpg", Data: []byte("jpg-bytes-b")},
	})
	if image == nil {
		t.Fatal("expected an image ref")
	}
	defer image.Cleanup()

	if image.Name != "a.png" {
		t.Errorf("image = %q, want first image a.png", image.Name)
	}
	if strings.Contains(composite, "png-bytes") || strings.Contains(composite, "jpg-bytes") {
		t.Error("image bytes must never be inlined")
	}

	data, err := os.ReadFile(image.Path)
	if err != nil {
		t.Fatalf("temp file unreadable: %v", err)
	}
	if string(data) != "png-bytes-a" {
		t.Errorf("temp file content = %q", data)
	}
}

func TestImageRef_CleanupRemovesFile(t *testing.T) {
	_, image := Normalize("", []Upload{{Name: "x.webp", Data: []byte("img")}})
	if image == nil {
		t.Fatal("expected image ref")
	}

	path := image.Path
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("temp file should exist before cleanup: %v", err)
	}
	if err := image.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file should be gone after cleanup")
	}

	// Second cleanup is a no-op, not an error.
	if err := image.Cleanup(); err != nil {
		t.Errorf("double cleanup should be nil, got %v", err)
	}
}

func TestImageRef_NilCleanupSafe(t *testing.T) {
	var ref *ImageRef
	if err := ref.Cleanup(); err != nil {
		t.Errorf("nil cleanup should be nil, got %v", err)
	}
}
