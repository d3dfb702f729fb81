// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// =============================================================================
// UPLOAD CLASSIFICATION
// =============================================================================

// Upload is one file attached to a turn.
type Upload struct {
	// Name is the original filename including extension.
	Name string

	// Data is the raw file content.
	Data []byte
}

// textExtensions are decoded and inlined into the composite message.
var textExtensions = map[string]bool{
	"txt": true, "md": true, "py": true, "js": true, "html": true,
	"css": true, "json": true, "xml": true, "csv": true,
}

// imageExtensions are routed to the single-image path, never inlined.
var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "webp": true,
}

// extension returns the lowercased extension without the dot.
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

// IsImage reports whether the upload classifies as an image.
func (u Upload) IsImage() bool {
	return imageExtensions[extension(u.Name)]
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize builds the composite message text for one turn: the typed
// prompt followed by every extracted file block in file order, plus an
// owned temp file for the first attached image, if any.
//
// Attachment failures never fail the turn; they surface as inline
// error strings inside the composite text. The returned ImageRef (when
// non-nil) must be cleaned up by the caller after the response stream
// is fully drained, on every exit path.
func Normalize(prompt string, files []Upload) (string, *ImageRef) {
	var b strings.Builder
	b.WriteString(prompt)

	var image *ImageRef
	for _, f := range files {
		ext := extension(f.Name)
		switch {
		case ext == "pdf":
			b.WriteString(block("PDF Content", f.Name, extractPDFText(f.Data)))

		case textExtensions[ext]:
			b.WriteString(block("File Content", f.Name, decodeText(f.Data)))

		case imageExtensions[ext]:
			// Exactly one image is forwarded per turn.
			if image == nil {
				ref, err := persistImage(f)
				if err != nil {
					b.WriteString(block("File Content", f.Name, "Error storing image: "+err.Error()))
					continue
				}
				image = ref
			}

		default:
			// Best-effort text decode for unknown extensions.
			if text, ok := tryDecodeText(f.Data); ok {
				b.WriteString(block("File Content", f.Name, text))
			} else {
				b.WriteString("\n\n**Unsupported file type: " + f.Name + "**\n")
			}
		}
	}

	return b.String(), image
}

// block formats one extracted file section.
func block(kind, name, content string) string {
	return "\n\n**" + kind + " (" + name + "):**\n" + content + "\n"
}

// =============================================================================
// TEXT EXTRACTION
// =============================================================================

// decodeText decodes as UTF-8 and falls back to Latin-1. A failure in
// both paths yields an inline error string.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "Error reading file: " + err.Error()
	}
	return string(decoded)
}

// tryDecodeText attempts a text decode for unclassified files. It
// refuses content that looks binary (NUL bytes) so that arbitrary
// blobs get the unsupported placeholder instead of garbage.
func tryDecodeText(data []byte) (string, bool) {
	if bytes.IndexByte(data, 0) >= 0 {
		return "", false
	}
	return decodeText(data), true
}

// extractPDFText pulls plain text from every page, concatenated with
// newline separators. Failures produce an inline error string.
func extractPDFText(data []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "Error reading PDF: " + err.Error()
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			b.WriteString("Error reading PDF page: " + err.Error() + "\n")
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
