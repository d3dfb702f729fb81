// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation transcript to disk.
//
// History lives only in session memory; export is the one way to keep
// a transcript after the session ends. Two formats are supported:
// Markdown for reading and JSON for machine use. Files are written
// atomically so an interrupted export never leaves a partial file.
package export
