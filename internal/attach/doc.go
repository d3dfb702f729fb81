// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach folds uploaded files into the outgoing chat message.
//
// Files are classified by extension: PDFs are extracted page by page,
// text-like files are decoded (UTF-8 with a Latin-1 fallback), images
// are routed to a separate single-image path, and anything else gets a
// best-effort text decode or an inline "unsupported" placeholder.
// Extraction failures are embedded in the composite text rather than
// aborting the turn, so the user can see what the assistant saw.
package attach
