// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package eccumap renders a terminal map of the eight ECCU member
// territories. Pins are plotted on a character grid by projecting
// their coordinates onto the Eastern Caribbean bounding box; the
// session's own territory, when known, is drawn highlighted.
//
// The panel degrades gracefully: narrow terminals get the legend only.
package eccumap
