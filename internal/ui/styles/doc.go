// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the rugrat TUI.
//
// The palette is Caribbean-flavored: teal for the assistant and brand,
// coral for map pins, palm green for the user's own island, gold for
// currency figures. Every color is a lipgloss.AdaptiveColor so light
// and dark terminals both get readable output.
//
// Theme bundles the concrete lipgloss styles the chat view uses;
// construct one with NewTheme("auto") at startup and pass it down.
package styles
