// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_ModeSelection(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark mode should set IsDark")
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("light mode should clear IsDark")
	}
}

func TestNewTheme_StylesPopulated(t *testing.T) {
	theme := NewTheme("dark")

	// A zero style renders its input unchanged; the important ones
	// must carry at least one property.
	if theme.HeaderTitle.GetBold() != true {
		t.Error("header title should be bold")
	}
	if theme.ErrorText.GetBold() != true {
		t.Error("error text should be bold")
	}
	if theme.UserBubble.GetPaddingLeft() != 1 {
		t.Error("user bubble should have left padding")
	}
}
