// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package eccumap

import (
	"strings"
	"testing"
)

func TestPins_AllDistinctCells(t *testing.T) {
	seen := make(map[[2]int]string)
	for _, pin := range Pins {
		col, row := project(pin.Lat, pin.Lon, gridCols, gridRows)
		key := [2]int{row, col}
		if other, taken := seen[key]; taken {
			t.Errorf("%s and %s collide at cell %v", pin.Name, other, key)
		}
		seen[key] = pin.Name
	}
}

func TestProject_Orientation(t *testing.T) {
	// Anguilla is the northernmost pin, Grenada the southernmost.
	_, anguillaRow := project(18.2206, -63.0686, gridCols, gridRows)
	_, grenadaRow := project(12.1165, -61.6790, gridCols, gridRows)
	if anguillaRow >= grenadaRow {
		t.Errorf("north/south inverted: anguilla=%d grenada=%d", anguillaRow, grenadaRow)
	}

	// Saint Lucia sits east of Saint Kitts.
	kittsCol, _ := project(17.3578, -62.7830, gridCols, gridRows)
	luciaCol, _ := project(13.9094, -60.9789, gridCols, gridRows)
	if luciaCol <= kittsCol {
		t.Errorf("east/west inverted: kitts=%d lucia=%d", kittsCol, luciaCol)
	}
}

func TestProject_ClampsOutOfBounds(t *testing.T) {
	col, row := project(90, 180, gridCols, gridRows)
	if col != gridCols-1 || row != 0 {
		t.Errorf("clamp = (%d,%d)", col, row)
	}
}

func TestLegend_HighlightFirst(t *testing.T) {
	legend := Legend("Grenada")
	lines := strings.Split(legend, "\n")
	if len(lines) != len(Pins) {
		t.Fatalf("legend lines = %d", len(lines))
	}
	if !strings.Contains(lines[0], "Grenada") {
		t.Errorf("first line = %q, want highlighted Grenada", lines[0])
	}
	// The highlighted territory carries its note.
	if !strings.Contains(lines[0], "Spice Mas") {
		t.Errorf("first line missing note: %q", lines[0])
	}
}

func TestLegend_CaseInsensitiveMatch(t *testing.T) {
	legend := Legend("saint lucia")
	lines := strings.Split(legend, "\n")
	if !strings.Contains(lines[0], "Saint Lucia") {
		t.Errorf("case-insensitive match failed: %q", lines[0])
	}
}

func TestRender_ContainsAllTerritories(t *testing.T) {
	out := Render("Dominica")
	for _, pin := range Pins {
		if !strings.Contains(out, pin.Name) {
			t.Errorf("render missing %s", pin.Name)
		}
	}
	if !strings.Contains(out, markerHighlight) {
		t.Error("render missing highlight marker")
	}
}

func TestRender_NoHighlightForOutsideCountry(t *testing.T) {
	out := Render("Jamaica")
	if strings.Contains(out, markerHighlight) {
		t.Error("non-ECCU country must not be highlighted")
	}
}
