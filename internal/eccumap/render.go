// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package eccumap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Grid dimensions chosen so no two pins share a cell.
const (
	gridCols = 24
	gridRows = 13
)

// Markers for plotted territories.
const (
	markerPin       = "•"
	markerHighlight = "◉"
)

// =============================================================================
// STYLES
// =============================================================================

// Pin colors follow the web map: magenta pins, green for the user's
// own territory.
var (
	pinStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D60076", Dark: "#FF5FA2"})
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00A854", Dark: "#34D399"}).Bold(true)
	waterStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"})
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"})
	legendStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"})
	panelStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}).
			Padding(0, 1)
)

// =============================================================================
// RENDERING
// =============================================================================

// Render draws the full map panel: title, pin grid, and legend. The
// pin for userCountry, when it names an ECCU territory, is highlighted.
func Render(userCountry string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Eastern Caribbean Currency Union"))
	sb.WriteString("\n\n")
	sb.WriteString(grid(userCountry))
	sb.WriteString("\n")
	sb.WriteString(Legend(userCountry))
	return panelStyle.Render(sb.String())
}

// grid plots the pins onto the character grid.
func grid(userCountry string) string {
	type cell struct {
		marker    string
		highlight bool
	}
	cells := make(map[[2]int]cell)

	for _, pin := range Pins {
		col, row := project(pin.Lat, pin.Lon, gridCols, gridRows)
		if pin.matches(userCountry) {
			cells[[2]int{row, col}] = cell{marker: markerHighlight, highlight: true}
		} else if _, taken := cells[[2]int{row, col}]; !taken {
			cells[[2]int{row, col}] = cell{marker: markerPin}
		}
	}

	var sb strings.Builder
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			if c, ok := cells[[2]int{row, col}]; ok {
				if c.highlight {
					sb.WriteString(highlightStyle.Render(c.marker))
				} else {
					sb.WriteString(pinStyle.Render(c.marker))
				}
				continue
			}
			sb.WriteString(waterStyle.Render("·"))
		}
		if row < gridRows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Legend lists every territory, with the user's own first and
// highlighted. Fits narrow terminals where the grid does not.
func Legend(userCountry string) string {
	var lines []string

	for _, pin := range Pins {
		if pin.matches(userCountry) {
			lines = append([]string{
				highlightStyle.Render(markerHighlight+" "+pin.Name) + legendStyle.Render(": "+pin.Note),
			}, lines...)
			continue
		}
		lines = append(lines,
			pinStyle.Render(markerPin)+" "+pin.Name)
	}

	return strings.Join(lines, "\n")
}
