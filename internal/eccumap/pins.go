// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package eccumap

import "strings"

// =============================================================================
// PIN DATA
// =============================================================================

// Pin is one ECCU member territory on the map.
type Pin struct {
	Name string
	Lat  float64
	Lon  float64
	Note string
}

// Pins lists the eight ECCU member territories, north to south order
// not guaranteed.
var Pins = []Pin{
	{Name: "Antigua and Barbuda", Lat: 17.0608, Lon: -61.7964, Note: "Wadadli vibes. Carnival budgets, gig income."},
	{Name: "Dominica", Lat: 15.4150, Lon: -61.3710, Note: "Dasheen money, village market savings."},
	{Name: "Grenada", Lat: 12.1165, Lon: -61.6790, Note: "Spice Mas, cocoa/nutmeg side hustles."},
	{Name: "Saint Kitts and Nevis", Lat: 17.3578, Lon: -62.7830, Note: "Music gigs, tourism side jobs."},
	{Name: "Saint Lucia", Lat: 13.9094, Lon: -60.9789, Note: "Gros Islet nights, craft sales savings."},
	{Name: "Saint Vincent and the Grenadines", Lat: 13.2500, Lon: -61.2000, Note: "Fisherfolk budgets, market day profits."},
	{Name: "Anguilla", Lat: 18.2206, Lon: -63.0686, Note: "Tourism tips, seasonal saving goals."},
	{Name: "Montserrat", Lat: 16.7425, Lon: -62.1874, Note: "Small island gigs, community investing."},
}

// Bounding box around all pins, padded so none land on the border.
const (
	minLat = 11.6
	maxLat = 18.7
	minLon = -63.6
	maxLon = -60.5
)

// project maps a coordinate to a grid cell. Row 0 is the northern
// edge; column 0 is the western edge.
func project(lat, lon float64, cols, rows int) (col, row int) {
	col = int((lon - minLon) / (maxLon - minLon) * float64(cols-1))
	row = int((maxLat - lat) / (maxLat - minLat) * float64(rows-1))

	if col < 0 {
		col = 0
	}
	if col > cols-1 {
		col = cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row > rows-1 {
		row = rows - 1
	}
	return col, row
}

// matches reports whether a pin belongs to the given territory name.
// Case-insensitive exact match, same rule the persona layer uses.
func (p Pin) matches(country string) bool {
	return country != "" && strings.EqualFold(p.Name, country)
}
