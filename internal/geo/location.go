// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

// =============================================================================
// LOCATION TYPE
// =============================================================================

// Location is the resolved approximate location for the current session.
// Any field may be nil when the providers could not supply it.
type Location struct {
	Country *string
	Region  *string
	City    *string
	Lat     *float64
	Lon     *float64

	// IsECCU is true iff Country exactly matches one of the eight
	// ECCU member names.
	IsECCU bool
}

// IsUnknown reports whether no provider supplied any usable field.
func (l Location) IsUnknown() bool {
	return l.Country == nil && l.Region == nil && l.City == nil
}

// CountryName returns the country or an empty string.
func (l Location) CountryName() string {
	if l.Country == nil {
		return ""
	}
	return *l.Country
}

// CityName returns the city or an empty string.
func (l Location) CityName() string {
	if l.City == nil {
		return ""
	}
	return *l.City
}

// RegionName returns the region or an empty string.
func (l Location) RegionName() string {
	if l.Region == nil {
		return ""
	}
	return *l.Region
}

// Badge returns a short "City, Country" display string for the UI.
func (l Location) Badge() string {
	if l.IsUnknown() {
		return "Unknown"
	}
	if l.City != nil && l.Country != nil {
		return *l.City + ", " + *l.Country
	}
	if l.Country != nil {
		return *l.Country
	}
	if l.City != nil {
		return *l.City
	}
	return *l.Region
}

// =============================================================================
// ECCU MEMBERSHIP
// =============================================================================

// ECCUMembers lists the eight ECCU member territories. Matching is
// exact and case-sensitive.
var ECCUMembers = []string{
	"Antigua and Barbuda",
	"Anguilla",
	"Dominica",
	"Grenada",
	"Montserrat",
	"Saint Kitts and Nevis",
	"Saint Lucia",
	"Saint Vincent and the Grenadines",
}

// eccuCodes maps ISO 3166-1 alpha-2 codes to ECCU member names.
var eccuCodes = map[string]string{
	"AG": "Antigua and Barbuda",
	"AI": "Anguilla",
	"DM": "Dominica",
	"GD": "Grenada",
	"MS": "Montserrat",
	"KN": "Saint Kitts and Nevis",
	"LC": "Saint Lucia",
	"VC": "Saint Vincent and the Grenadines",
}

// IsECCUMember reports whether name exactly matches an ECCU member.
func IsECCUMember(name string) bool {
	for _, m := range ECCUMembers {
		if name == m {
			return true
		}
	}
	return false
}

// NormalizeCountry maps a two-letter ECCU country code to its full
// member name. Anything not in the table is returned unchanged, so
// providers that already send full names pass through untouched.
func NormalizeCountry(country string) string {
	if full, ok := eccuCodes[country]; ok {
		return full
	}
	return country
}
