// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"encoding/json"
	"strconv"
	"strings"
)

// =============================================================================
// PROVIDER DEFINITIONS
// =============================================================================

// Provider is a single IP-geolocation HTTP JSON endpoint. Each provider
// has its own response shape, so each carries its own parser. A parser
// treats malformed or missing fields as absence, never as failure.
type Provider struct {
	// Name identifies the provider in logs.
	Name string

	// URL is the JSON endpoint queried with a plain GET.
	URL string

	// Parse extracts whatever location fields the body contains.
	Parse func(body []byte) Location
}

// DefaultProviders returns the provider fallback list in priority order.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "ipapi.co", URL: "https://ipapi.co/json/", Parse: parseIPAPICo},
		{Name: "ip-api.com", URL: "http://ip-api.com/json/", Parse: parseIPAPICom},
		{Name: "ipwho.is", URL: "https://ipwho.is/", Parse: parseIPWhoIs},
		{Name: "ipinfo.io", URL: "https://ipinfo.io/json", Parse: parseIPInfo},
	}
}

// usable reports whether a parsed result carries at least one of
// country, city, or region.
func usable(loc Location) bool {
	return !loc.IsUnknown()
}

// finalize normalizes the country and sets ECCU membership.
func finalize(loc Location) Location {
	if loc.Country != nil {
		name := NormalizeCountry(*loc.Country)
		loc.Country = &name
		loc.IsECCU = IsECCUMember(name)
	}
	return loc
}

// strField returns a pointer to s when non-empty.
func strField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// floatField returns a pointer to f when it was present in the body.
func floatField(f *float64) *float64 {
	return f
}

// =============================================================================
// RESPONSE PARSERS (one per provider shape)
// =============================================================================

// parseIPAPICo handles the ipapi.co shape:
//
//	{"country_name":"Dominica","region":"Saint George","city":"Roseau",
//	 "latitude":15.3,"longitude":-61.38}
func parseIPAPICo(body []byte) Location {
	var raw struct {
		CountryName string   `json:"country_name"`
		CountryCode string   `json:"country_code"`
		Region      string   `json:"region"`
		City        string   `json:"city"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Location{}
	}
	country := raw.CountryName
	if country == "" {
		country = raw.CountryCode
	}
	return Location{
		Country: strField(country),
		Region:  strField(raw.Region),
		City:    strField(raw.City),
		Lat:     floatField(raw.Latitude),
		Lon:     floatField(raw.Longitude),
	}
}

// parseIPAPICom handles the ip-api.com shape, which flags failures with
// a "status" field:
//
//	{"status":"success","country":"Dominica","regionName":"Saint George",
//	 "city":"Roseau","lat":15.3,"lon":-61.38}
func parseIPAPICom(body []byte) Location {
	var raw struct {
		Status     string   `json:"status"`
		Country    string   `json:"country"`
		RegionName string   `json:"regionName"`
		City       string   `json:"city"`
		Lat        *float64 `json:"lat"`
		Lon        *float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Location{}
	}
	if raw.Status != "" && raw.Status != "success" {
		return Location{}
	}
	return Location{
		Country: strField(raw.Country),
		Region:  strField(raw.RegionName),
		City:    strField(raw.City),
		Lat:     floatField(raw.Lat),
		Lon:     floatField(raw.Lon),
	}
}

// parseIPWhoIs handles the ipwho.is shape, which flags failures with a
// boolean "success" field:
//
//	{"success":true,"country":"Dominica","region":"Saint George",
//	 "city":"Roseau","latitude":15.3,"longitude":-61.38}
func parseIPWhoIs(body []byte) Location {
	var raw struct {
		Success   *bool    `json:"success"`
		Country   string   `json:"country"`
		Region    string   `json:"region"`
		City      string   `json:"city"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Location{}
	}
	if raw.Success != nil && !*raw.Success {
		return Location{}
	}
	return Location{
		Country: strField(raw.Country),
		Region:  strField(raw.Region),
		City:    strField(raw.City),
		Lat:     floatField(raw.Latitude),
		Lon:     floatField(raw.Longitude),
	}
}

// parseIPInfo handles the ipinfo.io shape, where the country is a
// two-letter code and coordinates arrive as a single "lat,lon" string:
//
//	{"country":"DM","region":"Saint George","city":"Roseau","loc":"15.3,-61.38"}
func parseIPInfo(body []byte) Location {
	var raw struct {
		Country string `json:"country"`
		Region  string `json:"region"`
		City    string `json:"city"`
		Loc     string `json:"loc"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Location{}
	}
	loc := Location{
		Country: strField(raw.Country),
		Region:  strField(raw.Region),
		City:    strField(raw.City),
	}
	if parts := strings.SplitN(raw.Loc, ",", 2); len(parts) == 2 {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat == nil && errLon == nil {
			loc.Lat = &lat
			loc.Lon = &lon
		}
	}
	return loc
}
