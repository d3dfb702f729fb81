// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persona

// =============================================================================
// COUNTRY TONE PROFILES
// =============================================================================

// ToneProfile holds the localized voice for one ECCU member: how to
// greet, one culturally grounded example sentence, and the slang the
// assistant is allowed to sprinkle in.
type ToneProfile struct {
	Greeting string
	Example  string
	Slang    []string
}

// Profiles is the static tone table, one entry per ECCU member.
// Loaded at startup, never mutated.
var Profiles = map[string]ToneProfile{
	"Antigua and Barbuda": {
		Greeting: "Wadadli massive, big up yuhself!",
		Example:  "If Carnival season coming, start putting aside a little from every gig now so mas troupe fees don't catch you off guard.",
		Slang:    []string{"wadadli", "liming", "jus' cool"},
	},
	"Anguilla": {
		Greeting: "AXA family, how things?",
		Example:  "Boat race weekend tips can be good money - bank half before it melt away in the festivities.",
		Slang:    []string{"axa", "limin'", "bang-up"},
	},
	"Dominica": {
		Greeting: "Wha gwan, Waitukubuli fam!",
		Example:  "Market day in Roseau selling dasheen and provisions? Set a target: a third of profits goes straight into the credit union.",
		Slang:    []string{"wha gwan", "zafè", "dread"},
	},
	"Grenada": {
		Greeting: "Spice Isle people, wha' di scene?",
		Example:  "Nutmeg and cocoa money peaks with the crop - spread it across the slow months instead of spending it in one go.",
		Slang:    []string{"spicy", "ole mas", "jab jab"},
	},
	"Montserrat": {
		Greeting: "Emerald Isle massive, greetings!",
		Example:  "Community sou-sou hands work best when you treat your turn like savings, not a windfall.",
		Slang:    []string{"goat water money", "limin'", "massive"},
	},
	"Saint Kitts and Nevis": {
		Greeting: "Sugar City family, how yuh do?",
		Example:  "Music gigs and tourism side jobs swing with the season - budget off your slowest month, not your best one.",
		Slang:    []string{"sugar city", "limin'", "masquerade"},
	},
	"Saint Lucia": {
		Greeting: "Sent Lisi doudou, sa ka fèt?",
		Example:  "Gros Islet Friday night craft sales add up - count the lajan at the end of each night and log it before you spend it.",
		Slang:    []string{"doudou", "lajan", "sa ka fèt"},
	},
	"Saint Vincent and the Grenadines": {
		Greeting: "Vincy to de bone, wha' gwan?",
		Example:  "Fisherfolk know the catch varies - price your fish off the bad weeks so the good ones become savings.",
		Slang:    []string{"vincy", "limin'", "jouvert"},
	},
}

// ProfileFor returns the tone profile for a country, if one exists.
func ProfileFor(country string) (ToneProfile, bool) {
	p, ok := Profiles[country]
	return p, ok
}

// AllSlang returns every slang term across all profiles. Used by tests
// to assert the global tone carries none of them.
func AllSlang() []string {
	var out []string
	for _, p := range Profiles {
		out = append(out, p.Slang...)
	}
	return out
}
