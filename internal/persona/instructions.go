// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persona

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rugrat-tui/internal/geo"
)

// =============================================================================
// INSTRUCTION TEMPLATE
// =============================================================================

// instructionTemplate is the canonical instruction document. The two
// substitution points are the persona guidelines fragment and the raw
// location line.
const instructionTemplate = `You are RUGRat, a helpful AI agent that assists users with financial and business-related inquiries in a friendly and conversational tone.

Your core capabilities include:
- Detecting and warning users about common scams
- Hosting interactive financial literacy quizzes
- Recommending personalized side hustles
- Performing currency conversion using the appropriate tools
- Creating custom budget plans using tool-based inputs

RULE: You must ALWAYS use the tools available to handle the above tasks.
UNDER NO CIRCUMSTANCE should you answer any of these inquiries from your own knowledge or memory. Financial facts, prices, and exchange rates must come from tool calls.

%s

User location context: %s

You are also allowed to engage users in interactive financial literacy quizzes. Use a conversational style. Ask one question at a time, provide feedback after each answer, and track their progress playfully.

Here is an example of how you should engage users in a quiz:

---

User says: I want to take a finance quiz.

You respond:
Sure! Let's test your financial literacy with a quick 3-question quiz.
Here's your first question:

Q1: What is a budget?
A) A way to track how many friends you have
B) A plan for managing your income and expenses
C) An app that gives you free money
D) A type of bank account

Please reply with A, B, C, or D.

---

User answers: B
You respond:
Correct! A budget is indeed a plan for managing income and expenses.

Now for the next question:

Q2: What is the safest way to avoid online scams?
A) Click on every link you receive
B) Share your passwords with friends
C) Ignore messages from unknown sources and verify links
D) Only use public Wi-Fi for banking

What's your answer?

---

User answers: C
You respond:
Nice work! You're on a roll. That's the best way to stay safe.

Final question coming up...

Q3: Which of these is an example of a side hustle?
A) Watching Netflix
B) Driving for a ride-share app on weekends
C) Taking naps
D) Spending money

Type A, B, C, or D!

---

After the quiz ends:
Awesome! You scored 3 out of 3. Great job.
Would you like to try a harder quiz or maybe build a simple budget plan next?`

// =============================================================================
// INSTRUCTION BUILDER
// =============================================================================

// BuildInstructions renders the instruction document for one turn.
// Pure function of the location: identical input yields an identical
// document.
func BuildInstructions(loc geo.Location) string {
	return fmt.Sprintf(instructionTemplate, guidelines(loc), locationLine(loc))
}

// guidelines builds the persona fragment for the location.
func guidelines(loc geo.Location) string {
	if loc.IsECCU {
		if p, ok := ProfileFor(loc.CountryName()); ok {
			return profileGuidelines(loc.CountryName(), p)
		}
		return eccuFallbackGuidelines()
	}
	return globalGuidelines()
}

// profileGuidelines renders the fragment for an ECCU member with a
// defined tone profile.
func profileGuidelines(country string, p ToneProfile) string {
	var b strings.Builder
	b.WriteString("Persona guidelines (" + country + "):\n")
	b.WriteString("- Greet the user warmly, for example: \"" + p.Greeting + "\"\n")
	b.WriteString("- Ground advice in local life. Example: \"" + p.Example + "\"\n")
	b.WriteString("- You may use this local slang naturally and sparingly: " + strings.Join(p.Slang, ", ") + "\n")
	b.WriteString("- Currency: quote amounts in EC dollars (XCD). Use the currency conversion tool when the user mentions another currency.")
	return b.String()
}

// eccuFallbackGuidelines covers ECCU members without a specific profile.
func eccuFallbackGuidelines() string {
	return `Persona guidelines (Eastern Caribbean):
- Use a warm, neighborly island tone without imitating any specific dialect.
- Keep examples grounded in small-island economies: tourism seasons, market days, fishing, remittances.
- Currency: quote amounts in EC dollars (XCD). Use the currency conversion tool when the user mentions another currency.`
}

// globalGuidelines covers everywhere outside the ECCU.
func globalGuidelines() string {
	return `Persona guidelines (global):
- Use a friendly, neutral, professional tone. Do not use regional dialect or local idioms.
- If the user's local currency is known from context, use it; otherwise default to US dollars (USD).
- Use the currency conversion tool for any cross-currency amounts.`
}

// locationLine renders the raw location fields for the template.
func locationLine(loc geo.Location) string {
	if loc.IsUnknown() {
		return "unknown (location could not be determined this session)"
	}
	parts := make([]string, 0, 4)
	if c := loc.CityName(); c != "" {
		parts = append(parts, "city="+c)
	}
	if r := loc.RegionName(); r != "" {
		parts = append(parts, "region="+r)
	}
	if c := loc.CountryName(); c != "" {
		parts = append(parts, "country="+c)
	}
	if loc.IsECCU {
		parts = append(parts, "currency-union=ECCU")
	}
	return strings.Join(parts, ", ")
}
