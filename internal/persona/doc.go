// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persona renders the per-turn instruction document for the
// assistant from the resolved session location.
//
// A localized tone fragment (greeting, example sentence, allowed slang,
// currency note) is selected for ECCU members with a defined profile,
// with a generic island fallback for other ECCU territories and a
// neutral global tone everywhere else. The fragment plus the raw
// location fields are substituted into one canonical instruction
// template. BuildInstructions is a pure function: the document is
// rebuilt from scratch on every turn and carries no conversation state.
package persona
