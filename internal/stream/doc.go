// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream reconstructs one assistant reply from the agent
// runtime's heterogeneous event sequence.
//
// The runtime emits three kinds of event: content fragments, tool
// start notifications, and tool completion notifications. Two legacy
// shapes also occur in the wild - a bare object carrying only a
// content fragment, and a raw string - and both are canonicalized to
// content deltas at the boundary so the assembler itself only ever
// sees the tagged union.
//
// The assembler is a pure fold: it performs no concurrency of its own
// and simply blocks on the producing side between events.
package stream
