// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo resolves the user's approximate location from IP-based
// lookup services and decides whether it falls inside the Eastern
// Caribbean Currency Union (ECCU).
//
// Resolution is memoized per Resolver: the first call walks an ordered
// provider list and caches whatever it gets, including a fully-null
// location when every provider fails. Later calls in the same session
// return the cached value without touching the network.
package geo
