// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"context"
	"crypto/tls"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// RESOLVER CONSTANTS
// =============================================================================

const (
	// ProviderTimeout bounds each individual provider call.
	ProviderTimeout = 8 * time.Second

	// maxBodySize caps provider response bodies.
	// SECURITY: Response size limit prevents memory exhaustion.
	maxBodySize = 1 * 1024 * 1024 // 1MB
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all geolocation probes.
var sharedGeoClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	// Per-call timeout is applied via context in probe().
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver memoizes one location lookup for the lifetime of a session.
//
// Providers are tried strictly sequentially in priority order; the
// first usable result wins. When every provider fails, the null
// location is cached as-is and never retried for this session, so a
// transient outage at session start pins the session to "unknown".
type Resolver struct {
	mu        sync.Mutex
	cached    *Location
	providers []Provider

	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

// NewResolver creates a resolver over the default provider list.
func NewResolver() *Resolver {
	return &Resolver{
		providers:  DefaultProviders(),
		httpClient: sharedGeoClient,
		limiter:    rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
	}
}

// WithProviders replaces the provider fallback list.
func (r *Resolver) WithProviders(providers []Provider) *Resolver {
	r.providers = providers
	return r
}

// WithHTTPClient replaces the HTTP client.
func (r *Resolver) WithHTTPClient(c *http.Client) *Resolver {
	r.httpClient = c
	return r
}

// WithDebug enables verbose logging of the resolved location.
func (r *Resolver) WithDebug(debug bool) *Resolver {
	r.debug = debug
	return r
}

// Resolve returns the session location, performing the provider walk
// at most once. Individual provider errors are swallowed and logged,
// never surfaced to the caller.
func (r *Resolver) Resolve(ctx context.Context) Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return *r.cached
	}

	loc := r.resolveLocked(ctx)
	r.cached = &loc

	if r.debug {
		log.Printf("geo: resolved location country=%q region=%q city=%q eccu=%v",
			loc.CountryName(), loc.RegionName(), loc.CityName(), loc.IsECCU)
	}
	return loc
}

// Cached returns the memoized location, if any, without resolving.
func (r *Resolver) Cached() (Location, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil {
		return Location{}, false
	}
	return *r.cached, true
}

// resolveLocked walks the provider list. Caller holds r.mu.
func (r *Resolver) resolveLocked(ctx context.Context) Location {
	for _, p := range r.providers {
		if err := r.limiter.Wait(ctx); err != nil {
			log.Printf("geo: rate limiter interrupted: %v", err)
			break
		}

		loc, err := r.probe(ctx, p)
		if err != nil {
			log.Printf("geo: provider %s failed: %v", p.Name, err)
			continue
		}
		if !usable(loc) {
			log.Printf("geo: provider %s returned no usable fields", p.Name)
			continue
		}
		return finalize(loc)
	}

	// Total failure: the null location is the documented answer.
	return Location{}
}

// probe queries one provider with a bounded timeout.
func (r *Resolver) probe(ctx context.Context, p Provider) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, ProviderTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "rugrat/0.1")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Location{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, &ProviderError{Provider: p.Name, Status: resp.StatusCode}
	}

	return p.Parse(body), nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ProviderError reports a non-200 response from a geolocation provider.
type ProviderError struct {
	Provider string
	Status   int
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return "geolocation provider " + e.Provider + " returned HTTP " + itoa(e.Status)
}

// itoa formats a small positive integer without importing fmt.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
