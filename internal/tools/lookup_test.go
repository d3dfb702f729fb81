// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// EXCHANGE RATE TESTS
// =============================================================================

func TestExchangeRates_DefaultBase(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(`{
			"result": "success",
			"base_code": "XCD",
			"time_last_update_utc": "Mon, 01 Sep 2025 00:02:31 +0000",
			"rates": {"XCD": 1, "USD": 0.3704, "EUR": 0.34, "GBP": 0.29, "CAD": 0.51, "BBD": 0.74, "TTD": 2.51, "JMD": 58.1}
		}`))
	}))
	defer server.Close()

	e := &ExchangeRatesExecutor{BaseURL: server.URL}
	result, err := e.Execute(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if requestedPath != "/XCD" {
		t.Errorf("path = %q, want /XCD", requestedPath)
	}
	if !strings.Contains(result.Output, "USD: 0.3704") {
		t.Errorf("output missing USD rate:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "Exchange rates for 1 XCD") {
		t.Errorf("output missing header:\n%s", result.Output)
	}
}

func TestExchangeRates_SymbolSubsetAndMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "success", "base_code": "USD", "rates": {"EUR": 0.92}}`))
	}))
	defer server.Close()

	e := &ExchangeRatesExecutor{BaseURL: server.URL}
	result, _ := e.Execute(context.Background(), map[string]interface{}{
		"base":    "usd",
		"symbols": []interface{}{"eur", "ZZZ"},
	})

	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if !strings.Contains(result.Output, "EUR: 0.9200") {
		t.Errorf("output missing EUR:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "No rate available for: ZZZ") {
		t.Errorf("output missing unknown-symbol note:\n%s", result.Output)
	}
}

func TestExchangeRates_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "error", "error-type": "unsupported-code"}`))
	}))
	defer server.Close()

	e := &ExchangeRatesExecutor{BaseURL: server.URL}
	result, _ := e.Execute(context.Background(), map[string]interface{}{"base": "XXX"})
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "unsupported-code") {
		t.Errorf("error = %q", result.Error)
	}
}

// =============================================================================
// NEWS TESTS
// =============================================================================

func TestNews_ParsesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "ponzi scheme Grenada" {
			t.Errorf("query = %q", got)
		}
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel>
<item><title>Regulator warns of ponzi scheme</title><link>https://example.com/a</link><pubDate>Mon, 01 Sep 2025 10:00:00 GMT</pubDate><source url="https://example.com">Example News</source></item>
<item><title>Second headline</title><link>https://example.com/b</link></item>
<item><title>Third headline</title><link>https://example.com/c</link></item>
</channel></rss>`))
	}))
	defer server.Close()

	e := &NewsExecutor{BaseURL: server.URL}
	result, _ := e.Execute(context.Background(), map[string]interface{}{
		"query":       "ponzi scheme Grenada",
		"max_results": float64(2),
	})

	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.MatchCount != 2 {
		t.Errorf("match count = %d, want 2 (max_results cap)", result.MatchCount)
	}
	if !strings.Contains(result.Output, "Regulator warns of ponzi scheme") {
		t.Errorf("output missing headline:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "Source: Example News") {
		t.Errorf("output missing source:\n%s", result.Output)
	}
	if strings.Contains(result.Output, "Third headline") {
		t.Error("max_results cap not applied")
	}
}

func TestNews_RequiresQuery(t *testing.T) {
	e := &NewsExecutor{}
	result, _ := e.Execute(context.Background(), map[string]interface{}{})
	if result.Success {
		t.Fatal("expected failure without query")
	}
}

// =============================================================================
// WIKI TESTS
// =============================================================================

func TestWikiSummary_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Eastern_Caribbean_Central_Bank" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"title": "Eastern Caribbean Central Bank",
			"description": "Central bank",
			"extract": "The ECCB issues the Eastern Caribbean dollar.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Eastern_Caribbean_Central_Bank"}}
		}`))
	}))
	defer server.Close()

	e := &WikiSummaryExecutor{BaseURL: server.URL}
	result, _ := e.Execute(context.Background(), map[string]interface{}{
		"title": "Eastern Caribbean Central Bank",
	})

	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if !strings.Contains(result.Output, "The ECCB issues the Eastern Caribbean dollar.") {
		t.Errorf("output missing extract:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "Source: https://en.wikipedia.org/wiki/") {
		t.Errorf("output missing source URL:\n%s", result.Output)
	}
}

func TestWikiSummary_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := &WikiSummaryExecutor{BaseURL: server.URL}
	result, _ := e.Execute(context.Background(), map[string]interface{}{"title": "Xyzzy"})
	if result.Success {
		t.Fatal("expected failure for missing article")
	}
	if !strings.Contains(result.Error, "no article found") {
		t.Errorf("error = %q", result.Error)
	}
}

// =============================================================================
// DUCKDUCKGO PARSING TESTS
// =============================================================================

func TestDuckDuckGo_ParseHTML(t *testing.T) {
	page := `
<div class="result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Feccb-centralbank.org%2F&amp;rut=abc">ECCB <b>Official</b> Site</a>
  </h2>
  <a class="result__snippet" href="#">The Eastern Caribbean Central Bank &amp; its mandate.</a>
</div>`

	e := &DuckDuckGoSearchExecutor{}
	results := e.parseHTML(page)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].URL != "https://eccb-centralbank.org/" {
		t.Errorf("url = %q", results[0].URL)
	}
	if results[0].Title != "ECCB Official Site" {
		t.Errorf("title = %q", results[0].Title)
	}
	if results[0].Snippet != "The Eastern Caribbean Central Bank & its mandate." {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestDuckDuckGo_RequiresQuery(t *testing.T) {
	e := &DuckDuckGoSearchExecutor{}
	result, _ := e.Execute(context.Background(), map[string]interface{}{})
	if result.Success {
		t.Fatal("expected failure without query")
	}
}
