// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// duckduckgo.go implements a DuckDuckGo HTML search tool for web search
// without API keys.
package tools

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jeranaias/rugrat-tui/internal/util"
)

// =============================================================================
// PERFORMANCE: Pre-compiled regex (compiled once at startup)
// =============================================================================

var (
	// DuckDuckGo HTML parsing patterns
	ddgTitleRegex   = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.+?)</a>`)
	ddgSnippetRegex = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.+?)</a>`)

	// HTML cleaning patterns
	ddgTagRegex        = regexp.MustCompile(`<[^>]*>`)
	ddgWhitespaceRegex = regexp.MustCompile(`\s+`)
)

// =============================================================================
// DUCKDUCKGO SEARCH EXECUTOR
// =============================================================================

// DuckDuckGoSearchExecutor implements web search using DuckDuckGo HTML.
type DuckDuckGoSearchExecutor struct {
	// BaseURL is the DuckDuckGo HTML search endpoint
	BaseURL string

	// MaxResults is the maximum number of results to return (default: 5, max: 10)
	MaxResults int

	// Timeout is the maximum time for the request (default: 15s)
	Timeout time.Duration

	// UserAgent is the User-Agent header to send
	UserAgent string
}

// SearchResult represents a single search result.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// Execute performs a DuckDuckGo search and returns formatted results.
func (e *DuckDuckGoSearchExecutor) Execute(ctx context.Context, params map[string]interface{}) (Result, error) {
	if e.BaseURL == "" {
		e.BaseURL = "https://html.duckduckgo.com/html/"
	}
	if e.MaxResults == 0 {
		e.MaxResults = 5
	}
	if e.Timeout == 0 {
		e.Timeout = 15 * time.Second
	}
	if e.UserAgent == "" {
		e.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}

	query := getStringParam(params, "query", "")
	maxResults := getIntParam(params, "max_results", e.MaxResults)

	if query == "" {
		return Result{
			Success: false,
			Error:   "query parameter is required",
		}, nil
	}

	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 10 {
		maxResults = 10
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	results, err := e.search(ctx, query)
	if err != nil {
		return Result{
			Success: false,
			Error:   "search failed: " + err.Error(),
		}, nil
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return Result{
		Success:    true,
		Output:     e.formatResults(query, results),
		MatchCount: len(results),
	}, nil
}

// search performs the actual DuckDuckGo search.
func (e *DuckDuckGoSearchExecutor) search(ctx context.Context, query string) ([]SearchResult, error) {
	searchURL := e.BaseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, err
	}

	// Note: Don't set Accept-Encoding - Go's http.Client handles gzip
	// transparently and a manual header breaks that.
	req.Header.Set("User-Agent", e.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")

	client := &http.Client{
		Timeout: e.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	// Limit to 5MB
	limitedReader := io.LimitReader(resp.Body, 5*1024*1024)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, err
	}

	return e.parseHTML(string(body)), nil
}

// parseHTML extracts search results from DuckDuckGo HTML.
func (e *DuckDuckGoSearchExecutor) parseHTML(page string) []SearchResult {
	var results []SearchResult

	titleMatches := ddgTitleRegex.FindAllStringSubmatch(page, 30)
	snippetMatches := ddgSnippetRegex.FindAllStringSubmatch(page, 30)

	for i, match := range titleMatches {
		if len(match) < 3 {
			continue
		}

		rawURL := strings.ReplaceAll(match[1], "&amp;", "&")
		title := strings.TrimSpace(cleanHTML(match[2]))

		// DuckDuckGo wraps result URLs in a redirect:
		// //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com
		actualURL := extractActualURL(rawURL)
		if actualURL == "" || title == "" {
			continue
		}

		snippet := ""
		if i < len(snippetMatches) && len(snippetMatches[i]) >= 2 {
			snippet = strings.TrimSpace(cleanHTML(snippetMatches[i][1]))
		}

		results = append(results, SearchResult{
			Title:   title,
			URL:     actualURL,
			Snippet: snippet,
		})

		if len(results) >= 20 {
			break
		}
	}

	return results
}

// extractActualURL extracts the real URL from DuckDuckGo's redirect wrapper.
func extractActualURL(ddgURL string) string {
	if strings.Contains(ddgURL, "uddg=") {
		if strings.HasPrefix(ddgURL, "//") {
			ddgURL = "https:" + ddgURL
		}
		parsed, err := url.Parse(ddgURL)
		if err != nil {
			return ""
		}
		if encodedURL := parsed.Query().Get("uddg"); encodedURL != "" {
			return encodedURL
		}
	}

	if strings.HasPrefix(ddgURL, "http://") || strings.HasPrefix(ddgURL, "https://") {
		return ddgURL
	}

	return ""
}

// cleanHTML removes HTML tags and decodes entities.
func cleanHTML(fragment string) string {
	text := ddgTagRegex.ReplaceAllString(fragment, "")
	text = html.UnescapeString(text)
	text = ddgWhitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// formatResults formats search results as readable text.
func (e *DuckDuckGoSearchExecutor) formatResults(query string, results []SearchResult) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Search results for: %s\n", query))
	output.WriteString(fmt.Sprintf("Found %d results\n\n", len(results)))

	if len(results) == 0 {
		output.WriteString("No results found.\n")
		return output.String()
	}

	for i, result := range results {
		output.WriteString(fmt.Sprintf("[%d] %s\n", i+1, result.Title))
		output.WriteString(fmt.Sprintf("    URL: %s\n", result.URL))

		if result.Snippet != "" {
			// UNICODE: Rune-aware truncation preserves multi-byte characters
			output.WriteString(fmt.Sprintf("    %s\n", util.TruncateRunes(result.Snippet, 300)))
		}

		output.WriteString("\n")
	}

	return output.String()
}

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// WebSearchTool performs web searches using DuckDuckGo.
var WebSearchTool = &Tool{
	Name:             "web_search",
	ShortDescription: "Search the web. Use for scam reports, bank fees, financial programs, and anything needing current facts.",
	Description: `Search the web using DuckDuckGo HTML search (free, no API key required).

USE THIS TOOL WHEN:
- The user asks about a scheme, company, or offer that may be a scam
- You need current facts about banks, fees, or government programs
- You need to verify any factual claim before repeating it

FEATURES:
- Returns titles, URLs, and snippets for each result
- Configurable number of results (1-10, default 5)
- 15 second timeout to ensure responsiveness`,
	Schema: Schema{
		Parameters: []Parameter{
			{
				Name:        "query",
				Type:        "string",
				Required:    true,
				Description: "The search query. Use natural language or keywords. Example: 'ECCB DCash pilot status'",
			},
			{
				Name:        "max_results",
				Type:        "integer",
				Required:    false,
				Description: "Maximum number of results to return (1-10). Default: 5",
				Default:     5,
			},
		},
	},
	Executor: &DuckDuckGoSearchExecutor{},
}
