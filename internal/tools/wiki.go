// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// wiki.go implements an encyclopedia lookup tool backed by the
// Wikipedia REST summary endpoint.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// WIKIPEDIA SUMMARY EXECUTOR
// =============================================================================

// WikiSummaryExecutor fetches a Wikipedia article summary.
type WikiSummaryExecutor struct {
	// BaseURL is the summary endpoint (default: https://en.wikipedia.org/api/rest_v1/page/summary)
	BaseURL string

	// Timeout is the maximum time for the request (default: 10s)
	Timeout time.Duration
}

// wikiSummary is the subset of the REST summary response we read.
type wikiSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Execute fetches the summary for the given article title.
func (e *WikiSummaryExecutor) Execute(ctx context.Context, params map[string]interface{}) (Result, error) {
	if e.BaseURL == "" {
		e.BaseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	}
	if e.Timeout == 0 {
		e.Timeout = 10 * time.Second
	}

	title := strings.TrimSpace(getStringParam(params, "title", ""))
	if title == "" {
		return Result{
			Success: false,
			Error:   "title parameter is required",
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	// Wikipedia titles use underscores for spaces.
	slug := url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	req, err := http.NewRequestWithContext(ctx, "GET", e.BaseURL+"/"+slug, nil)
	if err != nil {
		return Result{Success: false, Error: err.Error()}, nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Success: false, Error: "wiki lookup failed: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{
			Success: false,
			Error:   "no article found for: " + title,
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{
			Success: false,
			Error:   fmt.Sprintf("wiki lookup failed: HTTP %d", resp.StatusCode),
		}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return Result{Success: false, Error: "wiki lookup failed: " + err.Error()}, nil
	}

	var summary wikiSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return Result{Success: false, Error: "wiki lookup failed: " + err.Error()}, nil
	}

	var output strings.Builder
	output.WriteString(summary.Title)
	if summary.Description != "" {
		output.WriteString(" - " + summary.Description)
	}
	output.WriteString("\n\n")
	output.WriteString(summary.Extract)
	if summary.ContentURLs.Desktop.Page != "" {
		output.WriteString("\n\nSource: " + summary.ContentURLs.Desktop.Page)
	}
	output.WriteString("\n")

	return Result{
		Success:    true,
		Output:     output.String(),
		MatchCount: 1,
	}, nil
}

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// WikiSummaryTool fetches encyclopedia summaries.
var WikiSummaryTool = &Tool{
	Name:             "wiki_summary",
	ShortDescription: "Get a Wikipedia summary of a topic. Use for definitions of financial terms and institutions.",
	Description: `Fetch a Wikipedia article summary.

USE THIS TOOL WHEN:
- The user asks what a financial term, institution, or concept means
- You need background on a bank, currency, or regulatory body
- A definition would ground your explanation in a citable source

Returns the article title, short description, lead extract, and URL.`,
	Schema: Schema{
		Parameters: []Parameter{
			{
				Name:        "title",
				Type:        "string",
				Required:    true,
				Description: "Article title to look up. Example: 'Eastern Caribbean Central Bank'",
			},
		},
	},
	Executor: &WikiSummaryExecutor{},
}
