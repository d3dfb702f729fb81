// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// news.go implements a headline lookup tool backed by the Google News
// RSS search feed (free, no API key).
package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/rugrat-tui/internal/util"
)

// =============================================================================
// NEWS EXECUTOR
// =============================================================================

// NewsExecutor fetches news headlines matching a query.
type NewsExecutor struct {
	// BaseURL is the RSS search endpoint (default: https://news.google.com/rss/search)
	BaseURL string

	// MaxResults is the maximum number of headlines (default: 5, max: 10)
	MaxResults int

	// Timeout is the maximum time for the request (default: 15s)
	Timeout time.Duration
}

// rssFeed is the subset of the RSS 2.0 shape we read.
type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Source  string `xml:"source"`
}

// Execute fetches headlines for the given query.
func (e *NewsExecutor) Execute(ctx context.Context, params map[string]interface{}) (Result, error) {
	if e.BaseURL == "" {
		e.BaseURL = "https://news.google.com/rss/search"
	}
	if e.MaxResults == 0 {
		e.MaxResults = 5
	}
	if e.Timeout == 0 {
		e.Timeout = 15 * time.Second
	}

	query := getStringParam(params, "query", "")
	if query == "" {
		return Result{
			Success: false,
			Error:   "query parameter is required",
		}, nil
	}

	maxResults := getIntParam(params, "max_results", e.MaxResults)
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 10 {
		maxResults = 10
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	feedURL := e.BaseURL + "?q=" + url.QueryEscape(query) + "&hl=en-US&gl=US&ceid=US:en"

	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return Result{Success: false, Error: err.Error()}, nil
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Success: false, Error: "news lookup failed: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{
			Success: false,
			Error:   fmt.Sprintf("news lookup failed: HTTP %d", resp.StatusCode),
		}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return Result{Success: false, Error: "news lookup failed: " + err.Error()}, nil
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return Result{Success: false, Error: "news lookup failed: " + err.Error()}, nil
	}

	items := feed.Channel.Items
	if len(items) > maxResults {
		items = items[:maxResults]
	}

	return Result{
		Success:    true,
		Output:     formatHeadlines(query, items),
		MatchCount: len(items),
	}, nil
}

// formatHeadlines renders feed items as readable text.
func formatHeadlines(query string, items []rssItem) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("News headlines for: %s\n\n", query))

	if len(items) == 0 {
		output.WriteString("No recent headlines found.\n")
		return output.String()
	}

	for i, item := range items {
		// UNICODE: Rune-aware truncation preserves multi-byte characters
		output.WriteString(fmt.Sprintf("[%d] %s\n", i+1, util.TruncateRunes(item.Title, 200)))
		if item.Source != "" {
			output.WriteString("    Source: " + item.Source + "\n")
		}
		if item.PubDate != "" {
			output.WriteString("    Published: " + item.PubDate + "\n")
		}
		if item.Link != "" {
			output.WriteString("    URL: " + item.Link + "\n")
		}
		output.WriteString("\n")
	}

	return output.String()
}

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// NewsTool fetches recent news headlines.
var NewsTool = &Tool{
	Name:             "news_headlines",
	ShortDescription: "Get recent news headlines for a topic. Use for current events, fraud alerts, and economic news.",
	Description: `Fetch recent news headlines matching a search query.

USE THIS TOOL WHEN:
- The user asks about a current event or recent announcement
- You need to check for fraud alerts or scam warnings in the news
- The user asks about economic developments in their country

Returns headline, source, publication date, and URL for each item.`,
	Schema: Schema{
		Parameters: []Parameter{
			{
				Name:        "query",
				Type:        "string",
				Required:    true,
				Description: "Topic to search headlines for. Example: 'pyramid scheme Saint Lucia'",
			},
			{
				Name:        "max_results",
				Type:        "integer",
				Required:    false,
				Description: "Maximum number of headlines to return (1-10). Default: 5",
				Default:     5,
			},
		},
	},
	Executor: &NewsExecutor{},
}
