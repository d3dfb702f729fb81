// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// rates.go implements an exchange rate lookup tool backed by the free
// open.er-api.com endpoint. The default base is XCD, the currency of
// the Eastern Caribbean Currency Union.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// EXCHANGE RATE EXECUTOR
// =============================================================================

// ExchangeRatesExecutor fetches currency exchange rates.
type ExchangeRatesExecutor struct {
	// BaseURL is the rates API endpoint (default: https://open.er-api.com/v6/latest)
	BaseURL string

	// Timeout is the maximum time for the request (default: 10s)
	Timeout time.Duration
}

// ratesResponse is the open.er-api.com response shape.
type ratesResponse struct {
	Result         string             `json:"result"`
	BaseCode       string             `json:"base_code"`
	TimeLastUpdate string             `json:"time_last_update_utc"`
	Rates          map[string]float64 `json:"rates"`
	ErrorType      string             `json:"error-type"`
}

// defaultRateSymbols are shown when the caller does not name specific
// currencies. USD first: XCD is pegged to it at 2.70.
var defaultRateSymbols = []string{"USD", "EUR", "GBP", "CAD", "BBD", "TTD", "JMD"}

// Execute fetches the latest exchange rates for the requested base currency.
func (e *ExchangeRatesExecutor) Execute(ctx context.Context, params map[string]interface{}) (Result, error) {
	if e.BaseURL == "" {
		e.BaseURL = "https://open.er-api.com/v6/latest"
	}
	if e.Timeout == 0 {
		e.Timeout = 10 * time.Second
	}

	base := strings.ToUpper(strings.TrimSpace(getStringParam(params, "base", "XCD")))
	if base == "" {
		base = "XCD"
	}

	symbols := parseSymbols(params)

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", e.BaseURL+"/"+base, nil)
	if err != nil {
		return Result{Success: false, Error: err.Error()}, nil
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Success: false, Error: "rate lookup failed: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return Result{Success: false, Error: "rate lookup failed: " + err.Error()}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return Result{
			Success: false,
			Error:   fmt.Sprintf("rate lookup failed: HTTP %d", resp.StatusCode),
		}, nil
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{Success: false, Error: "rate lookup failed: " + err.Error()}, nil
	}
	if parsed.Result != "success" {
		msg := parsed.ErrorType
		if msg == "" {
			msg = "unknown error"
		}
		return Result{Success: false, Error: "rate lookup failed: " + msg}, nil
	}

	return Result{
		Success:    true,
		Output:     formatRates(parsed, symbols),
		MatchCount: len(symbols),
	}, nil
}

// parseSymbols extracts the requested currency codes, falling back to
// the default basket.
func parseSymbols(params map[string]interface{}) []string {
	raw, ok := params["symbols"].([]interface{})
	if !ok || len(raw) == 0 {
		return defaultRateSymbols
	}

	symbols := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	if len(symbols) == 0 {
		return defaultRateSymbols
	}
	return symbols
}

// formatRates renders the requested subset of rates as readable text.
func formatRates(parsed ratesResponse, symbols []string) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Exchange rates for 1 %s", parsed.BaseCode))
	if parsed.TimeLastUpdate != "" {
		output.WriteString(" (updated " + parsed.TimeLastUpdate + ")")
	}
	output.WriteString("\n\n")

	var missing []string
	for _, symbol := range symbols {
		rate, ok := parsed.Rates[symbol]
		if !ok {
			missing = append(missing, symbol)
			continue
		}
		output.WriteString(fmt.Sprintf("  %s: %.4f\n", symbol, rate))
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		output.WriteString("\nNo rate available for: " + strings.Join(missing, ", ") + "\n")
	}

	return output.String()
}

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// ExchangeRatesTool fetches currency exchange rates.
var ExchangeRatesTool = &Tool{
	Name:             "exchange_rates",
	ShortDescription: "Get current exchange rates for a currency. Default base is XCD (Eastern Caribbean dollar).",
	Description: `Fetch current currency exchange rates.

USE THIS TOOL WHEN:
- The user asks what their money is worth in another currency
- You need to convert an amount between XCD, USD, or any other currency
- The user asks about remittances or sending money abroad

The base defaults to XCD. Note that XCD is pegged to USD at 2.70 XCD per USD.`,
	Schema: Schema{
		Parameters: []Parameter{
			{
				Name:        "base",
				Type:        "string",
				Required:    false,
				Description: "Three-letter base currency code. Default: XCD",
				Default:     "XCD",
			},
			{
				Name:        "symbols",
				Type:        "array",
				Required:    false,
				Description: "Currency codes to show rates for. Defaults to a basket of currencies relevant to the Caribbean.",
			},
		},
	},
	Executor: &ExchangeRatesExecutor{},
}
