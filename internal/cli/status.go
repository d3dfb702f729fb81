// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Configuration and connectivity status for the rugrat CLI.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/rugrat-tui/internal/config"
	"github.com/jeranaias/rugrat-tui/internal/geo"
	"github.com/jeranaias/rugrat-tui/internal/model"
)

// geoStatusTimeout bounds the location probe for the status command.
const geoStatusTimeout = 5 * time.Second

// HandleStatus prints configuration, model, and location status.
func HandleStatus(args Args) error {
	cfg := config.Global()
	if args.Model != "" {
		cfg.Model = args.Model
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("rugrat status"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))

	path, err := config.ConfigPath()
	if err == nil {
		fmt.Printf("  %s %s\n", infoStyle.Render("Config:"), path)
	}

	fmt.Printf("  %s %s\n", infoStyle.Render("Model:"), commandStyle.Render(cfg.Model))
	if info, known := model.Lookup(cfg.Model); known {
		caps := []string{}
		if info.Vision {
			caps = append(caps, "vision")
		}
		if info.Tools {
			caps = append(caps, "tools")
		}
		if len(caps) > 0 {
			fmt.Printf("  %s %s\n", infoStyle.Render("Capabilities:"), strings.Join(caps, ", "))
		}
	}

	if cfg.API.OpenRouterKey == "" {
		fmt.Printf("  %s %s\n", infoStyle.Render("API key:"),
			warningStyle.Render("not configured (set OPENROUTER_API_KEY)"))
	} else {
		fmt.Printf("  %s %s\n", infoStyle.Render("API key:"), commandStyle.Render("configured"))
	}

	if cfg.Tools.Enabled {
		fmt.Printf("  %s %s\n", infoStyle.Render("Tools:"),
			commandStyle.Render(fmt.Sprintf("enabled (max %d rounds)", cfg.Tools.MaxToolRounds)))
	} else {
		fmt.Printf("  %s %s\n", infoStyle.Render("Tools:"), infoStyle.Render("disabled"))
	}

	printGeoStatus(cfg, args)

	fmt.Println()
	return nil
}

// printGeoStatus resolves and prints the current location.
func printGeoStatus(cfg *config.Config, args Args) {
	if args.NoGeo || !cfg.Geo.Enabled {
		fmt.Printf("  %s %s\n", infoStyle.Render("Location:"), infoStyle.Render("disabled"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), geoStatusTimeout)
	defer cancel()

	loc := geo.NewResolver().WithDebug(cfg.Debug).Resolve(ctx)
	if loc.IsUnknown() {
		fmt.Printf("  %s %s\n", infoStyle.Render("Location:"),
			warningStyle.Render("could not resolve"))
		return
	}

	badge := loc.Badge()
	if loc.IsECCU {
		badge += " (ECCU member)"
	}
	fmt.Printf("  %s %s\n", infoStyle.Render("Location:"), commandStyle.Render(badge))
}
