// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the biolink server and its
// maintenance commands.
package main

import (
	"log/slog"
	"os"

	"biolink/internal/cli"
)

func main() {
	// Structured logger: JSON in production, text elsewhere.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if os.Getenv("APP_ENV") == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	if err := cli.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
