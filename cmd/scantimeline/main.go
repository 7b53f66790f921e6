// Package main is the entry point for the scantimeline status page server
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"scantimeline/internal/config"
	"scantimeline/internal/fixtures"
	"scantimeline/internal/logging"
	"scantimeline/internal/server"
	"scantimeline/internal/telemetry"
	"scantimeline/internal/version"
)

const usage = `usage: scantimeline [command]

commands:
  serve        serve the status page (default)
  render <pk>  print the timeline cell of one status with its chart
  version      print build information
`

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded: %v", err)
	}

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "version", "--version", "-version":
		fmt.Fprintln(stdout, version.Get())
		return 0
	case "render":
		if len(args) != 2 {
			fmt.Fprint(stderr, usage)
			return 2
		}
	case "serve":
	default:
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logging.SetDebug(cfg.Debug)
	if err := logging.Initialize(cfg.LogDir); err != nil {
		logging.Warning("Failed to initialize file logging: %v", err)
	}
	defer logging.Close() //nolint:errcheck

	statuses, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load statuses: %v\n", err)
		return 1
	}

	srv, err := server.New(cfg, statuses)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create server: %v\n", err)
		return 1
	}

	if command == "render" {
		cell, err := srv.RenderTimeline(context.Background(), args[1])
		if err != nil {
			fmt.Fprintf(stderr, "Failed to render timeline: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, cell)
		return 0
	}

	logging.Info("Configuration: %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.InitializeFromEnv(ctx, version.Get().Version)
	if err != nil {
		logging.Warning("Failed to initialize telemetry: %v", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logging.Error("Error shutting down telemetry: %v", err)
			}
		}()
	}

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}
