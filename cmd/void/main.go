package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nerves/internal/client"
	"nerves/internal/search"
	"nerves/internal/session"
	"nerves/internal/tui"
)

var (
	buildVersion string
	buildCommit  string
)

func main() {
	printBuildInfo()

	baseURL := os.Getenv("NERVES_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// The terminal owns the screen, so logs go to a file or nowhere.
	logger := newFileLogger(os.Getenv("NERVES_LOG_FILE"))

	api := client.New(client.Config{
		BaseURL: baseURL,
		// A token from a previous run restores the session on startup.
		AccessToken: os.Getenv("NERVES_ACCESS_TOKEN"),
	}, logger)

	app := tui.New(api, session.NewStore(), search.NewEngine())

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "void:", err)
		os.Exit(1)
	}
}

func newFileLogger(path string) *slog.Logger {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return slog.New(slog.NewJSONHandler(file, nil))
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("The Void %s (%s)\n", buildVersion, buildCommit)
}
