// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// haven is a terminal personal assistant: notes on the right, an
// assistant conversation on the left, floating surfaces in between.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/api"
	"github.com/havenlabs/haven-tui/internal/config"
	"github.com/havenlabs/haven-tui/internal/pages"
	"github.com/havenlabs/haven-tui/internal/sources"
	"github.com/havenlabs/haven-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("haven %s (%s, %s)\n", Version, GitCommit, BuildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("haven - terminal personal assistant")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  haven            start the interface")
	fmt.Println("  haven version    print version information")
	fmt.Println()
	fmt.Println("Configuration lives in ~/.haven/config.toml; HAVEN_* environment")
	fmt.Println("variables override it (HAVEN_API_URL, HAVEN_API_TOKEN, ...).")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client := api.NewClient(&api.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.API.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})

	registry, err := sources.NewRegistry(cfg.Sources.Enabled)
	if err != nil {
		return err
	}

	m := app.New(cfg, store, client, registry)
	if err := loadInitialPage(m, store); err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	// The files connector watches the notes directory off the event loop
	// and feeds changes back in through the program.
	if watcher := startNotesWatcher(cfg, p); watcher != nil {
		defer watcher.Close()
	}

	_, err = p.Run()
	return err
}

// openStore opens the page database at the configured or default path.
func openStore(cfg *config.Config) (*pages.Store, error) {
	path := cfg.Pages.DatabasePath
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "pages.db")
	}
	return pages.Open(path)
}

// loadInitialPage opens the most recently edited page, creating a first
// page on a fresh database.
func loadInitialPage(m *app.Model, store *pages.Store) error {
	ctx := context.Background()
	existing, err := store.ListPages(ctx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		page, err := store.GetPage(ctx, existing[0].ID)
		if err != nil {
			return err
		}
		m.Editor().SetPage(page)
		return nil
	}

	page, err := store.CreatePage(ctx, "Getting started", "")
	if err != nil {
		return err
	}
	m.Editor().SetPage(page)
	return nil
}

// startNotesWatcher starts the files-connector watcher when a notes
// directory is configured. Watcher failures are not fatal; the rest of
// the app works without local notes.
func startNotesWatcher(cfg *config.Config, p *tea.Program) *sources.NotesWatcher {
	if cfg.Pages.NotesDir == "" {
		return nil
	}

	watcher, err := sources.NewNotesWatcher(cfg.Pages.NotesDir, cfg.Sources.WatchDebounce(), func(path string) {
		p.Send(app.NoteChangedMsg{Path: path})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: notes watcher unavailable: %v\n", err)
		return nil
	}
	if err := watcher.Watch(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not watch %s: %v\n", cfg.Pages.NotesDir, err)
		watcher.Close()
		return nil
	}
	return watcher
}
