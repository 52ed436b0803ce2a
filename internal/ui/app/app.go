// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app composes the haven TUI: the chat pane, the editor pane,
// and the floating surfaces spliced over both.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/annotation"
	"github.com/havenlabs/haven-tui/internal/api"
	"github.com/havenlabs/haven-tui/internal/config"
	"github.com/havenlabs/haven-tui/internal/overlay"
	"github.com/havenlabs/haven-tui/internal/pages"
	"github.com/havenlabs/haven-tui/internal/sources"
	"github.com/havenlabs/haven-tui/internal/ui/chat"
	"github.com/havenlabs/haven-tui/internal/ui/components"
	"github.com/havenlabs/haven-tui/internal/ui/editor"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// NoteChangedMsg reports a local note change from the files watcher. The
// watcher runs off the event loop; main feeds these in via Program.Send.
type NoteChangedMsg struct {
	Path string
}

// healthMsg carries the startup reachability probe result.
type healthMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// focusArea is which pane owns the keyboard.
type focusArea int

const (
	focusEditor focusArea = iota
	focusChat
)

// statusBarRows is the rows the shell reserves below the panes.
const statusBarRows = 1

// Model is the application shell. Used through a pointer: the editor's
// component callbacks reach back into shared state.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme

	coord *overlay.Coordinator
	mgr   *overlay.Manager
	bus   *annotation.Bus

	store    *pages.Store
	client   *api.Client
	registry *sources.Registry

	chat   chat.Model
	editor *editor.Model

	focus   focusArea
	width   int
	height  int
	welcome bool
	offline bool
}

// New creates the shell and wires the panes together.
func New(
	cfg *config.Config,
	store *pages.Store,
	client *api.Client,
	registry *sources.Registry,
) *Model {
	theme := styles.NewTheme()
	coord := overlay.NewCoordinator()
	mgr := overlay.NewManager()
	bus := annotation.NewBus()

	m := &Model{
		cfg:      cfg,
		theme:    theme,
		coord:    coord,
		mgr:      mgr,
		bus:      bus,
		store:    store,
		client:   client,
		registry: registry,
		welcome:  cfg.UI.ShowWelcome,
	}

	m.chat = chat.NewModel(theme, client, store, bus)
	m.editor = editor.NewModel(theme, cfg.Overlay, coord, mgr, store, client, bus)
	m.editor.SetCandidateSource(m.mentionCandidates)
	m.editor.SetNotesDir(cfg.Pages.NotesDir)
	return m
}

// Editor exposes the editor pane, for main to load the initial page.
func (m *Model) Editor() *editor.Model { return m.editor }

// Init starts the cursor blink and probes the assistant service.
func (m *Model) Init() tea.Cmd {
	client := m.client
	probe := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthMsg{Err: client.CheckReachable(ctx)}
	}
	return tea.Batch(m.editor.Focus(), probe)
}

// mentionCandidates builds the mention picker's candidate set: matching
// page titles from the store plus the enabled connectors.
func (m *Model) mentionCandidates(query string) []components.MentionRef {
	var refs []components.MentionRef

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if found, err := m.store.SearchTitles(ctx, query); err == nil {
		for _, p := range found {
			refs = append(refs, components.MentionRef{
				Kind:  components.MentionPage,
				ID:    p.ID,
				Title: p.Title,
			})
		}
	}

	for _, s := range m.registry.Enabled() {
		refs = append(refs, components.MentionRef{
			Kind:  components.MentionSource,
			ID:    s.ID,
			Title: s.Name,
		})
	}
	return refs
}
