// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the assistant chat pane for the haven TUI.
//
// The pane is a plain conversation view: user lines, assistant replies
// rendered through glamour, and a one-line input. When a reply carries
// edit proposals they are recorded in the page store and announced on
// the annotation bus; the editor pane picks them up from there.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/annotation"
	"github.com/havenlabs/haven-tui/internal/api"
	"github.com/havenlabs/haven-tui/internal/pages"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ResponseMsg carries a completed assistant reply into the update loop.
type ResponseMsg struct {
	Response *api.ChatResponse
}

// ErrMsg carries a failed request into the update loop.
type ErrMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// PageContext is the page the conversation is about, supplied by the
// editor pane before each send.
type PageContext struct {
	ID   string
	Body string
}

// Model is the chat pane state.
type Model struct {
	theme  *styles.Theme
	client *api.Client
	store  *pages.Store
	bus    *annotation.Bus

	input    textinput.Model
	renderer *glamour.TermRenderer

	messages []api.Message
	page     PageContext
	waiting  bool
	lastErr  error

	width  int
	height int
}

// NewModel creates the chat pane.
func NewModel(theme *styles.Theme, client *api.Client, store *pages.Store, bus *annotation.Bus) Model {
	input := textinput.New()
	input.Placeholder = "Ask haven anything..."
	input.Prompt = "> "
	input.CharLimit = 2000

	// Rendering falls back to raw markdown when the renderer cannot be
	// built (rare, pipe-only terminals).
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)

	return Model{
		theme:    theme,
		client:   client,
		store:    store,
		bus:      bus,
		input:    input,
		renderer: renderer,
	}
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}

// SetPageContext records which page the conversation is about.
func (m *Model) SetPageContext(pc PageContext) {
	m.page = pc
}

// Focus gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the input has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Waiting reports whether a request is in flight.
func (m Model) Waiting() bool {
	return m.waiting
}

// Messages returns the conversation so far.
func (m Model) Messages() []api.Message {
	return m.messages
}

// SendPrompt submits a prepared prompt as if the user typed it. Used by
// editor actions like "Ask haven" and "Summarize page".
func (m *Model) SendPrompt(text string) tea.Cmd {
	if m.waiting {
		return nil
	}
	m.input.SetValue(text)
	return m.send()
}

// send builds the request command for the current input.
func (m *Model) send() tea.Cmd {
	content := m.input.Value()
	if content == "" || m.waiting {
		return nil
	}
	m.input.SetValue("")
	m.messages = append(m.messages, api.Message{Role: "user", Content: content})
	m.waiting = true
	m.lastErr = nil

	req := api.ChatRequest{
		Messages: append([]api.Message(nil), m.messages...),
		PageID:   m.page.ID,
		PageText: m.page.Body,
	}
	client := m.client

	return func() tea.Msg {
		resp, err := client.Chat(context.Background(), req)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ResponseMsg{Response: resp}
	}
}
