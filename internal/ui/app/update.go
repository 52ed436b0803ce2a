// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/ui/chat"
	"github.com/havenlabs/haven-tui/internal/ui/editor"
)

// Update routes events to the dismissal coordinator first, then to the
// focused pane.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case editor.AssistMsg:
		return m.handleAssist(msg)

	case chat.ResponseMsg, chat.ErrMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case healthMsg:
		m.offline = msg.Err != nil
		return m, nil

	case NoteChangedMsg:
		// Remote connectors sync server-side; the files connector syncs
		// here, on every debounced note change.
		m.registry.MarkSynced("files", time.Now())
		return m, nil
	}

	// Everything else (cursor blink, resolve results) goes to both panes.
	var cmds []tea.Cmd
	var chatCmd tea.Cmd
	m.chat, chatCmd = m.chat.Update(msg)
	cmds = append(cmds, chatCmd, m.editor.Update(msg))
	return m, tea.Batch(cmds...)
}

// resize lays the panes out for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	chatWidth := m.chatWidth()
	paneHeight := height - statusBarRows

	m.chat.SetSize(chatWidth, paneHeight-m.sourcesPanelRows())
	m.editor.SetSize(width-chatWidth, paneHeight)
	m.editor.SetOffset(chatWidth, 0)
	m.editor.SetViewport(width, height)
}

// chatWidth is the left pane's share of the terminal.
func (m *Model) chatWidth() int {
	w := m.width * 2 / 5
	if w < 30 {
		w = 30
	}
	if w > m.width-20 {
		w = m.width / 2
	}
	return w
}

// handleKey routes a key press. Escape goes to the coordinator before
// anything else; a fired dismissal swallows the key.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.welcome = false

	if fired := m.coord.HandleKey(msg); fired > 0 {
		return m, m.editor.Update(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		if m.focus == focusChat || !m.editor.OverlayOpen() {
			return m, m.toggleFocus()
		}
	}

	if m.focus == focusChat {
		m.syncPageContext()
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
	return m, m.editor.Update(msg)
}

// handleMouse routes a mouse event: coordinator dismissals first, then
// overlay clicks, then pane focus.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.welcome = false
	m.coord.HandleMouse(msg)

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if consumed, cmd := m.editor.ClickAt(msg.X, msg.Y); consumed {
		return m, cmd
	}

	want := focusEditor
	if msg.X < m.chatWidth() {
		want = focusChat
	}
	if want != m.focus {
		return m, m.toggleFocus()
	}
	return m, nil
}

// handleAssist hands an editor-raised prompt to the chat pane.
func (m *Model) handleAssist(msg editor.AssistMsg) (tea.Model, tea.Cmd) {
	m.syncPageContext()

	var cmds []tea.Cmd
	if m.focus != focusChat {
		cmds = append(cmds, m.toggleFocus())
	}
	if msg.Prompt != "" {
		cmds = append(cmds, m.chat.SendPrompt(msg.Prompt))
	}
	return m, tea.Batch(cmds...)
}

// toggleFocus moves keyboard focus between the panes.
func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusEditor {
		m.focus = focusChat
		m.editor.Blur()
		return m.chat.Focus()
	}
	m.focus = focusEditor
	m.chat.Blur()
	return m.editor.Focus()
}

// syncPageContext keeps the chat pane's page context current with the
// editor buffer.
func (m *Model) syncPageContext() {
	if page := m.editor.Page(); page != nil {
		m.chat.SetPageContext(chat.PageContext{ID: page.ID, Body: m.editor.Body()})
	}
}
