// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/annotation"
	"github.com/havenlabs/haven-tui/internal/api"
)

// Update handles one message for the chat pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return m, m.send()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case ResponseMsg:
		m.waiting = false
		m.messages = append(m.messages, msg.Response.Message)
		m.announceProposals(msg.Response.Proposals)
		return m, nil

	case ErrMsg:
		m.waiting = false
		m.lastErr = msg.Err
		return m, nil
	}

	// Cursor blink and other component messages go to the input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// announceProposals records each edit proposal and publishes its
// highlight so the editor pane starts tracking it.
func (m *Model) announceProposals(proposals []api.EditProposal) {
	for _, p := range proposals {
		if m.store != nil {
			if _, err := m.store.RecordEdit(context.Background(), p.EditID, p.PageID, p.Text); err != nil {
				// Recording is best effort; the highlight still shows.
				m.lastErr = err
			}
		}
		m.bus.Publish(annotation.Event{
			Kind:   annotation.KindHighlight,
			PageID: p.PageID,
			EditID: p.EditID,
			Text:   p.Text,
		})
	}
}
