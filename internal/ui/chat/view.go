// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/havenlabs/haven-tui/internal/ui/styles"
)

// View renders the conversation, status line, and input.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("haven"))
	b.WriteString("\n\n")

	for _, msg := range m.messages {
		b.WriteString(m.renderMessage(msg.Role, msg.Content))
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString(m.theme.SurfaceHint.Render("thinking..."))
		b.WriteString("\n")
	}
	if m.lastErr != nil {
		b.WriteString(m.theme.ErrorStyle.Render(styles.StatusIndicators.Error + " " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.InputContainer.Width(max(m.width-2, 0)).Render(m.input.View()))

	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}

// renderMessage renders one bubble. Assistant replies go through the
// markdown renderer; user lines stay verbatim.
func (m Model) renderMessage(role, content string) string {
	bubbleWidth := max(m.width-4, 20)

	if role == "user" {
		return m.theme.UserBubble.MaxWidth(bubbleWidth).Render(content)
	}

	rendered := content
	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			rendered = strings.TrimRight(out, "\n")
		}
	}
	return m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(rendered)
}
