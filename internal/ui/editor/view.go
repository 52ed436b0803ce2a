// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/havenlabs/haven-tui/internal/ui/styles"
	"github.com/havenlabs/haven-tui/internal/util"
)

// Positioned is one floating surface view with its viewport placement,
// for the app compositor to splice over the base frame.
type Positioned struct {
	View string
	X    int
	Y    int
}

// View renders the pane body: title, textarea, pending proposals, status.
// Floating surfaces are not part of this string; the app splices them
// from Overlays.
func (m *Model) View() string {
	var b strings.Builder

	title := "untitled"
	if m.page != nil {
		title = m.page.Title
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(m.theme.EditorTitle.Render(util.TruncateWidth(title, m.width-2)))
	b.WriteString("\n\n")

	b.WriteString(m.textarea.View())
	b.WriteString("\n")

	if pending := m.pendingSection(); pending != "" {
		b.WriteString(pending)
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.theme.InfoStyle.Render(styles.StatusIndicators.Info + " " + m.status))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}

// pendingSection lists unresolved proposals for the loaded page.
func (m *Model) pendingSection() string {
	if m.page == nil {
		return ""
	}
	pend := m.tracker.PendingFor(m.page.ID)
	if len(pend) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range pend {
		if i > 0 {
			b.WriteString("\n")
		}
		line := styles.StatusIndicators.Pending + " " + p.Text
		b.WriteString(m.theme.PendingProposal.Render(util.TruncateWidth(line, m.width-2)))
	}
	hint := m.theme.SurfaceHint.Render("ctrl+y accepts, ctrl+r rejects")
	return b.String() + "\n" + hint
}

// Overlays returns the open floating surfaces with their placements,
// topmost last.
func (m *Model) Overlays() []Positioned {
	var out []Positioned
	add := func(view string, open bool, x, y int) {
		if open && view != "" {
			out = append(out, Positioned{View: view, X: x, Y: y})
		}
	}
	if r := m.slash.Region(); m.slash.IsOpen() {
		add(m.slash.View(), true, r.X, r.Y)
	}
	if r := m.mention.Region(); m.mention.IsOpen() {
		add(m.mention.View(), true, r.X, r.Y)
	}
	if r := m.selbar.Region(); m.selbar.IsOpen() {
		add(m.selbar.View(), true, r.X, r.Y)
	}
	if r := m.tablebar.Region(); m.tablebar.IsOpen() {
		add(m.tablebar.View(), true, r.X, r.Y)
	}
	if r := m.link.Region(); m.link.IsOpen() {
		add(m.link.View(), true, r.X, r.Y)
	}
	return out
}
