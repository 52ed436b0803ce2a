// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/havenlabs/haven-tui/internal/sources"
	"github.com/havenlabs/haven-tui/internal/ui/components"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
	"github.com/havenlabs/haven-tui/internal/util"
)

// View renders the two panes side by side, the status bar, and any open
// floating surfaces spliced on top.
func (m *Model) View() string {
	if m.width == 0 {
		return "starting haven..."
	}

	paneHeight := m.height - statusBarRows
	chatHeight := paneHeight - m.sourcesPanelRows()
	chatView := lipgloss.NewStyle().
		Width(m.chatWidth()).
		Height(chatHeight).
		MaxHeight(chatHeight).
		Render(m.chat.View())
	chatCol := chatView
	if panel := m.sourcesPanel(); panel != "" {
		chatCol = lipgloss.JoinVertical(lipgloss.Left, chatView, lipgloss.NewStyle().
			Width(m.chatWidth()).
			MaxWidth(m.chatWidth()).
			Render(panel))
	}
	editorView := lipgloss.NewStyle().
		Width(m.width - m.chatWidth()).
		Height(paneHeight).
		MaxHeight(paneHeight).
		Render(m.editor.View())

	frame := lipgloss.JoinHorizontal(lipgloss.Top, chatCol, editorView)
	frame = lipgloss.JoinVertical(lipgloss.Left, frame, m.statusBar())

	for _, ov := range m.editor.Overlays() {
		frame = components.SpliceOverlay(frame, ov.View, ov.X, ov.Y)
	}
	if m.welcome {
		frame = m.spliceWelcome(frame)
	}
	return frame
}

// statusBar renders shortcuts on the left and connector status on the
// right.
func (m *Model) statusBar() string {
	shortcuts := []struct{ key, desc string }{
		{"tab", "focus"},
		{"ctrl+s", "save"},
		{"ctrl+t", "toolbar"},
		{"ctrl+k", "link"},
		{"ctrl+y/r", "resolve"},
		{"ctrl+c", "quit"},
	}
	var left []string
	for _, s := range shortcuts {
		left = append(left, m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}

	var rightStr string
	if m.offline {
		rightStr = m.theme.WarningStyle.Render(styles.StatusIndicators.Warning + " offline")
	}

	leftStr := strings.Join(left, "  ")
	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
		rightStr = ""
	}
	return m.theme.StatusBar.Width(m.width).Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}

// sourcesPanel lists the enabled connectors and their sync state under
// the chat pane.
func (m *Model) sourcesPanel() string {
	list := m.registry.Enabled()
	if len(list) == 0 {
		return ""
	}

	nameWidth := 0
	for _, s := range list {
		if w := util.StringWidth(s.Name); w > nameWidth {
			nameWidth = w
		}
	}

	rows := []string{m.theme.SurfaceGroupLabel.Render("Sources")}
	for _, s := range list {
		rows = append(rows, " "+util.PadWidth(s.Name, nameWidth)+" "+sourceIndicator(s.Status)+
			" "+m.theme.ShortcutDesc.Render(syncDetail(s)))
	}
	return strings.Join(rows, "\n")
}

// sourcesPanelRows is the height the connector panel takes from the chat
// pane: a header line plus one row per enabled connector. The enabled set
// is fixed at startup, so the layout never shifts at runtime.
func (m *Model) sourcesPanelRows() int {
	n := len(m.registry.Enabled())
	if n == 0 {
		return 0
	}
	return n + 1
}

// syncDetail summarizes a connector's last sync for the panel row.
func syncDetail(s sources.Source) string {
	switch s.Status {
	case sources.StatusError:
		return util.TruncateRunes(s.LastError, 28)
	case sources.StatusConnected:
		if s.LastSynced.IsZero() {
			return "not synced yet"
		}
		return "synced " + sinceLabel(time.Since(s.LastSynced))
	}
	return "off"
}

// sinceLabel renders an elapsed duration as a compact age.
func sinceLabel(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// sourceIndicator maps a connector status to its ASCII marker.
func sourceIndicator(s sources.Status) string {
	switch s {
	case sources.StatusConnected:
		return styles.StatusIndicators.Success
	case sources.StatusError:
		return styles.StatusIndicators.Error
	}
	return styles.StatusIndicators.Pending
}

// spliceWelcome centers the first-run welcome box over the frame.
func (m *Model) spliceWelcome(frame string) string {
	content := m.theme.HeaderTitle.Render("Welcome to haven") + "\n\n" +
		m.theme.ShortcutDesc.Render("Write on the right, ask on the left.") + "\n" +
		m.theme.ShortcutDesc.Render("Type / for commands, @ to mention.") + "\n\n" +
		m.theme.SurfaceHint.Render("press any key")
	box := m.theme.PopoverBox.Render(content)

	x := (m.width - lipgloss.Width(box)) / 2
	y := (m.height - lipgloss.Height(box)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return components.SpliceOverlay(frame, box, x, y)
}
