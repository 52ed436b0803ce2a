// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/havenlabs/haven-tui/internal/overlay"
	"github.com/havenlabs/haven-tui/internal/surface"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
	"github.com/havenlabs/haven-tui/internal/util"
)

// =============================================================================
// SLASH MENU
// =============================================================================

// SlashCommand is one entry in the editor's slash menu.
type SlashCommand struct {
	ID    string
	Title string
	Group string
}

// DefaultSlashCommands is the built-in editor command set, grouped the
// way the menu displays them.
func DefaultSlashCommands() []SlashCommand {
	return []SlashCommand{
		{ID: "heading1", Title: "Heading 1", Group: "Blocks"},
		{ID: "heading2", Title: "Heading 2", Group: "Blocks"},
		{ID: "bullet-list", Title: "Bullet list", Group: "Blocks"},
		{ID: "table", Title: "Table", Group: "Blocks"},
		{ID: "divider", Title: "Divider", Group: "Blocks"},
		{ID: "export", Title: "Export to notes", Group: "Page"},
		{ID: "ask", Title: "Ask haven", Group: "Assistant"},
		{ID: "summarize", Title: "Summarize page", Group: "Assistant"},
		{ID: "improve", Title: "Improve writing", Group: "Assistant"},
	}
}

// SlashMenu is the grouped, filterable command menu opened by typing "/"
// in the editor. It anchors at the cursor point and repositions on every
// filter change, since the list height shrinks with the match set.
type SlashMenu struct {
	theme *styles.Theme
	ctrl  *surface.Controller[SlashCommand]
	mgr   *overlay.Manager

	handle   *overlay.Handle
	req      overlay.Request
	viewport overlay.Size
	width    int

	clickID  overlay.HandleID
	escapeID overlay.HandleID
}

// NewSlashMenu creates a closed slash menu and registers its dismissal
// triggers with the coordinator. onRun receives the committed command.
func NewSlashMenu(theme *styles.Theme, coord *overlay.Coordinator, mgr *overlay.Manager, cmds []SlashCommand, onRun func(SlashCommand)) *SlashMenu {
	m := &SlashMenu{theme: theme, mgr: mgr, width: 28}

	items := make([]surface.Item[SlashCommand], len(cmds))
	for i, c := range cmds {
		items[i] = surface.Item[SlashCommand]{
			Key:        c.ID,
			Group:      c.Group,
			Label:      c.Title,
			Selectable: true,
			Value:      c,
		}
	}

	m.ctrl = surface.New(surface.Config[SlashCommand]{
		Items: items,
		Filter: func(q string, it surface.Item[SlashCommand]) bool {
			return FuzzyMatches(q, it.Label)
		},
		OnSelect: func(it surface.Item[SlashCommand]) {
			m.closeHandle()
			if onRun != nil {
				onRun(it.Value)
			}
		},
		OnClose: func() { m.closeHandle() },
	})

	m.clickID = coord.RegisterClickOutside(
		func() []overlay.Region { return []overlay.Region{m.Region()} },
		m.Close,
		m.IsOpen,
	)
	m.escapeID = coord.RegisterEscape(m.Close, m.IsOpen)
	return m
}

// IsOpen reports whether the menu is showing.
func (m *SlashMenu) IsOpen() bool { return m.ctrl.IsOpen() }

// Open shows the menu positioned by req against the viewport. The request
// anchor is the caret cell where "/" was typed.
func (m *SlashMenu) Open(req overlay.Request, viewport overlay.Size) error {
	m.ctrl.Open("")
	m.handle = m.mgr.Open(req.Anchor)
	m.req = req
	m.viewport = viewport
	return m.reposition()
}

// SetQuery updates the filter with the text typed after "/". The menu
// repositions because the box height follows the match count.
func (m *SlashMenu) SetQuery(q string) error {
	m.ctrl.SetQuery(q)
	if !m.IsOpen() {
		return nil
	}
	return m.reposition()
}

// Resize re-solves placement for a new viewport while open.
func (m *SlashMenu) Resize(viewport overlay.Size) error {
	if !m.IsOpen() {
		return nil
	}
	m.viewport = viewport
	return m.reposition()
}

// MoveUp and MoveDown move the keyboard highlight without wrapping.
func (m *SlashMenu) MoveUp()   { m.ctrl.MoveUp() }
func (m *SlashMenu) MoveDown() { m.ctrl.MoveDown() }

// Commit runs the highlighted command and closes the menu.
func (m *SlashMenu) Commit() (SlashCommand, bool) {
	it, ok := m.ctrl.Commit()
	return it.Value, ok
}

// ClickAt commits the command row under a mouse press, if any. The press
// coordinates are viewport cells.
func (m *SlashMenu) ClickAt(x, y int) (SlashCommand, bool) {
	region := m.Region()
	if !region.Contains(x, y) {
		return SlashCommand{}, false
	}
	// One border row plus the query line sit above the list.
	row := y - region.Y - 2
	idx, ok := listRowToIndex(m.ctrl.Groups(), row)
	if !ok {
		return SlashCommand{}, false
	}
	it, ok := m.ctrl.CommitIndex(idx)
	return it.Value, ok
}

// Close dismisses the menu with no selection.
func (m *SlashMenu) Close() { m.ctrl.Cancel() }

// Region returns the rendered bounding box, used as the click boundary.
func (m *SlashMenu) Region() overlay.Region {
	if !m.IsOpen() || m.handle == nil {
		return overlay.Region{}
	}
	view := m.View()
	r := m.handle.Placement()
	return overlay.Region{
		X:      r.X,
		Y:      r.Y,
		Width:  lipgloss.Width(view),
		Height: lipgloss.Height(view),
	}
}

// View renders the menu box: the query echo line, then the grouped list.
func (m *SlashMenu) View() string {
	if !m.IsOpen() {
		return ""
	}
	query := m.theme.SurfaceQuery.Render(util.TruncateWidth("/"+m.ctrl.Query(), m.width))
	list := renderGroupedList(m.theme, m.ctrl, defaultItemRenderer[SlashCommand](m.theme), m.width)
	return m.theme.SurfaceBox.Width(m.width + 2).Render(query + "\n" + list)
}

// reposition re-solves placement for the current content size.
func (m *SlashMenu) reposition() error {
	view := m.View()
	size := overlay.Size{Width: lipgloss.Width(view), Height: lipgloss.Height(view)}
	resolved, err := overlay.Solve(m.req, size, m.viewport)
	if err != nil {
		return err
	}
	m.handle.SetPlacement(resolved)
	return nil
}

// closeHandle tears down overlay state after the controller closes.
func (m *SlashMenu) closeHandle() {
	if m.handle != nil {
		m.handle.Close()
	}
}
