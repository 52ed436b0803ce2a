// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/havenlabs/haven-tui/internal/overlay"
	"github.com/havenlabs/haven-tui/internal/surface"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
)

// =============================================================================
// ANCHORED TOOLBARS
// =============================================================================

// ToolbarAction is one button on an anchored toolbar.
type ToolbarAction struct {
	ID    string
	Label string
}

// SelectionActions is the formatting toolbar shown above a text selection.
func SelectionActions() []ToolbarAction {
	return []ToolbarAction{
		{ID: "bold", Label: "Bold"},
		{ID: "italic", Label: "Italic"},
		{ID: "code", Label: "Code"},
		{ID: "link", Label: "Link"},
		{ID: "ask", Label: "Ask haven"},
	}
}

// TableActions is the row/column toolbar shown inside a table.
func TableActions() []ToolbarAction {
	return []ToolbarAction{
		{ID: "row-above", Label: "+Row above"},
		{ID: "row-below", Label: "+Row below"},
		{ID: "col-left", Label: "+Col left"},
		{ID: "col-right", Label: "+Col right"},
		{ID: "delete-row", Label: "Del row"},
		{ID: "delete-col", Label: "Del col"},
	}
}

// Toolbar is a horizontal button strip anchored to a selection rectangle.
// The selection and table toolbars are both instances of this type with
// different action sets; left/right navigation reuses the surface
// controller's clamped (non-wrapping) movement.
type Toolbar struct {
	theme *styles.Theme
	ctrl  *surface.Controller[ToolbarAction]
	mgr   *overlay.Manager

	handle   *overlay.Handle
	req      overlay.Request
	viewport overlay.Size

	clickID  overlay.HandleID
	escapeID overlay.HandleID
}

// NewToolbar creates a closed toolbar over the given actions. onRun
// receives the committed action.
func NewToolbar(theme *styles.Theme, coord *overlay.Coordinator, mgr *overlay.Manager, actions []ToolbarAction, onRun func(ToolbarAction)) *Toolbar {
	t := &Toolbar{theme: theme, mgr: mgr}

	items := make([]surface.Item[ToolbarAction], len(actions))
	for i, a := range actions {
		items[i] = surface.Item[ToolbarAction]{
			Key:        a.ID,
			Label:      a.Label,
			Selectable: true,
			Value:      a,
		}
	}

	t.ctrl = surface.New(surface.Config[ToolbarAction]{
		Items: items,
		OnSelect: func(it surface.Item[ToolbarAction]) {
			t.closeHandle()
			if onRun != nil {
				onRun(it.Value)
			}
		},
		OnClose: func() { t.closeHandle() },
	})

	t.clickID = coord.RegisterClickOutside(
		func() []overlay.Region { return []overlay.Region{t.Region()} },
		t.Close,
		t.IsOpen,
	)
	t.escapeID = coord.RegisterEscape(t.Close, t.IsOpen)
	return t
}

// NewSelectionToolbar creates the formatting toolbar.
func NewSelectionToolbar(theme *styles.Theme, coord *overlay.Coordinator, mgr *overlay.Manager, onRun func(ToolbarAction)) *Toolbar {
	return NewToolbar(theme, coord, mgr, SelectionActions(), onRun)
}

// NewTableToolbar creates the table row/column toolbar.
func NewTableToolbar(theme *styles.Theme, coord *overlay.Coordinator, mgr *overlay.Manager, onRun func(ToolbarAction)) *Toolbar {
	return NewToolbar(theme, coord, mgr, TableActions(), onRun)
}

// IsOpen reports whether the toolbar is showing.
func (t *Toolbar) IsOpen() bool { return t.ctrl.IsOpen() }

// Open shows the toolbar positioned by req against the viewport. The
// request anchor is the selection's bounding rectangle.
func (t *Toolbar) Open(req overlay.Request, viewport overlay.Size) error {
	t.ctrl.Open("")
	t.handle = t.mgr.Open(req.Anchor)
	t.req = req
	t.viewport = viewport
	return t.reposition()
}

// SetAnchor re-anchors the open toolbar, for selection changes that keep
// it open.
func (t *Toolbar) SetAnchor(a overlay.Anchor) error {
	if !t.IsOpen() {
		return nil
	}
	t.req.Anchor = a
	t.handle.SetAnchor(a)
	return t.reposition()
}

// Resize re-solves placement for a new viewport while open.
func (t *Toolbar) Resize(viewport overlay.Size) error {
	if !t.IsOpen() {
		return nil
	}
	t.viewport = viewport
	return t.reposition()
}

// MoveLeft and MoveRight move the button highlight without wrapping.
func (t *Toolbar) MoveLeft()  { t.ctrl.MoveUp() }
func (t *Toolbar) MoveRight() { t.ctrl.MoveDown() }

// Commit runs the highlighted action and closes.
func (t *Toolbar) Commit() (ToolbarAction, bool) {
	it, ok := t.ctrl.Commit()
	return it.Value, ok
}

// ClickAt commits the button under a mouse press, if any.
func (t *Toolbar) ClickAt(x, y int) (ToolbarAction, bool) {
	region := t.Region()
	if !region.Contains(x, y) {
		return ToolbarAction{}, false
	}
	// Buttons are laid out horizontally; walk their rendered widths.
	col := x - region.X - 2
	offset := 0
	for i, item := range t.ctrl.Items() {
		w := lipgloss.Width(t.renderButton(item, false)) + 1
		if col >= offset && col < offset+w-1 {
			it, ok := t.ctrl.CommitIndex(i)
			return it.Value, ok
		}
		offset += w
	}
	return ToolbarAction{}, false
}

// Close dismisses the toolbar with no action.
func (t *Toolbar) Close() { t.ctrl.Cancel() }

// Region returns the rendered bounding box, used as the click boundary.
func (t *Toolbar) Region() overlay.Region {
	if !t.IsOpen() || t.handle == nil {
		return overlay.Region{}
	}
	view := t.View()
	r := t.handle.Placement()
	return overlay.Region{
		X:      r.X,
		Y:      r.Y,
		Width:  lipgloss.Width(view),
		Height: lipgloss.Height(view),
	}
}

// View renders the button strip.
func (t *Toolbar) View() string {
	if !t.IsOpen() {
		return ""
	}
	selected := t.ctrl.SelectedIndex()
	var buttons []string
	for i, item := range t.ctrl.Items() {
		buttons = append(buttons, t.renderButton(item, i == selected))
	}
	return t.theme.ToolbarBox.Render(strings.Join(buttons, " "))
}

// renderButton renders one button.
func (t *Toolbar) renderButton(item surface.Item[ToolbarAction], active bool) string {
	if active {
		return t.theme.ToolbarButtonActive.Render(item.Label)
	}
	return t.theme.ToolbarButton.Render(item.Label)
}

// reposition re-solves placement for the current content size.
func (t *Toolbar) reposition() error {
	view := t.View()
	size := overlay.Size{Width: lipgloss.Width(view), Height: lipgloss.Height(view)}
	resolved, err := overlay.Solve(t.req, size, t.viewport)
	if err != nil {
		return err
	}
	t.handle.SetPlacement(resolved)
	return nil
}

// closeHandle tears down overlay state after the controller closes.
func (t *Toolbar) closeHandle() {
	if t.handle != nil {
		t.handle.Close()
	}
}
