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
// MENTION PICKER
// =============================================================================

// MentionKind categorizes a mention target.
type MentionKind string

const (
	MentionPage   MentionKind = "page"
	MentionPerson MentionKind = "person"
	MentionSource MentionKind = "source"
)

// MentionRef is one insertable mention: a page, a person, or a connected
// data source.
type MentionRef struct {
	Kind  MentionKind
	ID    string
	Title string
}

// groupName maps a mention kind to its display group.
func (k MentionKind) groupName() string {
	switch k {
	case MentionPage:
		return "Pages"
	case MentionPerson:
		return "People"
	case MentionSource:
		return "Sources"
	}
	return "Other"
}

// MentionPicker is the multi-select entity picker opened by "@" in the
// editor. Activation toggles membership instead of committing; an
// explicit confirm inserts the whole chosen set at once.
type MentionPicker struct {
	theme *styles.Theme
	multi *surface.MultiSelect[MentionRef]
	mgr   *overlay.Manager

	handle   *overlay.Handle
	req      overlay.Request
	viewport overlay.Size
	width    int

	clickID  overlay.HandleID
	escapeID overlay.HandleID
}

// NewMentionPicker creates a closed picker. onInsert receives the chosen
// set in toggle order when the user confirms; an empty set is a valid
// confirm meaning nothing to insert.
func NewMentionPicker(theme *styles.Theme, coord *overlay.Coordinator, mgr *overlay.Manager, onInsert func([]MentionRef)) *MentionPicker {
	p := &MentionPicker{theme: theme, mgr: mgr, width: 32}

	p.multi = surface.NewMultiSelect(surface.MultiConfig[MentionRef]{
		Filter: func(q string, it surface.Item[MentionRef]) bool {
			return FuzzyMatches(q, it.Label)
		},
		OnConfirm: func(items []surface.Item[MentionRef]) {
			p.closeHandle()
			if onInsert == nil {
				return
			}
			refs := make([]MentionRef, len(items))
			for i, it := range items {
				refs[i] = it.Value
			}
			onInsert(refs)
		},
		OnClose: func() { p.closeHandle() },
	})

	p.clickID = coord.RegisterClickOutside(
		func() []overlay.Region { return []overlay.Region{p.Region()} },
		p.Close,
		p.IsOpen,
	)
	p.escapeID = coord.RegisterEscape(p.Close, p.IsOpen)
	return p
}

// IsOpen reports whether the picker is showing.
func (p *MentionPicker) IsOpen() bool { return p.multi.IsOpen() }

// SetCandidates replaces the pickable entities. Called before opening and
// again when page search results arrive from the store.
func (p *MentionPicker) SetCandidates(refs []MentionRef) {
	items := make([]surface.Item[MentionRef], len(refs))
	for i, r := range refs {
		items[i] = surface.Item[MentionRef]{
			Key:        string(r.Kind) + ":" + r.ID,
			Group:      r.Kind.groupName(),
			Label:      r.Title,
			Selectable: true,
			Value:      r,
		}
	}
	p.multi.SetItems(items)
}

// Open shows the picker anchored at the "@" caret cell.
func (p *MentionPicker) Open(req overlay.Request, viewport overlay.Size) error {
	p.multi.Open("")
	p.handle = p.mgr.Open(req.Anchor)
	p.req = req
	p.viewport = viewport
	return p.reposition()
}

// SetQuery updates the filter with the text typed after "@".
func (p *MentionPicker) SetQuery(q string) error {
	p.multi.SetQuery(q)
	if !p.IsOpen() {
		return nil
	}
	return p.reposition()
}

// Resize re-solves placement for a new viewport while open.
func (p *MentionPicker) Resize(viewport overlay.Size) error {
	if !p.IsOpen() {
		return nil
	}
	p.viewport = viewport
	return p.reposition()
}

// MoveUp and MoveDown move the keyboard highlight without wrapping.
func (p *MentionPicker) MoveUp()   { p.multi.MoveUp() }
func (p *MentionPicker) MoveDown() { p.multi.MoveDown() }

// ToggleSelected flips membership of the highlighted entity. Toggling the
// same entity twice restores the previous state.
func (p *MentionPicker) ToggleSelected() { p.multi.ToggleSelected() }

// ClickAt toggles the entity row under a mouse press, if any.
func (p *MentionPicker) ClickAt(x, y int) bool {
	region := p.Region()
	if !region.Contains(x, y) {
		return false
	}
	// One border row plus the query line sit above the list.
	row := y - region.Y - 2
	idx, ok := listRowToIndex(p.multi.Groups(), row)
	if !ok {
		return false
	}
	items := p.multi.Items()
	if idx < 0 || idx >= len(items) {
		return false
	}
	p.multi.Toggle(items[idx].Key)
	return true
}

// Confirm inserts the chosen set and closes.
func (p *MentionPicker) Confirm() { p.multi.Confirm() }

// Close dismisses the picker, discarding the chosen set.
func (p *MentionPicker) Close() { p.multi.Cancel() }

// Chosen returns the current chosen set in toggle order.
func (p *MentionPicker) Chosen() []MentionRef {
	items := p.multi.Chosen()
	refs := make([]MentionRef, len(items))
	for i, it := range items {
		refs[i] = it.Value
	}
	return refs
}

// Region returns the rendered bounding box, used as the click boundary.
func (p *MentionPicker) Region() overlay.Region {
	if !p.IsOpen() || p.handle == nil {
		return overlay.Region{}
	}
	view := p.View()
	r := p.handle.Placement()
	return overlay.Region{
		X:      r.X,
		Y:      r.Y,
		Width:  lipgloss.Width(view),
		Height: lipgloss.Height(view),
	}
}

// View renders the picker: query echo, then the grouped list with chosen
// rows marked.
func (p *MentionPicker) View() string {
	if !p.IsOpen() {
		return ""
	}
	query := p.theme.SurfaceQuery.Render(util.TruncateWidth("@"+p.multi.Query(), p.width))
	render := func(item surface.Item[MentionRef], selected bool, width int) string {
		mark := styles.StatusIndicators.Pending
		if p.multi.IsChosen(item.Key) {
			mark = styles.StatusIndicators.Active
		}
		label := util.PadWidth(util.TruncateWidth(mark+" "+item.Label, width), width)
		switch {
		case selected:
			return p.theme.SurfaceItemSelected.Render(label)
		case p.multi.IsChosen(item.Key):
			return p.theme.SurfaceItemChosen.Render(label)
		}
		return p.theme.SurfaceItem.Render(label)
	}
	list := renderGroupedList(p.theme, &p.multi.Controller, render, p.width)
	hint := p.theme.SurfaceHint.Render("space toggles, enter inserts")
	return p.theme.SurfaceBox.Width(p.width + 2).Render(query + "\n" + list + "\n" + hint)
}

// reposition re-solves placement for the current content size.
func (p *MentionPicker) reposition() error {
	view := p.View()
	size := overlay.Size{Width: lipgloss.Width(view), Height: lipgloss.Height(view)}
	resolved, err := overlay.Solve(p.req, size, p.viewport)
	if err != nil {
		return err
	}
	p.handle.SetPlacement(resolved)
	return nil
}

// closeHandle tears down overlay state after the controller closes.
func (p *MentionPicker) closeHandle() {
	if p.handle != nil {
		p.handle.Close()
	}
}
