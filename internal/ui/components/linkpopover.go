// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/havenlabs/haven-tui/internal/overlay"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
)

// =============================================================================
// LINK POPOVER
// =============================================================================

// Focus slots, cycled by the focus trap.
const (
	linkSlotURL = iota
	linkSlotSave
	linkSlotRemove
	linkSlotCount
)

// LinkPopover is the link entry box anchored at the cursor point. While
// open, tab cycles focus among the URL field and the two buttons and
// never escapes the popover.
type LinkPopover struct {
	theme *styles.Theme
	mgr   *overlay.Manager

	input textinput.Model
	trap  *overlay.FocusTrap
	open  bool

	handle   *overlay.Handle
	req      overlay.Request
	viewport overlay.Size
	width    int

	onSave   func(url string)
	onRemove func()

	clickID  overlay.HandleID
	escapeID overlay.HandleID
}

// NewLinkPopover creates a closed popover. onSave receives the entered
// URL; onRemove fires when the user removes an existing link.
func NewLinkPopover(theme *styles.Theme, coord *overlay.Coordinator, mgr *overlay.Manager, onSave func(string), onRemove func()) *LinkPopover {
	input := textinput.New()
	input.Placeholder = "https://"
	input.Prompt = ""
	input.CharLimit = 512

	p := &LinkPopover{
		theme:    theme,
		mgr:      mgr,
		input:    input,
		trap:     overlay.NewFocusTrap(linkSlotCount),
		width:    34,
		onSave:   onSave,
		onRemove: onRemove,
	}

	p.clickID = coord.RegisterClickOutside(
		func() []overlay.Region { return []overlay.Region{p.Region()} },
		p.Close,
		p.IsOpen,
	)
	p.escapeID = coord.RegisterEscape(p.Close, p.IsOpen)
	return p
}

// IsOpen reports whether the popover is showing.
func (p *LinkPopover) IsOpen() bool { return p.open }

// Open shows the popover with an existing URL prefilled (empty for a new
// link). Focus starts on the URL field.
func (p *LinkPopover) Open(req overlay.Request, viewport overlay.Size, url string) error {
	p.open = true
	p.input.SetValue(url)
	p.input.CursorEnd()
	p.input.Focus()
	p.trap = overlay.NewFocusTrap(linkSlotCount)
	p.handle = p.mgr.Open(req.Anchor)
	p.req = req
	p.viewport = viewport
	return p.reposition()
}

// Resize re-solves placement for a new viewport while open.
func (p *LinkPopover) Resize(viewport overlay.Size) error {
	if !p.open {
		return nil
	}
	p.viewport = viewport
	return p.reposition()
}

// FocusedSlot returns the focused slot index, for tests and rendering.
func (p *LinkPopover) FocusedSlot() int { return p.trap.Index() }

// URL returns the current field contents.
func (p *LinkPopover) URL() string { return p.input.Value() }

// Update handles a key press while the popover is open. Tab and shift-tab
// cycle focus with wraparound; enter activates the focused slot; all other
// keys go to the URL field when it has focus. Returns a command for the
// text input's cursor blink.
func (p *LinkPopover) Update(msg tea.KeyMsg) tea.Cmd {
	if !p.open {
		return nil
	}

	switch msg.Type {
	case tea.KeyTab:
		p.trap.Next()
		p.syncFocus()
		return nil
	case tea.KeyShiftTab:
		p.trap.Prev()
		p.syncFocus()
		return nil
	case tea.KeyEnter:
		p.activate()
		return nil
	}

	if p.trap.Index() == linkSlotURL {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}
	return nil
}

// activate runs the focused slot: the field and Save both save, Remove
// removes.
func (p *LinkPopover) activate() {
	switch p.trap.Index() {
	case linkSlotURL, linkSlotSave:
		url := strings.TrimSpace(p.input.Value())
		p.close()
		if url != "" && p.onSave != nil {
			p.onSave(url)
		}
	case linkSlotRemove:
		p.close()
		if p.onRemove != nil {
			p.onRemove()
		}
	}
}

// Close dismisses the popover without saving.
func (p *LinkPopover) Close() { p.close() }

// close tears down popover state.
func (p *LinkPopover) close() {
	if !p.open {
		return
	}
	p.open = false
	p.input.Blur()
	if p.handle != nil {
		p.handle.Close()
	}
}

// Region returns the rendered bounding box, used as the click boundary.
func (p *LinkPopover) Region() overlay.Region {
	if !p.open || p.handle == nil {
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

// View renders the popover: label, URL field, buttons.
func (p *LinkPopover) View() string {
	if !p.open {
		return ""
	}

	label := p.theme.PopoverLabel.Render("Link")
	p.input.Width = p.width - 2
	field := p.input.View()

	save := p.theme.ToolbarButton.Render("Save")
	remove := p.theme.ToolbarButton.Render("Remove")
	switch p.trap.Index() {
	case linkSlotSave:
		save = p.theme.ToolbarButtonActive.Render("Save")
	case linkSlotRemove:
		remove = p.theme.ToolbarButtonActive.Render("Remove")
	}

	content := label + "\n" + field + "\n" + save + " " + remove
	return p.theme.PopoverBox.Width(p.width + 2).Render(content)
}

// syncFocus keeps the text input's focus state aligned with the trap.
func (p *LinkPopover) syncFocus() {
	if p.trap.Index() == linkSlotURL {
		p.input.Focus()
		return
	}
	p.input.Blur()
}

// reposition re-solves placement for the current content size.
func (p *LinkPopover) reposition() error {
	view := p.View()
	size := overlay.Size{Width: lipgloss.Width(view), Height: lipgloss.Height(view)}
	resolved, err := overlay.Solve(p.req, size, p.viewport)
	if err != nil {
		return err
	}
	p.handle.SetPlacement(resolved)
	return nil
}
