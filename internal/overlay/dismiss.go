// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides positioning and dismissal for floating surfaces.
package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// DISMISSAL COORDINATOR
// =============================================================================

// HandleID identifies one registration with the Coordinator. IDs are
// opaque and never reused within a process.
type HandleID uint64

// clickReg is one click-outside registration.
type clickReg struct {
	id         HandleID
	boundaries func() []Region
	onDismiss  func()
	isActive   func() bool
}

// escapeReg is one escape-key registration.
type escapeReg struct {
	id        HandleID
	onDismiss func()
	isActive  func() bool
}

// Coordinator owns the application's two shared dismissal dispatchers: one
// for mouse presses and one for the escape key. Components register once
// on mount and flip their isActive callback as they open and close; the
// callback is re-evaluated on every event, never cached at registration
// time. Registrations are additive, so unrelated overlays never disturb
// each other's lifecycle.
//
// The coordinator is driven by the bubbletea event loop and performs no
// locking; events arrive strictly serialized.
type Coordinator struct {
	nextID  HandleID
	clicks  []clickReg
	escapes []escapeReg
}

// NewCoordinator creates an empty coordinator. An application has exactly
// one, threaded through the component tree at construction.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// RegisterClickOutside registers a click-outside trigger. boundaries
// returns the regions a click may land in without dismissing: typically
// the overlay's floating box plus the widget that opened it. A nil or
// empty boundary set never contains the click, which is the conservative
// (more likely to dismiss) choice for not-yet-rendered overlays.
func (c *Coordinator) RegisterClickOutside(boundaries func() []Region, onDismiss func(), isActive func() bool) HandleID {
	c.nextID++
	c.clicks = append(c.clicks, clickReg{
		id:         c.nextID,
		boundaries: boundaries,
		onDismiss:  onDismiss,
		isActive:   isActive,
	})
	return c.nextID
}

// RegisterEscape registers an escape-key trigger.
func (c *Coordinator) RegisterEscape(onDismiss func(), isActive func() bool) HandleID {
	c.nextID++
	c.escapes = append(c.escapes, escapeReg{
		id:        c.nextID,
		onDismiss: onDismiss,
		isActive:  isActive,
	})
	return c.nextID
}

// Unregister removes a registration. Unknown ids are ignored, so teardown
// code can unregister unconditionally.
func (c *Coordinator) Unregister(id HandleID) {
	for i, reg := range c.clicks {
		if reg.id == id {
			c.clicks = append(c.clicks[:i], c.clicks[i+1:]...)
			return
		}
	}
	for i, reg := range c.escapes {
		if reg.id == id {
			c.escapes = append(c.escapes[:i], c.escapes[i+1:]...)
			return
		}
	}
}

// HandleMouse dispatches a mouse press to every active click-outside
// registration. Each registration checks independently against its own
// boundary set, so a click inside overlay A still dismisses an unrelated
// overlay B. Returns the number of dismissals fired. Motion and release
// events are ignored.
func (c *Coordinator) HandleMouse(msg tea.MouseMsg) int {
	if msg.Action != tea.MouseActionPress {
		return 0
	}

	fired := 0
	// Snapshot: an onDismiss may unregister, and new registrations must
	// not see the event that created them.
	regs := make([]clickReg, len(c.clicks))
	copy(regs, c.clicks)

	for _, reg := range regs {
		if reg.isActive != nil && !reg.isActive() {
			continue
		}
		if containsAny(reg.boundaries, msg.X, msg.Y) {
			continue
		}
		reg.onDismiss()
		fired++
	}
	return fired
}

// HandleKey dispatches an escape key press to all active escape
// registrations, not just the most recent: independent overlays each
// close on escape without needing a strict z-order. Returns the number of
// dismissals fired; callers use a nonzero result to swallow the key.
func (c *Coordinator) HandleKey(msg tea.KeyMsg) int {
	if msg.Type != tea.KeyEsc {
		return 0
	}

	fired := 0
	regs := make([]escapeReg, len(c.escapes))
	copy(regs, c.escapes)

	for _, reg := range regs {
		if reg.isActive != nil && !reg.isActive() {
			continue
		}
		reg.onDismiss()
		fired++
	}
	return fired
}

// containsAny reports whether the point lands in any boundary region.
func containsAny(boundaries func() []Region, x, y int) bool {
	if boundaries == nil {
		return false
	}
	for _, r := range boundaries() {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}
