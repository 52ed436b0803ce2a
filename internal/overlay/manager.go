// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides positioning and dismissal for floating surfaces.
package overlay

// =============================================================================
// OVERLAY STACK
// =============================================================================

// Handle represents one open overlay instance. It carries the overlay's
// current anchor and resolved placement and acts as the liveness guard for
// late-arriving recomputations: a resize callback that fires after Close
// observes Active() == false and does nothing.
type Handle struct {
	id       HandleID
	mgr      *Manager
	anchor   Anchor
	resolved Resolved
	active   bool
}

// ID returns the handle's coordinator-compatible id.
func (h *Handle) ID() HandleID { return h.id }

// Active reports whether the overlay is still open. Every recomputation
// callback must check this before touching placement state.
func (h *Handle) Active() bool { return h != nil && h.active }

// Anchor returns the anchor the overlay was last positioned against.
func (h *Handle) Anchor() Anchor { return h.anchor }

// SetAnchor replaces the anchor. No-op after close.
func (h *Handle) SetAnchor(a Anchor) {
	if !h.Active() {
		return
	}
	h.anchor = a
}

// Placement returns the last resolved placement.
func (h *Handle) Placement() Resolved { return h.resolved }

// SetPlacement records a fresh resolution. No-op after close, so a scroll
// event that races the overlay's teardown cannot resurrect stale state.
func (h *Handle) SetPlacement(r Resolved) {
	if !h.Active() {
		return
	}
	h.resolved = r
}

// Close marks the overlay closed and removes it from the stack. Anchor and
// placement state become inert; the handle itself stays valid so teardown
// code can call Close more than once.
func (h *Handle) Close() {
	if !h.Active() {
		return
	}
	h.active = false
	h.mgr.remove(h.id)
}

// Manager tracks every open overlay as an ordered stack, most recently
// opened last. Nested pickers use the ordering for innermost-first mouse
// arbitration; escape dismissal deliberately ignores it (all active
// overlays receive escape, see Coordinator.HandleKey).
type Manager struct {
	nextID HandleID
	stack  []*Handle
}

// NewManager creates an empty overlay stack.
func NewManager() *Manager {
	return &Manager{}
}

// Open records a new overlay anchored at a and returns its handle.
func (m *Manager) Open(a Anchor) *Handle {
	m.nextID++
	h := &Handle{id: m.nextID, mgr: m, anchor: a, active: true}
	m.stack = append(m.stack, h)
	return h
}

// Depth returns the number of open overlays.
func (m *Manager) Depth() int { return len(m.stack) }

// Top returns the most recently opened overlay, or nil.
func (m *Manager) Top() *Handle {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// remove drops a handle from the stack.
func (m *Manager) remove(id HandleID) {
	for i, h := range m.stack {
		if h.id == id {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			return
		}
	}
}
