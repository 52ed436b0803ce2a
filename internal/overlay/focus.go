// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides positioning and dismissal for floating surfaces.
package overlay

// =============================================================================
// FOCUS TRAP
// =============================================================================

// FocusTrap cycles focus among a modal overlay's own focusable slots.
// Tab advances, Shift+Tab retreats, and both wrap at the ends, so focus
// never escapes the overlay while it is open. The link popover uses this
// for its text field and its two buttons.
type FocusTrap struct {
	slots int
	index int
}

// NewFocusTrap creates a trap over n focusable slots, focused on the
// first. n < 1 yields a single-slot trap.
func NewFocusTrap(n int) *FocusTrap {
	if n < 1 {
		n = 1
	}
	return &FocusTrap{slots: n}
}

// Index returns the currently focused slot.
func (f *FocusTrap) Index() int { return f.index }

// Next advances focus, wrapping past the last slot.
func (f *FocusTrap) Next() {
	f.index = (f.index + 1) % f.slots
}

// Prev retreats focus, wrapping past the first slot.
func (f *FocusTrap) Prev() {
	f.index--
	if f.index < 0 {
		f.index = f.slots - 1
	}
}

// SetSlots changes the slot count, clamping the focused index so it never
// points outside the trap.
func (f *FocusTrap) SetSlots(n int) {
	if n < 1 {
		n = 1
	}
	f.slots = n
	if f.index >= n {
		f.index = n - 1
	}
}
