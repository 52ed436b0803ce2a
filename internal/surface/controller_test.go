// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface implements the shared command-surface state machine.
package surface

import (
	"strings"
	"testing"
)

func commandItems() []Item[string] {
	return []Item[string]{
		{Key: "h1", Group: "Blocks", Label: "Heading 1", Selectable: true, Value: "h1"},
		{Key: "h2", Group: "Blocks", Label: "Heading 2", Selectable: true, Value: "h2"},
		{Key: "table", Group: "Blocks", Label: "Table", Selectable: true, Value: "table"},
		{Key: "ask", Group: "Assistant", Label: "Ask haven", Selectable: true, Value: "ask"},
		{Key: "summarize", Group: "Assistant", Label: "Summarize page", Selectable: true, Value: "summarize"},
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestControllerOpenInitializesSelection(t *testing.T) {
	c := New(Config[string]{Items: commandItems()})

	if c.State() != StateClosed {
		t.Fatal("new controller must start closed")
	}

	c.Open("")
	if c.State() != StateOpen {
		t.Fatal("Open() must transition to StateOpen")
	}
	if c.SelectedIndex() != 0 {
		t.Errorf("SelectedIndex() = %d after open, want 0", c.SelectedIndex())
	}
	if len(c.Items()) != 5 {
		t.Errorf("Items() = %d entries, want all 5", len(c.Items()))
	}
}

func TestControllerCommit(t *testing.T) {
	var selected string
	closed := false
	c := New(Config[string]{
		Items:    commandItems(),
		OnSelect: func(it Item[string]) { selected = it.Key },
		OnClose:  func() { closed = true },
	})

	c.Open("")
	c.MoveDown()
	item, ok := c.Commit()
	if !ok {
		t.Fatal("Commit() failed")
	}
	if item.Key != "h2" || selected != "h2" {
		t.Errorf("committed %q (callback %q), want h2", item.Key, selected)
	}
	if c.State() != StateClosed {
		t.Error("Commit() must close the surface")
	}
	if closed {
		t.Error("OnClose must not fire on commit")
	}
}

func TestControllerCancel(t *testing.T) {
	var selected string
	closed := false
	c := New(Config[string]{
		Items:    commandItems(),
		OnSelect: func(it Item[string]) { selected = it.Key },
		OnClose:  func() { closed = true },
	})

	c.Open("")
	c.Cancel()
	if !closed {
		t.Fatal("Cancel() must invoke OnClose")
	}
	if selected != "" {
		t.Fatal("Cancel() must not select anything")
	}
	if c.State() != StateClosed {
		t.Fatal("Cancel() must close the surface")
	}

	// Cancel when already closed is a no-op, not a second callback.
	closed = false
	c.Cancel()
	if closed {
		t.Fatal("Cancel() on a closed surface fired OnClose again")
	}
}

func TestControllerCommitIndex(t *testing.T) {
	var selected string
	c := New(Config[string]{
		Items:    commandItems(),
		OnSelect: func(it Item[string]) { selected = it.Key },
	})

	c.Open("")
	if _, ok := c.CommitIndex(3); !ok {
		t.Fatal("CommitIndex(3) failed")
	}
	if selected != "ask" {
		t.Errorf("clicked item = %q, want ask", selected)
	}

	// Out of range clicks are ignored.
	c.Open("")
	if _, ok := c.CommitIndex(99); ok {
		t.Fatal("CommitIndex out of range must fail")
	}
}

// =============================================================================
// FILTER TESTS
// =============================================================================

func TestControllerFilterIsCaseInsensitive(t *testing.T) {
	c := New(Config[string]{Items: commandItems()})
	c.Open("")
	c.SetQuery("HEAD")

	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("filtered to %d items, want 2", len(items))
	}
	for _, it := range items {
		if !strings.HasPrefix(it.Label, "Heading") {
			t.Errorf("unexpected item %q", it.Label)
		}
	}
}

func TestControllerFilterShrinkResetsSelection(t *testing.T) {
	c := New(Config[string]{Items: commandItems()})
	c.Open("")

	// Move deep into the list, then shrink it below the selection.
	c.MoveDown()
	c.MoveDown()
	c.MoveDown()
	c.MoveDown()
	if c.SelectedIndex() != 4 {
		t.Fatalf("SelectedIndex() = %d, want 4", c.SelectedIndex())
	}

	c.SetQuery("table")
	if got := len(c.Items()); got != 1 {
		t.Fatalf("filtered to %d items, want 1", got)
	}
	if c.SelectedIndex() != 0 {
		t.Errorf("SelectedIndex() = %d after shrink, want 0", c.SelectedIndex())
	}
}

func TestControllerSameQueryKeepsSelection(t *testing.T) {
	c := New(Config[string]{Items: commandItems()})
	c.Open("")
	c.MoveDown()

	// Re-filtering to the identical visible set must not move the
	// highlight.
	c.SetQuery("")
	if c.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex() = %d after no-op refilter, want 1", c.SelectedIndex())
	}
}

func TestControllerCustomFilter(t *testing.T) {
	c := New(Config[string]{
		Items: commandItems(),
		Filter: func(q string, it Item[string]) bool {
			return strings.HasPrefix(it.Key, q)
		},
	})
	c.Open("")
	c.SetQuery("h")

	if got := len(c.Items()); got != 2 {
		t.Fatalf("custom filter kept %d items, want 2 (h1, h2)", got)
	}
}

// =============================================================================
// NAVIGATION TESTS
// =============================================================================

func TestControllerNavigationDoesNotWrap(t *testing.T) {
	c := New(Config[string]{Items: commandItems()})
	c.Open("")

	// ArrowUp at the first item stays at the first item.
	c.MoveUp()
	if c.SelectedIndex() != 0 {
		t.Errorf("MoveUp at start: SelectedIndex() = %d, want 0", c.SelectedIndex())
	}

	// ArrowDown at the last item stays at the last item.
	n := len(c.Items())
	for i := 0; i < n+3; i++ {
		c.MoveDown()
	}
	if c.SelectedIndex() != n-1 {
		t.Errorf("MoveDown past end: SelectedIndex() = %d, want %d", c.SelectedIndex(), n-1)
	}
}

func TestControllerNavigationSkipsNonSelectable(t *testing.T) {
	items := commandItems()
	items[1].Selectable = false // Heading 2 becomes a separator row
	c := New(Config[string]{Items: items})
	c.Open("")

	c.MoveDown()
	if got, _ := c.Selected(); got.Key != "table" {
		t.Errorf("MoveDown landed on %q, want table (skipping separator)", got.Key)
	}
	c.MoveUp()
	if got, _ := c.Selected(); got.Key != "h1" {
		t.Errorf("MoveUp landed on %q, want h1", got.Key)
	}
}

// =============================================================================
// GROUPING TESTS
// =============================================================================

func TestControllerGroupsPreserveFirstSeenOrder(t *testing.T) {
	// Interleave groups in the source list; partitioning must make each
	// group contiguous while keeping first-seen group order.
	items := []Item[string]{
		{Key: "a", Group: "Blocks", Label: "A", Selectable: true},
		{Key: "b", Group: "Assistant", Label: "B", Selectable: true},
		{Key: "c", Group: "Blocks", Label: "C", Selectable: true},
		{Key: "d", Group: "Assistant", Label: "D", Selectable: true},
	}
	c := New(Config[string]{Items: items})
	c.Open("")

	flat := c.Items()
	wantOrder := []string{"a", "c", "b", "d"}
	for i, key := range wantOrder {
		if flat[i].Key != key {
			t.Fatalf("flattened[%d] = %q, want %q", i, flat[i].Key, key)
		}
	}

	groups := c.Groups()
	if len(groups) != 2 {
		t.Fatalf("Groups() = %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Blocks" || groups[1].Name != "Assistant" {
		t.Errorf("group order = %q, %q; want Blocks, Assistant", groups[0].Name, groups[1].Name)
	}
	if groups[0].Start != 0 || groups[1].Start != 2 {
		t.Errorf("group starts = %d, %d; want 0, 2", groups[0].Start, groups[1].Start)
	}

	// Navigation crosses the group boundary linearly.
	c.MoveDown()
	c.MoveDown()
	if got, _ := c.Selected(); got.Key != "b" {
		t.Errorf("selection after crossing boundary = %q, want b", got.Key)
	}
}

// =============================================================================
// MULTI-SELECT TESTS
// =============================================================================

func TestMultiSelectToggleIsIdempotentSetMembership(t *testing.T) {
	m := NewMultiSelect(MultiConfig[string]{Items: commandItems()})
	m.Open("")

	m.Toggle("h1")
	m.Toggle("table")
	if !m.IsChosen("h1") || !m.IsChosen("table") {
		t.Fatal("toggled items must be chosen")
	}

	// Toggling the same item twice restores the previous state.
	m.Toggle("h1")
	if m.IsChosen("h1") {
		t.Fatal("second toggle must remove membership")
	}
	m.Toggle("h1")
	m.Toggle("h1")
	if m.IsChosen("h1") {
		t.Fatal("double toggle is a no-op")
	}

	chosen := m.Chosen()
	if len(chosen) != 1 || chosen[0].Key != "table" {
		t.Fatalf("Chosen() = %v, want [table]", chosen)
	}
}

func TestMultiSelectConfirmCommitsSet(t *testing.T) {
	var confirmed []string
	m := NewMultiSelect(MultiConfig[string]{
		Items: commandItems(),
		OnConfirm: func(items []Item[string]) {
			for _, it := range items {
				confirmed = append(confirmed, it.Key)
			}
		},
	})

	m.Open("")
	m.ToggleSelected() // h1
	m.MoveDown()
	m.ToggleSelected() // h2
	m.Confirm()

	if len(confirmed) != 2 || confirmed[0] != "h1" || confirmed[1] != "h2" {
		t.Fatalf("confirmed = %v, want [h1 h2] in toggle order", confirmed)
	}
	if m.IsOpen() {
		t.Fatal("Confirm() must close the surface")
	}
}

func TestMultiSelectReopenResetsChosen(t *testing.T) {
	m := NewMultiSelect(MultiConfig[string]{Items: commandItems()})
	m.Open("")
	m.Toggle("h1")
	m.Confirm()

	m.Open("")
	if m.IsChosen("h1") {
		t.Fatal("reopening must clear the chosen set")
	}
}

func TestMultiSelectUnknownKeyIgnored(t *testing.T) {
	m := NewMultiSelect(MultiConfig[string]{Items: commandItems()})
	m.Open("")
	m.Toggle("nope")
	if len(m.Chosen()) != 0 {
		t.Fatal("unknown key must not join the chosen set")
	}
}
