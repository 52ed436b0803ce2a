// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface implements the shared command-surface state machine.
package surface

import "strings"

// =============================================================================
// ITEMS
// =============================================================================

// Item is one entry in a command surface, generic over the value the
// surface commits. Key must be unique within one item list; Group labels
// partition the list for display, with items sharing a group rendered
// contiguously in source order.
type Item[V any] struct {
	Key        string
	Group      string
	Label      string
	Selectable bool
	Value      V
}

// Group is a contiguous run of filtered items sharing a group label.
// Start is the index of the group's first item in the flattened list, so
// renderers can map the linear selection index back onto group rows.
type Group[V any] struct {
	Name  string
	Start int
	Items []Item[V]
}

// FilterFunc decides whether an item survives a query. The default is a
// case-insensitive substring match on the label.
type FilterFunc[V any] func(query string, item Item[V]) bool

// defaultFilter is the case-insensitive substring match.
func defaultFilter[V any](query string, item Item[V]) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Label), strings.ToLower(query))
}

// =============================================================================
// STATE
// =============================================================================

// State is the controller's lifecycle state. Commit and Cancel both land
// back in StateClosed; the distinction is delivered through the OnSelect
// and OnClose callbacks, not retained as state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

// Config wires a controller to its owner.
type Config[V any] struct {
	// Items is the full, unfiltered command list.
	Items []Item[V]

	// Filter overrides the default label substring match.
	Filter FilterFunc[V]

	// OnSelect receives the committed item.
	OnSelect func(Item[V])

	// OnClose is invoked on cancellation, with no selection.
	OnClose func()
}

// Controller is the shared state machine behind every command surface:
// Closed -> Open(query, items, selectedIndex) -> committed or cancelled.
// Navigation clamps at the ends of the list, deliberately: reaching the
// first or last item stops rather than cycling.
type Controller[V any] struct {
	cfg      Config[V]
	state    State
	query    string
	filtered []Item[V]
	selected int
}

// New creates a closed controller over the configured items.
func New[V any](cfg Config[V]) *Controller[V] {
	if cfg.Filter == nil {
		cfg.Filter = defaultFilter[V]
	}
	return &Controller[V]{cfg: cfg}
}

// State returns the current lifecycle state.
func (c *Controller[V]) State() State { return c.state }

// IsOpen reports whether the surface is open.
func (c *Controller[V]) IsOpen() bool { return c.state == StateOpen }

// Query returns the current filter query.
func (c *Controller[V]) Query() string { return c.query }

// Items returns the filtered, grouped, flattened item list. The selection
// index points into this slice.
func (c *Controller[V]) Items() []Item[V] { return c.filtered }

// SelectedIndex returns the linear selection index.
func (c *Controller[V]) SelectedIndex() int { return c.selected }

// =============================================================================
// LIFECYCLE
// =============================================================================

// Open transitions Closed -> Open with the given initial query, resetting
// the selection to the first selectable item.
func (c *Controller[V]) Open(query string) {
	c.state = StateOpen
	c.query = query
	c.refilter()
}

// SetItems replaces the source list while open (mention results arriving
// from the page store). The selection resets if the filtered set changed.
func (c *Controller[V]) SetItems(items []Item[V]) {
	c.cfg.Items = items
	if c.state == StateOpen {
		c.refilterKeepingSelectionIfUnchanged()
	}
}

// SetQuery re-filters the list. Whenever the set of visible items changes
// the selection resets to the first selectable item, so it can never point
// at a stale or now-hidden entry.
func (c *Controller[V]) SetQuery(query string) {
	if c.state != StateOpen {
		return
	}
	c.query = query
	c.refilterKeepingSelectionIfUnchanged()
}

// Commit commits the currently selected item: invokes OnSelect and closes.
// Committing with no selectable item just closes, matching escape.
func (c *Controller[V]) Commit() (Item[V], bool) {
	if c.state != StateOpen {
		return Item[V]{}, false
	}
	if c.selected < 0 || c.selected >= len(c.filtered) || !c.filtered[c.selected].Selectable {
		c.Cancel()
		return Item[V]{}, false
	}
	item := c.filtered[c.selected]
	c.state = StateClosed
	if c.cfg.OnSelect != nil {
		c.cfg.OnSelect(item)
	}
	return item, true
}

// CommitIndex commits the item at a specific index, for pointer clicks on
// a row. Clicks on non-selectable rows (group separators) are ignored.
func (c *Controller[V]) CommitIndex(i int) (Item[V], bool) {
	if c.state != StateOpen || i < 0 || i >= len(c.filtered) || !c.filtered[i].Selectable {
		return Item[V]{}, false
	}
	c.selected = i
	return c.Commit()
}

// Cancel closes the surface with no selection and invokes OnClose. Wired
// to escape and click-outside through the dismissal coordinator.
func (c *Controller[V]) Cancel() {
	if c.state != StateOpen {
		return
	}
	c.state = StateClosed
	if c.cfg.OnClose != nil {
		c.cfg.OnClose()
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

// MoveDown advances the selection to the next selectable item. At the end
// of the list the selection stays put; there is no wraparound.
func (c *Controller[V]) MoveDown() {
	for i := c.selected + 1; i < len(c.filtered); i++ {
		if c.filtered[i].Selectable {
			c.selected = i
			return
		}
	}
}

// MoveUp retreats the selection to the previous selectable item, stopping
// at the start of the list.
func (c *Controller[V]) MoveUp() {
	for i := c.selected - 1; i >= 0; i-- {
		if c.filtered[i].Selectable {
			c.selected = i
			return
		}
	}
}

// Selected returns the currently selected item, if any.
func (c *Controller[V]) Selected() (Item[V], bool) {
	if c.selected < 0 || c.selected >= len(c.filtered) {
		return Item[V]{}, false
	}
	return c.filtered[c.selected], true
}

// =============================================================================
// GROUPING
// =============================================================================

// Groups partitions the filtered list into groups in first-seen order.
// The flattened list returned by Items is exactly the concatenation of
// the groups, so the linear selection index crosses group boundaries.
func (c *Controller[V]) Groups() []Group[V] {
	var groups []Group[V]
	index := make(map[string]int)

	for i, item := range c.filtered {
		gi, ok := index[item.Group]
		if !ok {
			gi = len(groups)
			index[item.Group] = gi
			groups = append(groups, Group[V]{Name: item.Group, Start: i})
		}
		groups[gi].Items = append(groups[gi].Items, item)
	}
	return groups
}

// =============================================================================
// FILTERING
// =============================================================================

// refilter rebuilds the filtered list and resets the selection.
func (c *Controller[V]) refilter() {
	c.filtered = c.partition(c.applyFilter())
	c.selected = c.firstSelectable()
}

// refilterKeepingSelectionIfUnchanged rebuilds the filtered list; the
// selection resets to the top only when the visible set actually changed,
// so retyping the same query does not yank the highlight away.
func (c *Controller[V]) refilterKeepingSelectionIfUnchanged() {
	next := c.partition(c.applyFilter())
	if !sameKeys(c.filtered, next) {
		c.filtered = next
		c.selected = c.firstSelectable()
		return
	}
	c.filtered = next
}

// applyFilter runs the filter predicate over the source list.
func (c *Controller[V]) applyFilter() []Item[V] {
	out := make([]Item[V], 0, len(c.cfg.Items))
	for _, item := range c.cfg.Items {
		if c.cfg.Filter(c.query, item) {
			out = append(out, item)
		}
	}
	return out
}

// partition stably reorders items so that each group is contiguous, with
// groups appearing in first-seen order and items in source order within
// their group.
func (c *Controller[V]) partition(items []Item[V]) []Item[V] {
	var order []string
	buckets := make(map[string][]Item[V])

	for _, item := range items {
		if _, ok := buckets[item.Group]; !ok {
			order = append(order, item.Group)
		}
		buckets[item.Group] = append(buckets[item.Group], item)
	}

	out := make([]Item[V], 0, len(items))
	for _, g := range order {
		out = append(out, buckets[g]...)
	}
	return out
}

// firstSelectable returns the index of the first selectable item, or 0.
func (c *Controller[V]) firstSelectable() int {
	for i, item := range c.filtered {
		if item.Selectable {
			return i
		}
	}
	return 0
}

// sameKeys reports whether two filtered lists contain the same keys in the
// same order.
func sameKeys[V any](a, b []Item[V]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key {
			return false
		}
	}
	return true
}
