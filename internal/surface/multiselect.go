// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface implements the shared command-surface state machine.
package surface

// =============================================================================
// MULTI-SELECT VARIANT
// =============================================================================

// MultiConfig wires a multi-select surface to its owner.
type MultiConfig[V any] struct {
	// Items, Filter as in Config.
	Items  []Item[V]
	Filter FilterFunc[V]

	// OnConfirm receives the full chosen set, in toggle order.
	OnConfirm func([]Item[V])

	// OnClose is invoked on cancellation.
	OnClose func()
}

// MultiSelect is the picker variant used by the mention/add picker:
// instead of committing on first activation, each activation toggles the
// item's membership in the chosen set, and a separate explicit confirm
// commits the whole set. Toggle is idempotent set membership; toggling the
// same key twice restores the previous state.
type MultiSelect[V any] struct {
	Controller[V]

	onConfirm func([]Item[V])
	chosen    map[string]Item[V]
	order     []string
}

// NewMultiSelect creates a closed multi-select surface.
func NewMultiSelect[V any](cfg MultiConfig[V]) *MultiSelect[V] {
	m := &MultiSelect[V]{
		onConfirm: cfg.OnConfirm,
		chosen:    make(map[string]Item[V]),
	}
	m.Controller = *New(Config[V]{
		Items:   cfg.Items,
		Filter:  cfg.Filter,
		OnClose: cfg.OnClose,
	})
	return m
}

// Open resets the chosen set and opens the surface.
func (m *MultiSelect[V]) Open(query string) {
	m.chosen = make(map[string]Item[V])
	m.order = m.order[:0]
	m.Controller.Open(query)
}

// Toggle flips membership of the item with the given key. Unknown keys
// are ignored; only selectable items participate.
func (m *MultiSelect[V]) Toggle(key string) {
	for _, item := range m.Items() {
		if item.Key != key || !item.Selectable {
			continue
		}
		if _, ok := m.chosen[key]; ok {
			delete(m.chosen, key)
			for i, k := range m.order {
				if k == key {
					m.order = append(m.order[:i], m.order[i+1:]...)
					break
				}
			}
		} else {
			m.chosen[key] = item
			m.order = append(m.order, key)
		}
		return
	}
}

// ToggleSelected toggles the currently highlighted item.
func (m *MultiSelect[V]) ToggleSelected() {
	if item, ok := m.Selected(); ok {
		m.Toggle(item.Key)
	}
}

// IsChosen reports membership, for renderers drawing checkmarks.
func (m *MultiSelect[V]) IsChosen(key string) bool {
	_, ok := m.chosen[key]
	return ok
}

// Chosen returns the chosen items in toggle order.
func (m *MultiSelect[V]) Chosen() []Item[V] {
	out := make([]Item[V], 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.chosen[k])
	}
	return out
}

// Confirm commits the full chosen set and closes. An empty set is a valid
// commit; owners treat it as "nothing to add".
func (m *MultiSelect[V]) Confirm() {
	if !m.IsOpen() {
		return
	}
	set := m.Chosen()
	m.state = StateClosed
	if m.onConfirm != nil {
		m.onConfirm(set)
	}
}
