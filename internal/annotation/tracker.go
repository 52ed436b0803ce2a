// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotation carries proposed page edits between panes.
package annotation

import "sync"

// =============================================================================
// PENDING TRACKER
// =============================================================================

// Pending is one unresolved proposal on a page.
type Pending struct {
	PageID string
	EditID string
	Text   string
}

// Tracker is the consumer-side view of the bus: it folds the event stream
// into the set of still-pending highlights. An Accept or Reject for an
// EditID that was never highlighted is a no-op, not an error. A Highlight
// that never resolves stays pending indefinitely; the tracker has no
// timeout or cleanup of its own.
type Tracker struct {
	mu          sync.Mutex
	pending     map[string]map[string]string // pageID -> editID -> text
	order       map[string][]string          // pageID -> editIDs in arrival order
	unsubscribe func()
}

// NewTracker creates a tracker subscribed to the given bus.
func NewTracker(bus *Bus) *Tracker {
	t := &Tracker{
		pending: make(map[string]map[string]string),
		order:   make(map[string][]string),
	}
	t.unsubscribe = bus.Subscribe(t.apply)
	return t
}

// Close unsubscribes the tracker from its bus. Pending state remains
// readable but no longer updates.
func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

// apply folds one event into the pending set.
func (t *Tracker) apply(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case KindHighlight:
		page := t.pending[ev.PageID]
		if page == nil {
			page = make(map[string]string)
			t.pending[ev.PageID] = page
		}
		if _, exists := page[ev.EditID]; !exists {
			t.order[ev.PageID] = append(t.order[ev.PageID], ev.EditID)
		}
		page[ev.EditID] = ev.Text

	case KindAccept, KindReject:
		page := t.pending[ev.PageID]
		if page == nil {
			return
		}
		if _, exists := page[ev.EditID]; !exists {
			return
		}
		delete(page, ev.EditID)
		ids := t.order[ev.PageID]
		for i, id := range ids {
			if id == ev.EditID {
				t.order[ev.PageID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
}

// IsPending reports whether the (pageID, editID) proposal awaits a
// resolution.
func (t *Tracker) IsPending(pageID, editID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[pageID][editID]
	return ok
}

// Text returns the proposed text for a pending edit.
func (t *Tracker) Text(pageID, editID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	text, ok := t.pending[pageID][editID]
	return text, ok
}

// PendingFor returns every unresolved proposal on a page, in arrival
// order.
func (t *Tracker) PendingFor(pageID string) []Pending {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.order[pageID]
	out := make([]Pending, 0, len(ids))
	for _, id := range ids {
		out = append(out, Pending{PageID: pageID, EditID: id, Text: t.pending[pageID][id]})
	}
	return out
}
