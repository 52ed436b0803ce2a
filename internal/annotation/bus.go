// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotation carries proposed page edits between the assistant and
// the editor. The assistant marks a span of page content as proposed by
// publishing a Highlight event; the editor renders it pending until the
// user resolves it with Accept or Reject. Neither side holds a reference
// to the other; the bus is the only coupling.
package annotation

import "sync"

// =============================================================================
// EVENTS
// =============================================================================

// Kind discriminates the three annotation event shapes.
type Kind int

const (
	// KindHighlight proposes replacing or inserting Text, identified for
	// later resolution by EditID.
	KindHighlight Kind = iota
	// KindAccept means the user approved: remove the highlight, keep the
	// content.
	KindAccept
	// KindReject means the user declined: remove the highlight; the
	// owning store has already reverted the content.
	KindReject
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case KindHighlight:
		return "highlight"
	case KindAccept:
		return "accept"
	case KindReject:
		return "reject"
	}
	return "unknown"
}

// Event is one edit-annotation message, keyed by (PageID, EditID). EditID
// is unique per proposal and referenced by exactly one Highlight followed
// by at most one Accept or Reject. The publishing side is responsible for
// that ordering; the bus performs no validation.
type Event struct {
	Kind   Kind
	PageID string
	EditID string

	// Text is the proposed content. Set on Highlight only.
	Text string
}

// =============================================================================
// BUS
// =============================================================================

// Bus is a process-wide, lifecycle-free publish/subscribe channel for
// annotation events. Publish is fire-and-forget: every listener subscribed
// at publish time is invoked synchronously, in publish order, on the
// publishing goroutine. There is no acknowledgment and no delivery
// guarantee beyond that.
//
// Publish does not recover from listener panics: a panicking listener
// prevents later listeners in the same publish call from running and the
// panic propagates to the publisher. Listeners are expected not to panic.
type Bus struct {
	mu   sync.Mutex
	subs []*subscriber
}

// subscriber wraps a callback so Unsubscribe can identify it.
type subscriber struct {
	fn func(Event)
}

// NewBus creates an empty bus. Most callers share the package Default.
func NewBus() *Bus {
	return &Bus{}
}

// Default is the process-wide bus used by the editor and chat panes.
var Default = NewBus()

// Subscribe registers a listener and returns its unsubscribe function.
// Consumers subscribe and unsubscribe independently; there is no teardown
// of the bus itself.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s == sub {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every current subscriber, synchronously and in
// subscription order. Listeners subscribed during delivery do not receive
// the in-flight event.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]*subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Publish delivers an event on the Default bus.
func Publish(ev Event) { Default.Publish(ev) }

// Subscribe registers a listener on the Default bus.
func Subscribe(fn func(Event)) (unsubscribe func()) { return Default.Subscribe(fn) }
