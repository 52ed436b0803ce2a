// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotation carries proposed page edits between panes.
package annotation

import "testing"

// =============================================================================
// BUS TESTS
// =============================================================================

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(ev Event) { got = append(got, "first:"+ev.EditID) })
	bus.Subscribe(func(ev Event) { got = append(got, "second:"+ev.EditID) })

	bus.Publish(Event{Kind: KindHighlight, PageID: "p1", EditID: "e1", Text: "x"})

	want := []string{"first:e1", "second:e1"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("delivery order = %v, want %v", got, want)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	count := 0

	unsub := bus.Subscribe(func(Event) { count++ })
	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e"})
	unsub()
	bus.Publish(Event{Kind: KindAccept, PageID: "p", EditID: "e"})

	if count != 1 {
		t.Fatalf("listener fired %d times, want 1", count)
	}

	// Unsubscribing twice is harmless.
	unsub()
}

func TestBusSubscribeDuringPublishMissesInFlightEvent(t *testing.T) {
	bus := NewBus()
	lateFired := false

	bus.Subscribe(func(Event) {
		bus.Subscribe(func(Event) { lateFired = true })
	})
	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e"})

	if lateFired {
		t.Fatal("listener subscribed during delivery received the in-flight event")
	}

	bus.Publish(Event{Kind: KindAccept, PageID: "p", EditID: "e"})
	if !lateFired {
		t.Fatal("late subscriber missed the next event")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindHighlight, "highlight"},
		{KindAccept, "accept"},
		{KindReject, "reject"},
		{Kind(9), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

// =============================================================================
// TRACKER TESTS
// =============================================================================

func TestTrackerHighlightThenAccept(t *testing.T) {
	bus := NewBus()
	tr := NewTracker(bus)
	defer tr.Close()

	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e", Text: "new text"})
	if !tr.IsPending("p", "e") {
		t.Fatal("highlight must be pending before resolution")
	}
	if text, ok := tr.Text("p", "e"); !ok || text != "new text" {
		t.Fatalf("Text() = %q, %v; want proposed text", text, ok)
	}

	bus.Publish(Event{Kind: KindAccept, PageID: "p", EditID: "e"})
	if tr.IsPending("p", "e") {
		t.Fatal("accepted edit still pending")
	}
}

func TestTrackerRejectRemovesHighlight(t *testing.T) {
	bus := NewBus()
	tr := NewTracker(bus)
	defer tr.Close()

	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e", Text: "t"})
	bus.Publish(Event{Kind: KindReject, PageID: "p", EditID: "e"})
	if tr.IsPending("p", "e") {
		t.Fatal("rejected edit still pending")
	}
}

func TestTrackerResolutionWithoutHighlightIsNoop(t *testing.T) {
	bus := NewBus()
	tr := NewTracker(bus)
	defer tr.Close()

	// Accept for an editId never highlighted: observable but no state
	// change, no panic.
	bus.Publish(Event{Kind: KindAccept, PageID: "p", EditID: "ghost"})
	if tr.IsPending("p", "ghost") {
		t.Fatal("no-op resolution created pending state")
	}
	if got := tr.PendingFor("p"); len(got) != 0 {
		t.Fatalf("PendingFor = %v, want empty", got)
	}
}

func TestTrackerIndependentEditsCoexist(t *testing.T) {
	bus := NewBus()
	tr := NewTracker(bus)
	defer tr.Close()

	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e1", Text: "a"})
	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e2", Text: "b"})
	bus.Publish(Event{Kind: KindHighlight, PageID: "q", EditID: "e3", Text: "c"})
	bus.Publish(Event{Kind: KindReject, PageID: "p", EditID: "e1"})

	got := tr.PendingFor("p")
	if len(got) != 1 || got[0].EditID != "e2" {
		t.Fatalf("PendingFor(p) = %v, want [e2]", got)
	}
	if !tr.IsPending("q", "e3") {
		t.Fatal("unrelated page lost its pending edit")
	}
}

func TestTrackerDanglingHighlightStaysPending(t *testing.T) {
	bus := NewBus()
	tr := NewTracker(bus)
	defer tr.Close()

	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e", Text: "t"})

	// No resolution ever arrives: still pending, indefinitely.
	for i := 0; i < 3; i++ {
		if !tr.IsPending("p", "e") {
			t.Fatal("dangling highlight must remain pending")
		}
	}
}

func TestTrackerCloseStopsUpdates(t *testing.T) {
	bus := NewBus()
	tr := NewTracker(bus)

	bus.Publish(Event{Kind: KindHighlight, PageID: "p", EditID: "e", Text: "t"})
	tr.Close()
	bus.Publish(Event{Kind: KindAccept, PageID: "p", EditID: "e"})

	// State frozen at close time.
	if !tr.IsPending("p", "e") {
		t.Fatal("closed tracker kept updating")
	}
}
