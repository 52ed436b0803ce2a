// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides positioning and dismissal for floating surfaces.
package overlay

import (
	"errors"
	"testing"
)

// =============================================================================
// ANCHOR RESOLUTION TESTS
// =============================================================================

func TestAnchorRegion(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		want   Anchor
	}{
		{
			name:   "normal region",
			region: Region{X: 4, Y: 2, Width: 10, Height: 3},
			want:   Anchor{X: 4, Y: 2, Width: 10, Height: 3},
		},
		{
			name:   "zero region degrades to zero-area anchor",
			region: Region{},
			want:   Anchor{},
		},
		{
			name:   "negative dimensions clamp to zero",
			region: Region{X: 7, Y: 1, Width: -5, Height: -2},
			want:   Anchor{X: 7, Y: 1},
		},
	}

	for _, tc := range tests {
		got := AnchorRegion(tc.region)
		if got != tc.want {
			t.Errorf("%s: AnchorRegion() = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestAnchorPoint(t *testing.T) {
	a := AnchorPoint(12, 5)
	want := Anchor{X: 12, Y: 5}
	if a != want {
		t.Errorf("AnchorPoint(12, 5) = %+v, want %+v", a, want)
	}
}

func TestAnchorSelection(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want Anchor
	}{
		{
			name: "forward selection",
			sel:  Selection{StartX: 2, StartY: 3, EndX: 9, EndY: 5},
			want: Anchor{X: 2, Y: 3, Width: 8, Height: 3},
		},
		{
			name: "backward selection normalizes",
			sel:  Selection{StartX: 9, StartY: 5, EndX: 2, EndY: 3},
			want: Anchor{X: 2, Y: 3, Width: 8, Height: 3},
		},
		{
			name: "collapsed selection is one cell",
			sel:  Selection{StartX: 4, StartY: 4, EndX: 4, EndY: 4},
			want: Anchor{X: 4, Y: 4, Width: 1, Height: 1},
		},
	}

	for _, tc := range tests {
		got := AnchorSelection(tc.sel)
		if got != tc.want {
			t.Errorf("%s: AnchorSelection() = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

// =============================================================================
// PLACEMENT ENUM TESTS
// =============================================================================

func TestParsePlacement(t *testing.T) {
	valid := map[string]Placement{
		"top":          PlacementTop,
		"top-start":    PlacementTopStart,
		"top-end":      PlacementTopEnd,
		"bottom":       PlacementBottom,
		"bottom-start": PlacementBottomStart,
		"bottom-end":   PlacementBottomEnd,
	}
	for name, want := range valid {
		got, err := ParsePlacement(name)
		if err != nil {
			t.Errorf("ParsePlacement(%q) error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParsePlacement(%q) = %v, want %v", name, got, want)
		}
		if got.String() != name {
			t.Errorf("Placement.String() = %q, want %q", got.String(), name)
		}
	}

	for _, bad := range []string{"", "left", "TOP", "bottom-center"} {
		if _, err := ParsePlacement(bad); !errors.Is(err, ErrUnknownPlacement) {
			t.Errorf("ParsePlacement(%q) = %v, want ErrUnknownPlacement", bad, err)
		}
	}
}

func TestSolveRejectsUnknownPlacement(t *testing.T) {
	_, err := Solve(Request{Preferred: Placement(42)}, Size{10, 5}, Size{80, 24})
	if !errors.Is(err, ErrUnknownPlacement) {
		t.Fatalf("Solve with invalid placement = %v, want ErrUnknownPlacement", err)
	}
}

// =============================================================================
// SOLVER TESTS
// =============================================================================

func TestSolveIdempotent(t *testing.T) {
	req := Request{
		Anchor:    Anchor{X: 30, Y: 4, Width: 6, Height: 1},
		Preferred: PlacementBottomStart,
		Offset:    1,
		Flip:      true,
		Shift:     true,
		Padding:   2,
	}
	overlay := Size{Width: 24, Height: 8}
	viewport := Size{Width: 100, Height: 30}

	first, err := Solve(req, overlay, viewport)
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	second, err := Solve(req, overlay, viewport)
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if first != second {
		t.Errorf("Solve not idempotent: %+v then %+v", first, second)
	}
}

func TestSolveFlipNearTopEdge(t *testing.T) {
	// Anchor too close to the top for a top placement: must flip to a
	// bottom variant and land below the anchor.
	anchor := Anchor{X: 10, Y: 2, Width: 4, Height: 1}
	req := Request{
		Anchor:    anchor,
		Preferred: PlacementTopStart,
		Offset:    1,
		Flip:      true,
	}
	got, err := Solve(req, Size{Width: 20, Height: 6}, Size{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if got.Placement.isTop() {
		t.Errorf("Placement = %v, want a bottom variant", got.Placement)
	}
	if got.Y < anchor.Y+anchor.Height {
		t.Errorf("Y = %d, want >= %d (below the anchor)", got.Y, anchor.Y+anchor.Height)
	}
}

func TestSolveFlipNearBottomEdge(t *testing.T) {
	req := Request{
		Anchor:    Anchor{X: 10, Y: 22, Width: 4, Height: 1},
		Preferred: PlacementBottom,
		Offset:    1,
		Flip:      true,
	}
	got, err := Solve(req, Size{Width: 20, Height: 6}, Size{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if !got.Placement.isTop() {
		t.Errorf("Placement = %v, want a top variant", got.Placement)
	}
}

func TestSolveNoFlipWhenDisabled(t *testing.T) {
	req := Request{
		Anchor:    Anchor{X: 10, Y: 2, Width: 4, Height: 1},
		Preferred: PlacementTop,
		Offset:    1,
		Flip:      false,
	}
	got, err := Solve(req, Size{Width: 20, Height: 6}, Size{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if got.Placement != PlacementTop {
		t.Errorf("Placement = %v, want top (flip disabled)", got.Placement)
	}
	if got.Y >= 0 {
		t.Errorf("Y = %d, want negative overflow preserved", got.Y)
	}
}

func TestSolveShiftClampsWithinViewport(t *testing.T) {
	tests := []struct {
		name    string
		anchorX int
	}{
		{"anchor at left edge", 0},
		{"anchor in the middle", 40},
		{"anchor at right edge", 79},
	}

	overlay := Size{Width: 30, Height: 5}
	viewport := Size{Width: 80, Height: 24}
	padding := 2

	for _, tc := range tests {
		req := Request{
			Anchor:    Anchor{X: tc.anchorX, Y: 10},
			Preferred: PlacementBottom,
			Offset:    1,
			Shift:     true,
			Padding:   padding,
		}
		got, err := Solve(req, overlay, viewport)
		if err != nil {
			t.Fatalf("%s: Solve() error: %v", tc.name, err)
		}
		if got.X < padding {
			t.Errorf("%s: X = %d, want >= %d", tc.name, got.X, padding)
		}
		if got.X+overlay.Width > viewport.Width-padding {
			t.Errorf("%s: right edge = %d, want <= %d", tc.name, got.X+overlay.Width, viewport.Width-padding)
		}
	}
}

func TestSolveOversizedOverlayClampsToPadding(t *testing.T) {
	// Overlay wider than the viewport: accepted overflow, clamped to the
	// leading padding.
	req := Request{
		Anchor:    Anchor{X: 40, Y: 10},
		Preferred: PlacementBottomStart,
		Shift:     true,
		Padding:   2,
	}
	got, err := Solve(req, Size{Width: 200, Height: 5}, Size{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if got.X != 2 {
		t.Errorf("X = %d, want clamp to padding 2", got.X)
	}
}

func TestSolveEndAlignment(t *testing.T) {
	req := Request{
		Anchor:    Anchor{X: 40, Y: 10, Width: 10, Height: 1},
		Preferred: PlacementBottomEnd,
	}
	got, err := Solve(req, Size{Width: 24, Height: 5}, Size{Width: 100, Height: 30})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	// Right edges align: anchor right edge 50, overlay right edge X+24.
	if got.X+24 != 50 {
		t.Errorf("X = %d, want overlay right edge at 50", got.X)
	}
}

func TestSolveCenterAlignment(t *testing.T) {
	req := Request{
		Anchor:    Anchor{X: 40, Y: 10, Width: 10, Height: 1},
		Preferred: PlacementBottom,
	}
	got, err := Solve(req, Size{Width: 24, Height: 5}, Size{Width: 100, Height: 30})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	// Centered: anchor center 45, overlay spans [33, 57).
	if got.X != 33 {
		t.Errorf("X = %d, want 33", got.X)
	}
}

// TestSolveCursorAnchorExample is the canonical cursor-menu scenario: a
// zero-area anchor near the top edge with flip and shift enabled. The
// solver flips to bottom and leaves X at the anchor point.
func TestSolveCursorAnchorExample(t *testing.T) {
	req := Request{
		Anchor:    Anchor{X: 500, Y: 10, Width: 0, Height: 0},
		Preferred: PlacementTop,
		Offset:    8,
		Flip:      true,
		Shift:     true,
		Padding:   8,
	}
	got, err := Solve(req, Size{Width: 280, Height: 180}, Size{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	want := Resolved{X: 500, Y: 18, Placement: PlacementBottom}
	if got != want {
		t.Errorf("Solve() = %+v, want %+v", got, want)
	}
}

// =============================================================================
// REGION TESTS
// =============================================================================

func TestRegionContains(t *testing.T) {
	r := Region{X: 5, Y: 5, Width: 10, Height: 4}

	tests := []struct {
		x, y int
		want bool
	}{
		{5, 5, true},    // top-left corner
		{14, 8, true},   // bottom-right inside
		{15, 5, false},  // past right edge
		{5, 9, false},   // past bottom edge
		{4, 5, false},   // left of region
		{0, 0, false},   // origin
	}

	for _, tc := range tests {
		if got := r.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	if (Region{}).Contains(0, 0) {
		t.Error("empty region must contain nothing")
	}
}
