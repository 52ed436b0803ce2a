// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides positioning and dismissal for floating surfaces.
package overlay

// =============================================================================
// GEOMETRY
// =============================================================================

// Region is a rendered rectangle on the terminal grid, in cells.
// The zero Region is a degenerate (empty) region at the origin.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the cell (x, y) falls inside the region.
// An empty region contains nothing.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Selection is a text selection expressed as an inclusive cell range.
// Start and end may arrive in either order (backwards selections happen
// when the user extends a selection upward).
type Selection struct {
	StartX int
	StartY int
	EndX   int
	EndY   int
}

// =============================================================================
// ANCHOR
// =============================================================================

// Anchor is the positioning reference for an overlay: a rectangle in
// viewport cells that may not correspond to any rendered widget (a cursor
// position has zero area). Anchors are recomputed on every open and on
// every layout-affecting event while the overlay stays open; they hold no
// state of their own.
type Anchor struct {
	X      int
	Y      int
	Width  int
	Height int
}

// AnchorRegion returns the anchor for a rendered region. A detached or
// zero-sized region yields a degenerate zero-area anchor rather than an
// error, so callers never need a nil check before positioning.
func AnchorRegion(r Region) Anchor {
	w, h := r.Width, r.Height
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Anchor{X: r.X, Y: r.Y, Width: w, Height: h}
}

// AnchorPoint returns a zero-area anchor at (x, y). Used for cursor-tracked
// overlays like the slash menu and the link popover, where there is no
// natural rectangle to anchor against.
func AnchorPoint(x, y int) Anchor {
	return Anchor{X: x, Y: y}
}

// AnchorSelection returns the bounding rectangle of a selection. The
// selection toolbar hovers above this rectangle. Inverted ranges are
// normalized; a collapsed selection degrades to a one-cell anchor.
func AnchorSelection(sel Selection) Anchor {
	x0, x1 := sel.StartX, sel.EndX
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := sel.StartY, sel.EndY
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Anchor{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}
