// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides positioning and dismissal for floating surfaces.
package overlay

import (
	"errors"
	"fmt"
)

// =============================================================================
// PLACEMENT
// =============================================================================

// Placement names the relationship between an overlay and its anchor.
// Top placements sit above the anchor, bottom placements below; the
// -start/-end variants align to the anchor's left or right edge, the bare
// variants center on it.
type Placement int

const (
	PlacementTop Placement = iota
	PlacementTopStart
	PlacementTopEnd
	PlacementBottom
	PlacementBottomStart
	PlacementBottomEnd
)

// ErrUnknownPlacement is returned for placement values outside the
// enumerated set. Misconfigured overlays should fail during development,
// not silently fall back to a default.
var ErrUnknownPlacement = errors.New("overlay: unknown placement")

// String returns the canonical name ("top", "bottom-start", ...).
func (p Placement) String() string {
	switch p {
	case PlacementTop:
		return "top"
	case PlacementTopStart:
		return "top-start"
	case PlacementTopEnd:
		return "top-end"
	case PlacementBottom:
		return "bottom"
	case PlacementBottomStart:
		return "bottom-start"
	case PlacementBottomEnd:
		return "bottom-end"
	}
	return "unknown"
}

// ParsePlacement parses a canonical placement name, as found in config
// files. Unknown names are an error, never a default.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "top":
		return PlacementTop, nil
	case "top-start":
		return PlacementTopStart, nil
	case "top-end":
		return PlacementTopEnd, nil
	case "bottom":
		return PlacementBottom, nil
	case "bottom-start":
		return PlacementBottomStart, nil
	case "bottom-end":
		return PlacementBottomEnd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlacement, s)
}

// isTop reports whether the placement sits above the anchor.
func (p Placement) isTop() bool {
	return p == PlacementTop || p == PlacementTopStart || p == PlacementTopEnd
}

// Opposite returns the placement mirrored across the anchor's main axis,
// preserving the start/end alignment. Used when a flip is needed.
func (p Placement) Opposite() Placement {
	switch p {
	case PlacementTop:
		return PlacementBottom
	case PlacementTopStart:
		return PlacementBottomStart
	case PlacementTopEnd:
		return PlacementBottomEnd
	case PlacementBottom:
		return PlacementTop
	case PlacementBottomStart:
		return PlacementTopStart
	case PlacementBottomEnd:
		return PlacementTopEnd
	}
	return p
}

// valid reports whether p is one of the enumerated placements.
func (p Placement) valid() bool {
	return p >= PlacementTop && p <= PlacementBottomEnd
}

// =============================================================================
// SOLVER
// =============================================================================

// Size is a width/height pair in cells.
type Size struct {
	Width  int
	Height int
}

// Request describes one placement computation.
type Request struct {
	// Anchor is the positioning reference, already resolved.
	Anchor Anchor

	// Preferred is the placement to try first. Must be one of the
	// enumerated values; Solve fails fast otherwise.
	Preferred Placement

	// Offset is the gap between anchor and overlay along the main axis.
	Offset int

	// Flip substitutes the opposite placement when the preferred one
	// would overflow the viewport along its main axis.
	Flip bool

	// Shift translates the overlay along the cross axis to keep it
	// inside the viewport, without changing the placement.
	Shift bool

	// Padding is the minimum distance kept from the viewport edges when
	// shifting or clamping.
	Padding int
}

// Resolved is the outcome of one placement computation: the overlay's
// top-left corner and the placement actually used, which differs from the
// requested one when a flip occurred. Callers that draw placement-dependent
// decoration (a pointing arrow) read Placement. Each Solve call produces a
// fresh value; Resolved is never mutated in place.
type Resolved struct {
	X         int
	Y         int
	Placement Placement
}

// Solve computes the final position for an overlay of the given size
// against the given viewport. It is a pure function: identical inputs
// yield identical outputs, and nothing is retained between calls. Callers
// re-run it on open, on resize, and on scroll.
//
// When the overlay is wider than the shiftable span the X coordinate is
// clamped to the leading padding and the overlay overflows the trailing
// edge; that is accepted degradation, not an error.
func Solve(req Request, overlay, viewport Size) (Resolved, error) {
	if !req.Preferred.valid() {
		return Resolved{}, fmt.Errorf("%w: %d", ErrUnknownPlacement, int(req.Preferred))
	}

	placement := req.Preferred
	y := mainAxis(req.Anchor, placement, overlay, req.Offset)

	// Flip across the anchor when the preferred side overflows.
	if req.Flip {
		if placement.isTop() && y < 0 {
			placement = placement.Opposite()
			y = mainAxis(req.Anchor, placement, overlay, req.Offset)
		} else if !placement.isTop() && y+overlay.Height > viewport.Height {
			placement = placement.Opposite()
			y = mainAxis(req.Anchor, placement, overlay, req.Offset)
		}
	}

	x := crossAxis(req.Anchor, placement, overlay)

	if req.Shift {
		x = shift(x, overlay.Width, viewport.Width, req.Padding)
	}

	return Resolved{X: x, Y: y, Placement: placement}, nil
}

// mainAxis computes the Y coordinate for a placement.
func mainAxis(a Anchor, p Placement, overlay Size, offset int) int {
	if p.isTop() {
		return a.Y - overlay.Height - offset
	}
	return a.Y + a.Height + offset
}

// crossAxis computes the X coordinate for a placement: anchored to the
// anchor's left edge for -start, right edge for -end, centered otherwise.
// A zero-width anchor has no span to center on; the overlay's leading edge
// sits at the anchor point, which is how caret-tracked menus behave.
func crossAxis(a Anchor, p Placement, overlay Size) int {
	switch p {
	case PlacementTopStart, PlacementBottomStart:
		return a.X
	case PlacementTopEnd, PlacementBottomEnd:
		return a.X + a.Width - overlay.Width
	}
	if a.Width == 0 {
		return a.X
	}
	return a.X + (a.Width-overlay.Width)/2
}

// shift translates a cross-axis coordinate by the minimum amount that
// keeps [x, x+width) within [padding, limit-padding]. An overlay larger
// than the available span clamps to the leading padding.
func shift(x, width, limit, padding int) int {
	max := limit - padding - width
	if x > max {
		x = max
	}
	if x < padding {
		x = padding
	}
	return x
}
