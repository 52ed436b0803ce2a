// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overlay provides the positioning and dismissal framework behind
// every floating surface in the haven editor: the slash menu, the selection
// and table toolbars, the link popover, and the mention picker.
//
// The package has three independent pieces:
//
//   - Anchor resolution: a screen region, a bare point, or a text selection
//     is normalized into an Anchor rectangle in terminal cell coordinates.
//   - Placement solving: Solve computes where an overlay of a given size
//     goes relative to its anchor, flipping and shifting to stay inside the
//     viewport. Solve is a pure function; callers re-run it on resize and
//     scroll, there is no hidden subscription machinery.
//   - Dismissal coordination: a process-wide Coordinator dispatches mouse
//     presses and the escape key to every overlay that registered an
//     interest, so nested and sibling overlays close independently of each
//     other.
//
// All coordinates are terminal cells with the origin at the top-left.
package overlay
