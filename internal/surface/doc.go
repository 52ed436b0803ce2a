// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface implements the interaction pattern shared by every
// command surface in haven: the slash menu, the selection and table
// toolbars, and the mention picker. A surface opens over a list of items,
// filters them as the user types, groups them for display, navigates with
// the keyboard or the mouse, and commits one item (or, in the multi-select
// variant, a set of items) back to its owner.
//
// The controller is a plain state machine with no rendering dependency;
// chrome lives with the concrete overlays in internal/ui/components, which
// supply a per-item render function.
package surface
