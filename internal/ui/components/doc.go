// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the floating UI surfaces for the haven TUI:
// the slash menu, the selection and table toolbars, the link popover, and
// the mention picker.
//
// Every component here is thin chrome over two lower layers: the
// surface package owns filter/group/navigate/commit state, and the
// overlay package owns positioning and dismissal. Components render with
// lipgloss and report their rendered Region back to the dismissal
// coordinator as a click boundary.
package components
