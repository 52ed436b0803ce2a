// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/havenlabs/haven-tui/internal/surface"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
	"github.com/havenlabs/haven-tui/internal/util"
)

// =============================================================================
// GROUPED LIST RENDERING
// =============================================================================

// ItemRenderer renders one list row at the given inner width. The selected
// flag refers to the keyboard highlight, not multi-select membership.
type ItemRenderer[V any] func(item surface.Item[V], selected bool, width int) string

// defaultItemRenderer renders a label row with selected-row inversion.
func defaultItemRenderer[V any](t *styles.Theme) ItemRenderer[V] {
	return func(item surface.Item[V], selected bool, width int) string {
		label := util.PadWidth(util.TruncateWidth(item.Label, width), width)
		if selected {
			return t.SurfaceItemSelected.Render(label)
		}
		return t.SurfaceItem.Render(label)
	}
}

// renderGroupedList renders the controller's filtered items with group
// labels, one row per line. The layout must stay in sync with
// listRowToIndex, which maps click rows back onto item indices.
func renderGroupedList[V any](t *styles.Theme, ctrl *surface.Controller[V], render ItemRenderer[V], width int) string {
	groups := ctrl.Groups()
	if len(groups) == 0 {
		return t.SurfaceEmpty.Render("No matches")
	}

	selected := ctrl.SelectedIndex()
	var rows []string
	for _, g := range groups {
		if g.Name != "" {
			rows = append(rows, t.SurfaceGroupLabel.Render(util.TruncateWidth(g.Name, width)))
		}
		for i, item := range g.Items {
			rows = append(rows, render(item, g.Start+i == selected, width))
		}
	}
	return strings.Join(rows, "\n")
}

// listRowToIndex maps a zero-based content row to the linear item index,
// accounting for group label rows. Rows that land on a label or past the
// end report no item.
func listRowToIndex[V any](groups []surface.Group[V], row int) (int, bool) {
	r := 0
	for _, g := range groups {
		if g.Name != "" {
			if row == r {
				return 0, false
			}
			r++
		}
		for i := range g.Items {
			if row == r {
				return g.Start + i, true
			}
			r++
		}
	}
	return 0, false
}
