// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// =============================================================================
// OVERLAY COMPOSITING
// =============================================================================

// SpliceOverlay draws a rendered box over a base view at cell (x, y).
// Covered rows keep their content left of the box; the box and everything
// right of it replace the rest of the row. Slicing styled base text at an
// arbitrary column is not safe, so the portion left of the box is blanked
// when the base row carries ANSI sequences.
//
// The base grows with blank lines if the box extends past its bottom.
func SpliceOverlay(base, box string, x, y int) string {
	if box == "" {
		return base
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")

	for len(baseLines) < y+len(boxLines) {
		baseLines = append(baseLines, "")
	}

	pad := strings.Repeat(" ", x)
	for i, bl := range boxLines {
		row := y + i
		prefix := pad
		if plain := baseLines[row]; !strings.ContainsRune(plain, '\x1b') && lipgloss.Width(plain) >= x {
			prefix = runewidth.FillRight(runewidth.Truncate(plain, x, ""), x)
		}
		baseLines[row] = prefix + bl
	}
	return strings.Join(baseLines, "\n")
}
