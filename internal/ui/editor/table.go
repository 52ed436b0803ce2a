// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import "strings"

// =============================================================================
// MARKDOWN TABLE EDITING
// =============================================================================

// tableExtent returns the contiguous run of table lines containing row.
// A table line starts with "|" after leading spaces. Returns ok=false when
// row is not inside a table.
func tableExtent(lines []string, row int) (start, end int, ok bool) {
	if row < 0 || row >= len(lines) || !isTableLine(lines[row]) {
		return 0, 0, false
	}
	start, end = row, row
	for start > 0 && isTableLine(lines[start-1]) {
		start--
	}
	for end < len(lines)-1 && isTableLine(lines[end+1]) {
		end++
	}
	return start, end, true
}

// isTableLine reports whether a line is part of a markdown table.
func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), "|")
}

// splitRow splits a table line into its cell contents, trimmed. The
// leading and trailing pipes produce no cells.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// joinRow renders cells back into a table line.
func joinRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// isSeparatorCells reports whether a cell set is the header separator row
// (cells like "---", ":--", "--:").
func isSeparatorCells(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		body := strings.TrimSuffix(strings.TrimPrefix(c, ":"), ":")
		if body == "" || strings.Trim(body, "-") != "" {
			return false
		}
	}
	return true
}

// columnCount returns the widest row's cell count within the block.
func columnCount(lines []string, start, end int) int {
	n := 0
	for i := start; i <= end; i++ {
		if c := len(splitRow(lines[i])); c > n {
			n = c
		}
	}
	return n
}

// emptyRow builds a blank data row with n cells.
func emptyRow(n int) string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = " "
	}
	return joinRow(cells)
}

// insertTableRow inserts a blank row relative to row, which must be
// inside a table. Inserting above the separator goes below it instead so
// the header stays first.
func insertTableRow(lines []string, row int, above bool) []string {
	start, end, ok := tableExtent(lines, row)
	if !ok {
		return lines
	}

	at := row + 1
	if above {
		at = row
	}
	// Keep the separator directly under the header.
	if at == start+1 && end > start && isSeparatorCells(splitRow(lines[start+1])) {
		at = start + 2
	}

	blank := emptyRow(columnCount(lines, start, end))
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, blank)
	out = append(out, lines[at:]...)
	return out
}

// deleteTableRow removes the row at the cursor. The separator row cannot
// be deleted; deleting the last data row leaves the table intact.
func deleteTableRow(lines []string, row int) []string {
	if _, _, ok := tableExtent(lines, row); !ok {
		return lines
	}
	if isSeparatorCells(splitRow(lines[row])) {
		return lines
	}
	out := make([]string, 0, len(lines)-1)
	out = append(out, lines[:row]...)
	out = append(out, lines[row+1:]...)
	return out
}

// insertTableCol inserts a column next to col in every row of the table
// containing row. Separator rows get a "---" cell.
func insertTableCol(lines []string, row, col int, left bool) []string {
	start, end, ok := tableExtent(lines, row)
	if !ok {
		return lines
	}

	at := col + 1
	if left {
		at = col
	}

	out := append([]string(nil), lines...)
	for i := start; i <= end; i++ {
		cells := splitRow(out[i])
		filler := " "
		if isSeparatorCells(cells) {
			filler = "---"
		}
		pos := at
		if pos < 0 {
			pos = 0
		}
		if pos > len(cells) {
			pos = len(cells)
		}
		cells = append(cells[:pos], append([]string{filler}, cells[pos:]...)...)
		out[i] = joinRow(cells)
	}
	return out
}

// deleteTableCol removes column col from every row of the table
// containing row. The last remaining column cannot be deleted.
func deleteTableCol(lines []string, row, col int) []string {
	start, end, ok := tableExtent(lines, row)
	if !ok {
		return lines
	}
	if columnCount(lines, start, end) <= 1 {
		return lines
	}

	out := append([]string(nil), lines...)
	for i := start; i <= end; i++ {
		cells := splitRow(out[i])
		if col < 0 || col >= len(cells) {
			continue
		}
		cells = append(cells[:col], cells[col+1:]...)
		out[i] = joinRow(cells)
	}
	return out
}

// columnAt returns the cell index the caret column falls in on a table
// line. Columns are counted by pipe crossings left of the caret.
func columnAt(line string, caretCol int) int {
	if caretCol > len(line) {
		caretCol = len(line)
	}
	pipes := strings.Count(line[:caretCol], "|")
	if pipes == 0 {
		return 0
	}
	col := pipes - 1
	if last := len(splitRow(line)) - 1; col > last {
		col = last
	}
	return col
}

// tableSkeleton is the block inserted by the /table command.
const tableSkeleton = "| Column 1 | Column 2 |\n| --- | --- |\n|  |  |\n"
