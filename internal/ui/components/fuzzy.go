// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"unicode"
)

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyMatch performs fuzzy matching between a query and a target string.
// Returns a score (higher is better) and whether the match succeeded.
//
// Matching rules:
//   - Each character in query must appear in order in target
//   - Consecutive matches get bonus points
//   - Matches at word boundaries and at the start get bonus points
//   - Case-insensitive matching, small bonus for exact case
//
// Examples:
//   - "tb" matches "table" with high score (start + boundary)
//   - "hd" matches "heading 1" (non-consecutive)
//   - "xyz" does not match "table"
func FuzzyMatch(query, target string) (score int, matched bool) {
	if query == "" {
		return 0, true
	}

	queryRunes := []rune(strings.ToLower(query))
	targetRunes := []rune(strings.ToLower(target))

	if len(queryRunes) > len(targetRunes) {
		return 0, false
	}

	targetOrigRunes := []rune(target)
	queryOrigRunes := []rune(query)

	queryPos := 0
	score = 0
	lastMatchPos := -1

	for targetPos := 0; targetPos < len(targetRunes) && queryPos < len(queryRunes); targetPos++ {
		if targetRunes[targetPos] != queryRunes[queryPos] {
			continue
		}

		matchScore := 1
		if lastMatchPos == targetPos-1 {
			matchScore += 5
		}
		if targetPos == 0 {
			matchScore += 10
		}
		if isWordBoundary(targetRunes, targetPos) {
			matchScore += 7
		}
		if targetOrigRunes[targetPos] == queryOrigRunes[queryPos] {
			matchScore += 2
		}

		score += matchScore
		lastMatchPos = targetPos
		queryPos++
	}

	matched = queryPos == len(queryRunes)

	// Shorter targets are better matches.
	if matched {
		score -= len(targetRunes) / 4
	}

	return score, matched
}

// isWordBoundary reports whether the position starts a word: after a
// separator character or at a camelCase transition.
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}

	prev := runes[pos-1]
	if prev == ' ' || prev == '/' || prev == '-' || prev == '_' {
		return true
	}
	if unicode.IsLower(prev) && unicode.IsUpper(runes[pos]) {
		return true
	}
	return false
}

// FuzzyMatches reports whether the query fuzzy-matches the target.
func FuzzyMatches(query, target string) bool {
	_, matched := FuzzyMatch(query, target)
	return matched
}
