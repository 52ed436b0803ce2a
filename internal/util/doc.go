// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across haven.
//
// String helpers are display-width aware (go-runewidth) so overlays and
// list rows line up even with CJK and other double-width characters.
// AtomicWriteFile backs page export into the local notes directory.
package util
