// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pages provides local page persistence for haven.
//
// Pages and their edit proposals live in a SQLite database (pure Go
// driver). The store backs the editor pane, the mention picker's title
// search, and the edit-resolution audit trail.
package pages
