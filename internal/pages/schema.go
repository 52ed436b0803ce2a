// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

const (
	// SchemaVersion tracks the database schema version for migrations.
	SchemaVersion = 1
)

// SQLite schema for the page store.
const schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Pages table: the user's documents
CREATE TABLE IF NOT EXISTS pages (
    id TEXT PRIMARY KEY,        -- UUID
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL, -- Unix timestamp
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pages_updated_at ON pages(updated_at);

-- Edits table: assistant edit proposals and their resolution
CREATE TABLE IF NOT EXISTS edits (
    id TEXT PRIMARY KEY,        -- UUID
    page_id TEXT NOT NULL,
    text TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending', -- pending, accepted, rejected
    created_at INTEGER NOT NULL,
    resolved_at INTEGER,
    FOREIGN KEY(page_id) REFERENCES pages(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_edits_page_id ON edits(page_id);
CREATE INDEX IF NOT EXISTS idx_edits_status ON edits(status);
`

const initMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
