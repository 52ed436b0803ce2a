// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrPageNotFound = errors.New("page not found")
	ErrEditNotFound = errors.New("edit not found")
)

// =============================================================================
// MODELS
// =============================================================================

// Page is one document in the store.
type Page struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EditStatus is the lifecycle state of an edit proposal.
type EditStatus string

const (
	EditPending  EditStatus = "pending"
	EditAccepted EditStatus = "accepted"
	EditRejected EditStatus = "rejected"
)

// Edit is one assistant edit proposal against a page.
type Edit struct {
	ID         string
	PageID     string
	Text       string
	Status     EditStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed page store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(initMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// PAGE OPERATIONS
// =============================================================================

// CreatePage inserts a new page and returns it with a fresh id.
func (s *Store) CreatePage(ctx context.Context, title, body string) (*Page, error) {
	now := time.Now()
	p := &Page{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Body, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return p, nil
}

// GetPage loads a page by id.
func (s *Store) GetPage(ctx context.Context, id string) (*Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_at, updated_at FROM pages WHERE id = ?`, id)

	var p Page
	var created, updated int64
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPageNotFound, id)
		}
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return &p, nil
}

// UpdatePage replaces a page's title and body.
func (s *Store) UpdatePage(ctx context.Context, id, title, body string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pages SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		title, body, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	return nil
}

// DeletePage removes a page and, via the foreign key cascade, its edits.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	return nil
}

// ListPages returns all pages, most recently updated first.
func (s *Store) ListPages(ctx context.Context) ([]Page, error) {
	return s.queryPages(ctx,
		`SELECT id, title, body, created_at, updated_at FROM pages ORDER BY updated_at DESC`)
}

// SearchTitles returns pages whose title contains the query, for the
// mention picker. An empty query lists everything.
func (s *Store) SearchTitles(ctx context.Context, query string) ([]Page, error) {
	if query == "" {
		return s.ListPages(ctx)
	}
	return s.queryPages(ctx,
		`SELECT id, title, body, created_at, updated_at FROM pages
		 WHERE title LIKE '%' || ? || '%' COLLATE NOCASE
		 ORDER BY updated_at DESC`, query)
}

// queryPages runs a page query and scans the rows.
func (s *Store) queryPages(ctx context.Context, q string, args ...any) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var out []Page
	for rows.Next() {
		var p Page
		var created, updated int64
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0)
		p.UpdatedAt = time.Unix(updated, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// EDIT OPERATIONS
// =============================================================================

// RecordEdit stores an assistant edit proposal as pending. The edit id
// comes from the assistant service so both sides share it.
func (s *Store) RecordEdit(ctx context.Context, editID, pageID, text string) (*Edit, error) {
	if editID == "" {
		editID = uuid.NewString()
	}
	now := time.Now()
	e := &Edit{
		ID:        editID,
		PageID:    pageID,
		Text:      text,
		Status:    EditPending,
		CreatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO edits (id, page_id, text, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.PageID, e.Text, e.Status, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to record edit: %w", err)
	}
	return e, nil
}

// ResolveEdit marks a pending edit accepted or rejected. Resolving an
// already-resolved or unknown edit is an error at this layer; the
// annotation tracker upstream filters the unknown-edit no-op case.
func (s *Store) ResolveEdit(ctx context.Context, editID string, accepted bool) error {
	status := EditRejected
	if accepted {
		status = EditAccepted
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE edits SET status = ?, resolved_at = ? WHERE id = ? AND status = 'pending'`,
		status, time.Now().Unix(), editID)
	if err != nil {
		return fmt.Errorf("failed to resolve edit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrEditNotFound, editID)
	}
	return nil
}

// PendingEdits returns a page's unresolved edits, oldest first.
func (s *Store) PendingEdits(ctx context.Context, pageID string) ([]Edit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, page_id, text, status, created_at, resolved_at FROM edits
		 WHERE page_id = ? AND status = 'pending' ORDER BY created_at ASC`, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	var out []Edit
	for rows.Next() {
		e, err := scanEdit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEdit loads one edit by id.
func (s *Store) GetEdit(ctx context.Context, editID string) (*Edit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, page_id, text, status, created_at, resolved_at FROM edits WHERE id = ?`, editID)

	var e Edit
	var created int64
	var resolved sql.NullInt64
	if err := row.Scan(&e.ID, &e.PageID, &e.Text, &e.Status, &created, &resolved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrEditNotFound, editID)
		}
		return nil, fmt.Errorf("failed to load edit: %w", err)
	}
	e.CreatedAt = time.Unix(created, 0)
	if resolved.Valid {
		t := time.Unix(resolved.Int64, 0)
		e.ResolvedAt = &t
	}
	return &e, nil
}

// scanEdit scans one edit row.
func scanEdit(rows *sql.Rows) (Edit, error) {
	var e Edit
	var created int64
	var resolved sql.NullInt64
	if err := rows.Scan(&e.ID, &e.PageID, &e.Text, &e.Status, &created, &resolved); err != nil {
		return Edit{}, fmt.Errorf("failed to scan edit: %w", err)
	}
	e.CreatedAt = time.Unix(created, 0)
	if resolved.Valid {
		t := time.Unix(resolved.Int64, 0)
		e.ResolvedAt = &t
	}
	return e, nil
}
