// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package sources

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// CONNECTOR CATALOG
// =============================================================================

// ErrUnknownSource is returned for connector ids outside the catalog.
var ErrUnknownSource = errors.New("sources: unknown source")

// Status is a connector's connection state.
type Status string

const (
	StatusDisabled  Status = "disabled"
	StatusConnected Status = "connected"
	StatusError     Status = "error"
)

// Source is one connector in the catalog.
type Source struct {
	ID         string
	Name       string
	Status     Status
	LastSynced time.Time
	LastError  string
}

// knownSources is the static catalog. Remote connectors sync server-side;
// the TUI only tracks their status for display.
var knownSources = []Source{
	{ID: "notion", Name: "Notion"},
	{ID: "gmail", Name: "Gmail"},
	{ID: "calendar", Name: "Calendar"},
	{ID: "files", Name: "Local files"},
}

// Registry tracks connector status. It is driven by the bubbletea event
// loop and performs no locking.
type Registry struct {
	sources map[string]*Source
}

// NewRegistry creates a registry with the given connectors enabled. An
// empty enabled list activates the whole catalog. Unknown ids fail fast
// so a config typo surfaces at startup.
func NewRegistry(enabled []string) (*Registry, error) {
	r := &Registry{sources: make(map[string]*Source)}
	for _, s := range knownSources {
		copied := s
		copied.Status = StatusDisabled
		r.sources[s.ID] = &copied
	}

	if len(enabled) == 0 {
		for _, s := range r.sources {
			s.Status = StatusConnected
		}
		return r, nil
	}

	for _, id := range enabled {
		s, ok := r.sources[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
		}
		s.Status = StatusConnected
	}
	return r, nil
}

// Get returns a connector by id.
func (r *Registry) Get(id string) (Source, error) {
	s, ok := r.sources[id]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return *s, nil
}

// List returns all connectors, enabled first, then by id.
func (r *Registry) List() []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].Status != StatusDisabled, out[j].Status != StatusDisabled
		if ei != ej {
			return ei
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Enabled returns the connectors available to the mention picker.
func (r *Registry) Enabled() []Source {
	var out []Source
	for _, s := range r.List() {
		if s.Status != StatusDisabled {
			out = append(out, s)
		}
	}
	return out
}

// MarkSynced records a successful sync.
func (r *Registry) MarkSynced(id string, at time.Time) error {
	s, ok := r.sources[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	s.Status = StatusConnected
	s.LastSynced = at
	s.LastError = ""
	return nil
}

// MarkError records a sync failure without disabling the connector.
func (r *Registry) MarkError(id string, cause error) error {
	s, ok := r.sources[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	s.Status = StatusError
	s.LastError = cause.Error()
	return nil
}
