// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sources provides the data-source connector registry for haven.
//
// Connectors (notion, gmail, calendar, files) feed the mention picker
// and the status line. Remote connectors are represented by catalog
// entries whose sync runs server-side; the local files connector watches
// a notes directory with fsnotify and debounces change bursts.
package sources
