// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the haven assistant service.
//
// All business logic lives server-side; this client covers the three
// calls the TUI makes: health check, chat completion, and edit-proposal
// resolution. Requests are rate limited client-side and never retried;
// a failed call surfaces to the user as a chat error line.
package api
