// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents one chat message in the conversation.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatRequest is the request body for the /v1/chat endpoint. PageID and
// PageText give the assistant the page the user is editing; Mentions
// carries any @-referenced entity ids.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	PageID   string    `json:"page_id,omitempty"`
	PageText string    `json:"page_text,omitempty"`
	Mentions []string  `json:"mentions,omitempty"`
}

// ResolveRequest reports the user's decision on an edit proposal back to
// the service.
type ResolveRequest struct {
	PageID   string `json:"page_id"`
	EditID   string `json:"edit_id"`
	Accepted bool   `json:"accepted"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EditProposal is a server-suggested page edit. The TUI highlights the
// text and waits for the user to accept or reject.
type EditProposal struct {
	PageID string `json:"page_id"`
	EditID string `json:"edit_id"`
	Text   string `json:"text"`
}

// ChatResponse is the assistant's reply: a markdown message plus any
// edit proposals for the current page.
type ChatResponse struct {
	Message   Message        `json:"message"`
	Proposals []EditProposal `json:"proposals,omitempty"`
}

// errorBody is the service's JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}
