// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the haven TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection; the Theme detects terminal capabilities once at startup.
package styles
