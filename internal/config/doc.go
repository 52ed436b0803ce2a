// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for haven.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation. The file lives at ~/.haven/config.toml;
// HAVEN_* environment variables override individual fields.
package config
