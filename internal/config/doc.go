// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ndu-tui.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Assistant API location and identification
//   - StorageConfig: Durable storage backend selection
//   - UIConfig: Texts, suggested prompts and timing of the chat widget
//   - LogConfig: Log level and destination
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (NDU_*), including a .env file in the working directory
//   - ~/.ndu/config.toml (or the path given with --config)
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	client := agent.NewClient(cfg.Backend.BaseURL)
//	delay := cfg.UI.BootstrapDelay()
package config
