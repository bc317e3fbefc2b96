// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable client-side key/value storage for ndu-tui.
//
// The chat client keeps a handful of small string values between runs: the
// user and session identifiers and the per-session previews shown in the
// history menu. All backends implement the KV interface.
//
// # Backends
//
//   - memory: process-local map, used by tests and --ephemeral runs
//   - file: single JSON document at ~/.ndu/storage.json, written atomically
//     and watched with fsnotify so a second window sees new entries
//   - sqlite: table kv(key, value) in ~/.ndu/storage.db (pure Go driver)
//
// # Usage
//
//	kv, err := storage.Open(storage.Options{Backend: storage.BackendFile, Path: path})
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//
//	created, err := kv.SetIfAbsent("session_preview_abc", "Who are the main speakers?")
//
// SetIfAbsent is the only compare-and-set primitive. It is what keeps a
// session preview from ever being overwritten once recorded.
package storage
