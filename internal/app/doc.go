// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the top-level Bubble Tea model for ndu-tui.
//
// It hosts the chat widget and owns the boundary inputs the widget expects
// from its host: the menu callback opens the history menu, and the reset
// counter is bumped when the user starts a new chat or restores an earlier
// one. Session previews are re-read whenever the storage watcher reports a
// change, so a second window sees new sessions.
package app
