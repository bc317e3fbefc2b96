// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the storage and UI layers.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width truncation (CJK aware, via go-runewidth)
//   - SingleLine: collapses line breaks for one-line previews
//
// # Usage
//
//	// Persist the key/value document without risking a torn file
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	// Fit a session preview into a menu row
//	row := util.TruncateWidth(util.SingleLine(preview), 40)
package util
