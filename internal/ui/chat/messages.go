// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/ndu-tui/internal/session"

// =============================================================================
// INTERNAL MESSAGES
// =============================================================================

// replyMsg carries the outcome of a network call back to the event loop.
type replyMsg struct {
	req   *session.Request
	reply string
	err   error
}

// bootstrapMsg sends the deep-link message once the start-up delay passed.
type bootstrapMsg struct {
	text string
}

// =============================================================================
// BOUNDARY MESSAGES
// =============================================================================

// ResetSignalMsg delivers a new value of the host's reset counter.
type ResetSignalMsg struct {
	Value int
}

// OpenMenuMsg is emitted when the user asks for the history menu.
type OpenMenuMsg struct{}
