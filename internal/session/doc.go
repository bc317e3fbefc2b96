// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the state of one chat conversation and drives each
// turn from user input to assistant reply.
//
// # Key Types
//
//   - Session: conversation state holder and send pipeline
//   - Request: an accepted turn waiting for its reply
//   - Bootstrap: one-shot Pending/Fired listener for the ?message= deep link
//   - ResetListener: edge-triggered reset on an external counter
//
// # Send Lifecycle
//
// A turn is split so the Bubble Tea event loop never blocks:
//
//	req := sess.Begin(text)            // preview, dedup, user message, typing on
//	if req != nil {
//	    reply, err := sess.Do(ctx, req) // network call, in a tea.Cmd
//	    sess.Complete(req, reply, err)  // bot message or apology, typing off
//	}
//
// Send runs all three steps synchronously for headless use.
//
// Every failure, whatever its cause, produces the same apology text as both
// the error banner and a bot message. A text is added to the processed set
// only after its reply arrives, so a failed turn can be retried verbatim.
//
// After Close, completions are dropped without touching state.
package session
