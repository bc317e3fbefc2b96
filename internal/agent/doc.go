// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent provides the HTTP client for the conference assistant backend.
//
// Each chat turn is a single POST to {base_url}/api/v1/agents/chat with a
// JSON body {"message", "user_id", "session_id"}. A successful reply carries
// the assistant's markdown in data.response.
//
// # Errors
//
//   - *StatusError: the backend answered with a non-2xx status
//   - ErrMissingResponse: the body decoded but had no data.response
//   - wrapped transport and decode errors
//
// No timeout is applied by the client. Cancellation comes only from the
// context passed to Chat, which the chat widget ties to its own lifetime.
//
// # Usage
//
//	client := agent.NewClient("https://apiconf.ng").WithLogger(log)
//	reply, err := client.Chat(ctx, agent.ChatRequest{
//	    Message:   "Who are the main speakers?",
//	    UserID:    pair.UserID,
//	    SessionID: pair.SessionID,
//	})
package agent
