// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a stand-in for the Ndu assistant API.
//
// It serves the same conversational endpoint the chat client calls, with
// canned markdown replies, so the TUI can be developed and demonstrated
// without the real backend. Failure modes reproduce the error paths the
// client has to handle.
//
// # Endpoints
//
//   - POST /api/v1/agents/chat - {"message","user_id","session_id"} to {"data":{"response"}}
//   - GET  /health             - liveness
//   - GET  /stats              - request counters
//
// # Key Types
//
//   - Server: chi router, middleware and lifecycle
//   - Responder: produces the reply text for a request
//   - FailMode: forced failure behaviour
//
// # Usage
//
//	srv := server.NewServer(":8000").WithLogger(logger)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
