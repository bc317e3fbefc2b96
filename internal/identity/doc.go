// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity manages the client identifiers sent with every chat turn.
//
// A user id and a session id are created once, persisted in durable storage
// under apiconf_user_id and apiconf_session_id, and reused on every later
// run. The first user message of each session is kept as a preview under
// session_preview_<sessionId> for the history menu.
//
// # Usage
//
//	ids := identity.NewStore(kv)
//	pair, err := identity.Load(ids)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pair.UserID, pair.SessionID)
//
// Starting a new chat rotates only the session id; the user id is stable for
// as long as the storage entry exists.
package identity
