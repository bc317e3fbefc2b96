// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the "Chat with Ndu" widget for the TUI.
//
// The widget renders a session.Session: a header with the menu key, the
// message list (or the welcome screen while empty), the typing indicator,
// the error banner and the input line. Network calls run in tea.Cmd
// goroutines and come back as messages, so the session is only mutated
// from the Bubble Tea event loop.
//
// # Key Types
//
//   - Model: the Bubble Tea model for the widget
//   - Options: texts, timings and callbacks, usually from OptionsFromConfig
//   - KeyMap: key bindings
//   - ResetSignalMsg, OpenMenuMsg: boundary messages exchanged with the host
//
// # Usage
//
//	sess := session.New(client, ids, session.WithAddress(addr))
//	m := chat.New(sess, styles.NewTheme(), chat.OptionsFromConfig(cfg))
//	defer m.Close()
//	tea.NewProgram(m, tea.WithAltScreen()).Run()
package chat
