// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the ndu-tui chat.
//
// # Components
//
//   - TypingIndicator: spinner plus "<name> is typing..." while a reply is pending
//   - Welcome: empty-conversation screen with numbered suggested prompts
//   - HistoryMenu: list of past sessions (by preview) plus "New chat"
//   - RenderHeader: title bar with the menu affordance
//   - RenderErrorBanner: single-line error banner below the messages
//
// Stateful components follow the Bubble Tea pattern of value receivers
// returning an updated copy from Update.
package components
