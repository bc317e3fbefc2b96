// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for a chat conversation.
//
// This package defines the core domain types used throughout the application
// for representing the messages exchanged with the conference assistant.
//
// # Key Types
//
//   - Message: Single immutable message with text, sender and display timestamp
//   - Conversation: Ordered, append-only list of messages
//   - ProcessedSet: Raw texts whose round trip already completed successfully
//   - Sender: Message author enumeration (user, bot)
//
// # Usage
//
// Build a conversation:
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("Who are the main speakers?", time.Now(), model.DefaultTimeFormat))
//	for _, msg := range conv.Messages() {
//	    fmt.Println(msg.Sender().DisplayName(), msg.Text())
//	}
//
// Messages never change after creation. Conversation.Messages returns a copy
// so callers cannot reorder or mutate the stored history.
package model
