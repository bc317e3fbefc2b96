// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// DefaultTimeFormat renders the local wall-clock hour and minute.
const DefaultTimeFormat = "15:04"

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Ndu"
	default:
		return string(s)
	}
}

// IsValid reports whether s is one of the known senders.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderBot
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message. The zero value is an empty user-less
// message; use the constructors to build real ones. Fields are unexported so
// a message cannot change after it is created.
type Message struct {
	text      string
	sender    Sender
	timestamp string
}

// NewMessage creates a message stamped with now formatted by layout.
// An empty layout falls back to DefaultTimeFormat.
func NewMessage(text string, sender Sender, now time.Time, layout string) Message {
	if layout == "" {
		layout = DefaultTimeFormat
	}
	return Message{
		text:      text,
		sender:    sender,
		timestamp: now.Local().Format(layout),
	}
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(text string, now time.Time, layout string) Message {
	return NewMessage(text, SenderUser, now, layout)
}

// NewBotMessage creates a bot-authored message.
func NewBotMessage(text string, now time.Time, layout string) Message {
	return NewMessage(text, SenderBot, now, layout)
}

// Text returns the message body.
func (m Message) Text() string { return m.text }

// Sender returns the author.
func (m Message) Sender() Sender { return m.sender }

// Timestamp returns the preformatted display time.
func (m Message) Timestamp() string { return m.timestamp }

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool { return m.sender == SenderUser }

// IsBot reports whether the assistant wrote the message.
func (m Message) IsBot() bool { return m.sender == SenderBot }

// messageJSON is the wire form used by the headless ask output.
type messageJSON struct {
	Text      string `json:"text"`
	Sender    Sender `json:"sender"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON encodes the message with its read-only fields.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{Text: m.text, Sender: m.sender, Timestamp: m.timestamp})
}
