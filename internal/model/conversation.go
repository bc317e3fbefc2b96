// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered, append-only list of messages.
// It is not safe for concurrent use; the session holder guards it.
type Conversation struct {
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{messages: make([]Message, 0)}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the messages in display order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// HasUserMessage reports whether any message was authored by the user.
func (c *Conversation) HasUserMessage() bool {
	for _, msg := range c.messages {
		if msg.IsUser() {
			return true
		}
	}
	return false
}

// Last returns the most recent message and false if the list is empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Reset removes every message.
func (c *Conversation) Reset() {
	c.messages = make([]Message, 0)
}

// =============================================================================
// PROCESSED SET
// =============================================================================

// ProcessedSet records raw texts whose request completed successfully.
// Matching is exact: no trimming or case folding.
type ProcessedSet struct {
	seen map[string]struct{}
}

// NewProcessedSet creates an empty set.
func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{seen: make(map[string]struct{})}
}

// Contains reports whether text already completed a round trip.
func (p *ProcessedSet) Contains(text string) bool {
	_, ok := p.seen[text]
	return ok
}

// Add marks text as processed.
func (p *ProcessedSet) Add(text string) {
	p.seen[text] = struct{}{}
}

// Len returns the number of processed texts.
func (p *ProcessedSet) Len() int {
	return len(p.seen)
}

// Reset empties the set.
func (p *ProcessedSet) Reset() {
	p.seen = make(map[string]struct{})
}
