// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ndu-tui/internal/agent"
)

// Responder produces the reply for a chat request. turn is 1 for the first
// message of a session.
type Responder interface {
	Reply(req agent.ChatRequest, turn int) string
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(req agent.ChatRequest, turn int) string

// Reply calls f.
func (f ResponderFunc) Reply(req agent.ChatRequest, turn int) string {
	return f(req, turn)
}

// topic is a canned answer selected by keyword.
type topic struct {
	keywords []string
	reply    string
}

// CannedResponder answers conference questions from a fixed table.
type CannedResponder struct {
	topics   []topic
	fallback string
}

// NewCannedResponder returns the built-in conference answers.
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{
		topics: []topic{
			{
				keywords: []string{"speaker", "keynote", "talk"},
				reply: `Here are some of the **main speakers** this year:

| Speaker | Topic |
|---|---|
| Ada Okafor | Designing APIs for Africa's next billion users |
| Tunde Bello | Event-driven systems at scale |
| Chiamaka Eze | Securing public APIs |

Want details on a specific talk?`,
			},
			{
				keywords: []string{"schedule", "agenda", "time", "when"},
				reply: `The conference runs over **two days**:

- **Day 1**: registration 8:00, keynote 9:30, tracks from 11:00
- **Day 2**: workshops from 9:00, closing panel 16:00

- [x] Check in at the registration desk
- [ ] Pick your workshop track`,
			},
			{
				keywords: []string{"venue", "location", "where", "get to", "direction"},
				reply: "The venue is in **Lagos**. Ride-hailing drop-off is at the main gate; parking is limited, so arrive early.",
			},
		},
		fallback: "I'm Ndu, your assistant for the API Conference in Lagos. Ask me about speakers, the schedule or the venue.",
	}
}

// Reply picks the first topic whose keyword appears in the message.
func (c *CannedResponder) Reply(req agent.ChatRequest, turn int) string {
	text := strings.ToLower(req.Message)
	for _, t := range c.topics {
		for _, k := range t.keywords {
			if strings.Contains(text, k) {
				return t.reply
			}
		}
	}
	if turn == 1 {
		return "Hello! " + c.fallback
	}
	return fmt.Sprintf("You said: %q. %s", req.Message, c.fallback)
}
