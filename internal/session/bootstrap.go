// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"net/url"
	"sync"
	"time"

	"github.com/jeranaias/ndu-tui/internal/location"
)

// MessageParam is the query parameter that bootstraps the first turn.
const MessageParam = "message"

// DefaultBootstrapDelay is how long after start-up the bootstrap turn is sent.
const DefaultBootstrapDelay = 100 * time.Millisecond

// BootstrapState is the state of a Bootstrap listener.
type BootstrapState int

const (
	// BootstrapPending means no deep-link message has been taken yet.
	BootstrapPending BootstrapState = iota

	// BootstrapFired means the deep-link message was taken. Terminal.
	BootstrapFired
)

// String returns the state name.
func (s BootstrapState) String() string {
	switch s {
	case BootstrapPending:
		return "pending"
	case BootstrapFired:
		return "fired"
	default:
		return "unknown"
	}
}

// Bootstrap takes the ?message= parameter from the address at most once.
type Bootstrap struct {
	mu    sync.Mutex
	state BootstrapState
}

// NewBootstrap returns a listener in the Pending state.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{state: BootstrapPending}
}

// State returns the current state.
func (b *Bootstrap) State() BootstrapState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Check returns the message to send and true on the first call that finds
// a non-empty message parameter. The value is percent-decoded once more
// after query parsing; a malformed escape keeps the parsed value. Without
// the parameter the listener stays Pending.
func (b *Bootstrap) Check(addr *location.Address) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BootstrapFired || addr == nil {
		return "", false
	}

	raw := addr.Query().Get(MessageParam)
	if raw == "" {
		return "", false
	}

	text, err := url.PathUnescape(raw)
	if err != nil {
		text = raw
	}

	b.state = BootstrapFired
	return text, true
}
