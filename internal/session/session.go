// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/agent"
	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/location"
	"github.com/jeranaias/ndu-tui/internal/model"
)

// ErrorMessage is shown as both the error banner and a bot message whenever
// a turn fails.
const ErrorMessage = "Sorry, I seem to be having trouble connecting. Please try again later."

// Sender delivers one chat turn to the backend. *agent.Client implements it.
type Sender interface {
	Chat(ctx context.Context, req agent.ChatRequest) (string, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the conversation state holder. All state sits behind one mutex
// so a reader never observes a half-applied mutation.
type Session struct {
	mu sync.Mutex

	conv      *model.Conversation
	processed *model.ProcessedSet
	input     string
	typing    bool
	errText   string
	closed    bool

	// epoch increments on Reset; replies from an older epoch are dropped
	epoch uint64

	sender   Sender
	ids      identity.Provider
	previews identity.PreviewRecorder
	addr     *location.Address

	now        func() time.Time
	timeFormat string
	log        zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithAddress sets the deep-link address whose query is cleared after a
// successful reply.
func WithAddress(addr *location.Address) Option {
	return func(s *Session) {
		s.addr = addr
	}
}

// WithPreviewRecorder overrides where session previews are stored.
func WithPreviewRecorder(p identity.PreviewRecorder) Option {
	return func(s *Session) {
		s.previews = p
	}
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log.With().Str("component", "session").Logger()
	}
}

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithTimeFormat sets the timestamp layout. Empty keeps model.DefaultTimeFormat.
func WithTimeFormat(layout string) Option {
	return func(s *Session) {
		if layout != "" {
			s.timeFormat = layout
		}
	}
}

// New creates a session sending through sender with identifiers from ids.
// If ids also records previews it is used for that unless overridden.
func New(sender Sender, ids identity.Provider, opts ...Option) *Session {
	s := &Session{
		conv:       model.NewConversation(),
		processed:  model.NewProcessedSet(),
		sender:     sender,
		ids:        ids,
		addr:       location.New(),
		now:        time.Now,
		timeFormat: model.DefaultTimeFormat,
		log:        zerolog.Nop(),
	}
	if p, ok := ids.(identity.PreviewRecorder); ok {
		s.previews = p
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// READERS
// =============================================================================

// Messages returns a copy of the conversation in display order.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Input returns the current input text.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Typing reports whether the assistant is composing a reply.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Err returns the last error text, or "" when there is none.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errText
}

// Processed reports whether text already completed a successful round trip.
func (s *Session) Processed(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed.Contains(text)
}

// Address returns the deep-link address.
func (s *Session) Address() *location.Address {
	return s.addr
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// =============================================================================
// MUTATORS
// =============================================================================

// SetInput replaces the input text.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// ClearError clears the error banner.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errText = ""
}

// Reset clears messages and the processed set together. Identifiers and
// the input text are left untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Reset()
	s.processed.Reset()
	s.errText = ""
	s.epoch++
	s.log.Debug().Uint64("epoch", s.epoch).Msg("conversation reset")
}

// Close marks the session torn down. Later completions are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
