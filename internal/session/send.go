// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/ndu-tui/internal/agent"
	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/model"
)

// Request is a turn accepted by Begin and not yet completed.
type Request struct {
	// Text is the raw user text, exactly as submitted.
	Text string

	// Payload is the outbound request body.
	Payload agent.ChatRequest

	epoch uint64
	err   error
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// Begin starts a turn. It returns nil when nothing should be sent: blank
// input, a closed session, or text that already completed a round trip.
//
// On acceptance the user message is appended, typing is set and the error
// banner cleared. The first user message of a session is recorded as the
// session preview before the duplicate check runs.
func (s *Session) Begin(text string) *Request {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Identity lookups touch storage; keep them outside the state lock
	pair, idErr := identity.Load(s.ids)
	if idErr != nil {
		s.log.Error().Err(idErr).Msg("failed to load identity")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if !s.conv.HasUserMessage() && idErr == nil && s.previews != nil {
		if _, err := s.previews.RecordPreview(pair.SessionID, text); err != nil {
			s.log.Warn().Err(err).Str("session_id", pair.SessionID).Msg("failed to record session preview")
		}
	}

	if s.processed.Contains(text) {
		s.log.Debug().Str("text", text).Msg("message already processed")
		return nil
	}

	s.conv.Append(model.NewUserMessage(text, s.now(), s.timeFormat))
	s.typing = true
	s.errText = ""

	s.log.Debug().Str("session_id", pair.SessionID).Msg("sending message")

	return &Request{
		Text: text,
		Payload: agent.ChatRequest{
			Message:   text,
			UserID:    pair.UserID,
			SessionID: pair.SessionID,
		},
		epoch: s.epoch,
		err:   idErr,
	}
}

// Do performs the network call for req. It holds no session lock, so it
// may run on any goroutine.
func (s *Session) Do(ctx context.Context, req *Request) (reply string, err error) {
	if req == nil {
		return "", nil
	}
	if req.err != nil {
		return "", req.err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()
	return s.sender.Chat(ctx, req.Payload)
}

// Complete finishes a turn with the reply or the error from Do.
//
// Success appends the bot reply, marks the text processed and clears the
// address query. Any error appends the apology message and sets the banner.
// The typing flag is always cleared last, even if applying the outcome
// panics.
func (s *Session) Complete(req *Request, reply string, err error) {
	if req == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Debug().Msg("dropping reply for closed session")
		return
	}

	defer func() {
		s.typing = false
	}()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("reply handling panicked")
			s.fail()
		}
	}()

	if req.epoch != s.epoch {
		s.log.Debug().Msg("dropping reply from before reset")
		return
	}

	if err != nil {
		s.log.Error().Err(err).Msg("error fetching chat response")
		s.fail()
		return
	}

	s.conv.Append(model.NewBotMessage(reply, s.now(), s.timeFormat))
	s.processed.Add(req.Text)

	if s.addr != nil && s.addr.HasQuery() {
		s.addr.ClearQuery()
	}
}

// fail records the apology as banner and bot message. Caller holds s.mu.
func (s *Session) fail() {
	s.errText = ErrorMessage
	s.conv.Append(model.NewBotMessage(ErrorMessage, s.now(), s.timeFormat))
}

// Send runs a whole turn synchronously. It reports whether a request was
// issued; the outcome is visible through Messages and Err.
func (s *Session) Send(ctx context.Context, text string) bool {
	req := s.Begin(text)
	if req == nil {
		return false
	}
	reply, err := s.Do(ctx, req)
	s.Complete(req, reply, err)
	return true
}
