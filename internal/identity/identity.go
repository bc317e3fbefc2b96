// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/ndu-tui/internal/storage"
)

// Storage keys.
const (
	KeyUserID     = "apiconf_user_id"
	KeySessionID  = "apiconf_session_id"
	PreviewPrefix = "session_preview_"
)

// randomIDLength is the number of random base-36 digits before the time part.
const randomIDLength = 11

const base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// ErrEmptySessionID is returned when switching to an empty session id.
var ErrEmptySessionID = errors.New("identity: session id must not be empty")

// =============================================================================
// INTERFACES
// =============================================================================

// Provider returns a stable identifier for key, creating it on first use.
type Provider interface {
	GetOrCreateID(key string) (string, error)
}

// PreviewRecorder stores the first user message of a session.
type PreviewRecorder interface {
	RecordPreview(sessionID, text string) (bool, error)
}

// Pair is the identifier pair attached to outbound requests.
type Pair struct {
	UserID    string
	SessionID string
}

// Load resolves both identifiers from p.
func Load(p Provider) (Pair, error) {
	userID, err := p.GetOrCreateID(KeyUserID)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to load user id: %w", err)
	}
	sessionID, err := p.GetOrCreateID(KeySessionID)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to load session id: %w", err)
	}
	return Pair{UserID: userID, SessionID: sessionID}, nil
}

// =============================================================================
// ID GENERATION
// =============================================================================

// NewID returns random base-36 digits followed by now in base-36 milliseconds.
func NewID(now time.Time) string {
	var sb strings.Builder
	sb.Grow(randomIDLength + 9)

	max := big.NewInt(int64(len(base36Digits)))
	for i := 0; i < randomIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			n = big.NewInt(now.UnixNano() % 36)
		}
		sb.WriteByte(base36Digits[n.Int64()])
	}
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	return sb.String()
}

// =============================================================================
// STORE
// =============================================================================

// Store implements Provider and PreviewRecorder on top of a storage.KV.
type Store struct {
	kv  storage.KV
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for new identifiers.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an identity store backed by kv.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateID returns the value stored under key, creating one if unset.
// When two processes race, the first writer wins and both see its value.
func (s *Store) GetOrCreateID(key string) (string, error) {
	id, ok, err := s.kv.Get(key)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = NewID(s.now())
	if ok {
		// Empty value on record, replace it
		if err := s.kv.Set(key, id); err != nil {
			return "", err
		}
		return id, nil
	}

	created, err := s.kv.SetIfAbsent(key, id)
	if err != nil {
		return "", err
	}
	if created {
		return id, nil
	}
	existing, _, err := s.kv.Get(key)
	if err != nil {
		return "", err
	}
	return existing, nil
}

// Rotate replaces the session id with a fresh one and returns it.
func (s *Store) Rotate() (string, error) {
	id := NewID(s.now())
	if err := s.kv.Set(KeySessionID, id); err != nil {
		return "", fmt.Errorf("failed to rotate session id: %w", err)
	}
	return id, nil
}

// SwitchTo makes sessionID the current session.
func (s *Store) SwitchTo(sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if err := s.kv.Set(KeySessionID, sessionID); err != nil {
		return fmt.Errorf("failed to switch session: %w", err)
	}
	return nil
}

// =============================================================================
// PREVIEWS
// =============================================================================

// Preview is the first user message recorded for a session.
type Preview struct {
	SessionID string
	Text      string
}

// PreviewKey returns the storage key for sessionID's preview.
func PreviewKey(sessionID string) string {
	return PreviewPrefix + sessionID
}

// RecordPreview stores text as the session preview unless one exists.
// It reports whether this call wrote it.
func (s *Store) RecordPreview(sessionID, text string) (bool, error) {
	if sessionID == "" {
		return false, ErrEmptySessionID
	}
	return s.kv.SetIfAbsent(PreviewKey(sessionID), text)
}

// Previews lists every recorded session preview, ordered by session id.
func (s *Store) Previews() ([]Preview, error) {
	entries, err := s.kv.List(PreviewPrefix)
	if err != nil {
		return nil, err
	}
	previews := make([]Preview, 0, len(entries))
	for _, e := range entries {
		previews = append(previews, Preview{
			SessionID: strings.TrimPrefix(e.Key, PreviewPrefix),
			Text:      e.Value,
		})
	}
	return previews, nil
}
