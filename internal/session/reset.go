// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// ResetListener turns an externally owned, non-decreasing counter into reset
// events. Zero means no signal. Each increase above the last seen value is
// one event; repeating a value is not.
type ResetListener struct {
	last int
}

// Observe records v and reports whether it is a new reset event.
func (l *ResetListener) Observe(v int) bool {
	if v <= 0 || v <= l.last {
		return false
	}
	l.last = v
	return true
}

// Last returns the highest value observed.
func (l *ResetListener) Last() int {
	return l.last
}

// Apply observes v and resets s when it is a new event.
func (l *ResetListener) Apply(s *Session, v int) bool {
	if !l.Observe(v) {
		return false
	}
	s.Reset()
	return true
}
