// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetListener_Observe(t *testing.T) {
	var l ResetListener

	steps := []struct {
		value int
		want  bool
	}{
		{0, false},
		{0, false},
		{1, true},
		{1, false},
		{2, true},
		{2, false},
		{1, false},
		{5, true},
		{-1, false},
	}
	for i, step := range steps {
		assert.Equal(t, step.want, l.Observe(step.value), "step %d value %d", i, step.value)
	}
	assert.Equal(t, 5, l.Last())
}

func TestResetListener_Apply(t *testing.T) {
	sess, _ := newTestSession(t, &fakeSender{})
	sess.Send(context.Background(), "Hello")
	var l ResetListener

	assert.False(t, l.Apply(sess, 0))
	assert.Len(t, sess.Messages(), 2)

	assert.True(t, l.Apply(sess, 1))
	assert.Empty(t, sess.Messages())

	sess.Send(context.Background(), "Hello")
	assert.False(t, l.Apply(sess, 1), "same value does not clear again")
	assert.Len(t, sess.Messages(), 2)
}
