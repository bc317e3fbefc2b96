// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ndu-tui/internal/storage"
)

var base36Pattern = regexp.MustCompile(`^[0-9a-z]+$`)

func TestNewID_Format(t *testing.T) {
	now := time.UnixMilli(1752148800000)
	id := NewID(now)

	assert.True(t, base36Pattern.MatchString(id), "id %q is not base-36", id)

	suffix := strconv.FormatInt(now.UnixMilli(), 36)
	assert.Equal(t, suffix, id[randomIDLength:])
	assert.NotEqual(t, id, NewID(now))
}

func TestGetOrCreateID_Stable(t *testing.T) {
	kv := storage.NewMemoryStore()
	ids := NewStore(kv)

	first, err := ids.GetOrCreateID(KeyUserID)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := ids.GetOrCreateID(KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, ok, err := kv.Get(KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, stored)
}

func TestGetOrCreateID_ReusesExisting(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(KeySessionID, "existing-session"))

	id, err := NewStore(kv).GetOrCreateID(KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, "existing-session", id)
}

func TestGetOrCreateID_ReplacesEmptyValue(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(KeySessionID, ""))

	id, err := NewStore(kv).GetOrCreateID(KeySessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestLoad_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	kv, err := storage.NewFileStore(path)
	require.NoError(t, err)
	pair, err := Load(NewStore(kv))
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	reopened, err := storage.NewFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := Load(NewStore(reopened))
	require.NoError(t, err)
	assert.Equal(t, pair, again)
	assert.NotEqual(t, pair.UserID, pair.SessionID)
}

func TestRecordPreview_WrittenOnce(t *testing.T) {
	ids := NewStore(storage.NewMemoryStore())

	created, err := ids.RecordPreview("s1", "Who are the main speakers?")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = ids.RecordPreview("s1", "something else")
	require.NoError(t, err)
	assert.False(t, created)

	previews, err := ids.Previews()
	require.NoError(t, err)
	assert.Equal(t, []Preview{{SessionID: "s1", Text: "Who are the main speakers?"}}, previews)

	_, err = ids.RecordPreview("", "x")
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestRotateAndSwitch(t *testing.T) {
	clock := time.UnixMilli(1752148800000)
	ids := NewStore(storage.NewMemoryStore(), WithClock(func() time.Time { return clock }))

	original, err := ids.GetOrCreateID(KeySessionID)
	require.NoError(t, err)
	user, err := ids.GetOrCreateID(KeyUserID)
	require.NoError(t, err)

	rotated, err := ids.Rotate()
	require.NoError(t, err)
	assert.NotEqual(t, original, rotated)

	current, err := ids.GetOrCreateID(KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, rotated, current)

	require.NoError(t, ids.SwitchTo(original))
	current, err = ids.GetOrCreateID(KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, original, current)

	// User id never changes
	sameUser, err := ids.GetOrCreateID(KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, user, sameUser)

	assert.ErrorIs(t, ids.SwitchTo(""), ErrEmptySessionID)
}
