// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ndu-tui/internal/agent"
	"github.com/jeranaias/ndu-tui/internal/config"
	"github.com/jeranaias/ndu-tui/internal/session"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type backend struct {
	mu       sync.Mutex
	requests []agent.ChatRequest
	status   int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req agent.ChatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	b.requests = append(b.requests, req)
	status := b.status
	b.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		http.Error(w, "backend down", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{"response": "echo: " + req.Message},
	})
}

// setupEnv points home, logs and the backend at test-local locations.
func setupEnv(t *testing.T, b *backend) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NDU_LOG_PATH", filepath.Join(home, "ndu.log"))
	t.Setenv("NDU_STORAGE_BACKEND", "file")
	t.Setenv("NDU_STORAGE_PATH", "")
	t.Setenv("NDU_LOG_CONSOLE", "false")
	if b != nil {
		srv := httptest.NewServer(b)
		t.Cleanup(srv.Close)
		t.Setenv("NDU_BASE_URL", srv.URL)
	}
	t.Cleanup(config.ResetGlobalForTesting)
	return home
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	code = run(root, args, &errOut)
	return out.String(), errOut.String(), code
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_PrintsReply(t *testing.T) {
	b := &backend{}
	setupEnv(t, b)

	out, stderr, code := execute(t, "ask", "Who", "are", "the", "main", "speakers?")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "echo: Who are the main speakers?\n", out)
	require.Len(t, b.requests, 1)
	assert.Equal(t, "Who are the main speakers?", b.requests[0].Message)
	assert.NotEmpty(t, b.requests[0].UserID)
	assert.NotEmpty(t, b.requests[0].SessionID)
}

func TestAsk_SameIdentityAcrossRuns(t *testing.T) {
	b := &backend{}
	setupEnv(t, b)

	_, _, code := execute(t, "ask", "first")
	require.Equal(t, 0, code)
	_, _, code = execute(t, "ask", "second")
	require.Equal(t, 0, code)

	require.Len(t, b.requests, 2)
	assert.Equal(t, b.requests[0].UserID, b.requests[1].UserID)
	assert.Equal(t, b.requests[0].SessionID, b.requests[1].SessionID)
}

func TestAsk_BackendFailure(t *testing.T) {
	b := &backend{status: http.StatusInternalServerError}
	setupEnv(t, b)

	out, stderr, code := execute(t, "ask", "Hello")

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "no reply from the assistant")
	assert.Contains(t, stderr, session.ErrorMessage)
}

func TestAsk_BlankMessage(t *testing.T) {
	setupEnv(t, &backend{})

	_, stderr, code := execute(t, "ask", "   ")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, ErrNotSent.Error())
}

// =============================================================================
// HISTORY AND NEW
// =============================================================================

func TestHistory_ListsPreviews(t *testing.T) {
	setupEnv(t, &backend{})

	out, _, code := execute(t, "history")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No sessions yet.")

	_, _, code = execute(t, "ask", "Where is the venue?")
	require.Equal(t, 0, code)
	_, _, code = execute(t, "ask", "And lunch?")
	require.Equal(t, 0, code)

	out, _, code = execute(t, "history")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Where is the venue?")
	assert.Contains(t, out, "(current)")
	assert.NotContains(t, out, "And lunch?", "only the first message is the preview")
}

func TestNew_RotatesSession(t *testing.T) {
	setupEnv(t, &backend{})

	_, _, code := execute(t, "ask", "Hello")
	require.Equal(t, 0, code)

	out, _, code := execute(t, "new")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "New session: "))

	out, _, code = execute(t, "history", "--json")
	require.Equal(t, 0, code)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Hello", entries[0].Preview)
	assert.False(t, entries[0].Current)
}

// =============================================================================
// CONFIG AND VERSION
// =============================================================================

func TestConfigCommands(t *testing.T) {
	home := setupEnv(t, nil)
	path := filepath.Join(home, "custom.toml")

	out, _, code := execute(t, "--config", path, "config", "path")
	require.Equal(t, 0, code)
	assert.Equal(t, path+"\n", out)

	out, _, code = execute(t, "--config", path, "config", "init")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Wrote")
	_, err := os.Stat(path)
	require.NoError(t, err)

	_, stderr, code := execute(t, "--config", path, "config", "init")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	_, _, code = execute(t, "--config", path, "config", "init", "--force")
	assert.Equal(t, 0, code)

	out, _, code = execute(t, "--config", path, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "base_url")
	assert.Contains(t, out, "Who are the main speakers?")
	assert.Contains(t, out, `title = "Chat with Ndu"`)
}

func TestInvalidStorageFlag(t *testing.T) {
	setupEnv(t, &backend{})

	_, stderr, code := execute(t, "--storage", "floppy", "history")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}

func TestVersion(t *testing.T) {
	out, _, code := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ndu version "+Version)
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, code := execute(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}
