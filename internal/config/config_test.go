// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every NDU_* override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"NDU_BASE_URL", "NDU_CHAT_PATH", "NDU_USER_AGENT",
		"NDU_STORAGE_BACKEND", "NDU_STORAGE_PATH",
		"NDU_ASSISTANT_NAME", "NDU_TITLE", "NDU_SUGGESTIONS", "NDU_TIME_FORMAT",
		"NDU_BOOTSTRAP_DELAY_MS", "NDU_HOME_URL",
		"NDU_LOG_LEVEL", "NDU_LOG_PATH", "NDU_LOG_CONSOLE",
	} {
		if v, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, v) })
		}
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.SetDefaults()
	assert.Equal(t, "Chat with Ndu", cfg.UI.Title)
	assert.Equal(t, "15:04", cfg.UI.TimeFormat)
	assert.Equal(t, 100*time.Millisecond, cfg.UI.BootstrapDelay())
	assert.Len(t, cfg.UI.Suggestions, 3)
	assert.Equal(t, "/api/v1/agents/chat", cfg.Backend.ChatPath)
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Backend.BaseURL, cfg.Backend.BaseURL)
}

func TestLoadFromPath_TOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
base_url = "https://apiconf.ng/"

[storage]
backend = "SQLite"

[ui]
assistant_name = "Ada"
suggestions = ["Where is lunch?"]
bootstrap_delay_ms = 250

[log]
level = "debug"
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://apiconf.ng", cfg.Backend.BaseURL)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "Chat with Ada", cfg.UI.Title)
	assert.Equal(t, []string{"Where is lunch?"}, cfg.UI.Suggestions)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.BootstrapDelay())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nbase_ulr = \"x\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.base_ulr")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NDU_BASE_URL", "https://staging.apiconf.ng")
	t.Setenv("NDU_STORAGE_BACKEND", "memory")
	t.Setenv("NDU_SUGGESTIONS", "One?|Two?")
	t.Setenv("NDU_BOOTSTRAP_DELAY_MS", "0")
	t.Setenv("NDU_LOG_CONSOLE", "true")

	cfg, err := LoadFromPath("")
	require.NoError(t, err)

	assert.Equal(t, "https://staging.apiconf.ng", cfg.Backend.BaseURL)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, []string{"One?", "Two?"}, cfg.UI.Suggestions)
	assert.Equal(t, time.Duration(0), cfg.UI.BootstrapDelay())
	assert.True(t, cfg.Log.Console)
}

func TestTitleFollowsAssistantName(t *testing.T) {
	clearEnv(t)
	t.Setenv("NDU_ASSISTANT_NAME", "Ada")

	cfg, err := LoadFromPath("")
	require.NoError(t, err)
	assert.Equal(t, "Ada", cfg.UI.AssistantName)
	assert.Equal(t, "Chat with Ada", cfg.UI.Title)

	// An explicit title wins
	t.Setenv("NDU_TITLE", "Ask Ada")
	cfg, err = LoadFromPath("")
	require.NoError(t, err)
	assert.Equal(t, "Ask Ada", cfg.UI.Title)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NDU_HOME_URL=https://apiconf.ng/home\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("NDU_HOME_URL") })

	require.NoError(t, LoadDotEnv(path))
	cfg, err := LoadFromPath("")
	require.NoError(t, err)
	assert.Equal(t, "https://apiconf.ng/home", cfg.UI.HomeURL)

	// Missing files are ignored
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "apiconf.ng"
	cfg.Backend.ChatPath = "api/v1/agents/chat"
	cfg.Storage.Backend = "redis"
	cfg.UI.Suggestions = []string{"ok", "  "}
	cfg.UI.BootstrapDelayMs = -1
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make(map[string]bool)
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, f := range []string{
		"backend.base_url", "backend.chat_path", "storage.backend",
		"ui.suggestions[1]", "ui.bootstrap_delay_ms", "log.level",
	} {
		assert.True(t, fields[f], "expected error for %s", f)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Backend.BaseURL = "https://apiconf.ng"
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend, loaded.Backend)
	assert.Equal(t, cfg.UI, loaded.UI)
	assert.Contains(t, cfg.String(), `base_url = "https://apiconf.ng"`)
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
