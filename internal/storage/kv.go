// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrClosed is returned by any operation on a closed store.
	ErrClosed = errors.New("storage: store is closed")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("storage: key must not be empty")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// =============================================================================
// KV INTERFACE
// =============================================================================

// Entry is a single stored key/value pair.
type Entry struct {
	Key   string
	Value string
}

// KV is a durable string key/value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// SetIfAbsent stores value only when key has no value yet.
	// It reports whether the value was written.
	SetIfAbsent(key, value string) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// List returns all entries whose key starts with prefix, sorted by key.
	List(prefix string) ([]Entry, error)

	// Close releases resources held by the store.
	Close() error
}

// Watcher is implemented by stores that can report changes made by other
// processes sharing the same backing file.
type Watcher interface {
	// Watch calls onChange after the backing data changed on disk.
	// It returns once the watch is established; events stop when ctx ends
	// or the store is closed.
	Watch(ctx context.Context, onChange func()) error
}

// =============================================================================
// FACTORY
// =============================================================================

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	// Backend is one of BackendMemory, BackendFile or BackendSQLite.
	Backend string

	// Path is the backing file. Empty selects DefaultPath(Backend).
	Path string

	// Logger receives watch failures from the file backend.
	Logger zerolog.Logger
}

// Open creates the store described by opts.
func Open(opts Options) (KV, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendFile
	}

	path := opts.Path
	if path == "" && backend != BackendMemory {
		p, err := DefaultPath(backend)
		if err != nil {
			return nil, err
		}
		path = p
	}

	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		fs, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return fs.WithLogger(opts.Logger), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// DefaultPath returns ~/.ndu/storage.json or ~/.ndu/storage.db.
func DefaultPath(backend string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	name := "storage.json"
	if backend == BackendSQLite {
		name = "storage.db"
	}
	return filepath.Join(homeDir, ".ndu", name), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// filterPrefix collects entries of m under prefix, sorted by key.
func filterPrefix(m map[string]string, prefix string) []Entry {
	entries := make([]Entry, 0)
	for k, v := range m {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, Entry{Key: k, Value: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}
