// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/util"
)

// fileFormatVersion is written into every document.
const fileFormatVersion = 1

// fileDocument is the on-disk JSON layout.
type fileDocument struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps all entries in one JSON file.
//
// Every operation re-reads the file before acting so that two processes
// sharing the file see each other's writes, the way two browser tabs share
// local storage. Writes go through util.AtomicWriteFile.
type FileStore struct {
	// Path is the JSON document location.
	Path string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	log     zerolog.Logger
}

// NewFileStore opens (or lazily creates) the document at path.
// An existing document must parse.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: file path must not be empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &FileStore{Path: absPath, log: zerolog.Nop()}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithLogger sets the logger used to report watch failures.
func (s *FileStore) WithLogger(log zerolog.Logger) *FileStore {
	s.log = log.With().Str("component", "storage").Str("path", s.Path).Logger()
	return s
}

// load reads the document. A missing file is an empty store.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage file %s: %w", s.Path, err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	return doc.Entries, nil
}

// save writes the document atomically with owner-only permissions.
func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(fileDocument{
		Version: fileFormatVersion,
		Entries: entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}
	return util.AtomicWriteFile(s.Path, data, 0600)
}

// Get returns the value for key.
func (s *FileStore) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *FileStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return err
	}
	if cur, ok := entries[key]; ok && cur == value {
		return nil
	}
	entries[key] = value
	return s.save(entries)
}

// SetIfAbsent stores value only if key is unset.
func (s *FileStore) SetIfAbsent(key, value string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := entries[key]; ok {
		return false, nil
	}
	entries[key] = value
	if err := s.save(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes key.
func (s *FileStore) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

// List returns entries under prefix.
func (s *FileStore) List(prefix string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	return filterPrefix(entries, prefix), nil
}

// Close stops any watch and marks the store closed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// =============================================================================
// WATCH
// =============================================================================

// Watch reports changes to the document made by any process.
//
// The parent directory is watched rather than the file itself because an
// atomic rename replaces the inode and would silently end a file watch.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	if onChange == nil {
		return errors.New("storage: onChange must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.watcher != nil {
		return errors.New("storage: already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.Path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch storage directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.watcher = watcher
	s.cancel = cancel

	go s.processEvents(ctx, watcher, onChange)
	return nil
}

// processEvents forwards relevant events until ctx ends or the watcher closes.
func (s *FileStore) processEvents(ctx context.Context, watcher *fsnotify.Watcher, onChange func()) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.Path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				s.notify(onChange)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("storage watch error")
		}
	}
}

// notify runs onChange, logging and recovering a panic so the watch keeps going.
func (s *FileStore) notify(onChange func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Msg("storage change callback panicked")
		}
	}()
	onChange()
}
