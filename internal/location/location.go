// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package location holds the deep-link address the chat was opened with.
//
// The address plays the part of a browser address bar: it may carry a
// query string (for example ?message=Hello%20there) that bootstraps the
// first turn, and the query is stripped after a successful reply without
// any navigation taking place.
package location

import (
	"fmt"
	"net/url"
	"sync"
)

// Address is the current, mutable deep-link URL. Safe for concurrent use.
type Address struct {
	mu sync.RWMutex
	u  url.URL
}

// New returns an address with no path and no query.
func New() *Address {
	return &Address{}
}

// Parse creates an address from a raw deep-link URL.
func Parse(raw string) (*Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", raw, err)
	}
	return &Address{u: *u}, nil
}

// Query returns the parsed query parameters. The result is a fresh copy.
func (a *Address) Query() url.Values {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.u.Query()
}

// HasQuery reports whether the address carries a query string.
func (a *Address) HasQuery() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.u.RawQuery != "" || a.u.ForceQuery
}

// ClearQuery drops the query string and fragment, keeping the path.
func (a *Address) ClearQuery() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.u.RawQuery = ""
	a.u.ForceQuery = false
	a.u.Fragment = ""
	a.u.RawFragment = ""
}

// Path returns the path component.
func (a *Address) Path() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.u.Path
}

// String returns the address as currently displayed.
func (a *Address) String() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.u.String()
}
