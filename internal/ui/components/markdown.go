// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// Markdown renders assistant replies as GitHub-flavoured markdown. The
// glamour renderer is rebuilt only when the wrap width changes.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdown creates a renderer wrapping at width columns.
func NewMarkdown(width int) *Markdown {
	md := &Markdown{}
	md.SetWidth(width)
	return md
}

// SetWidth changes the wrap width. A failed rebuild leaves the renderer
// unset so Render falls back to plain text.
func (md *Markdown) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if md.renderer != nil && md.width == width {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		md.renderer = nil
	} else {
		md.renderer = r
	}
	md.width = width
}

// Width returns the current wrap width.
func (md *Markdown) Width() int {
	return md.width
}

// Render returns content rendered for the terminal, or content itself when
// rendering is unavailable or fails.
func (md *Markdown) Render(content string) string {
	if md == nil || md.renderer == nil {
		return content
	}
	out, err := md.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
