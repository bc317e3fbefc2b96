// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator shows that the assistant is composing a reply.
type TypingIndicator struct {
	spinner spinner.Model
	name    string
	active  bool
	theme   *styles.Theme
}

// NewTypingIndicator creates an inactive indicator for the named assistant.
func NewTypingIndicator(name string, theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	if theme != nil {
		s.Style = theme.Spinner
	}
	return TypingIndicator{spinner: s, name: name, theme: theme}
}

// Start activates the indicator and returns the first tick.
func (t *TypingIndicator) Start() tea.Cmd {
	if t.active {
		return nil
	}
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// IsActive returns whether the indicator is running.
func (t TypingIndicator) IsActive() bool {
	return t.active
}

// Label returns the indicator text without the animation.
func (t TypingIndicator) Label() string {
	return t.name + " is typing..."
}

// Update advances the animation while active.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or "" when inactive.
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	label := t.Label()
	if t.theme != nil {
		label = t.theme.TypingText.Render(label)
	}
	return t.spinner.View() + " " + label
}
