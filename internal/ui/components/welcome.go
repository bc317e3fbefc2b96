// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

// Welcome is shown while the conversation is empty.
type Welcome struct {
	Title       string
	Text        string
	Suggestions []string
}

// Suggestion returns the prompt bound to alt+n (1-based).
func (w Welcome) Suggestion(n int) (string, bool) {
	if n < 1 || n > len(w.Suggestions) {
		return "", false
	}
	return w.Suggestions[n-1], true
}

// View renders the welcome screen centered in width.
func (w Welcome) View(theme *styles.Theme, width int) string {
	var sb strings.Builder

	sb.WriteString(theme.WelcomeTitle.Render(w.Title))
	sb.WriteString("\n")

	textWidth := width - 4
	if textWidth > 72 {
		textWidth = 72
	}
	if textWidth < 20 {
		textWidth = 20
	}
	sb.WriteString(theme.WelcomeText.Width(textWidth).Render(w.Text))

	if len(w.Suggestions) > 0 {
		sb.WriteString("\n\n")
		rows := make([]string, 0, len(w.Suggestions))
		for i, s := range w.Suggestions {
			key := theme.SuggestionKey.Render(fmt.Sprintf("alt+%d", i+1))
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, key, " ", theme.SuggestionText.Render(s)))
		}
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, sb.String())
}
