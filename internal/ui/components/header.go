// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

// menuLabel is the menu affordance shown at the left of the header.
const menuLabel = "= ctrl+o"

// RenderHeader renders the title bar across width columns.
func RenderHeader(theme *styles.Theme, title string, width int) string {
	button := theme.MenuButton.Render(menuLabel)
	titleView := theme.HeaderTitle.Render(" " + title)

	remaining := width - lipgloss.Width(button) - lipgloss.Width(titleView)
	if remaining < 0 {
		remaining = 0
	}
	filler := theme.Header.UnsetPadding().Render(spaces(remaining))

	return lipgloss.JoinHorizontal(lipgloss.Top, button, titleView, filler)
}

// RenderErrorBanner renders text as the error banner, or "" when empty.
func RenderErrorBanner(theme *styles.Theme, text string, width int) string {
	if text == "" {
		return ""
	}
	w := width - 2
	if w < 10 {
		w = 10
	}
	return theme.ErrorBanner.Width(w).Render(text)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
