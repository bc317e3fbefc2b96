// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"BotBubble", theme.BotBubble},
		{"ErrorBanner", theme.ErrorBanner},
		{"WelcomeTitle", theme.WelcomeTitle},
		{"MenuBox", theme.MenuBox},
		{"InputContainer", theme.InputContainer},
	}
	for _, s := range styles {
		if s.style.Render("test") == "" {
			t.Errorf("%s style should render", s.name)
		}
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestBubbleWidth(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(40, 20)
	if got := theme.BubbleWidth(); got != 38 {
		t.Errorf("narrow BubbleWidth() = %d, want 38", got)
	}

	theme.SetSize(80, 20)
	if got := theme.BubbleWidth(); got != 64 {
		t.Errorf("medium BubbleWidth() = %d, want 64", got)
	}

	theme.SetSize(200, 20)
	if got := theme.BubbleWidth(); got != 100 {
		t.Errorf("wide BubbleWidth() = %d, want 100", got)
	}

	theme.SetSize(0, 0)
	if got := theme.BubbleWidth(); got != 10 {
		t.Errorf("zero-width BubbleWidth() = %d, want 10", got)
	}
}
