// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR TESTS
// =============================================================================

func TestTypingIndicator(t *testing.T) {
	ti := NewTypingIndicator("Ndu", styles.NewTheme())

	if ti.IsActive() {
		t.Error("new indicator should be inactive")
	}
	if ti.View() != "" {
		t.Error("inactive indicator should render nothing")
	}

	if cmd := ti.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if cmd := ti.Start(); cmd != nil {
		t.Error("second Start() should not schedule another tick")
	}
	if !strings.Contains(ti.View(), "Ndu is typing...") {
		t.Errorf("View() = %q, want typing label", ti.View())
	}

	ti.Stop()
	if ti.IsActive() || ti.View() != "" {
		t.Error("stopped indicator should render nothing")
	}
}

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestWelcome(t *testing.T) {
	w := Welcome{
		Title:       "Welcome!",
		Text:        "Your friendly assistant.",
		Suggestions: []string{"Who are the main speakers?", "How do I get to the venue?"},
	}

	view := w.View(styles.NewTheme(), 80)
	for _, want := range []string{"Welcome!", "Your friendly assistant.", "alt+1", "alt+2", "How do I get to the venue?"} {
		if !strings.Contains(view, want) {
			t.Errorf("welcome view missing %q", want)
		}
	}

	if s, ok := w.Suggestion(1); !ok || s != "Who are the main speakers?" {
		t.Errorf("Suggestion(1) = %q, %v", s, ok)
	}
	if _, ok := w.Suggestion(3); ok {
		t.Error("Suggestion(3) should not exist")
	}
	if _, ok := w.Suggestion(0); ok {
		t.Error("Suggestion(0) should not exist")
	}
}

// =============================================================================
// HEADER AND BANNER TESTS
// =============================================================================

func TestRenderHeader(t *testing.T) {
	theme := styles.NewTheme()
	header := RenderHeader(theme, "Chat with Ndu", 60)

	if !strings.Contains(header, "Chat with Ndu") {
		t.Error("header should contain the title")
	}
	if !strings.Contains(header, "ctrl+o") {
		t.Error("header should show the menu key")
	}
	if w := lipgloss.Width(header); w != 60 {
		t.Errorf("header width = %d, want 60", w)
	}
}

func TestRenderErrorBanner(t *testing.T) {
	theme := styles.NewTheme()
	if RenderErrorBanner(theme, "", 80) != "" {
		t.Error("empty error should render nothing")
	}
	if !strings.Contains(RenderErrorBanner(theme, "Sorry", 80), "Sorry") {
		t.Error("banner should contain the error text")
	}
}

// =============================================================================
// HISTORY MENU TESTS
// =============================================================================

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHistoryMenu_Navigation(t *testing.T) {
	previews := []identity.Preview{
		{SessionID: "s1", Text: "Who are the main speakers?"},
		{SessionID: "s2", Text: "Where is lunch?"},
	}
	m := NewHistoryMenu(previews, "s2")

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	m, _ = m.Update(keyPress("up"))
	if m.Cursor() != 0 {
		t.Errorf("cursor should stay at 0, got %d", m.Cursor())
	}

	m, _ = m.Update(keyPress("down"))
	m, _ = m.Update(keyPress("down"))
	m, _ = m.Update(keyPress("down"))
	if m.Cursor() != 2 {
		t.Errorf("cursor should clamp at 2, got %d", m.Cursor())
	}

	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	restore, ok := cmd().(MenuRestoreMsg)
	if !ok || restore.SessionID != "s2" {
		t.Errorf("expected restore of s2, got %#v", cmd())
	}
}

func TestHistoryMenu_NewChatAndClose(t *testing.T) {
	m := NewHistoryMenu(nil, "")

	_, cmd := m.Update(keyPress("enter"))
	if _, ok := cmd().(MenuNewChatMsg); !ok {
		t.Error("enter on first row should start a new chat")
	}

	_, cmd = m.Update(keyPress("esc"))
	if _, ok := cmd().(MenuCloseMsg); !ok {
		t.Error("esc should close the menu")
	}

	view := m.View(styles.NewTheme(), 80)
	if !strings.Contains(view, "New chat") || !strings.Contains(view, "No earlier chats yet.") {
		t.Errorf("unexpected empty menu view:\n%s", view)
	}
}

func TestHistoryMenu_ViewTruncates(t *testing.T) {
	long := strings.Repeat("very long question ", 20)
	m := NewHistoryMenu([]identity.Preview{{SessionID: "s1", Text: long + "\nsecond line"}}, "s1")

	view := m.View(styles.NewTheme(), 60)
	if strings.Contains(view, "second line") {
		t.Error("preview should be truncated")
	}
	if !strings.Contains(view, "...") {
		t.Error("truncated preview should end with an ellipsis")
	}
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown(60)

	out := md.Render("**Lagos** is the venue")
	if !strings.Contains(out, "Lagos") {
		t.Errorf("rendered output lost content: %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("rendered output should be trimmed: %q", out)
	}
}

func TestMarkdown_WidthFloor(t *testing.T) {
	md := NewMarkdown(5)
	if md.Width() != 20 {
		t.Errorf("Width() = %d, want 20", md.Width())
	}
	md.SetWidth(40)
	if md.Width() != 40 {
		t.Errorf("Width() = %d, want 40", md.Width())
	}
}

func TestMarkdown_NilFallback(t *testing.T) {
	var md *Markdown
	if got := md.Render("plain"); got != "plain" {
		t.Errorf("nil renderer should return input, got %q", got)
	}
}

func TestHistoryMenu_SetCursorClamps(t *testing.T) {
	m := NewHistoryMenu([]identity.Preview{{SessionID: "s1", Text: "hi"}}, "")

	m.SetCursor(5)
	if m.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", m.Cursor())
	}
	m.SetCursor(-2)
	if m.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", m.Cursor())
	}
}
