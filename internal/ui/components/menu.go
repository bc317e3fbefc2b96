// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/ui/styles"
	"github.com/jeranaias/ndu-tui/internal/util"
)

// =============================================================================
// MENU MESSAGES
// =============================================================================

// MenuNewChatMsg requests a fresh session.
type MenuNewChatMsg struct{}

// MenuRestoreMsg requests switching to an earlier session.
type MenuRestoreMsg struct {
	SessionID string
}

// MenuCloseMsg closes the menu without action.
type MenuCloseMsg struct{}

// =============================================================================
// HISTORY MENU
// =============================================================================

// MenuKeyMap defines the history menu bindings.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

// DefaultMenuKeyMap returns the default bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "ctrl+o", "q"),
			key.WithHelp("Esc", "close"),
		),
	}
}

// HistoryMenu lists "New chat" followed by stored session previews.
type HistoryMenu struct {
	previews []identity.Preview
	current  string
	cursor   int
	keys     MenuKeyMap
}

// NewHistoryMenu creates a menu for previews with current marking the
// active session.
func NewHistoryMenu(previews []identity.Preview, current string) HistoryMenu {
	return HistoryMenu{
		previews: previews,
		current:  current,
		keys:     DefaultMenuKeyMap(),
	}
}

// Len returns the number of rows including "New chat".
func (m HistoryMenu) Len() int {
	return len(m.previews) + 1
}

// Cursor returns the selected row.
func (m HistoryMenu) Cursor() int {
	return m.cursor
}

// SetCursor selects row i, clamped to the rows present.
func (m *HistoryMenu) SetCursor(i int) {
	if i >= m.Len() {
		i = m.Len() - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
}

// Update handles navigation keys.
func (m HistoryMenu) Update(msg tea.Msg) (HistoryMenu, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.Len()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Close):
		return m, func() tea.Msg { return MenuCloseMsg{} }
	case key.Matches(keyMsg, m.keys.Select):
		if m.cursor == 0 {
			return m, func() tea.Msg { return MenuNewChatMsg{} }
		}
		id := m.previews[m.cursor-1].SessionID
		return m, func() tea.Msg { return MenuRestoreMsg{SessionID: id} }
	}
	return m, nil
}

// View renders the menu box.
func (m HistoryMenu) View(theme *styles.Theme, width int) string {
	boxWidth := width - 4
	if boxWidth > 60 {
		boxWidth = 60
	}
	if boxWidth < 20 {
		boxWidth = 20
	}
	textWidth := boxWidth - 10

	var sb strings.Builder
	sb.WriteString(theme.MenuTitle.Render("Chat history"))
	sb.WriteString("\n")

	rows := make([]string, 0, m.Len())
	rows = append(rows, "+ New chat")
	for _, p := range m.previews {
		label := util.TruncateWidth(util.SingleLine(p.Text), textWidth)
		if p.SessionID == m.current {
			label += theme.MenuItemCurrent.Render(" *")
		}
		rows = append(rows, label)
	}

	for i, row := range rows {
		if i == m.cursor {
			sb.WriteString(theme.MenuItemSelected.Render(row))
		} else {
			sb.WriteString(theme.MenuItem.Render(row))
		}
		sb.WriteString("\n")
	}
	if len(m.previews) == 0 {
		sb.WriteString(theme.Hint.Render("No earlier chats yet."))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Hint.Render("Enter open  Esc close"))

	return theme.MenuBox.Width(boxWidth).Render(sb.String())
}
