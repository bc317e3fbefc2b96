// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ndu-tui/internal/model"
	"github.com/jeranaias/ndu-tui/internal/ui/components"
)

// Fixed rows around the viewport: header, typing line, input border,
// input line and hint line.
const (
	headerHeight = 1
	typingHeight = 1
	inputHeight  = 2
	hintHeight   = 1
)

// bubbleChrome is the border plus horizontal padding of a message bubble.
const bubbleChrome = 4

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.input.Width = width - 6
	m.viewport.Width = width
	m.markdown.SetWidth(m.theme.BubbleWidth() - bubbleChrome)
	m.refresh()
}

// refresh rebuilds the viewport from the session. The error banner takes
// rows from the viewport while it is shown.
func (m *Model) refresh() {
	reserved := headerHeight + typingHeight + inputHeight + hintHeight
	if banner := m.renderBanner(); banner != "" {
		reserved += lipgloss.Height(banner)
	}
	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
	m.viewport.SetContent(m.renderMessages())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the widget.
func (m Model) View() string {
	parts := []string{
		components.RenderHeader(m.theme, m.opts.Title, m.width),
		m.viewport.View(),
		m.renderTyping(),
	}
	if banner := m.renderBanner(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts,
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.renderHint(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTyping() string {
	if !m.session.Typing() {
		return ""
	}
	if v := m.typing.View(); v != "" {
		return " " + v
	}
	return " " + m.theme.TypingText.Render(m.typing.Label())
}

func (m Model) renderBanner() string {
	return components.RenderErrorBanner(m.theme, m.session.Err(), m.width)
}

func (m Model) renderHint() string {
	var sb strings.Builder
	for i, b := range m.keys.ShortHelp() {
		if i > 0 {
			sb.WriteString("  ")
		}
		h := b.Help()
		sb.WriteString(h.Key + " " + h.Desc)
	}
	return m.theme.Hint.Render(" " + sb.String())
}

// renderMessages renders the conversation, or the welcome screen while it
// is empty.
func (m Model) renderMessages() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return "\n" + m.opts.Welcome.View(m.theme, m.width)
	}

	rows := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		rows = append(rows, m.renderMessage(msg))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderMessage(msg model.Message) string {
	inner := m.theme.BubbleWidth() - bubbleChrome
	if inner < 10 {
		inner = 10
	}

	name := msg.Sender().DisplayName()
	if msg.IsBot() {
		name = m.opts.AssistantName
	}
	meta := m.theme.Timestamp.Render(name + "  " + msg.Timestamp())

	var body string
	if msg.IsBot() {
		body = m.markdown.Render(msg.Text())
	} else {
		body = msg.Text()
		if lipgloss.Width(body) > inner {
			body = lipgloss.NewStyle().Width(inner).Render(body)
		}
	}

	if msg.IsUser() {
		bubble := m.theme.UserBubble.Render(meta + "\n" + body)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
	}
	bubble := m.theme.BotBubble.Render(meta + "\n" + body)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, bubble)
}
