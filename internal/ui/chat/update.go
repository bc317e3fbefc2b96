// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case bootstrapMsg:
		return m.submit(msg.text)

	case replyMsg:
		return m.handleReply(msg)

	case ResetSignalMsg:
		m.SetResetSignal(msg.Value)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Menu):
		if m.opts.OnMenu != nil {
			m.opts.OnMenu()
		}
		return m, func() tea.Msg { return OpenMenuMsg{} }

	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.input.Reset()
		m.session.SetInput("")
		return m.submit(text)

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	for i, binding := range m.keys.Suggestions {
		if !key.Matches(msg, binding) {
			continue
		}
		// Suggestions are only on screen while the conversation is empty
		if len(m.session.Messages()) > 0 {
			return m, nil
		}
		text, ok := m.opts.Welcome.Suggestion(i + 1)
		if !ok {
			return m, nil
		}
		return m.submit(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInput(m.input.Value())
	return m, cmd
}

// submit starts a turn for text. Nothing is sent for blank or already
// answered text.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	req := m.session.Begin(text)
	if req == nil {
		m.refresh()
		return m, nil
	}

	cmds := []tea.Cmd{m.sendCmd(req)}
	if cmd := m.typing.Start(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.refresh()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmds...)
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.session.Complete(msg.req, msg.reply, msg.err)
	if !m.session.Typing() {
		m.typing.Stop()
	}
	m.refresh()
	m.viewport.GotoBottom()
	return m, nil
}
