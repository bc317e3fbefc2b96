// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/storage"
	"github.com/jeranaias/ndu-tui/internal/ui/chat"
	"github.com/jeranaias/ndu-tui/internal/ui/components"
	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

// State is the screen currently shown.
type State int

const (
	StateChat State = iota // Chat widget
	StateMenu              // History menu over the chat
)

// previewsChangedMsg is sent when the storage watcher reports a change.
type previewsChangedMsg struct{}

// Model is the main Bubble Tea model for the application.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	chat chat.Model
	menu components.HistoryMenu
	ids  *identity.Store

	// resetSignal is the counter handed to the chat widget
	resetSignal int

	// menuErr is shown in place of the menu when history cannot be read
	menuErr string

	changes chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	log     zerolog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Model) {
		m.log = log.With().Str("component", "app").Logger()
	}
}

// WithWatcher refreshes the history menu when w reports a change.
func WithWatcher(w storage.Watcher) Option {
	return func(m *Model) {
		notify := func() {
			select {
			case m.changes <- struct{}{}:
			default:
			}
		}
		if err := w.Watch(m.ctx, notify); err != nil {
			m.log.Warn().Err(err).Msg("storage watch unavailable")
		}
	}
}

// New creates the application model around chatModel.
func New(chatModel chat.Model, ids *identity.Store, theme *styles.Theme, opts ...Option) *Model {
	if theme == nil {
		theme = styles.NewTheme()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		state:   StateChat,
		theme:   theme,
		width:   80,
		height:  24,
		chat:    chatModel,
		ids:     ids,
		changes: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the screen currently shown.
func (m *Model) State() State {
	return m.state
}

// Chat returns the hosted chat widget.
func (m *Model) Chat() chat.Model {
	return m.chat
}

// ResetSignal returns the current reset counter.
func (m *Model) ResetSignal() int {
	return m.resetSignal
}

// Close stops the watcher and tears the chat widget down.
func (m *Model) Close() {
	m.cancel()
	m.chat.Close()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the chat widget and the preview listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.chat.Init(), m.waitForChange())
}

// waitForChange blocks until the watcher fires or the model closes.
func (m *Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-changes:
			return previewsChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.forward(msg)

	case chat.OpenMenuMsg:
		m.openMenu()
		return m, nil

	case previewsChangedMsg:
		if m.state == StateMenu {
			cursor := m.menu.Cursor()
			m.openMenu()
			m.menu.SetCursor(cursor)
		}
		return m, m.waitForChange()

	case components.MenuCloseMsg:
		m.state = StateChat
		return m, nil

	case components.MenuNewChatMsg:
		if _, err := m.ids.Rotate(); err != nil {
			m.log.Error().Err(err).Msg("failed to start new chat")
			m.menuErr = "Could not start a new chat."
			return m, nil
		}
		m.bumpReset()
		return m, nil

	case components.MenuRestoreMsg:
		if err := m.ids.SwitchTo(msg.SessionID); err != nil {
			m.log.Error().Err(err).Str("session_id", msg.SessionID).Msg("failed to restore chat")
			m.menuErr = "Could not open that chat."
			return m, nil
		}
		m.bumpReset()
		return m, nil

	case tea.KeyMsg:
		if m.state == StateMenu {
			if msg.Type == tea.KeyCtrlC {
				m.Close()
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.menu, cmd = m.menu.Update(msg)
			return m, cmd
		}
	}

	return m.forward(msg)
}

// forward passes msg to the chat widget.
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.chat.Update(msg)
	if c, ok := next.(chat.Model); ok {
		m.chat = c
	}
	return m, cmd
}

func (m *Model) openMenu() {
	m.menuErr = ""
	previews, err := m.ids.Previews()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to list session previews")
		m.menuErr = "Could not read chat history."
	}
	current, err := m.ids.GetOrCreateID(identity.KeySessionID)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to read current session id")
	}
	m.menu = components.NewHistoryMenu(previews, current)
	m.state = StateMenu
}

// bumpReset advances the reset counter and returns to the chat.
func (m *Model) bumpReset() {
	m.resetSignal++
	m.chat.SetResetSignal(m.resetSignal)
	m.state = StateChat
	m.log.Info().Int("signal", m.resetSignal).Msg("chat session changed")
}

// View renders the current screen.
func (m *Model) View() string {
	if m.state != StateMenu {
		return m.chat.View()
	}

	content := m.menu.View(m.theme, m.width)
	if m.menuErr != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			components.RenderErrorBanner(m.theme, m.menuErr, lipgloss.Width(content)),
		)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
