// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/config"
	"github.com/jeranaias/ndu-tui/internal/session"
	"github.com/jeranaias/ndu-tui/internal/ui/components"
	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

// Placeholder is shown in the empty input line.
const Placeholder = "Ask something..."

// inputCharLimit bounds a single message.
const inputCharLimit = 4096

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the widget.
type Options struct {
	Title          string
	AssistantName  string
	Welcome        components.Welcome
	BootstrapDelay time.Duration

	// OnMenu is called when the user presses the menu key. An OpenMenuMsg
	// is emitted as well.
	OnMenu func()

	Logger zerolog.Logger
}

// DefaultOptions returns options built from the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps the [ui] section of cfg onto widget options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Title:         cfg.UI.Title,
		AssistantName: cfg.UI.AssistantName,
		Welcome: components.Welcome{
			Title:       cfg.UI.WelcomeTitle,
			Text:        cfg.UI.WelcomeText,
			Suggestions: cfg.UI.Suggestions,
		},
		BootstrapDelay: cfg.UI.BootstrapDelay(),
		Logger:         zerolog.Nop(),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat widget.
type Model struct {
	session   *session.Session
	bootstrap *session.Bootstrap
	resets    *session.ResetListener
	opts      Options

	theme    *styles.Theme
	keys     KeyMap
	input    textinput.Model
	viewport viewport.Model
	typing   components.TypingIndicator
	markdown *components.Markdown

	// ctx is bound to the widget lifetime; Close cancels it
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// New creates a widget for sess.
func New(sess *session.Session, theme *styles.Theme, opts Options) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}
	if opts.AssistantName == "" {
		opts.AssistantName = "Ndu"
	}
	if opts.Title == "" {
		opts.Title = "Chat with " + opts.AssistantName
	}
	opts.Logger = opts.Logger.With().Str("component", "chat").Logger()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = Placeholder
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = inputCharLimit
	ti.Focus()

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		session:   sess,
		bootstrap: session.NewBootstrap(),
		resets:    &session.ResetListener{},
		opts:      opts,
		theme:     theme,
		keys:      DefaultKeyMap(),
		input:     ti,
		viewport:  viewport.New(80, 20),
		typing:    components.NewTypingIndicator(opts.AssistantName, theme),
		markdown:  components.NewMarkdown(76),
		ctx:       ctx,
		cancel:    cancel,
	}
	m.resize(80, 24)
	return m
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Session returns the underlying session.
func (m Model) Session() *session.Session {
	return m.session
}

// Input returns the text in the input line.
func (m Model) Input() string {
	return m.input.Value()
}

// SetInput replaces the text in the input line.
func (m *Model) SetInput(text string) {
	m.input.SetValue(text)
	m.session.SetInput(text)
}

// Typing reports whether the typing indicator is shown.
func (m Model) Typing() bool {
	return m.session.Typing() && m.typing.IsActive()
}

// BootstrapState returns the deep-link listener state.
func (m Model) BootstrapState() session.BootstrapState {
	return m.bootstrap.State()
}

// SetResetSignal delivers the host's reset counter. Each increase above the
// last seen value clears the conversation.
func (m *Model) SetResetSignal(v int) {
	if m.resets.Apply(m.session, v) {
		m.opts.Logger.Debug().Int("signal", v).Msg("chat reset")
		m.refresh()
	}
}

// Close tears the widget down. In-flight requests are cancelled and any
// result arriving later is dropped.
func (m Model) Close() {
	m.cancel()
	m.session.Close()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor and schedules the deep-link message, if any.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkBootstrap())
}

// checkBootstrap takes the ?message= parameter and sends it after the
// configured delay.
func (m Model) checkBootstrap() tea.Cmd {
	text, ok := m.bootstrap.Check(m.session.Address())
	if !ok {
		return nil
	}
	m.opts.Logger.Debug().Dur("delay", m.opts.BootstrapDelay).Msg("deep-link message scheduled")
	return tea.Tick(m.opts.BootstrapDelay, func(time.Time) tea.Msg {
		return bootstrapMsg{text: text}
	})
}

// sendCmd runs the network call for req off the event loop.
func (m Model) sendCmd(req *session.Request) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		reply, err := sess.Do(ctx, req)
		return replyMsg{req: req, reply: reply, err: err}
	}
}
