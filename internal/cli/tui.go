// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ndu-tui/internal/app"
	"github.com/jeranaias/ndu-tui/internal/location"
	"github.com/jeranaias/ndu-tui/internal/session"
	"github.com/jeranaias/ndu-tui/internal/storage"
	"github.com/jeranaias/ndu-tui/internal/ui/chat"
	"github.com/jeranaias/ndu-tui/internal/ui/styles"
)

func newOpenCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Open the chat from a deep link",
		Long: `Open the chat at the given address. A "message" query parameter is sent
as the first message shortly after start-up, e.g.

  ndu open "https://apiconf.ng/chat?message=Hello%20there"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, args[0])
		},
	}
}

// runTUI opens the chat at rawURL, or at the configured home address when
// rawURL is empty.
func runTUI(cmd *cobra.Command, opts *globalOptions, rawURL string) error {
	rt, err := newRuntime(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	if rawURL == "" {
		rawURL = rt.Config.UI.HomeURL
	}
	addr, err := location.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", rawURL, err)
	}

	sess := session.New(rt.Client, rt.IDs,
		session.WithAddress(addr),
		session.WithLogger(rt.Log),
		session.WithTimeFormat(rt.Config.UI.TimeFormat),
	)

	theme := styles.NewTheme()
	chatOpts := chat.OptionsFromConfig(rt.Config)
	chatOpts.Logger = rt.Log

	appOpts := []app.Option{app.WithLogger(rt.Log)}
	if w, ok := rt.Store.(storage.Watcher); ok {
		appOpts = append(appOpts, app.WithWatcher(w))
	}

	model := app.New(chat.New(sess, theme, chatOpts), rt.IDs, theme, appOpts...)
	defer model.Close()

	rt.Log.Info().Str("address", addr.String()).Msg("starting chat")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
