// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ndu-tui/internal/location"
	"github.com/jeranaias/ndu-tui/internal/session"
	"github.com/jeranaias/ndu-tui/internal/ui/components"
)

var (
	// ErrNotSent is returned when ask had nothing to send.
	ErrNotSent = errors.New("nothing was sent")

	// ErrNoReply is returned when the assistant could not be reached.
	ErrNoReply = errors.New("no reply from the assistant")
)

func newAskCommand(opts *globalOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Long: `Send a single message in the current session and print the reply.

The reply is rendered as markdown when stdout is a terminal.`,
		Example: `  ndu ask "Who are the main speakers?"
  ndu ask --raw What is the conference schedule? > schedule.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sess := session.New(rt.Client, rt.IDs,
				session.WithAddress(location.New()),
				session.WithLogger(rt.Log),
				session.WithTimeFormat(rt.Config.UI.TimeFormat),
			)
			defer sess.Close()

			return ask(ctx, sess, strings.Join(args, " "), cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply without markdown rendering")
	return cmd
}

// ask runs one turn on sess and writes the reply to w.
func ask(ctx context.Context, sess *session.Session, text string, w io.Writer, raw bool) error {
	if !sess.Send(ctx, text) {
		return ErrNotSent
	}

	msgs := sess.Messages()
	if len(msgs) == 0 {
		return ErrNoReply
	}
	reply := msgs[len(msgs)-1]
	if sess.Err() != "" || !reply.IsBot() {
		return fmt.Errorf("%w: %s", ErrNoReply, session.ErrorMessage)
	}

	out := reply.Text()
	if !raw && isTerminal(w) {
		out = components.NewMarkdown(terminalWidth(w) - 4).Render(out)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
