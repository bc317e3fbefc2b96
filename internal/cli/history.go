// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/util"
)

// historyEntry is one row of "history --json".
type historyEntry struct {
	SessionID string `json:"session_id"`
	Preview   string `json:"preview"`
	Current   bool   `json:"current"`
}

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"sessions"},
		Short:   "List stored sessions by their first message",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			previews, err := rt.IDs.Previews()
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			current, err := rt.IDs.GetOrCreateID(identity.KeySessionID)
			if err != nil {
				return fmt.Errorf("failed to read session id: %w", err)
			}

			entries := make([]historyEntry, 0, len(previews))
			for _, p := range previews {
				entries = append(entries, historyEntry{
					SessionID: p.SessionID,
					Preview:   p.Text,
					Current:   p.SessionID == current,
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No sessions yet.")
				return nil
			}

			cyan := color.New(color.FgCyan)
			green := color.New(color.FgGreen)
			cyan.Fprintln(out, "Sessions")
			for _, e := range entries {
				line := fmt.Sprintf("  %-24s  %s", e.SessionID, util.TruncateWidth(util.SingleLine(e.Preview), 60))
				if e.Current {
					green.Fprintln(out, line+"  (current)")
				} else {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newNewCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := rt.IDs.Rotate()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New session: %s\n", id)
			return nil
		},
	}
}
