package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gauthierbraillon/socialife/internal/config"
	"github.com/gauthierbraillon/socialife/internal/repository"
)

// newSessionCmd creates the session command.
func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or end the current editing session",
		Long:  "Clients added or archived are kept for the session. Show the pending edits, or clear them to return to the published client list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}

			overlay := repo.Overlay()
			if a.jsonOut {
				return a.render(cmd.OutOrStdout(), overlay, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session file: %s\n", repository.NewSessionStore(a.cfg.Session.Dir).Path())
			fmt.Fprintf(cmd.OutOrStdout(), "Added clients: %d\n", len(overlay.NewClients))
			for _, c := range overlay.NewClients {
				fmt.Fprintf(cmd.OutOrStdout(), "  + %s (%s)\n", c.Name, c.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived clients: %d\n", len(overlay.ArchivedIDs))
			for _, id := range overlay.ArchivedIDs {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", id)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Discard all session edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	})

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show where socialife reads its configuration and the effective settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", config.Dir())
			path := config.Path()
			if a.configPath != "" {
				path = a.configPath
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)

			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s", out)
			return nil
		},
	}
}
