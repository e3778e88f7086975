package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialife/internal/display"
	"github.com/gauthierbraillon/socialife/internal/metrics"
	"github.com/gauthierbraillon/socialife/internal/repository"
)

// newClientsCmd creates the clients command and its add/archive subcommands.
func newClientsCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List agency clients",
		Long:  "List active clients, including clients added in this session. Use --all to include archived clients.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}

			clients := repo.ActiveClients(cmd.Context())
			if all {
				clients = repo.ListClients(cmd.Context())
			}
			return a.render(cmd.OutOrStdout(), clients, func(f *display.TerminalFormatter) string {
				return f.FormatClients(clients)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include archived clients")

	cmd.AddCommand(newClientsAddCmd(a))
	cmd.AddCommand(newClientsArchiveCmd(a))

	return cmd
}

func newClientsAddCmd(a *app) *cobra.Command {
	var industry, colour string
	var platforms []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a client for this session",
		Long:  "Add a client to the session. The id is derived from the name; industry defaults to Other.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("client name must not be empty")
			}

			parsed := make([]metrics.Platform, 0, len(platforms))
			for _, p := range platforms {
				platform, ok := metrics.ParsePlatform(strings.ToLower(p))
				if !ok {
					return fmt.Errorf("invalid platform %q: must be one of instagram, facebook, tiktok, linkedin", p)
				}
				parsed = append(parsed, platform)
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			record := repository.NewClientRecord(name, industry, parsed, colour)
			if err := repo.AddClient(record); err != nil {
				return err
			}

			if a.jsonOut {
				return a.render(cmd.OutOrStdout(), record, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added client %s (%s)\n", record.Name, record.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&industry, "industry", "i", "", "Client industry (default Other)")
	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, "Connected platform (repeatable)")
	cmd.Flags().StringVar(&colour, "colour", "", "Brand colour as #rrggbb")

	return cmd
}

func newClientsArchiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a client for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}

			id := args[0]
			if _, ok := repo.Client(cmd.Context(), id); !ok {
				return fmt.Errorf("client %q not found", id)
			}
			if err := repo.ArchiveClient(id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Archived client %s\n", id)
			return nil
		},
	}
}
