package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/reminders-mcp/internal/reminders"
)

func newListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print the names of all Reminders lists as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			lists, err := client.ListLists(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list reminder lists: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), lists)
		},
	}
}

func newRemindersCmd() *cobra.Command {
	var (
		listName string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Print reminders as JSON",
		Long: `Print the reminders of one list (--list) or of all lists as JSON.
Completed reminders are only included with --all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			items, err := client.ListReminders(cmd.Context(), reminders.ListOptions{
				ListName:         reminders.OptionalString(listName),
				IncludeCompleted: all,
			})
			if err != nil {
				return fmt.Errorf("failed to list reminders: %w", err)
			}
			if items == nil {
				items = []reminders.Reminder{}
			}
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVarP(&listName, "list", "l", "", "Only print reminders of this list")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed reminders")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
