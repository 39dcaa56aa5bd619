package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerpath/mentor-server-go/internal/chatclient"
	"github.com/careerpath/mentor-server-go/internal/model"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored mentor sessions",
	}

	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsShowCmd())
	cmd.AddCommand(sessionsDeleteCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	var opts chatclient.ListOptions
	var sessionType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SessionType = model.SessionType(sessionType)
			page, err := newClient().ListSessions(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), page)
			}
			printSessions(cmd.OutOrStdout(), page)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Sessions per page")
	cmd.Flags().StringVar(&sessionType, "type", "", "Only sessions of this type")
	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "Only active sessions")
	return cmd
}

func sessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newClient().GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), session)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  [%s]\n\n", session.Title, session.SessionType)
			for _, msg := range session.Messages {
				printEntries(out, []chatclient.Entry{{Role: msg.Role, Content: msg.Content, Timestamp: msg.Timestamp}})
			}
			return nil
		},
	}
}

func sessionsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flow := chatclient.NewDeleteFlow(chatclient.NewTranscript(newClient(), ""))
			if err := flow.Request(args[0]); err != nil {
				return err
			}

			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to delete this conversation? [y/N] ")
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() || !isYes(scanner.Text()) {
					flow.Cancel()
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := flow.Confirm(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Career mentor session deleted successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
