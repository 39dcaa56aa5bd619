package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/careerpath/mentor-server-go/internal/chatclient"
	"github.com/careerpath/mentor-server-go/internal/model"
)

const chatHelp = `commands:
  /new            start a new conversation
  /sessions       list your conversations
  /open <id>      continue a stored conversation
  /delete <id>    delete a conversation
  /quit           exit`

func chatCmd() *cobra.Command {
	var sessionType string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive mentor conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.SessionType(sessionType)
			if kind != "" && !kind.Valid() {
				return fmt.Errorf("unknown session type %q", sessionType)
			}

			out := cmd.OutOrStdout()
			transcript := chatclient.NewTranscript(newClient(), kind)
			if term.IsTerminal(int(os.Stdout.Fd())) {
				transcript.OnChange((&streamPrinter{w: out}).OnChange)
			} else {
				transcript.DisableReveal()
				color.NoColor = true
			}

			if sessionID != "" {
				if err := transcript.SelectSession(cmd.Context(), sessionID); err != nil {
					return err
				}
			}
			printEntries(out, transcript.Entries())

			return runChat(cmd.Context(), cmd.InOrStdin(), out, transcript)
		},
	}

	cmd.Flags().StringVar(&sessionType, "type", "", "Session type for new conversations")
	cmd.Flags().StringVar(&sessionID, "session", "", "Continue an existing session")
	return cmd
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, transcript *chatclient.Transcript) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	deletes := chatclient.NewDeleteFlow(transcript)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, rolePrefix(model.RoleUser)+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case line == "/quit" || line == "/exit":
			return nil

		case line == "/help":
			fmt.Fprintln(out, chatHelp)

		case line == "/new":
			transcript.Reset()
			printEntries(out, transcript.Entries())

		case line == "/sessions":
			if err := transcript.RefreshSessions(ctx); err != nil {
				fmt.Fprintln(out, color.RedString(err.Error()))
				continue
			}
			printSessions(out, &chatclient.SessionPage{Sessions: transcript.Sessions()})

		case strings.HasPrefix(line, "/open "):
			if err := transcript.SelectSession(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/open "))); err != nil {
				fmt.Fprintln(out, color.RedString(err.Error()))
				continue
			}
			printEntries(out, transcript.Entries())

		case strings.HasPrefix(line, "/delete "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/delete "))
			if err := deletes.Request(id); err != nil {
				fmt.Fprintln(out, color.RedString(err.Error()))
				continue
			}
			fmt.Fprint(out, "Are you sure you want to delete this conversation? [y/N] ")
			if !scanner.Scan() || !isYes(scanner.Text()) {
				deletes.Cancel()
				continue
			}
			if err := deletes.Confirm(ctx); err != nil {
				fmt.Fprintln(out, color.RedString("Failed to delete conversation: "+err.Error()))
				continue
			}
			fmt.Fprintln(out, "Conversation deleted")

		case strings.HasPrefix(line, "/"):
			fmt.Fprintln(out, chatHelp)

		default:
			submitCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
			err := transcript.Submit(submitCtx, line)
			stop()
			if !interactive {
				entries := transcript.Entries()
				printEntries(out, entries[len(entries)-1:])
			}
			if err != nil {
				log.Debug().Err(err).Msg("advice failed")
			}
		}
	}
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
