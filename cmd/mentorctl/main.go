// Command mentorctl is a terminal client for the career mentor API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/careerpath/mentor-server-go/internal/chatclient"
)

const requestTimeout = 2 * time.Minute

var (
	serverURL string
	token     string
	jsonOut   bool
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mentorctl",
		Short: "Talk to the career mentor from a terminal",
		Long: `mentorctl talks to a career mentor server.

Authenticate with a user token (see scripts/issue-token.go) passed as --token
or MENTOR_TOKEN. The server defaults to MENTOR_API_URL or http://localhost:8080.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

			if token == "" {
				return fmt.Errorf("a user token is required (--token or MENTOR_TOKEN)")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("MENTOR_API_URL", "http://localhost:8080"), "Mentor server base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("MENTOR_TOKEN"), "User token")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(assessSkillsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *chatclient.Client {
	return chatclient.NewClient(serverURL, token, requestTimeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
