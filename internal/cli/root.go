// Package cli provides the command-line interface for devmate.
package cli

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/devmate-go/internal/client"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	userID    string
	verbose   bool

	// API client, created before every command runs.
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "devmate",
	Short: "Developer assistant chat client",
	Long: `Devmate is a chat client for the developer-assistant backend.

Ask questions about your tickets, pull requests, and documentation; the
server routes each question to a SQL pipeline or a tool-using agent and
keeps the conversation history per session.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		api = client.New(serverURL)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (default from DEVMATE_SERVER_URL)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "acting user ID")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(statsCmd)
}

// requireUser ensures --user was given, falling back to DEVMATE_USER_ID.
func requireUser() (string, error) {
	if userID != "" {
		return userID, nil
	}
	if id := os.Getenv("DEVMATE_USER_ID"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("user ID required: pass --user or set DEVMATE_USER_ID")
}
