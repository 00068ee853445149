package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a question",
	Long: `Send one question to the assistant and print the answer.

Without --session a new session is created and its ID printed, so the
conversation can be continued later.

Examples:
  devmate ask "What are my open bug tickets?" -u user-123
  devmate ask "Summarize PR 42" -u user-123 --session 6f1b...`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSessionID, "session", "s", "", "continue an existing session")
}

func runAsk(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}

	result, err := api.Chat(context.Background(), uid, askSessionID, args[0])
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	fmt.Println(result.Response)
	if askSessionID == "" {
		fmt.Printf("\nSession: %s\n", result.SessionID)
	}
	if verbose {
		fmt.Printf("Took %.2fs\n", result.DurationSeconds)
	}
	return nil
}
