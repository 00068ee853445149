package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
	Long: `List, inspect, rename, and delete chat sessions.

Examples:
  devmate sessions list -u user-123
  devmate sessions messages 6f1b...
  devmate sessions rename 6f1b... "Bug triage"
  devmate sessions delete 6f1b...`,
	RunE: runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsMessagesCmd = &cobra.Command{
	Use:   "messages <session-id>",
	Short: "Print the transcript of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsMessages,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <session-id> <title>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionsRename,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsSuggestCmd = &cobra.Command{
	Use:   "suggest <session-id>",
	Short: "Suggest follow-up questions for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsSuggest,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsMessagesCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsSuggestCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}

	sessions, err := api.ListSessions(context.Background(), uid)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		fmt.Printf("- %s  %s  (%s)\n", sess.UID, sess.Title, sess.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsMessages(cmd *cobra.Command, args []string) error {
	msgs, err := api.Messages(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Println("No messages in this session.")
		return nil
	}

	for _, msg := range msgs {
		fmt.Printf("[%s]\n%s\n\n", strings.ToUpper(string(msg.Role)), msg.Content)
	}
	return nil
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	if err := api.RenameSession(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	fmt.Println("Renamed.")
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteSession(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	fmt.Println("Deleted.")
	return nil
}

func runSessionsSuggest(cmd *cobra.Command, args []string) error {
	result, err := api.Recommendations(context.Background(), args[0], 0)
	if err != nil {
		return fmt.Errorf("get recommendations: %w", err)
	}

	for _, s := range result.Suggestions {
		fmt.Printf("- %s\n", s)
	}
	if verbose {
		fmt.Printf("\n(took %.2fs)\n", result.DurationSeconds)
	}
	return nil
}
