package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users [email]",
	Short: "List user accounts",
	Long: `List user accounts known to the server, or look one up by email.

Useful to find the ID to pass as --user.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUsers,
}

func runUsers(cmd *cobra.Command, args []string) error {
	email := ""
	if len(args) == 1 {
		email = args[0]
	}

	users, err := api.Users(context.Background(), email)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	for _, u := range users {
		fmt.Printf("- %s  %s <%s>  (%s)\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}
