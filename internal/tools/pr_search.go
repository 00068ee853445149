package tools

import (
	"context"
	"fmt"
	"strings"
)

// newPRSearchTool finds the caller's pull requests by keyword. The user_id
// argument is overwritten by the executor with the authenticated identity, so
// results are always scoped to the caller.
func newPRSearchTool(deps *Dependencies) Tool {
	return Tool{
		Name:        PRSearchTool,
		Description: "Searches the user's own pull requests by keyword in title or summary.",
		Parameters: schema(map[string]any{
			"keyword": stringProp("The keyword to search pull requests for"),
			"user_id": stringProp("The requesting user's ID (filled in automatically)"),
		}, []string{"keyword"}),
		handler: func(ctx context.Context, args Arguments) (string, error) {
			keyword := args.String("keyword")
			userID := args.String("user_id")
			if keyword == "" {
				return "", fmt.Errorf("keyword is required")
			}
			deps.Logger.Info("executing PR search", "keyword", keyword, "user_id", userID)

			prs, err := deps.Store.SearchPullRequests(ctx, userID, keyword)
			if err != nil {
				deps.Logger.Error("PR search failed", "error", err)
				return "", fmt.Errorf("search pull requests: %w", err)
			}
			if len(prs) == 0 {
				return fmt.Sprintf("No pull requests matching '%s' were found.", keyword), nil
			}

			var sb strings.Builder
			for _, pr := range prs {
				sb.WriteString(fmt.Sprintf("- %s (id: %s", pr.Title, pr.ID))
				if pr.TicketTitle != "" {
					sb.WriteString(", ticket: " + pr.TicketTitle)
				}
				sb.WriteString(")\n")
				if pr.Summary != "" {
					sb.WriteString("  " + pr.Summary + "\n")
				}
			}
			return sb.String(), nil
		},
	}
}
