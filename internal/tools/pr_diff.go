package tools

import (
	"context"
	"fmt"
	"strings"
)

// diffSeparator joins multiple diffs of one pull request into a single text
// block the summarizer can consume.
const diffSeparator = "\n---_---_---\n"

// newPRDiffTool retrieves the raw text of all git diffs for a pull request.
func newPRDiffTool(deps *Dependencies) Tool {
	return Tool{
		Name:        PRDiffTool,
		Description: "Retrieves the raw text of all git diffs associated with a Pull Request ID.",
		Parameters: schema(map[string]any{
			"pr_id":   stringProp("The UUID of the pull request"),
			"user_id": stringProp("The requesting user's ID (filled in automatically)"),
		}, []string{"pr_id"}),
		handler: func(ctx context.Context, args Arguments) (string, error) {
			prID := args.String("pr_id")
			if prID == "" {
				return "", fmt.Errorf("pr_id is required")
			}
			deps.Logger.Info("executing PR diff tool", "pr_id", prID)

			diffs, err := deps.Store.DiffsByPR(ctx, prID)
			if err != nil {
				deps.Logger.Error("PR diff retrieval failed", "pr_id", prID, "error", err)
				return "", fmt.Errorf("retrieve diffs: %w", err)
			}
			if len(diffs) == 0 {
				return fmt.Sprintf("Error: No diffs found for PR with ID %s.", prID), nil
			}
			return strings.Join(diffs, diffSeparator), nil
		},
	}
}
