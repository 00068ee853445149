package tools

import (
	"context"
	"fmt"
)

// newPRSummaryTool summarizes the raw text of one or more git diffs.
func newPRSummaryTool(deps *Dependencies) Tool {
	return Tool{
		Name:        PRSummaryTool,
		Description: "Summarizes the raw text of one or more git diffs.",
		Parameters: schema(map[string]any{
			"diff_text": stringProp("The raw git diff text to summarize"),
			"user_id":   stringProp("The requesting user's ID (filled in automatically)"),
		}, []string{"diff_text"}),
		handler: func(ctx context.Context, args Arguments) (string, error) {
			diffText := args.String("diff_text")
			if diffText == "" {
				return "", fmt.Errorf("diff_text is required")
			}
			deps.Logger.Info("executing PR summary tool", "diff_len", len(diffText))

			system := "You are an expert at summarizing code changes from a multi-line git diff. " +
				"Analyze the provided diff and create a concise summary of 2-3 sentences. " +
				"Highlight the key purpose of the changes, such as bug fixes, new features, or refactoring."
			summary, err := deps.Summarizer.GenerateWithSystem(ctx, system,
				"Please summarize the following git diff:\n\n"+diffText)
			if err != nil {
				deps.Logger.Error("diff summarization failed", "error", err)
				return "Error: Could not generate a summary for the provided diff.", nil
			}
			return summary, nil
		},
	}
}
