package tools

import (
	"context"
	"fmt"
)

// newDocSearchTool searches the documentation corpus for technical questions.
func newDocSearchTool(deps *Dependencies) Tool {
	return Tool{
		Name:        DocSearchTool,
		Description: "Searches the official documentation for technical questions, setup guides, and how-tos.",
		Parameters: schema(map[string]any{
			"query":   stringProp("The documentation question to search for"),
			"user_id": stringProp("The requesting user's ID (filled in automatically)"),
		}, []string{"query"}),
		handler: func(ctx context.Context, args Arguments) (string, error) {
			query := args.String("query")
			if query == "" {
				return "", fmt.Errorf("query is required")
			}
			deps.Logger.Info("executing documentation search", "query", query)

			answer, err := deps.Search.SearchDocumentation(ctx, query)
			if err != nil {
				deps.Logger.Error("documentation search failed", "error", err)
				return "", fmt.Errorf("documentation search: %w", err)
			}
			return answer, nil
		},
	}
}
