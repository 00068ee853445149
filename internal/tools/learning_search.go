package tools

import (
	"context"
	"fmt"
)

// newLearningSearchTool searches the curated learning database.
func newLearningSearchTool(deps *Dependencies) Tool {
	return Tool{
		Name:        LearningSearchTool,
		Description: "Searches the internal learning database for curated insights, tutorials, and best practices.",
		Parameters: schema(map[string]any{
			"query":   stringProp("The topic to find a learning resource for"),
			"user_id": stringProp("The requesting user's ID (filled in automatically)"),
		}, []string{"query"}),
		handler: func(ctx context.Context, args Arguments) (string, error) {
			query := args.String("query")
			if query == "" {
				return "", fmt.Errorf("query is required")
			}
			deps.Logger.Info("executing learning search", "query", query)

			answer, err := deps.Search.SearchLearnings(ctx, query)
			if err != nil {
				deps.Logger.Error("learning search failed", "error", err)
				return "", fmt.Errorf("learning search: %w", err)
			}
			return answer, nil
		},
	}
}
