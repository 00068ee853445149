package agent

import (
	"context"
	"strings"

	"github.com/raphaelgruber/devmate-go/internal/models"
)

const classifierPrompt = "You are an expert classifier. Determine if a user's query should be answered " +
	"by querying a database with SQL or by using other tools. Database queries involve asking for " +
	"lists, counts, or details about 'tickets', 'bugs', 'features', or 'tasks'. " +
	"Respond with 'database' or 'general'."

// route classifies the latest user message and sets the IsSQLQuery flag.
// On classifier failure the query takes the general tool path: failing open
// toward tools is safe, failing toward SQL execution is not.
func (e *Engine) route(ctx context.Context, st *State) {
	query := latestUserMessage(st)

	result, err := e.llm.GenerateWithSystem(ctx, classifierPrompt, query)
	if err != nil {
		e.logger.Error("query classification failed, defaulting to general path", "error", err)
		st.IsSQLQuery = false
		return
	}

	st.IsSQLQuery = strings.Contains(strings.ToLower(result), "database")
	if st.IsSQLQuery {
		e.logger.Info("query classified as SQL")
	} else {
		e.logger.Info("query classified as general")
	}
}

// runSQL executes the database path and stashes the structured result for
// the responder.
func (e *Engine) runSQL(ctx context.Context, st *State) {
	st.NL2SQLResults = e.nl2sql.Run(ctx, latestUserMessage(st), st.UserID)
}

// latestUserMessage returns the content of the newest user-role entry.
func latestUserMessage(st *State) string {
	msgs := st.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
