package agent

import (
	"context"

	"github.com/raphaelgruber/devmate-go/internal/models"
)

// plan asks the model for the next step: either a tool-call request or a
// plain assistant message. The model only sees the registered tool schemas;
// whatever it names is still validated against the registry before dispatch.
func (e *Engine) plan(ctx context.Context, st *State) error {
	completion, err := e.llm.Chat(ctx, "", st.Messages(), e.registry.Definitions())
	if err != nil {
		return err
	}

	st.Append(models.Message{
		Role:      models.RoleAssistant,
		Content:   completion.Content,
		ToolCalls: completion.ToolCalls,
	})
	return nil
}
