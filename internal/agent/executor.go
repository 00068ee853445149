package agent

import (
	"context"

	"github.com/raphaelgruber/devmate-go/internal/models"
	"github.com/raphaelgruber/devmate-go/internal/tools"
)

// executeTool dispatches the first tool call of the latest planner message.
// The authenticated user_id always overrides whatever the model put in the
// arguments, so a crafted argument cannot impersonate another user. Tool
// failures become transcript entries; they never abort the turn.
func (e *Engine) executeTool(ctx context.Context, st *State) {
	call := st.LastMessage().FirstToolCall()
	if call == nil {
		return
	}

	args := make(tools.Arguments, len(call.Arguments)+1)
	for k, v := range call.Arguments {
		args[k] = v
	}
	args["user_id"] = st.UserID

	e.logger.Info("dispatching tool", "tool", call.Name, "call_id", call.ID)

	result, err := e.registry.Invoke(ctx, call.Name, args)
	if err != nil {
		e.logger.Error("tool invocation failed", "tool", call.Name, "error", err)
		result = "Error: " + err.Error()
	}

	st.Append(models.ToolMessage(call.ID, result))
	st.toolRounds++
}
