package agent

import (
	"context"
	"encoding/json"

	"github.com/raphaelgruber/devmate-go/internal/models"
)

const responderTemplate = "You are a helpful assistant. Synthesize a final response for the user based " +
	"on the conversation history. Be concise and answer the user's question directly.\n"

// respond synthesizes the final assistant message. NL2SQL results are
// serialized into the prompt as evidence; on the tool path the model is told
// to summarize the last tool output already present in the transcript.
func (e *Engine) respond(ctx context.Context, st *State) error {
	contextString := ""
	if st.NL2SQLResults != nil {
		payload, err := json.MarshalIndent(st.NL2SQLResults, "", "  ")
		if err != nil {
			return err
		}
		contextString = "\nHere is some context from a database query that was run to help answer " +
			"the user's question. Use this to formulate your response:\n\n" + string(payload)
	} else if st.HasToolOutput() {
		contextString = "\nIf the last message is a tool output, summarize it for the user."
	}

	completion, err := e.llm.Chat(ctx, responderTemplate+contextString, st.Messages(), nil)
	if err != nil {
		return err
	}

	st.Append(models.AssistantMessage(completion.Content))
	return nil
}
