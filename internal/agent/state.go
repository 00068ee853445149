// Package agent implements the conversational orchestration engine: a fixed
// state machine that classifies a query, routes it to either SQL generation
// or a tool-planning loop, and synthesizes the final answer.
package agent

import "github.com/raphaelgruber/devmate-go/internal/models"

// State is the per-turn conversation state. It is built from persisted
// history plus the new user message, mutated by exactly one graph execution,
// and discarded after the final message is persisted.
//
// The message log is append-only: Append is the single transition operation,
// and nothing removes or reorders entries.
type State struct {
	UserID            string
	SessionUID        string
	IsSQLQuery        bool
	SelectedTicketID  string
	SelectedProjectID string

	// NL2SQLResults is set only on the database path; it is mutually
	// exclusive with tool-role messages within one turn.
	NL2SQLResults *models.NL2SQLResponse

	messages   []models.Message
	toolRounds int
}

// NewState builds the turn state from session history and the new query.
func NewState(userID, sessionUID string, history []models.Message, query string) *State {
	messages := make([]models.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, models.UserMessage(query))
	return &State{
		UserID:     userID,
		SessionUID: sessionUID,
		messages:   messages,
	}
}

// Append adds a message to the log.
func (s *State) Append(msg models.Message) {
	s.messages = append(s.messages, msg)
}

// Messages returns the current transcript.
func (s *State) Messages() []models.Message {
	return s.messages
}

// LastMessage returns the most recent transcript entry.
func (s *State) LastMessage() models.Message {
	if len(s.messages) == 0 {
		return models.Message{}
	}
	return s.messages[len(s.messages)-1]
}

// HasToolOutput reports whether any tool result landed in the transcript
// this turn.
func (s *State) HasToolOutput() bool {
	for _, m := range s.messages {
		if m.Role == models.RoleTool {
			return true
		}
	}
	return false
}

// ToolRounds returns how many tool invocations ran this turn.
func (s *State) ToolRounds() int {
	return s.toolRounds
}
