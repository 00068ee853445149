// Package recommend suggests follow-up messages for a chat session by
// analyzing its recent transcript.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/devmate-go/internal/models"
)

const (
	// DefaultWindow is the number of recent messages analyzed per request.
	DefaultWindow = 10
	// MaxWindow bounds client-supplied window sizes.
	MaxWindow = 50

	maxSuggestions = 3
	// Below this many messages the transcript carries too little signal for
	// the model; keyword heuristics on the latest user message answer instead.
	heuristicThreshold = 5
)

const suggestSystemPrompt = "You are an expert at analyzing conversation patterns and suggesting the next " +
	"message a user might want to send. Based on the provided chat messages, suggest 2-3 specific " +
	"follow-up questions or messages that the user can click to auto-fill as their next message. " +
	"Make the suggestions conversational, natural, and directly related to continuing the conversation. " +
	"Write them as if the user is asking the question directly. " +
	"Format your response as a JSON array of strings."

// historian is the slice of the store the service needs.
type historian interface {
	RecentMessages(ctx context.Context, sessionUID string, limit int) ([]models.Message, error)
}

// generator produces schema-constrained JSON output.
type generator interface {
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

// Service generates follow-up suggestions for chat sessions.
type Service struct {
	store  historian
	llm    generator
	logger *slog.Logger
}

// NewService creates a recommendation service.
func NewService(store historian, model generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, llm: model, logger: logger}
}

// Suggest returns 2-3 follow-up messages for the session based on its most
// recent window of messages. Model failures degrade to generic suggestions;
// only a store failure is an error.
func (s *Service) Suggest(ctx context.Context, sessionUID string, window int) ([]string, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if window > MaxWindow {
		window = MaxWindow
	}

	recent, err := s.store.RecentMessages(ctx, sessionUID, window)
	if err != nil {
		return nil, fmt.Errorf("load recent messages: %w", err)
	}

	if len(recent) == 0 {
		s.logger.Info("no messages for session, returning default suggestions", "session_id", sessionUID)
		return []string{
			"What's the best way to structure a new project?",
			"How do I debug this error I'm getting?",
			"Can you help me review my code?",
		}, nil
	}

	if len(recent) < heuristicThreshold {
		return contextualSuggestions(latestUserMessage(recent)), nil
	}

	suggestions, err := s.generate(ctx, recent)
	if err != nil {
		s.logger.Warn("suggestion generation failed, using fallback", "session_id", sessionUID, "error", err)
		return fallbackSuggestions(nil), nil
	}
	return suggestions, nil
}

// generate asks the model for suggestions over the transcript, oldest first.
func (s *Service) generate(ctx context.Context, recent []models.Message) ([]string, error) {
	var sb strings.Builder
	// RecentMessages returns newest first; the prompt wants chronological order.
	for i := len(recent) - 1; i >= 0; i-- {
		role := "User"
		if recent[i].Role == models.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", role, recent[i].Content)
	}

	userPrompt := "Based on the following recent chat messages, suggest 2-3 follow-up messages the user " +
		"might want to send next. Write them as direct questions or statements the user can click to auto-fill.\n\n" +
		"Recent Messages:\n" + sb.String() +
		"\nPlease respond with a JSON array of 2-3 message suggestions that the user can click to send."

	var suggestions []string
	if err := s.llm.GenerateStructured(ctx, suggestSystemPrompt, userPrompt, &suggestions); err != nil {
		return nil, err
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	if len(suggestions) < 2 {
		suggestions = fallbackSuggestions(suggestions)
	}
	return suggestions, nil
}

// latestUserMessage returns the newest user-role content, or "".
func latestUserMessage(recent []models.Message) string {
	for _, msg := range recent {
		if msg.Role == models.RoleUser {
			return msg.Content
		}
	}
	return ""
}

// contextualSuggestions picks a suggestion set for thin transcripts based on
// keywords in the latest user message.
func contextualSuggestions(userMessage string) []string {
	if userMessage == "" {
		return []string{
			"Can you tell me more about that?",
			"Do you have any examples I can look at?",
			"What are some alternatives to this approach?",
		}
	}

	lower := strings.ToLower(strings.TrimSpace(userMessage))

	if isGreeting(lower) || len(strings.TrimSpace(userMessage)) <= 10 {
		return []string{
			"What project are you working on?",
			"I need help with debugging an issue.",
			"Can you recommend some learning resources?",
		}
	}

	switch {
	case containsAny(lower, []string{"bug", "error", "issue", "problem", "debug", "fix", "broken"}):
		return []string{
			"What debugging strategies would you recommend?",
			"How can I add better logging to troubleshoot this?",
			"What are the most common causes of this type of error?",
		}
	case containsAny(lower, []string{"code", "implement", "build", "create", "develop", "write", "program"}):
		return []string{
			"What's the best way to structure this code?",
			"How should I write tests for this functionality?",
			"Are there any better approaches to implement this?",
		}
	case containsAny(lower, []string{"learn", "tutorial", "how to", "guide", "teach", "explain"}):
		return []string{
			"Can you recommend some good learning resources for this?",
			"Where can I find tutorials or examples?",
			"What related topics should I learn next?",
		}
	case containsAny(lower, []string{"test", "testing", "unit test", "integration"}):
		return []string{
			"What testing framework would you recommend?",
			"How do I write effective test cases for this?",
			"What's the best way to set up automated testing?",
		}
	case containsAny(lower, []string{"deploy", "deployment", "production", "server", "hosting"}):
		return []string{
			"What's the best deployment strategy for this project?",
			"How should I configure the server for production?",
			"Can you help me set up a CI/CD pipeline?",
		}
	default:
		return []string{
			"Can you explain this in more detail?",
			"What would be the next steps for this?",
			"Are there any tools or best practices I should know about?",
		}
	}
}

// fallbackSuggestions pads a short list with generic development suggestions.
func fallbackSuggestions(have []string) []string {
	have = append(have,
		"Can you provide more technical details about this?",
		"What are some alternative approaches to this?",
		"Do you have any code examples I can look at?",
	)
	return have[:maxSuggestions]
}

// isGreeting matches greeting words on word boundaries so that e.g. "this"
// does not count as "hi".
func isGreeting(lower string) bool {
	for _, w := range strings.Fields(lower) {
		switch strings.Trim(w, ",.!?") {
		case "hi", "hello", "hey", "greetings", "howdy", "sup":
			return true
		}
	}
	return containsAny(lower, []string{"good morning", "good afternoon", "good evening", "what's up", "whats up"})
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
