// Package service implements the application's business logic layer.
package service

import (
	"context"
	"strings"

	"carezy/internal/assistant"
	"carezy/internal/chat"
	"carezy/internal/middleware"
	"carezy/internal/models"
)

// AssistantService wraps the completion client for mood analysis and the
// stateful chatbot.
type AssistantService struct {
	completer assistant.Completer
	history   chat.Store
}

// NewAssistantService returns a new AssistantService.
func NewAssistantService(completer assistant.Completer, history chat.Store) *AssistantService {
	return &AssistantService{completer: completer, history: history}
}

// AnalyzeMood relays a mood score and note through the completion endpoint
// and returns the suggestion text verbatim.
func (s *AssistantService) AnalyzeMood(ctx context.Context, moodScore int, note string) (string, error) {
	suggestion, err := s.completer.Complete(ctx, assistant.MoodPrompt(moodScore, note))
	if err != nil {
		middleware.AssistantRequests.WithLabelValues("analyze_mood", "error").Inc()
		return "", err
	}
	middleware.AssistantRequests.WithLabelValues("analyze_mood", "ok").Inc()
	return suggestion, nil
}

// Chat appends the caller's message to their transcript, sends the full
// flattened transcript to the completion endpoint, records the reply as a
// bot turn, and returns it.
func (s *AssistantService) Chat(ctx context.Context, userID uint, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", models.NewValidationError("Query is required")
	}

	if err := s.history.Append(ctx, userID, assistant.Turn{Role: assistant.RoleUser, Content: query}); err != nil {
		return "", err
	}

	turns, err := s.history.History(ctx, userID)
	if err != nil {
		return "", err
	}

	reply, err := s.completer.Complete(ctx, assistant.FlattenTranscript(turns))
	if err != nil {
		middleware.AssistantRequests.WithLabelValues("chatbot", "error").Inc()
		return "", err
	}

	if err := s.history.Append(ctx, userID, assistant.Turn{Role: assistant.RoleBot, Content: reply}); err != nil {
		return "", err
	}

	middleware.AssistantRequests.WithLabelValues("chatbot", "ok").Inc()
	return reply, nil
}
