package server

import (
	"errors"
	"strings"

	"carezy/internal/models"
	"carezy/internal/music"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeMood handles POST /ai/analyze-mood
func (s *Server) AnalyzeMood(c *fiber.Ctx) error {
	if s.assistantSvc == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("AI features are not configured"))
	}

	var req struct {
		MoodScore *int   `json:"mood_score"`
		Note      string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.MoodScore == nil || strings.TrimSpace(req.Note) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Mood score and note are required"))
	}
	if *req.MoodScore < 1 || *req.MoodScore > 10 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Mood score must be between 1 and 10"))
	}

	suggestion, err := s.assistantSvc.AnalyzeMood(c.UserContext(), *req.MoodScore, req.Note)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(errors.New("AI analysis failed")))
	}

	return c.JSON(fiber.Map{
		"suggestion": suggestion,
	})
}

// Chatbot handles POST /chatbot
func (s *Server) Chatbot(c *fiber.Ctx) error {
	if s.assistantSvc == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("AI features are not configured"))
	}

	userID := currentUserID(c)

	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.assistantSvc.Chat(c.UserContext(), userID, req.Query)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"response": reply,
	})
}

// MusicRecommendation handles POST /music-recommendation
func (s *Server) MusicRecommendation(c *fiber.Ctx) error {
	if s.recommender == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Music recommendations are not configured"))
	}

	var req struct {
		Mood string `json:"mood"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Mood) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Mood is required"))
	}

	rec, err := s.recommender.Recommend(c.UserContext(), req.Mood)
	if err != nil {
		if errors.Is(err, music.ErrNoResults) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Song", req.Mood))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(rec)
}
