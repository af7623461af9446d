package server

import (
	"strings"

	"carezy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateMood handles POST /moods
func (s *Server) CreateMood(c *fiber.Ctx) error {
	userID := currentUserID(c)

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

	entry := &models.MoodEntry{
		UserID:    userID,
		MoodScore: *req.MoodScore,
		Note:      req.Note,
	}
	if err := s.moodRepo.Create(c.UserContext(), entry); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Mood logged successfully",
		"mood":    entry,
	})
}

// GetMoods handles GET /moods, newest first.
func (s *Server) GetMoods(c *fiber.Ctx) error {
	userID := currentUserID(c)

	entries, err := s.moodRepo.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(entries)
}
