package server

import (
	"strings"

	"carezy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTask handles POST /tasks
func (s *Server) CreateTask(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
		Status      string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.DueDate) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("All fields (title, description, due_date) are required"))
	}

	status := models.TaskStatus(req.Status)
	if req.Status == "" {
		status = models.TaskStatusPending
	} else if !models.ValidTaskStatus(status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status must be 'pending' or 'completed'"))
	}

	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      status,
	}
	if err := s.taskRepo.Create(c.UserContext(), task); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

// GetTasks handles GET /tasks
func (s *Server) GetTasks(c *fiber.Ctx) error {
	userID := currentUserID(c)

	tasks, err := s.taskRepo.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(tasks)
}

// UpdateTaskStatus handles PUT /tasks/:task_id
func (s *Server) UpdateTaskStatus(c *fiber.Ctx) error {
	userID := currentUserID(c)

	taskID, err := s.parseID(c, "task_id", "task ID")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	status := models.TaskStatus(req.Status)
	if !models.ValidTaskStatus(status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status must be 'pending' or 'completed'"))
	}

	// Lookup is scoped by owner, so another user's task reads as not found.
	task, err := s.taskRepo.UpdateStatus(c.UserContext(), userID, taskID, status)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"task":    task,
	})
}

// DeleteTask handles DELETE /tasks/:task_id
func (s *Server) DeleteTask(c *fiber.Ctx) error {
	userID := currentUserID(c)

	taskID, err := s.parseID(c, "task_id", "task ID")
	if err != nil {
		return nil
	}

	if err := s.taskRepo.Delete(c.UserContext(), userID, taskID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}
