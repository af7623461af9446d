package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"carezy/internal/models"
	"carezy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20 // 5 MB

// allowedImageExtensions maps accepted upload extensions to content types.
var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// GetUser handles GET /api/user/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(user)
}

// UpdateProfile handles PUT /api/user/update-profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UploadProfileImage handles POST /api/user/upload-image.
// The multipart field name is "profileImage".
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	userID := currentUserID(c)

	file, err := c.FormFile("profileImage")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}
	if file.Size > maxUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File too large (max 5 MB)"))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported image type"))
	}

	if err := os.MkdirAll(s.config.UploadsDir, 0o755); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Filename is regenerated server-side; the client name is never trusted.
	name := fmt.Sprintf("%d_%s%s", userID, uuid.New().String(), ext)
	if err := c.SaveFile(file, filepath.Join(s.config.UploadsDir, name)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	imageURL := strings.TrimRight(s.config.PublicURL, "/") + "/uploads/" + name
	user, err := s.userService.SetProfileImage(c.UserContext(), userID, imageURL)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message":       "Image uploaded successfully",
		"profile_image": user.ProfileImage,
		"user":          user,
	})
}

// ServeUpload handles GET /uploads/:filename
func (s *Server) ServeUpload(c *fiber.Ctx) error {
	name := c.Params("filename")

	// Only server-generated names are valid; anything with path structure is
	// a traversal attempt.
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid filename"))
	}

	contentType, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid filename"))
	}

	path := filepath.Join(s.config.UploadsDir, name)
	if _, err := os.Stat(path); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("File", name))
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.SendFile(path)
}
