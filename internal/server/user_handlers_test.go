package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carezy/internal/config"
	"carezy/internal/models"
	"carezy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func userApp(mockRepo *MockUserRepository, cfg *config.Config) *fiber.App {
	app := fiber.New()
	s := &Server{config: cfg, userRepo: mockRepo}
	s.userService = service.NewUserService(mockRepo)

	user := app.Group("/api/user", asUser(1))
	user.Put("/update-profile", s.UpdateProfile)
	user.Post("/upload-image", s.UploadProfileImage)
	user.Get("/:id", s.GetUser)
	app.Get("/uploads/:filename", s.ServeUpload)
	return app
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(2)).
			Return(&models.User{ID: 2, Name: "Other User", Email: "other@example.com"}, nil)
		app := userApp(mockRepo, testConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/user/2", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.User
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Other User", got.Name)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("User", 99))
		app := userApp(mockRepo, testConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/user/99", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		app := userApp(new(MockUserRepository), testConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/user/abc", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Name: "Old Name"}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Name == "New Name"
		})).Return(nil)
		app := userApp(mockRepo, testConfig())

		b, _ := json.Marshal(map[string]string{"name": "New Name"})
		req := httptest.NewRequest(http.MethodPut, "/api/user/update-profile", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Name Too Long", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Name: "Old Name"}, nil)
		app := userApp(mockRepo, testConfig())

		b, _ := json.Marshal(map[string]string{"name": strings.Repeat("x", 200)})
		req := httptest.NewRequest(http.MethodPut, "/api/user/update-profile", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	assert.NoError(t, err)
	_, err = fw.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadProfileImage(t *testing.T) {
	cfg := testConfig()
	cfg.UploadsDir = t.TempDir()
	cfg.PublicURL = "http://localhost:5000"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Name: "Test User"}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return strings.HasPrefix(u.ProfileImage, "http://localhost:5000/uploads/1_") &&
				strings.HasSuffix(u.ProfileImage, ".png")
		})).Return(nil)
		app := userApp(mockRepo, cfg)

		body, contentType := multipartImage(t, "profileImage", "avatar.png", []byte("fake-png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/user/upload-image", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)

		// the file landed on disk under the server-generated name
		entries, err := os.ReadDir(cfg.UploadsDir)
		assert.NoError(t, err)
		assert.NotEmpty(t, entries)
	})

	t.Run("Missing File", func(t *testing.T) {
		app := userApp(new(MockUserRepository), cfg)

		req := httptest.NewRequest(http.MethodPost, "/api/user/upload-image", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unsupported Extension", func(t *testing.T) {
		app := userApp(new(MockUserRepository), cfg)

		body, contentType := multipartImage(t, "profileImage", "notes.txt", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/api/user/upload-image", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServeUpload(t *testing.T) {
	cfg := testConfig()
	cfg.UploadsDir = t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(cfg.UploadsDir, "1_abc.png"), []byte("png-bytes"), 0o644))

	app := userApp(new(MockUserRepository), cfg)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"Existing File", "/uploads/1_abc.png", http.StatusOK},
		{"Missing File", "/uploads/2_missing.png", http.StatusNotFound},
		{"Traversal Attempt", "/uploads/..secret.png", http.StatusBadRequest},
		{"Non-Image Name", "/uploads/config.yml", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
