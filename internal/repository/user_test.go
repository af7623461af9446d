package repository

import (
	"context"
	"net/http"
	"testing"

	"carezy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed-password",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	created := createTestUser(t, repo, "test@example.com")
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "Test User", got.Name)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepository_GetByEmail_MissReturnsNil(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "dup@example.com")

	err := repo.Create(ctx, &models.User{
		Name:     "Second User",
		Email:    "dup@example.com",
		Password: "other-hash",
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "User already exists", appErr.Message)
	assert.Equal(t, http.StatusConflict, models.StatusForError(err))
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "update@example.com")
	user.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestUserRepository_UpdatePasswordByEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "reset@example.com")

	require.NoError(t, repo.UpdatePasswordByEmail(ctx, "reset@example.com", "new-hash"))

	got, err := repo.GetByEmail(ctx, "reset@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
	assert.Equal(t, user.ID, got.ID)

	// unknown address is a not-found, not a silent no-op
	err = repo.UpdatePasswordByEmail(ctx, "nobody@example.com", "new-hash")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
