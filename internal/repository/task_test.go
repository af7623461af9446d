package repository

import (
	"context"
	"testing"
	"time"

	"carezy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTask(t *testing.T, repo TaskRepository, userID uint, title string) *models.Task {
	t.Helper()
	task := &models.Task{
		UserID: userID,
		Title:  title,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestTaskRepository_CreateDefaultsToPending(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))

	task := createTestTask(t, repo, 1, "Meditate")
	assert.Equal(t, models.TaskStatusPending, task.Status)
}

func TestTaskRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	older := createTestTask(t, repo, 1, "Older")
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := createTestTask(t, repo, 1, "Newer")
	createTestTask(t, repo, 2, "Other User's Task")

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID)
	assert.Equal(t, older.ID, tasks[1].ID)
}

func TestTaskRepository_UpdateStatus(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := createTestTask(t, repo, 1, "Journal")

	updated, err := repo.UpdateStatus(ctx, 1, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)

	got, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got[0].Status)
}

func TestTaskRepository_UpdateStatusScopedByOwner(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := createTestTask(t, repo, 1, "Owned by user 1")

	// user 2 sees user 1's task as missing
	_, err := repo.UpdateStatus(ctx, 2, task.ID, models.TaskStatusCompleted)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// and the task is untouched
	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, tasks[0].Status)
}

func TestTaskRepository_DeleteScopedByOwner(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := createTestTask(t, repo, 1, "To delete")

	err := repo.Delete(ctx, 2, task.ID)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	require.NoError(t, repo.Delete(ctx, 1, task.ID))

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepository_DeleteMissing(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))

	err := repo.Delete(context.Background(), 1, 999)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
