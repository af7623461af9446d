package repository

import (
	"context"
	"testing"
	"time"

	"carezy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodRepository_CreateAndList(t *testing.T) {
	repo := NewMoodRepository(setupTestDB(t))
	ctx := context.Background()

	entry := &models.MoodEntry{UserID: 1, MoodScore: 7, Note: "pretty good"}
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotZero(t, entry.ID)

	entries, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].MoodScore)
	assert.Equal(t, "pretty good", entries[0].Note)
}

func TestMoodRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMoodRepository(db)
	ctx := context.Background()

	now := time.Now()
	for i, offset := range []time.Duration{-2 * time.Hour, -time.Hour, 0} {
		entry := &models.MoodEntry{UserID: 1, MoodScore: i + 1, Note: "entry"}
		require.NoError(t, repo.Create(ctx, entry))
		require.NoError(t, db.Model(entry).Update("created_at", now.Add(offset)).Error)
	}

	entries, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[0].MoodScore)
	assert.Equal(t, 2, entries[1].MoodScore)
	assert.Equal(t, 1, entries[2].MoodScore)
}

func TestMoodRepository_ListScopedByUser(t *testing.T) {
	repo := NewMoodRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.MoodEntry{UserID: 1, MoodScore: 5, Note: "mine"}))
	require.NoError(t, repo.Create(ctx, &models.MoodEntry{UserID: 2, MoodScore: 9, Note: "theirs"}))

	entries, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mine", entries[0].Note)
}
