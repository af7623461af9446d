package repository

import (
	"context"

	"carezy/internal/cache"
	"carezy/internal/models"

	"gorm.io/gorm"
)

// MoodRepository defines persistence operations for mood log entries.
type MoodRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	ListByUser(ctx context.Context, userID uint) ([]models.MoodEntry, error)
}

type moodRepository struct {
	db *gorm.DB
}

// NewMoodRepository returns a new MoodRepository implementation.
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepository{db: db}
}

func (r *moodRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMoodHistory(ctx, entry.UserID)
	return nil
}

func (r *moodRepository) ListByUser(ctx context.Context, userID uint) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry

	key := cache.MoodHistoryKey(userID)
	err := cache.Aside(ctx, key, &entries, cache.MoodHistoryTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&entries).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
