package models

import "time"

// MoodEntry is a single mood log row. Entries are immutable once written;
// there are no update or delete paths for them.
type MoodEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	MoodScore int       `gorm:"not null" json:"mood_score"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (MoodEntry) TableName() string {
	return "mood_logs"
}
