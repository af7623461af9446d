package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	MoodHistoryKeyPrefix = "user:%d:moods"
	ChatHistoryKeyPrefix = "chat:history:%d"
	ResetCodeKeyPrefix   = "otp:%s"
)

const (
	UserTTL        = 5 * time.Minute
	MoodHistoryTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func MoodHistoryKey(userID uint) string {
	return fmt.Sprintf(MoodHistoryKeyPrefix, userID)
}

func ChatHistoryKey(userID uint) string {
	return fmt.Sprintf(ChatHistoryKeyPrefix, userID)
}

func ResetCodeKey(email string) string {
	return fmt.Sprintf(ResetCodeKeyPrefix, email)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateMoodHistory(ctx context.Context, userID uint) {
	Invalidate(ctx, MoodHistoryKey(userID))
}
