package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	UserSummaryPrefix  = "user:%d:summary"
	SuggestionsPrefix  = "user:%d:suggestions"
	UnreadCountPrefix  = "user:%d:unread"
	ConversationPrefix = "conversation:%d"
)

const (
	UserTTL        = 5 * time.Minute
	SuggestionsTTL = 10 * time.Minute
	UnreadTTL      = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserSummaryKey(userID uint) string {
	return fmt.Sprintf(UserSummaryPrefix, userID)
}

func SuggestionsKey(userID uint) string {
	return fmt.Sprintf(SuggestionsPrefix, userID)
}

func UnreadCountKey(userID uint) string {
	return fmt.Sprintf(UnreadCountPrefix, userID)
}

func ConversationKey(conversationID uint) string {
	return fmt.Sprintf(ConversationPrefix, conversationID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserSummaryKey(userID))
}

func InvalidateSuggestions(ctx context.Context, userID uint) {
	Invalidate(ctx, SuggestionsKey(userID))
}

func InvalidateUnread(ctx context.Context, userID uint) {
	Invalidate(ctx, UnreadCountKey(userID))
}

func InvalidateConversation(ctx context.Context, conversationID uint) {
	Invalidate(ctx, ConversationKey(conversationID))
}
