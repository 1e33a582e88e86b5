package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	PostKeyPrefix         = "post:%d"
	AnnouncementKeyPrefix = "announcement:%d"
	EventKeyPrefix        = "event:%d"
	PostStatsKey          = "posts:stats"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	AnnouncementTTL = 10 * time.Minute
	EventTTL        = 10 * time.Minute
	StatsTTL        = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func AnnouncementKey(id uint) string {
	return fmt.Sprintf(AnnouncementKeyPrefix, id)
}

func EventKey(id uint) string {
	return fmt.Sprintf(EventKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostStatsKey)
}

func InvalidateAnnouncement(ctx context.Context, id uint) {
	Invalidate(ctx, AnnouncementKey(id))
}

func InvalidateEvent(ctx context.Context, id uint) {
	Invalidate(ctx, EventKey(id))
}
