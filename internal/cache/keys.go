package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%s"
	PostCommentsKeyPrefix = "post:%s:comments"
)

const (
	UserTTL         = 5 * time.Minute
	PostCommentsTTL = 2 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostCommentsKey(postID string) string {
	return fmt.Sprintf(PostCommentsKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePostComments(ctx context.Context, postID string) {
	Invalidate(ctx, PostCommentsKey(postID))
}
