package post

import "social-api/internal/cache"

type CreateRequest struct {
	Text string `json:"text" validate:"required"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	PostID  uint   `json:"post_id"`
}

type StatsResponse struct {
	UserID     uint       `json:"user_id"`
	TotalPosts int64      `json:"total_posts"`
	CacheInfo  cache.Info `json:"cache_info"`
}
