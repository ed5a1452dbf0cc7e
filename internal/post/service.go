package post

import (
	"context"
	"log"
	"time"

	"social-api/internal/apperr"
	"social-api/internal/cache"
	"social-api/internal/events"
)

// MaxTextBytes bounds the serialized post text at 1 MiB.
const MaxTextBytes = 1 << 20

type Service interface {
	Create(ctx context.Context, userID uint, text string) (*Post, error)
	ListByOwner(ctx context.Context, userID uint) ([]Post, error)
	Delete(ctx context.Context, userID, postID uint) error
	Stats(ctx context.Context, userID uint) (*StatsResponse, error)
}

type service struct {
	repo   Repository
	cache  *cache.Cache[[]Post]
	writer events.Writer
}

func NewService(repo Repository, c *cache.Cache[[]Post], writer events.Writer) Service {
	return &service{repo: repo, cache: c, writer: writer}
}

// Create validates before touching the store: a rejected request must
// never persist anything or evict cache state. On success the owner's
// cache entry is invalidated after the insert and before returning.
func (s *service) Create(ctx context.Context, userID uint, text string) (*Post, error) {
	if len(text) == 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "post text must not be empty")
	}
	if len(text) > MaxTextBytes {
		return nil, apperr.Wrap(apperr.ErrTooLarge, "post text exceeds the 1 MiB limit")
	}

	p, err := s.repo.Create(&Post{UserID: userID, Text: text})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypePostCreated, p.ID, userID)
	s.cache.Invalidate(userID)
	return p, nil
}

// ListByOwner is cache-aside: a fresh snapshot is served without
// touching the store, a miss repopulates the cache.
func (s *service) ListByOwner(ctx context.Context, userID uint) ([]Post, error) {
	if posts, ok := s.cache.Get(userID); ok {
		return posts, nil
	}
	posts, err := s.repo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(userID, posts)
	return posts, nil
}

func (s *service) Delete(ctx context.Context, userID, postID uint) error {
	p, err := s.repo.FindByID(postID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.Wrap(apperr.ErrNotFound, "post not found")
	}
	if p.UserID != userID {
		return apperr.Wrap(apperr.ErrForbidden, "post belongs to another user")
	}

	if err := s.repo.Delete(postID); err != nil {
		return err
	}

	s.publish(ctx, events.TypePostDeleted, postID, userID)
	s.cache.Invalidate(userID)
	return nil
}

func (s *service) Stats(ctx context.Context, userID uint) (*StatsResponse, error) {
	total, err := s.repo.CountByOwner(userID)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		UserID:     userID,
		TotalPosts: total,
		CacheInfo:  s.cache.Info(),
	}, nil
}

// publish is best-effort: a broker outage must not fail the request.
func (s *service) publish(ctx context.Context, typ string, postID, userID uint) {
	if s.writer == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.writer.WriteJSON(wctx, events.NewEvent(typ, postID, userID)); err != nil {
		log.Printf("events: publish %s for post %d: %v", typ, postID, err)
	}
}
