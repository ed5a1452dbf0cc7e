package post

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"social-api/internal/apperr"
	"social-api/internal/cache"
	"social-api/internal/events"
)

// countingRepo tracks how often the store is read so tests can assert
// cache hits without guessing.
type countingRepo struct {
	Repository
	listCalls int
}

func (r *countingRepo) ListByOwner(userID uint) ([]Post, error) {
	r.listCalls++
	return r.Repository.ListByOwner(userID)
}

type recordingWriter struct{ published []events.Event }

func (w *recordingWriter) WriteJSON(_ context.Context, v any) error {
	if ev, ok := v.(events.Event); ok {
		w.published = append(w.published, ev)
	}
	return nil
}
func (w *recordingWriter) Close() error { return nil }

func newTestService(t *testing.T) (Service, *countingRepo, *recordingWriter) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Post{}))

	repo := &countingRepo{Repository: NewRepository(db)}
	writer := &recordingWriter{}
	svc := NewService(repo, cache.New[[]Post](cache.DefaultCapacity, cache.DefaultTTL), writer)
	return svc, repo, writer
}

func TestCreateThenListIsFresh(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// warm the cache with an empty list
	posts, err := svc.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)

	p, err := svc.Create(ctx, 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)

	posts, err = svc.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Text)
}

func TestSecondListServedFromCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "hello")
	require.NoError(t, err)

	_, err = svc.ListByOwner(ctx, 1)
	require.NoError(t, err)
	_, err = svc.ListByOwner(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls, "second list within the TTL must not query the store")
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, "first")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, 1, "second")
	require.NoError(t, err)

	posts, err := svc.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestCreateEmptyText(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 1, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	n, err := repo.CountByOwner(1)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected create must not persist anything")
}

func TestCreateTooLarge(t *testing.T) {
	svc, repo, _ := newTestService(t)

	big := strings.Repeat("x", MaxTextBytes+1)
	_, err := svc.Create(context.Background(), 1, big)
	assert.ErrorIs(t, err, apperr.ErrTooLarge)

	n, err := repo.CountByOwner(1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateAtLimitSucceeds(t *testing.T) {
	svc, _, _ := newTestService(t)

	exact := strings.Repeat("x", MaxTextBytes)
	_, err := svc.Create(context.Background(), 1, exact)
	assert.NoError(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), 1, 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteForbiddenForOtherOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 2, "owned by user 2")
	require.NoError(t, err)

	// warm user 2's cache so we can detect a spurious invalidation
	_, err = svc.ListByOwner(ctx, 2)
	require.NoError(t, err)
	callsBefore := repo.listCalls

	err = svc.Delete(ctx, 1, p.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	n, err := repo.CountByOwner(2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "forbidden delete must not mutate the store")

	_, err = svc.ListByOwner(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, callsBefore, repo.listCalls, "forbidden delete must not evict the owner's cache entry")
}

func TestDeleteThenListIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, "hello")
	require.NoError(t, err)

	_, err = svc.ListByOwner(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, p.ID))

	posts, err := svc.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStats(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "one")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "two")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), stats.UserID)
	assert.EqualValues(t, 2, stats.TotalPosts)
	assert.Equal(t, cache.DefaultCapacity, stats.CacheInfo.Maxsize)
}

func TestLifecycleEventsPublished(t *testing.T) {
	svc, _, writer := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, "hello")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, p.ID))

	require.Len(t, writer.published, 2)
	assert.Equal(t, events.TypePostCreated, writer.published[0].Type)
	assert.Equal(t, events.TypePostDeleted, writer.published[1].Type)
	assert.Equal(t, p.ID, writer.published[0].PostID)
	assert.NotEmpty(t, writer.published[0].ID)
}
