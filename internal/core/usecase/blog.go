package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	gocache "github.com/patrickmn/go-cache"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
)

// BlogLibrary fronts the article endpoints with validation on authoring
// and a short-lived read cache for individual articles. List views go
// through ListResource; the library covers everything else.
type BlogLibrary struct {
	api   ports.BlogAPI
	check *validator.Validate
	cache *gocache.Cache
	log   *slog.Logger
}

func NewBlogLibrary(api ports.BlogAPI, ttl time.Duration, log *slog.Logger) *BlogLibrary {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &BlogLibrary{
		api:   api,
		check: validator.New(),
		cache: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (l *BlogLibrary) Get(ctx context.Context, id int) (domain.Blog, error) {
	key := strconv.Itoa(id)
	if cached, ok := l.cache.Get(key); ok {
		return cached.(domain.Blog), nil
	}

	blog, err := l.api.Get(ctx, id)
	if err != nil {
		return domain.Blog{}, err
	}
	l.cache.SetDefault(key, blog)
	return blog, nil
}

// Publish validates a draft locally before it costs a round trip. The
// optional cover image goes through the same gate as analysis uploads.
func (l *BlogLibrary) Publish(ctx context.Context, draft domain.BlogDraft) (domain.Blog, error) {
	if err := l.check.Struct(draft); err != nil {
		return domain.Blog{}, validationError("publish blog", err)
	}
	if draft.Image != nil {
		if err := draft.Image.Validate(); err != nil {
			return domain.Blog{}, err
		}
	}

	blog, err := l.api.Create(ctx, draft)
	if err != nil {
		return domain.Blog{}, err
	}
	l.cache.SetDefault(strconv.Itoa(blog.ID), blog)
	l.log.Info("blog_published", "id", blog.ID, "title", blog.Title)
	return blog, nil
}

func (l *BlogLibrary) Bookmark(ctx context.Context, id int) (string, error) {
	return l.api.Bookmark(ctx, id)
}

func (l *BlogLibrary) RemoveBookmark(ctx context.Context, id int) (string, error) {
	return l.api.RemoveBookmark(ctx, id)
}
