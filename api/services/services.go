package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yatube/yatube-services/internal/appconfig"
	"github.com/yatube/yatube-services/internal/events"
	"github.com/yatube/yatube-services/internal/paginator"
	"github.com/yatube/yatube-services/models"
)

// BlogStore is the persistence used by the post services. It is
// implemented by *db.BlogDB.
type BlogStore interface {
	GetIndexPage(rawPage string, pageSize int) ([]models.Post, paginator.Window, error)
	GetGroupPage(groupID int64, rawPage string, pageSize int) ([]models.Post, paginator.Window, error)
	GetAuthorPage(authorID int64, rawPage string, pageSize int) ([]models.Post, paginator.Window, error)
	GetPost(postID int64) (*models.Post, error)
	CountAuthorPosts(authorID int64) (int, error)
	CreatePost(authorID int64, form models.PostForm) (*models.Post, error)
	UpdatePost(postID int64, form models.PostForm) (*models.Post, error)
	GetGroups() ([]models.Group, error)
	GetGroupBySlug(slug string) (*models.Group, error)
	CheckGroupExists(groupID int64) (bool, error)
	GetUserByUsername(username string) (*models.User, error)
	EnsureUser(username string) (*models.User, error)
}

// PostCounter caches per-author post counts. It is implemented by
// *cache.PostCounts, including its nil value.
type PostCounter interface {
	Get(ctx context.Context, authorID int64) (int, bool)
	Set(ctx context.Context, authorID int64, count int)
	Invalidate(ctx context.Context, authorID int64)
}

// Service contains all shared dependencies for handlers.
type Service struct {
	Config    *appconfig.Config
	DB        BlogStore
	Counts    PostCounter
	Publisher events.Notifier
}

// path prefixes an application path with the configured base path.
func (svc *Service) path(format string, args ...interface{}) string {
	return strings.TrimSuffix(svc.Config.BasePath, "/") + fmt.Sprintf(format, args...)
}
