package services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/yatube/yatube-services/db"
	"github.com/yatube/yatube-services/models"
)

// IndexService returns a page of all posts, newest first.
func (svc *Service) IndexService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	posts, window, err := svc.DB.GetIndexPage(r.URL.Query().Get("page"), svc.Config.Posts.PageSize)
	if err != nil {
		logger.Error().Err(err).Msg("Database error retrieving posts")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	logger.Debug().Int("page", window.Number).Int("post_count", len(posts)).Msg("Retrieved index page")
	WriteResponse(w, http.StatusOK, models.IndexResponse{
		Page: models.NewPageResponse(posts, window),
	})
}

// GroupListService returns a page of the posts in the group named by the
// slug path variable.
func (svc *Service) GroupListService(w http.ResponseWriter, r *http.Request) {

	slug := mux.Vars(r)["slug"]
	logger := zerolog.Ctx(r.Context()).With().Str("slug", slug).Logger()

	group, err := svc.DB.GetGroupBySlug(slug)
	if err != nil {
		if errors.Is(err, db.ErrGroupNotFound) {
			logger.Warn().Msg("Group does not exist")
			HandleErrResponse(w, http.StatusNotFound, err)
			return
		}
		logger.Error().Err(err).Msg("Database error retrieving group")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	posts, window, err := svc.DB.GetGroupPage(group.ID, r.URL.Query().Get("page"), svc.Config.Posts.PageSize)
	if err != nil {
		logger.Error().Err(err).Msg("Database error retrieving group posts")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	WriteResponse(w, http.StatusOK, models.GroupListResponse{
		Group: *group,
		Page:  models.NewPageResponse(posts, window),
	})
}

// ProfileService returns a page of the posts written by the user named by
// the username path variable.
func (svc *Service) ProfileService(w http.ResponseWriter, r *http.Request) {

	username := mux.Vars(r)["username"]
	logger := zerolog.Ctx(r.Context()).With().Str("username", username).Logger()

	author, err := svc.DB.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			logger.Warn().Msg("User does not exist")
			HandleErrResponse(w, http.StatusNotFound, err)
			return
		}
		logger.Error().Err(err).Msg("Database error retrieving user")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	posts, window, err := svc.DB.GetAuthorPage(author.ID, r.URL.Query().Get("page"), svc.Config.Posts.PageSize)
	if err != nil {
		logger.Error().Err(err).Msg("Database error retrieving author posts")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	WriteResponse(w, http.StatusOK, models.ProfileResponse{
		Author: *author,
		Page:   models.NewPageResponse(posts, window),
	})
}

// PostDetailService returns a single post and the number of posts its
// author has written.
func (svc *Service) PostDetailService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	post, ok := svc.lookupPost(w, r)
	if !ok {
		return
	}

	count, err := svc.authorPostCount(r, post.Author.ID)
	if err != nil {
		logger.Error().Err(err).Int64("post_id", post.ID).Msg("Database error counting author posts")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	WriteResponse(w, http.StatusOK, models.PostDetailResponse{
		Post:       *post,
		PostsCount: count,
	})
}

// authorPostCount serves the count from cache when possible.
func (svc *Service) authorPostCount(r *http.Request, authorID int64) (int, error) {
	if count, ok := svc.Counts.Get(r.Context(), authorID); ok {
		return count, nil
	}

	count, err := svc.DB.CountAuthorPosts(authorID)
	if err != nil {
		return 0, err
	}

	svc.Counts.Set(r.Context(), authorID, count)
	return count, nil
}

// lookupPost loads the post named by the post-id path variable, writing a
// not found response when it does not exist.
func (svc *Service) lookupPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {

	raw := mux.Vars(r)["post-id"]
	logger := zerolog.Ctx(r.Context()).With().Str("post_id", raw).Logger()

	postID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid post id")
		HandleErrResponse(w, http.StatusNotFound, db.ErrPostNotFound)
		return nil, false
	}

	post, err := svc.DB.GetPost(postID)
	if err != nil {
		if errors.Is(err, db.ErrPostNotFound) {
			logger.Warn().Msg("Post does not exist")
			HandleErrResponse(w, http.StatusNotFound, err)
			return nil, false
		}
		logger.Error().Err(err).Msg("Database error retrieving post")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return nil, false
	}

	return post, true
}
