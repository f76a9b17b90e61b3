package handlers

import (
	"net/http"
)

// @Summary List posts
// @Description Paginated list of all posts, newest first.
// @Tags posts
// @Produce json
// @Param page query int false "Page number" example(2)
// @Success 200 {object} models.IndexResponse
// @Failure 500 {object} models.Response
// @Router / [get]
func Index(svc PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.IndexService(w, r)
	}
}

// @Summary List group posts
// @Description Paginated list of the posts in a group.
// @Tags posts groups
// @Produce json
// @Param slug path string true "Group slug" example(cats)
// @Param page query int false "Page number"
// @Success 200 {object} models.GroupListResponse
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /group/{slug}/ [get]
func GroupList(svc PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GroupListService(w, r)
	}
}

// @Summary List author posts
// @Description Paginated list of the posts written by a user.
// @Tags posts users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} models.ProfileResponse
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /profile/{username}/ [get]
func Profile(svc PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ProfileService(w, r)
	}
}

// @Summary Get post
// @Description A single post and the number of posts its author has written.
// @Tags posts
// @Produce json
// @Param post-id path int true "Post ID"
// @Success 200 {object} models.PostDetailResponse
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /posts/{post-id}/ [get]
func PostDetail(svc PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.PostDetailService(w, r)
	}
}

// @Summary Create post
// @Description GET returns the empty form, POST saves the post and redirects to the author's profile.
// @Tags posts
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param form body models.PostForm false "Post form"
// @Success 200 {object} models.FormResponse
// @Success 302
// @Failure 400 {object} models.FormResponse
// @Router /create/ [post]
func PostCreate(svc PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.PostCreateService(w, r)
	}
}

// @Summary Edit post
// @Description GET returns the bound form, POST updates text and group and redirects to the post. Author only.
// @Tags posts
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param post-id path int true "Post ID"
// @Param form body models.PostForm false "Post form"
// @Success 200 {object} models.FormResponse
// @Success 302
// @Failure 400 {object} models.FormResponse
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /posts/{post-id}/edit/ [post]
func PostEdit(svc PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.PostEditService(w, r)
	}
}
