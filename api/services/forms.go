package services

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yatube/yatube-services/api/middleware"
	"github.com/yatube/yatube-services/internal/appconfig"
	"github.com/yatube/yatube-services/internal/events"
	"github.com/yatube/yatube-services/models"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

var errInvalidGroup = errors.New("invalid group")

// PostCreateService renders the create form on GET and saves a new post on
// POST, redirecting to the author's profile.
func (svc *Service) PostCreateService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	if r.Method != http.MethodPost {
		svc.renderForm(w, r, http.StatusOK, models.FormResponse{})
		return
	}

	form, formErrors, err := svc.bindForm(r)
	if err != nil {
		logger.Error().Err(err).Msg("Database error validating post form")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}
	if len(formErrors) > 0 {
		logger.Info().Interface("errors", formErrors).Msg("Invalid post form")
		svc.renderForm(w, r, http.StatusBadRequest, models.FormResponse{Form: form, Errors: formErrors})
		return
	}

	author, err := svc.DB.EnsureUser(claims.Username)
	if err != nil {
		logger.Error().Err(err).Str("username", claims.Username).Msg("Database error retrieving author")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	post, err := svc.DB.CreatePost(author.ID, form)
	if err != nil {
		logger.Error().Err(err).Msg("Database error creating post")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	svc.Counts.Invalidate(r.Context(), author.ID)
	svc.publish(logger, post, events.ActionCreated)

	logger.Info().Int64("post_id", post.ID).Str("username", author.Username).Msg("Post created successfully")
	http.Redirect(w, r, svc.path("/profile/%s/", url.PathEscape(author.Username)), http.StatusFound)
}

// PostEditService renders the edit form on GET and updates the post on
// POST, redirecting to the post. Only the author may edit; the author of
// a post is never changed.
func (svc *Service) PostEditService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, nil)
		return
	}

	post, ok := svc.lookupPost(w, r)
	if !ok {
		return
	}

	detail := svc.path("/posts/%d/", post.ID)

	if post.Author.Username != claims.Username {
		logger.Warn().Int64("post_id", post.ID).Str("user", claims.Username).
			Msg("Access denied: user is not the post author")
		if svc.Config.Posts.NonAuthorEdit == appconfig.NonAuthorEditForbidden {
			HandleErrResponse(w, http.StatusForbidden, errors.New("forbidden: only the author may edit this post"))
			return
		}
		http.Redirect(w, r, detail, http.StatusFound)
		return
	}

	if r.Method != http.MethodPost {
		var groupID *int64
		if post.Group != nil {
			groupID = &post.Group.ID
		}
		svc.renderForm(w, r, http.StatusOK, models.FormResponse{
			Form:   models.PostForm{Text: post.Text, Group: groupID},
			IsEdit: true,
			PostID: post.ID,
		})
		return
	}

	form, formErrors, err := svc.bindForm(r)
	if err != nil {
		logger.Error().Err(err).Msg("Database error validating post form")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}
	if len(formErrors) > 0 {
		logger.Info().Interface("errors", formErrors).Msg("Invalid post form")
		svc.renderForm(w, r, http.StatusBadRequest, models.FormResponse{
			Form:   form,
			Errors: formErrors,
			IsEdit: true,
			PostID: post.ID,
		})
		return
	}

	updated, err := svc.DB.UpdatePost(post.ID, form)
	if err != nil {
		logger.Error().Err(err).Int64("post_id", post.ID).Msg("Database error updating post")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	svc.publish(logger, updated, events.ActionUpdated)

	logger.Info().Int64("post_id", post.ID).Msg("Post updated successfully")
	http.Redirect(w, r, detail, http.StatusFound)
}

// renderForm writes the form page with the group choices.
func (svc *Service) renderForm(w http.ResponseWriter, r *http.Request, status int, resp models.FormResponse) {

	groups, err := svc.DB.GetGroups()
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Database error retrieving groups")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	if groups == nil {
		groups = []models.Group{}
	}
	if resp.Errors == nil {
		resp.Errors = models.FormErrors{}
	}
	resp.Groups = groups

	WriteResponse(w, status, resp)
}

// bindForm decodes a JSON or urlencoded post form and validates it. A
// non-nil error means validation itself failed.
func (svc *Service) bindForm(r *http.Request) (models.PostForm, models.FormErrors, error) {
	formErrors := models.FormErrors{}

	form, err := decodeForm(r)
	switch {
	case errors.Is(err, errInvalidGroup):
		formErrors.Add("group", msgInvalidChoice)
		form.Group = nil
	case err != nil:
		formErrors.Add("__all__", "Invalid request payload")
		return form, formErrors, nil
	}

	form.Text = strings.TrimSpace(form.Text)
	if form.Text == "" {
		formErrors.Add("text", msgRequired)
	}

	if form.Group != nil {
		exists, err := svc.DB.CheckGroupExists(*form.Group)
		if err != nil {
			return form, nil, err
		}
		if !exists {
			formErrors.Add("group", msgInvalidChoice)
		}
	}

	return form, formErrors, nil
}

func decodeForm(r *http.Request) (models.PostForm, error) {
	var form models.PostForm

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&form)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "group" {
			return form, errInvalidGroup
		}
		return form, err
	}

	if err := r.ParseForm(); err != nil {
		return form, err
	}

	form.Text = r.PostForm.Get("text")
	if raw := strings.TrimSpace(r.PostForm.Get("group")); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return form, errInvalidGroup
		}
		form.Group = &groupID
	}
	return form, nil
}

// publish announces a post change. The post is already stored, so a
// failure is logged rather than returned to the client.
func (svc *Service) publish(logger *zerolog.Logger, post *models.Post, action string) {
	event := events.PostEvent{
		PostID:    post.ID,
		Author:    post.Author.Username,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
	if post.Group != nil {
		event.GroupID = &post.Group.ID
	}

	if err := svc.Publisher.Publish(event); err != nil {
		logger.Error().Err(err).Int64("post_id", post.ID).Str("action", action).Msg("Failed to publish post event")
	}
}
