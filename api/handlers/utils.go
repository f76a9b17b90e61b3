package handlers

import (
	"net/http"

	"github.com/yatube/yatube-services/api/services"
)

// PostService is implemented by *services.Service.
type PostService interface {
	IndexService(w http.ResponseWriter, r *http.Request)
	GroupListService(w http.ResponseWriter, r *http.Request)
	ProfileService(w http.ResponseWriter, r *http.Request)
	PostDetailService(w http.ResponseWriter, r *http.Request)
	PostCreateService(w http.ResponseWriter, r *http.Request)
	PostEditService(w http.ResponseWriter, r *http.Request)
}

var _ PostService = (*services.Service)(nil)
