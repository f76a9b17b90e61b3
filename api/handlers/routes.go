package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/yatube/yatube-services/api/middleware"
)

// RegisterRoutes adds the blog routes to r. authenticate runs on every
// route; the form routes additionally require a logged in user.
func RegisterRoutes(r *mux.Router, svc PostService, secret []byte, loginURL string) {

	r.Use(middleware.WithLogger)
	r.Use(middleware.Authenticate(secret))

	var loginRequired = func(next http.HandlerFunc) http.Handler {
		return middleware.LoginRequired(loginURL)(next)
	}

	r.HandleFunc("/", Index(svc)).Methods(http.MethodGet)
	r.HandleFunc("/group/{slug}/", GroupList(svc)).Methods(http.MethodGet)
	r.HandleFunc("/profile/{username}/", Profile(svc)).Methods(http.MethodGet)
	r.HandleFunc("/posts/{post-id:[0-9]+}/", PostDetail(svc)).Methods(http.MethodGet)

	r.Handle("/create/", loginRequired(PostCreate(svc))).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/posts/{post-id:[0-9]+}/edit/", loginRequired(PostEdit(svc))).Methods(http.MethodGet, http.MethodPost)
}
