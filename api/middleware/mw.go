package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yatube/yatube-services/internal/authn"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// TokenCookie is read when no Authorization header is sent, so that
// browsers holding a session token can reach the form routes.
const TokenCookie = "access_token"

// Authenticate parses an optional bearer token and adds its claims to the
// request context. Requests without a valid token continue anonymously, so
// a stale session still reaches the public pages and LoginRequired sends it
// to the login page.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "Authenticate").Logger()

				token, found, ok := bearerToken(r)
				if !found {
					next.ServeHTTP(w, r)
					return
				}
				if !ok {
					logger.Warn().Msg("invalid token format, continuing anonymously")
					next.ServeHTTP(w, r)
					return
				}

				// Parse the token for JWT claims
				claims, err := authn.ParseClaims(token, secret)
				if err != nil {
					logger.Warn().Err(err).Msg("invalid bearer jwt token, continuing anonymously")
					next.ServeHTTP(w, r)
					return
				}

				// Add the token and claims to the context
				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// bearerToken extracts the token from the Authorization header or the
// token cookie. found reports whether any credential was sent, ok whether
// it was well formed.
func bearerToken(r *http.Request) (token string, found, ok bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		token = strings.TrimPrefix(authHeader, "Bearer ")
		return token, true, token != authHeader && token != ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, true, true
	}
	return "", false, false
}

// LoginRequired redirects anonymous requests to loginURL, carrying the
// original path in the "next" query parameter.
func LoginRequired(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if _, ok := ClaimsFromContext(r.Context()); ok {
					next.ServeHTTP(w, r)
					return
				}

				zerolog.Ctx(r.Context()).Debug().Msg("anonymous request redirected to login")
				http.Redirect(w, r, LoginRedirectURL(loginURL, r.URL.RequestURI()), http.StatusFound)
			},
		)
	}
}

// LoginRedirectURL appends next=<path> to loginURL.
func LoginRedirectURL(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (authn.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(authn.Claims)
	return claims, ok
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("request_id", uuid.NewString()).
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
