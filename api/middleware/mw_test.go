package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yatube/yatube-services/internal/authn"
)

func signedToken(t *testing.T, username string, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authn.Claims{Username: username}).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestAuthenticate_ValidBearerToken_ClaimsPopulated(t *testing.T) {
	secret := []byte("secret")
	var got authn.Claims

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok)
		got = claims
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.Header.Add("Authorization", "Bearer "+signedToken(t, "User", secret))

	w := httptest.NewRecorder()
	Authenticate(secret)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User", got.Username)
}

func TestAuthenticate_Cookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "cookie-user", claims.Username)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signedToken(t, "cookie-user", []byte("k"))})

	w := httptest.NewRecorder()
	Authenticate(nil)(next).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_Anonymous(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		assert.False(t, ok)
		called = true
	})

	w := httptest.NewRecorder()
	Authenticate(nil)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestAuthenticate_InvalidTokenContinuesAnonymously(t *testing.T) {
	for _, header := range []string{"Bearer invalid-token", "Token abc", "Bearer "} {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := ClaimsFromContext(r.Context())
			assert.False(t, ok, header)
			called = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Add("Authorization", header)

		w := httptest.NewRecorder()
		Authenticate(nil)(next).ServeHTTP(w, req)
		assert.True(t, called, header)
		assert.Equal(t, http.StatusOK, w.Code, header)
	}
}

func TestAuthenticate_ExpiredCookieIsRedirectedToLogin(t *testing.T) {
	secret := []byte("secret")
	expired := authn.Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()},
		Username:       "User",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(secret)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("expired session should be sent to login")
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})

	w := httptest.NewRecorder()
	Authenticate(secret)(LoginRequired("/auth/login/")(next)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", w.Header().Get("Location"))
}

func TestLoginRequired_RedirectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("anonymous request should be redirected")
	})

	req := httptest.NewRequest(http.MethodGet, "/posts/1/edit/", nil)
	w := httptest.NewRecorder()
	LoginRequired("/auth/login/")(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fposts%2F1%2Fedit%2F", w.Header().Get("Location"))
}

func TestLoginRequired_PassesAuthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	ctx := context.WithValue(req.Context(), ClaimsKey, authn.Claims{Username: "User"})

	w := httptest.NewRecorder()
	LoginRequired("/auth/login/")(next).ServeHTTP(w, req.WithContext(ctx))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRedirectURL_ExistingQuery(t *testing.T) {
	assert.Equal(t, "https://sso/login?client=blog&next=%2Fcreate%2F",
		LoginRedirectURL("https://sso/login?client=blog", "/create/"))
}

func TestWithLogger_AddsContextLogger(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		assert.NotNil(t, logger)
		assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
	})

	w := httptest.NewRecorder()
	WithLogger(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
}
