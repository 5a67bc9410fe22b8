package middleware

import (
	"context"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"logicode/internal/common/security"
	"logicode/internal/domain/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]*service.Session

func (f fakeResolver) Resolve(_ context.Context, userID string) (*service.Session, error) {
	if sess, ok := f[userID]; ok {
		return sess, nil
	}
	return nil, common.ErrNoSession
}

func newTestRouter(issuer *security.TokenIssuer, resolver SessionResolver) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(issuer.Auth))
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(resolver))
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			sess, _ := GetSessionFromContext(r.Context())
			w.Write([]byte(sess.UserID()))
		})
		r.With(AdminOnly).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	r.With(OptionalSession(resolver)).Get("/maybe", func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := GetSessionFromContext(r.Context()); ok {
			w.Write([]byte(sess.UserID()))
			return
		}
		w.Write([]byte("anonymous"))
	})
	return r
}

func do(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator(t *testing.T) {
	issuer := security.NewTokenIssuer([]byte("k"), time.Hour)
	resolver := fakeResolver{
		"u1": service.NewSession(model.User{ID: "u1"}),
		"a1": service.NewSession(model.User{ID: "a1", Role: model.RoleAdmin}),
	}
	h := newTestRouter(issuer, resolver)

	userToken, err := issuer.GenerateToken("u1", "")
	require.NoError(t, err)
	adminToken, err := issuer.GenerateToken("a1", model.RoleAdmin)
	require.NoError(t, err)
	staleToken, err := issuer.GenerateToken("gone", "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/me", staleToken).Code)

	rec := do(t, h, "/me", userToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, do(t, h, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "/admin", adminToken).Code)

	assert.Equal(t, "anonymous", do(t, h, "/maybe", "").Body.String())
	assert.Equal(t, "anonymous", do(t, h, "/maybe", staleToken).Body.String())
	assert.Equal(t, "u1", do(t, h, "/maybe", userToken).Body.String())
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "limits are per client")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("1.1.1.1"))

	now = now.Add(time.Hour)
	l.Allow("3.3.3.3")
	assert.Len(t, l.visitors, 1, "idle clients are swept")
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewRateLimiter(1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
