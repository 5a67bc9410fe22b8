package middleware

import (
	"context"
	"errors"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"logicode/internal/common/security"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const SessionCtxKey contextKey = "session"

// SessionResolver maps a verified token's user id to the live session.
type SessionResolver interface {
	Resolve(ctx context.Context, userID string) (*service.Session, error)
}

// Authenticator rejects requests without a valid token whose user is still
// the signed-in user, and stores the session in the request context.
func Authenticator(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionFromToken(r, resolver)
			if err != nil {
				common.RespondWithDomainError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionCtxKey, sess)))
		})
	}
}

// OptionalSession attaches the session when the request carries a valid
// token and lets anonymous requests through unchanged.
func OptionalSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, err := sessionFromToken(r, resolver); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionCtxKey, sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok || !sess.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext returns the session set by Authenticator or OptionalSession.
func GetSessionFromContext(ctx context.Context) (*service.Session, bool) {
	sess, ok := ctx.Value(SessionCtxKey).(*service.Session)
	return sess, ok && sess != nil
}

func sessionFromToken(r *http.Request, resolver SessionResolver) (*service.Session, error) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) || token == nil {
			return nil, common.Errorf("authorization token required: %w", common.ErrUnauthorized)
		}
		return nil, common.Errorf("invalid token: %w", common.ErrUnauthorized)
	}

	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return nil, common.Errorf("invalid token claims: %w", common.ErrUnauthorized)
	}
	return resolver.Resolve(r.Context(), userID)
}
