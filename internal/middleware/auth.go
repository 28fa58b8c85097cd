package middleware

import (
	"context"
	"net/http"

	"gallery-backend/internal/services"
	"gallery-backend/utils/response"
)

type contextKey string

const sessionContextKey contextKey = "session"

type AuthMiddleware struct {
	sessions *services.SessionService
}

func NewAuthMiddleware(sessions *services.SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth resolves the token cookie into a live session and stores it
// in the request context. Missing, invalid, expired, and logged-out tokens
// all answer 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		session, err := m.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSessionFromContext(ctx context.Context) *services.Session {
	session, ok := ctx.Value(sessionContextKey).(*services.Session)
	if !ok {
		return nil
	}
	return session
}
