package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/careerpath/mentor-server-go/internal/audit"
	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
	"github.com/careerpath/mentor-server-go/internal/util"
)

type contextKey string

const OwnerContextKey contextKey = "owner"

// GetOwnerID returns the authenticated user id, or "" outside the auth middleware.
func GetOwnerID(ctx context.Context) string {
	if ownerID, ok := ctx.Value(OwnerContextKey).(string); ok {
		return ownerID
	}
	return ""
}

// WithOwnerID returns a context carrying ownerID as the authenticated user.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerContextKey, ownerID)
}

// AuthMiddleware accepts bearer tokens of the form "<ownerId>.<hmac>" signed
// with the server secret. Accounts are issued elsewhere.
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeError(w, apperrors.Unauthorized("Missing authentication token"))
			return
		}

		ownerID, ok := util.VerifyUserToken(m.secret, token)
		if !ok {
			log.Warn().Str("path", r.URL.Path).Msg("auth middleware: invalid token attempt")
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			writeError(w, apperrors.InvalidToken("Invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
	})
}

// extractToken reads the Authorization header, falling back to the token
// query parameter for EventSource clients that cannot set headers.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
