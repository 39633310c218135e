package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/litblc/account-service/internal/domain"
	"go.uber.org/zap"
)

type contextKey string

const (
	userUUIDKey contextKey = "user_uuid"
	tokenKey    contextKey = "access_token"
)

type AuthMiddleware struct {
	tokens domain.TokenService
	logger *zap.Logger
}

func NewAuthMiddleware(tokens domain.TokenService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

func (m *AuthMiddleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userUUIDKey, claims.UserUUID)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) extractToken(r *http.Request) string {
	bearToken := r.Header.Get("Authorization")
	parts := strings.Split(bearToken, " ")
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// UserUUIDFromContext returns the authenticated user's UUID, empty when the
// request did not pass the Authenticator.
func UserUUIDFromContext(ctx context.Context) string {
	uuid, _ := ctx.Value(userUUIDKey).(string)
	return uuid
}

// TokenFromContext returns the raw access token the request carried.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
