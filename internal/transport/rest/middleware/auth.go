package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/service"
)

type contextKey string

const NicknameKey contextKey = "nickname"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequirePlayer validates the player JWT from the Authorization header or,
// for WebSocket upgrades, the token query param. A missing or invalid token
// is the fatal session-state precondition: the client gets a 401 and
// returns to the entry page.
func (m *AuthMiddleware) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidatePlayerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), NicknameKey, claims.Nickname)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetNickname extracts the player nickname from context
func GetNickname(ctx context.Context) string {
	if v := ctx.Value(NicknameKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
