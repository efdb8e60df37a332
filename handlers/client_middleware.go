package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"gorm.io/gorm"
)

const (
	// ClientTokenContextKey holds the resolved ClientAccessToken (with its
	// access link preloaded) for client-scoped requests.
	ClientTokenContextKey ContextKey = "client_access_token"
)

// extractClientBearerToken pulls the bearer token from the access_token query
// parameter first, then from the Authorization header.
func extractClientBearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// ClientTokenAuthMiddleware gates client-scoped endpoints. It resolves the
// inbound bearer token to its ClientAccessToken and access link, rejecting
// missing, unknown, and expired tokens with distinct error codes. It runs
// instead of the normal user-session authentication on these routes.
func ClientTokenAuthMiddleware(tokenRepo repository.ClientTokenRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractClientBearerToken(r)
			if tokenString == "" {
				WriteAPIError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Access token required")
				return
			}

			token, err := tokenRepo.GetByToken(tokenString)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					WriteAPIError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid access token")
					return
				}
				WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to validate access token")
				return
			}

			if !token.IsValid() {
				WriteAPIError(w, http.StatusUnauthorized, ErrCodeTokenExpired, "Token expired")
				return
			}

			ctx := context.WithValue(r.Context(), ClientTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientTokenFromContext retrieves the resolved token placed in the context
// by ClientTokenAuthMiddleware.
func ClientTokenFromContext(ctx context.Context) (*models.ClientAccessToken, bool) {
	token, ok := ctx.Value(ClientTokenContextKey).(*models.ClientAccessToken)
	return token, ok && token != nil
}
