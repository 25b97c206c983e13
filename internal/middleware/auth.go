package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"podcast-repurposer/internal/auth"
	"podcast-repurposer/internal/models"
)

type contextKey string

// UserContextKey is the key for the user in the context.
const UserContextKey = contextKey("user")

// Verifiers maps a lowercase Authorization scheme ("bearer", "tma") to the
// verifier for its credentials.
type Verifiers map[string]auth.Verifier

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the user stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// AuthMiddleware resolves the Authorization header to a profile and stores
// it in the request context.
func AuthMiddleware(verifiers Verifiers, log zerolog.Logger) func(http.Handler) http.Handler {
	log = log.With().Str("component", "auth").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			scheme, credential, found := strings.Cut(authHeader, " ")
			verifier, ok := verifiers[strings.ToLower(scheme)]
			if !found || !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := verifier.Verify(r.Context(), strings.TrimSpace(credential))
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				log.Debug().Err(err).Str("scheme", scheme).Msg("Rejected credentials")
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			case err != nil:
				log.Error().Err(err).Str("scheme", scheme).Msg("Error authenticating user")
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
