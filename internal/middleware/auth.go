package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/identity-broker/internal/model"
	"github.com/vasapolrittideah/identity-broker/internal/payload"
	"github.com/vasapolrittideah/identity-broker/internal/repository"
	"github.com/vasapolrittideah/identity-broker/internal/token"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

// AuthMiddleware guards protected routes with bearer token authentication.
// A token remains nominally valid until its expiry, so the middleware
// re-checks account state on every request and rejects inactive users even
// when their token still verifies.
type AuthMiddleware struct {
	issuer   *token.Issuer
	userRepo repository.UserRepository
	logger   *zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(issuer *token.Issuer, userRepo repository.UserRepository, logger *zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		issuer:   issuer,
		userRepo: userRepo,
		logger:   logger,
	}
}

// RequireUser verifies the bearer token, loads the user it is bound to, and
// stores the user in the request context.
func (a *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		userID, err := a.issuer.Verify(tokenStr)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, token.ErrTokenExpired) {
				reason = "token has expired"
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", reason)
			return
		}

		user, err := a.userRepo.GetUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "unknown user")
				return
			}

			a.logger.Error().Err(err).Msg("failed to load user for bearer token")
			writeError(w, http.StatusServiceUnavailable, "persistence_error", "user store unavailable")
			return
		}

		if !user.IsActive {
			writeError(w, http.StatusForbidden, "user_inactive", "user account is inactive")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}
