package payload

import (
	"github.com/vasapolrittideah/identity-broker/internal/model"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthorizeResponse carries the provider consent screen redirect URL.
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// ErrorResponse is the structured failure envelope: a machine-readable reason
// code plus a human-readable description.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// UserResponse is the public projection of a user record. The credential
// hash never leaves the service.
type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	OAuthProvider string `json:"oauth_provider,omitempty"`
	IsActive      bool   `json:"is_active"`
	IsVerified    bool   `json:"is_verified"`
	IsSuperuser   bool   `json:"is_superuser"`
}

// NewUserResponse converts a user record into its public projection.
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:            user.ID.Hex(),
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		AvatarURL:     user.AvatarURL,
		OAuthProvider: user.OAuthProvider,
		IsActive:      user.IsActive,
		IsVerified:    user.IsVerified,
		IsSuperuser:   user.IsSuperuser,
	}
}
