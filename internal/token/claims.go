package token

import "github.com/golang-jwt/jwt/v5"

// PasswordResetClaims is the claim set carried by password reset JWTs. The
// JTI ties the token to its single-use database record.
type PasswordResetClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}
