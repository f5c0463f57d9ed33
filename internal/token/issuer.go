package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the fixed lifetime of issued access tokens.
const DefaultAccessTokenTTL = 3600 * time.Second

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrInvalidSignature is returned when a token fails verification for any
	// reason other than expiry: bad signature, wrong issuer, or garbage input.
	ErrInvalidSignature = errors.New("token signature is invalid")
)

// Issuer creates and verifies bearer access tokens bound to a user identity.
// Tokens are self-contained: verification needs only the signing secret, so
// there is no revocation list and validity is determined solely by signature
// and expiry. Callers needing stricter behavior must re-check account state
// on every protected access.
type Issuer struct {
	auth   Authenticator
	secret string
	ttl    time.Duration
}

// NewIssuer creates an Issuer signing with the given secret. A non-positive
// ttl falls back to DefaultAccessTokenTTL.
func NewIssuer(secret, issuer string, ttl time.Duration, opts ...AuthenticatorOption) Issuer {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	return Issuer{
		auth:   NewAuthenticator(issuer, issuer, opts...),
		secret: secret,
		ttl:    ttl,
	}
}

// Issue returns a signed access token with subject userID, issued now and
// expiring after the configured lifetime.
func (i *Issuer) Issue(userID string) (string, error) {
	now := i.auth.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    i.auth.issuer,
		Audience:  jwt.ClaimStrings{i.auth.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	return i.auth.GenerateToken(claims, i.secret)
}

// Verify checks signature and expiry and returns the subject user ID.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	claims := jwt.RegisteredClaims{}
	if _, err := i.auth.ValidateTokenWithClaims(tokenStr, i.secret, &claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidSignature
	}

	if claims.Subject == "" {
		return "", ErrInvalidSignature
	}

	return claims.Subject, nil
}
