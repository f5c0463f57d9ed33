package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndVerify(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newClockedIssuer := func(secret string) (*Issuer, *time.Time) {
		current := base
		issuer := NewIssuer(secret, "identity-broker", 0, WithClock(func() time.Time {
			return current
		}))
		return &issuer, &current
	}

	t.Run("token is valid just before the hour is up", func(t *testing.T) {
		t.Parallel()

		issuer, clock := newClockedIssuer("secret-a")

		tokenStr, err := issuer.Issue("user-1")
		require.NoError(t, err)

		*clock = base.Add(3599 * time.Second)
		subject, err := issuer.Verify(tokenStr)
		require.NoError(t, err)
		assert.Equal(t, "user-1", subject)
	})

	t.Run("token is rejected just after the hour is up", func(t *testing.T) {
		t.Parallel()

		issuer, clock := newClockedIssuer("secret-a")

		tokenStr, err := issuer.Issue("user-1")
		require.NoError(t, err)

		*clock = base.Add(3601 * time.Second)
		_, err = issuer.Verify(tokenStr)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		issuerA, _ := newClockedIssuer("secret-a")
		issuerB, _ := newClockedIssuer("secret-b")

		tokenStr, err := issuerA.Issue("user-1")
		require.NoError(t, err)

		_, err = issuerB.Verify(tokenStr)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("wrong issuer name", func(t *testing.T) {
		t.Parallel()

		other := NewIssuer("secret-a", "someone-else", time.Hour, WithClock(func() time.Time {
			return base
		}))
		issuer, _ := newClockedIssuer("secret-a")

		tokenStr, err := other.Issue("user-1")
		require.NoError(t, err)

		_, err = issuer.Verify(tokenStr)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()

		issuer, _ := newClockedIssuer("secret-a")

		_, err := issuer.Verify("not-a-token")
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("empty subject", func(t *testing.T) {
		t.Parallel()

		issuer, _ := newClockedIssuer("secret-a")

		tokenStr, err := issuer.Issue("")
		require.NoError(t, err)

		_, err = issuer.Verify(tokenStr)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})
}
