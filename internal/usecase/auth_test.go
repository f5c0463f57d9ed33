package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/identity-broker/internal/repository"
	"github.com/vasapolrittideah/identity-broker/internal/token"
)

func newAuthUsecase(repo *fakeUserRepo) (AuthUsecase, *token.Issuer) {
	issuer := token.NewIssuer("test-secret", "test-issuer", time.Hour)
	return NewAuthUsecase(repo, &issuer), &issuer
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates an active user and issues a token", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserRepo()
		uc, issuer := newAuthUsecase(repo)

		result, err := uc.Register(context.Background(), RegisterParams{
			Email:    "Bob@X.com",
			Password: "hunter2-hunter2",
		})
		require.NoError(t, err)

		assert.Equal(t, "bob@x.com", result.User.Email)
		assert.True(t, result.User.IsActive)
		assert.NotEqual(t, "hunter2-hunter2", result.User.PasswordHash)
		assert.Equal(t, "bearer", result.TokenType)

		subject, err := issuer.Verify(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.Hex(), subject)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserRepo()
		uc, _ := newAuthUsecase(repo)

		_, err := uc.Register(context.Background(), RegisterParams{Email: "bob@x.com", Password: "hunter2-hunter2"})
		require.NoError(t, err)

		_, err = uc.Register(context.Background(), RegisterParams{Email: "bob@x.com", Password: "other-password"})
		require.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Equal(t, 1, repo.count())
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	t.Run("round trip after registration", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserRepo()
		uc, issuer := newAuthUsecase(repo)

		registered, err := uc.Register(context.Background(), RegisterParams{
			Email:    "bob@x.com",
			Password: "hunter2-hunter2",
		})
		require.NoError(t, err)

		result, err := uc.Login(context.Background(), LoginParams{
			Email:    "bob@x.com",
			Password: "hunter2-hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)

		subject, err := issuer.Verify(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID.Hex(), subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserRepo()
		uc, _ := newAuthUsecase(repo)

		_, err := uc.Register(context.Background(), RegisterParams{Email: "bob@x.com", Password: "hunter2-hunter2"})
		require.NoError(t, err)

		_, err = uc.Login(context.Background(), LoginParams{Email: "bob@x.com", Password: "wrong-password"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same failure as a wrong password", func(t *testing.T) {
		t.Parallel()

		uc, _ := newAuthUsecase(newFakeUserRepo())

		_, err := uc.Login(context.Background(), LoginParams{Email: "nobody@x.com", Password: "whatever-whatever"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserRepo()
		uc, _ := newAuthUsecase(repo)

		registered, err := uc.Register(context.Background(), RegisterParams{Email: "bob@x.com", Password: "hunter2-hunter2"})
		require.NoError(t, err)

		inactive := false
		_, err = repo.UpdateUser(context.Background(), registered.User.ID.Hex(), repository.UpdateUserParams{
			IsActive: &inactive,
		})
		require.NoError(t, err)

		_, err = uc.Login(context.Background(), LoginParams{Email: "bob@x.com", Password: "hunter2-hunter2"})
		require.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("store failure surfaces unchanged", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserRepo()
		storeErr := errors.New("connection reset")
		repo.getByEmailErr = storeErr

		uc, _ := newAuthUsecase(repo)

		_, err := uc.Login(context.Background(), LoginParams{Email: "bob@x.com", Password: "hunter2-hunter2"})
		require.ErrorIs(t, err, storeErr)
	})
}
