package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/identity-broker/internal/model"
	"github.com/vasapolrittideah/identity-broker/internal/provider"
	"github.com/vasapolrittideah/identity-broker/internal/repository"
	"github.com/vasapolrittideah/identity-broker/internal/security"
	"github.com/vasapolrittideah/identity-broker/internal/token"
)

// OAuthUsecase orchestrates the per-provider callback flow: validate the
// callback, exchange the code, fetch the profile, resolve it to exactly one
// user record, and issue a bearer token.
type OAuthUsecase interface {
	// AuthCodeURL returns the provider consent screen URL carrying a freshly
	// generated anti-forgery state value.
	AuthCodeURL(providerName string) (string, error)

	// HandleCallback runs the whole callback flow for one provider. No step
	// is skipped, reordered, or retried; the first failure terminates the
	// flow with its reason.
	HandleCallback(ctx context.Context, providerName, code string) (*AuthResult, error)

	// ResolveUser maps a normalized profile to exactly one durable user
	// record, creating it on first login and overwriting profile fields on
	// every subsequent one.
	ResolveUser(ctx context.Context, profile provider.Profile) (*model.User, error)
}

// AuthResult carries a freshly issued bearer token and the resolved user.
type AuthResult struct {
	AccessToken string
	TokenType   string
	User        *model.User
}

var (
	// ErrMissingCode is returned when the callback carries no authorization
	// code. No provider call is made in that case.
	ErrMissingCode = errors.New("missing authorization code")

	// ErrProfileIncomplete is returned when the provider profile has no
	// email. Such profiles never reach the store.
	ErrProfileIncomplete = errors.New("provider profile has no email")
)

type oauthUsecase struct {
	userRepo  repository.UserRepository
	providers *provider.Registry
	issuer    *token.Issuer
	logger    *zerolog.Logger
}

// NewOAuthUsecase creates a new instance of OAuthUsecase.
func NewOAuthUsecase(
	userRepo repository.UserRepository,
	providers *provider.Registry,
	issuer *token.Issuer,
	logger *zerolog.Logger,
) OAuthUsecase {
	return &oauthUsecase{
		userRepo:  userRepo,
		providers: providers,
		issuer:    issuer,
		logger:    logger,
	}
}

func (u *oauthUsecase) AuthCodeURL(providerName string) (string, error) {
	p, err := u.providers.Get(providerName)
	if err != nil {
		return "", err
	}

	return p.AuthCodeURL(uuid.NewString()), nil
}

func (u *oauthUsecase) HandleCallback(ctx context.Context, providerName, code string) (*AuthResult, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	p, err := u.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	providerToken, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := p.FetchProfile(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	user, err := u.ResolveUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	accessToken, err := u.issuer.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (u *oauthUsecase) ResolveUser(ctx context.Context, profile provider.Profile) (*model.User, error) {
	if profile.Email == "" {
		return nil, ErrProfileIncomplete
	}

	email := normalizeEmail(profile.Email)

	existing, err := u.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return u.syncProfile(ctx, existing, profile)
	case errors.Is(err, repository.ErrUserNotFound):
		// First login for this email, fall through to creation.
	default:
		// A store failure is not absence; creating here would risk a
		// duplicate once the store recovers.
		return nil, err
	}

	// The account must hold a credential even though the user will never use
	// it: generate one that cannot be guessed and is never disclosed.
	secret, err := security.GeneratePlaceholderSecret()
	if err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(secret)
	if err != nil {
		return nil, err
	}

	created, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:         email,
		PasswordHash:  passwordHash,
		FirstName:     profile.GivenName,
		LastName:      profile.FamilyName,
		AvatarURL:     profile.PictureURL,
		OAuthProvider: profile.Provider,
		IsActive:      true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the creation race: the unique index is the arbiter, so
			// the record exists now. Re-read it and degrade to the update
			// path instead of failing the login.
			existing, err := u.userRepo.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			return u.syncProfile(ctx, existing, profile)
		}
		return nil, err
	}

	return created, nil
}

// syncProfile overwrites the profile fields and the last-used provider with
// the incoming values, empty or not. The latest provider is authoritative.
func (u *oauthUsecase) syncProfile(
	ctx context.Context,
	user *model.User,
	profile provider.Profile,
) (*model.User, error) {
	return u.userRepo.UpdateProfile(ctx, user.ID.Hex(), repository.UpdateProfileParams{
		FirstName:     profile.GivenName,
		LastName:      profile.FamilyName,
		AvatarURL:     profile.PictureURL,
		OAuthProvider: profile.Provider,
	})
}
