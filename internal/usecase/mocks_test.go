package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/oauth2"

	"github.com/vasapolrittideah/identity-broker/internal/model"
	"github.com/vasapolrittideah/identity-broker/internal/provider"
	"github.com/vasapolrittideah/identity-broker/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository that mirrors the store
// contract: unique email enforced at insert time under a single lock, not
// found distinct from failure.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.User
	byEmail map[string]string

	createCalls     int
	updateCalls     int
	getByEmailCalls int

	// getByEmailErr, when set, simulates an unavailable store.
	getByEmailErr error

	// beforeCreate runs just before an insert attempt, letting tests inject
	// a competing creation.
	beforeCreate func()
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if f.beforeCreate != nil {
		f.beforeCreate()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if _, exists := f.byEmail[user.Email]; exists {
		return nil, repository.ErrDuplicateEmail
	}

	stored := *user
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	f.users[stored.ID.Hex()] = &stored
	f.byEmail[stored.Email] = stored.ID.Hex()

	out := stored
	return &out, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	out := *user
	return &out, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByEmailCalls++

	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}

	id, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	out := *f.users[id]
	return &out, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	if params.IsVerified != nil {
		user.IsVerified = *params.IsVerified
	}
	user.UpdatedAt = time.Now()

	out := *user
	return &out, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, params repository.UpdateProfileParams) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user.FirstName = params.FirstName
	user.LastName = params.LastName
	user.AvatarURL = params.AvatarURL
	user.OAuthProvider = params.OAuthProvider
	user.UpdatedAt = time.Now()

	out := *user
	return &out, nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// stubProvider implements provider.Provider with scripted outcomes.
type stubProvider struct {
	name        string
	profile     provider.Profile
	exchangeErr error
	fetchErr    error

	exchangeCalls int
	fetchCalls    int
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (s *stubProvider) ExchangeCode(_ context.Context, _ string) (*oauth2.Token, error) {
	s.exchangeCalls++
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return &oauth2.Token{AccessToken: "stub-access-token"}, nil
}

func (s *stubProvider) FetchProfile(_ context.Context, _ *oauth2.Token) (provider.Profile, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return provider.Profile{}, s.fetchErr
	}
	return s.profile, nil
}

var _ provider.Provider = (*stubProvider)(nil)

// fakeResetTokenRepo is an in-memory PasswordResetTokenRepository.
type fakeResetTokenRepo struct {
	mu     sync.Mutex
	byJTI  map[string]*model.PasswordResetToken
	userID map[string][]string
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{
		byJTI:  make(map[string]*model.PasswordResetToken),
		userID: make(map[string][]string),
	}
}

func (f *fakeResetTokenRepo) CreateToken(_ context.Context, tok *model.PasswordResetToken) (*model.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *tok
	stored.ID = bson.NewObjectID()
	f.byJTI[stored.JTI] = &stored
	f.userID[stored.UserID.Hex()] = append(f.userID[stored.UserID.Hex()], stored.JTI)

	out := stored
	return &out, nil
}

func (f *fakeResetTokenRepo) GetTokenByJTI(_ context.Context, jti string) (*model.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tok, ok := f.byJTI[jti]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}

	out := *tok
	return &out, nil
}

func (f *fakeResetTokenRepo) MarkTokenAsUsed(_ context.Context, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if tok, ok := f.byJTI[jti]; ok {
		tok.Used = true
	}
	return nil
}

func (f *fakeResetTokenRepo) InvalidateUserTokens(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, jti := range f.userID[userID] {
		if tok := f.byJTI[jti]; tok != nil {
			tok.Used = true
		}
	}
	return nil
}

var _ repository.PasswordResetTokenRepository = (*fakeResetTokenRepo)(nil)
