package provider

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// Provider identifiers persisted in the user record's oauth_provider field.
const (
	NameGoogle   = "google"
	NameLinkedIn = "linkedin"
	NameFacebook = "facebook"
)

var (
	// ErrTokenExchange is returned when the provider rejects the
	// authorization code or the token endpoint call fails. Codes are
	// single-use: a retry with the same code fails the same way, so adapters
	// never retry internally.
	ErrTokenExchange = errors.New("authorization code exchange failed")

	// ErrProfileFetch is returned when the provider's userinfo call fails.
	ErrProfileFetch = errors.New("profile fetch failed")

	// ErrUnknownProvider is returned by the registry for unregistered names.
	ErrUnknownProvider = errors.New("unknown oauth provider")
)

// Profile is the provider-agnostic shape extracted from a provider's raw
// userinfo response. Email may be empty when the provider omits it; the
// account resolver rejects such profiles, not the adapter.
type Profile struct {
	Email      string
	GivenName  string
	FamilyName string
	PictureURL string
	Provider   string
}

// Provider is the contract every external identity provider implements.
// Adapters return identity facts only; user creation, linking, and token
// issuance happen elsewhere.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "linkedin").
	Name() string

	// AuthCodeURL returns the provider consent screen URL carrying the given
	// anti-forgery state value.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges the authorization code for a provider access
	// token. Failures surface as ErrTokenExchange.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile fetches the normalized profile for the given provider
	// token. Failures surface as ErrProfileFetch.
	FetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error)
}

// Registry holds all configured providers and allows lookup by name.
// It performs no auth logic itself.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers by name. Names must be unique.
func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider)
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider by name or ErrUnknownProvider if not registered.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}
