package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestLinkedInProvider_AuthCodeURL(t *testing.T) {
	t.Parallel()

	p := NewLinkedIn(LinkedInConfig{
		ClientID:    "client-2",
		RedirectURL: "https://app.example/auth/linkedin/callback",
	})

	raw := p.AuthCodeURL("state-xyz")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-2", query.Get("client_id"))
	assert.Equal(t, "state-xyz", query.Get("state"))
	assert.Contains(t, query.Get("scope"), "openid")
}

func TestLinkedInProvider_ExchangeCode(t *testing.T) {
	t.Parallel()

	t.Run("returns the provider token", func(t *testing.T) {
		t.Parallel()

		srv := newTokenServer(t, "def")
		defer srv.Close()

		p := NewLinkedIn(LinkedInConfig{ClientID: "client-2", TokenURL: srv.URL})

		token, err := p.ExchangeCode(context.Background(), "def")
		require.NoError(t, err)
		assert.Equal(t, "at-123", token.AccessToken)
	})

	t.Run("rejected code", func(t *testing.T) {
		t.Parallel()

		srv := newFailingServer(http.StatusBadRequest)
		defer srv.Close()

		p := NewLinkedIn(LinkedInConfig{ClientID: "client-2", TokenURL: srv.URL})

		_, err := p.ExchangeCode(context.Background(), "def")
		require.ErrorIs(t, err, ErrTokenExchange)
	})
}

func TestLinkedInProvider_FetchProfile(t *testing.T) {
	t.Parallel()

	t.Run("maps the OIDC userinfo response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"sub": "li-1",
				"email": "a@x.com",
				"given_name": "Alice",
				"family_name": "Example",
				"picture": "https://media.example/alice.jpg"
			}`))
		}))
		defer srv.Close()

		p := NewLinkedIn(LinkedInConfig{UserInfoURL: srv.URL})

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "at-123"})
		require.NoError(t, err)

		assert.Equal(t, Profile{
			Email:      "a@x.com",
			GivenName:  "Alice",
			FamilyName: "Example",
			PictureURL: "https://media.example/alice.jpg",
			Provider:   NameLinkedIn,
		}, profile)
	})

	t.Run("non-200 userinfo response", func(t *testing.T) {
		t.Parallel()

		srv := newFailingServer(http.StatusForbidden)
		defer srv.Close()

		p := NewLinkedIn(LinkedInConfig{UserInfoURL: srv.URL})

		_, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "at-123"})
		require.ErrorIs(t, err, ErrProfileFetch)
	})
}
