package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFacebookProvider_ExchangeCode(t *testing.T) {
	t.Parallel()

	srv := newFailingServer(http.StatusBadRequest)
	defer srv.Close()

	p := NewFacebook(FacebookConfig{ClientID: "client-3", TokenURL: srv.URL})

	_, err := p.ExchangeCode(context.Background(), "ghi")
	require.ErrorIs(t, err, ErrTokenExchange)
}

func TestFacebookProvider_FetchProfile(t *testing.T) {
	t.Parallel()

	t.Run("maps the graph response including the nested picture", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "id,email,first_name,last_name,picture", r.URL.Query().Get("fields"))
			assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "fb-1",
				"email": "a@x.com",
				"first_name": "Alice",
				"last_name": "Example",
				"picture": {"data": {"url": "https://graph.example/alice.jpg"}}
			}`))
		}))
		defer srv.Close()

		p := NewFacebook(FacebookConfig{UserInfoURL: srv.URL})

		profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "at-123"})
		require.NoError(t, err)

		assert.Equal(t, Profile{
			Email:      "a@x.com",
			GivenName:  "Alice",
			FamilyName: "Example",
			PictureURL: "https://graph.example/alice.jpg",
			Provider:   NameFacebook,
		}, profile)
	})

	t.Run("non-200 graph response", func(t *testing.T) {
		t.Parallel()

		srv := newFailingServer(http.StatusInternalServerError)
		defer srv.Close()

		p := NewFacebook(FacebookConfig{UserInfoURL: srv.URL})

		_, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "at-123"})
		require.ErrorIs(t, err, ErrProfileFetch)
	})
}
