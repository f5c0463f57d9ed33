package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const defaultFacebookUserInfoURL = "https://graph.facebook.com/me"

// FacebookConfig holds the Facebook OAuth client settings. The endpoint URLs
// are overridable so tests can point the adapter at local servers.
type FacebookConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

type facebookProvider struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewFacebook creates the Facebook provider adapter.
func NewFacebook(cfg FacebookConfig) Provider {
	endpoint := facebook.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultFacebookUserInfoURL
	}

	return &facebookProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *facebookProvider) Name() string {
	return NameFacebook
}

func (p *facebookProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *facebookProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: facebook: %v", ErrTokenExchange, err)
	}

	return token, nil
}

// facebookUserInfo is the Graph API /me response shape. The avatar lives in a
// nested picture.data.url field, unlike the flat shapes of other providers.
type facebookUserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (p *facebookProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	fields := url.Values{"fields": {"id,email,first_name,last_name,picture"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL+"?"+fields.Encode(), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: facebook: %v", ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: facebook: %v", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: facebook returned status %d", ErrProfileFetch, resp.StatusCode)
	}

	var userInfo facebookUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return Profile{}, fmt.Errorf("%w: facebook: %v", ErrProfileFetch, err)
	}

	return Profile{
		Email:      userInfo.Email,
		GivenName:  userInfo.FirstName,
		FamilyName: userInfo.LastName,
		PictureURL: userInfo.Picture.Data.URL,
		Provider:   NameFacebook,
	}, nil
}

var _ Provider = (*facebookProvider)(nil)
