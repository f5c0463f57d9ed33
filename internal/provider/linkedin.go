package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

// LinkedIn exposes profile data through its OpenID Connect userinfo endpoint.
const defaultLinkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"

// LinkedInConfig holds the LinkedIn OAuth client settings. The endpoint URLs
// are overridable so tests can point the adapter at local servers.
type LinkedInConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

type linkedinProvider struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewLinkedIn creates the LinkedIn provider adapter.
func NewLinkedIn(cfg LinkedInConfig) Provider {
	endpoint := linkedin.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultLinkedInUserInfoURL
	}

	return &linkedinProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *linkedinProvider) Name() string {
	return NameLinkedIn
}

func (p *linkedinProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *linkedinProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: linkedin: %v", ErrTokenExchange, err)
	}

	return token, nil
}

// linkedinUserInfo is the OIDC userinfo response shape.
type linkedinUserInfo struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func (p *linkedinProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: linkedin: %v", ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: linkedin: %v", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: linkedin returned status %d", ErrProfileFetch, resp.StatusCode)
	}

	var userInfo linkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return Profile{}, fmt.Errorf("%w: linkedin: %v", ErrProfileFetch, err)
	}

	return Profile{
		Email:      userInfo.Email,
		GivenName:  userInfo.GivenName,
		FamilyName: userInfo.FamilyName,
		PictureURL: userInfo.Picture,
		Provider:   NameLinkedIn,
	}, nil
}

var _ Provider = (*linkedinProvider)(nil)
