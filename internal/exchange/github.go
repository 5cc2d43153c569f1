package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const (
	githubAcceptHeader = "application/vnd.github.v3+json"
)

// ErrNoAccessToken is returned when the token endpoint answers without a token.
var ErrNoAccessToken = errors.New("No access token received from GitHub")

// ErrNoPrimaryEmail is returned when the account has no primary email entry.
var ErrNoPrimaryEmail = errors.New("no primary email on account")

// Profile is the subset of the GitHub user object the wizard uses.
type Profile struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	HTMLURL   string `json:"html_url"`
}

// IdentityProvider performs the token, identity and email steps.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
	PrimaryEmail(ctx context.Context, token *oauth2.Token) (string, error)
}

// GitHubClient talks to the GitHub OAuth and REST endpoints.
type GitHubClient struct {
	clientID     string
	clientSecret string
	apiBaseURL   string
	webBaseURL   string
	userAgent    string
	httpClient   *http.Client
}

// GitHubOptions configures a GitHubClient.
type GitHubOptions struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	WebBaseURL   string
	UserAgent    string
	HTTPClient   *http.Client
}

// NewGitHubClient creates a client. A nil HTTPClient falls back to one with
// DefaultTimeout.
func NewGitHubClient(opts GitHubOptions) *GitHubClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &GitHubClient{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		apiBaseURL:   strings.TrimSuffix(opts.APIBaseURL, "/"),
		webBaseURL:   strings.TrimSuffix(opts.WebBaseURL, "/"),
		userAgent:    opts.UserAgent,
		httpClient:   httpClient,
	}
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades an authorization code for an access token. GitHub
// reports bad codes with a 200 and an "error" field.
func (c *GitHubClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	var resp tokenResponse
	err := doJSON(ctx, c.httpClient, call{
		method: http.MethodPost,
		url:    c.webBaseURL + "/login/oauth/access_token",
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": c.userAgent,
		},
		body: tokenRequest{ClientID: c.clientID, ClientSecret: c.clientSecret, Code: code},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	if resp.Error != "" {
		return nil, oauthError(resp.Error, resp.ErrorDescription)
	}
	if resp.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	token := &oauth2.Token{AccessToken: resp.AccessToken, TokenType: resp.TokenType}
	return token.WithExtra(map[string]interface{}{"scope": resp.Scope}), nil
}

func oauthError(code, description string) error {
	if description == "" {
		return fmt.Errorf("GitHub OAuth error: %s", code)
	}
	return fmt.Errorf("GitHub OAuth error: %s (%s)", description, code)
}

// FetchProfile returns the authenticated user's profile.
func (c *GitHubClient) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var profile Profile
	if err := doJSON(ctx, c.bearerClient(ctx, token), c.apiCall("/user"), &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	if profile.Login == "" {
		return nil, fmt.Errorf("failed to fetch user profile: %w", ErrMalformedResponse)
	}
	return &profile, nil
}

type emailEntry struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// PrimaryEmail returns the first email entry flagged primary.
func (c *GitHubClient) PrimaryEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	var entries []emailEntry
	if err := doJSON(ctx, c.bearerClient(ctx, token), c.apiCall("/user/emails"), &entries); err != nil {
		return "", fmt.Errorf("failed to fetch user emails: %w", err)
	}
	for _, e := range entries {
		if e.Primary {
			return e.Email, nil
		}
	}
	return "", ErrNoPrimaryEmail
}

func (c *GitHubClient) apiCall(path string) call {
	return call{
		method: http.MethodGet,
		url:    c.apiBaseURL + path,
		headers: map[string]string{
			"Accept":     githubAcceptHeader,
			"User-Agent": c.userAgent,
		},
	}
}

// bearerClient wraps the configured client with an oauth2 transport that
// sets the Authorization header.
func (c *GitHubClient) bearerClient(ctx context.Context, token *oauth2.Token) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	client.Timeout = c.httpClient.Timeout
	return client
}
