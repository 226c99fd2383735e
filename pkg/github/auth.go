package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub REST API endpoint
const DefaultBaseURL = "https://api.github.com/"

// TokenSource supplies the stored credential
type TokenSource interface {
	Token() (string, error)
}

// AuthManager handles GitHub authentication
type AuthManager struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// NewAuthManager creates a new authentication manager for the given API base URL.
// An empty baseURL selects DefaultBaseURL.
func NewAuthManager(baseURL string) (*AuthManager, error) {
	parsed, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	return &AuthManager{baseURL: parsed}, nil
}

// GetToken retrieves the GitHub token from the settings file
func (am *AuthManager) GetToken(source TokenSource) (string, error) {
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to read GitHub token: %w", err)
	}

	return strings.TrimSpace(token), nil
}

// Authenticate sets up the HTTP transport with the provided token
func (am *AuthManager) Authenticate(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("GitHub token cannot be empty")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	am.httpClient = oauth2.NewClient(ctx, ts)
	am.token = token

	return nil
}

// AuthenticateFromSource reads the stored token and authenticates with it
func (am *AuthManager) AuthenticateFromSource(ctx context.Context, source TokenSource) (string, error) {
	token, err := am.GetToken(source)
	if err != nil {
		return "", err
	}

	if err := am.Authenticate(ctx, token); err != nil {
		return "", err
	}

	return token, nil
}

// Client returns a REST client for the authenticated user
func (am *AuthManager) Client() (*Client, error) {
	if am.httpClient == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate() first")
	}

	return newClient(am.httpClient, am.baseURL), nil
}

// OrganizationClient returns an HTTP client for organization listings
func (am *AuthManager) OrganizationClient() (*OrganizationClient, error) {
	if am.httpClient == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate() first")
	}

	return newOrganizationClient(am.httpClient, am.baseURL), nil
}

// ValidateToken checks the token against the API and reports who it belongs to
func (am *AuthManager) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	client, err := am.Client()
	if err != nil {
		return nil, err
	}

	user, resp, err := client.client.Users.Get(ctx, "")
	if err != nil {
		return nil, WrapGitHubError(err, "authenticated user")
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	return &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}, nil
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// GetAuthInstructions returns instructions for storing a GitHub token
func GetAuthInstructions() string {
	return `A GitHub token is required. Store one in the settings file with:

   branchsync init --token "your_personal_access_token"

or add it by hand at the top of settings.yaml:

   token: your_personal_access_token

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Click "Generate new token (classic)"
3. Select the repo scope (needed to list private repositories and create branches)
4. Copy the generated token and store it as shown above`
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid GitHub API URL %q: scheme and host are required", raw)
	}

	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	return parsed, nil
}
