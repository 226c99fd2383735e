package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v66/github"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
	login  string
	rate   rateLimitTracker
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(ctx context.Context, token, baseURL string) (*Client, error) {
	am, err := NewAuthManager(baseURL)
	if err != nil {
		return nil, err
	}
	if err := am.Authenticate(ctx, token); err != nil {
		return nil, err
	}
	return am.Client()
}

func newClient(httpClient *http.Client, baseURL *url.URL) *Client {
	client := github.NewClient(httpClient)
	base := *baseURL
	client.BaseURL = &base

	return &Client{client: client}
}

// ListRepositories lists every repository visible to the authenticated user
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allRepos []Repository
	for {
		repos, resp, err := c.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		c.rate.UpdateLimits(resp)
		if err != nil {
			return nil, WrapGitHubError(err, "repositories of the authenticated user")
		}

		for _, repo := range repos {
			allRepos = append(allRepos, convertGitHubRepository(repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

// GetRepository retrieves a repository of the authenticated user by name
func (c *Client) GetRepository(ctx context.Context, name string) (*Repository, error) {
	login, err := c.authenticatedLogin(ctx)
	if err != nil {
		return nil, err
	}

	repo, resp, err := c.client.Repositories.Get(ctx, login, name)
	c.rate.UpdateLimits(resp)
	if err != nil {
		return nil, WrapGitHubError(err, fmt.Sprintf("repository %s/%s", login, name))
	}

	converted := convertGitHubRepository(repo)
	return &converted, nil
}

// ListBranches lists all branches of a repository in API order
func (c *Client) ListBranches(ctx context.Context, owner, name string) ([]Branch, error) {
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allBranches []Branch
	for {
		branches, resp, err := c.client.Repositories.ListBranches(ctx, owner, name, opts)
		c.rate.UpdateLimits(resp)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("branches of repository %s/%s", owner, name))
		}

		for _, branch := range branches {
			allBranches = append(allBranches, convertGitHubBranch(branch))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allBranches, nil
}

// GetBranch retrieves a single branch with the commit it points at
func (c *Client) GetBranch(ctx context.Context, owner, name, branch string) (*Branch, error) {
	b, resp, err := c.client.Repositories.GetBranch(ctx, owner, name, branch, 1)
	c.rate.UpdateLimits(resp)
	if err != nil {
		resource := fmt.Sprintf("branch %s of %s/%s", branch, owner, name)
		// GetBranch reports non-200 answers as a plain error, so rebuild
		// an ErrorResponse to keep the status based classification.
		if resp != nil && resp.Response != nil && resp.StatusCode != http.StatusOK {
			return nil, WrapGitHubError(&github.ErrorResponse{Response: resp.Response, Message: err.Error()}, resource)
		}
		return nil, WrapGitHubError(err, resource)
	}

	converted := convertGitHubBranch(b)
	return &converted, nil
}

// CreateReference creates a git reference pointing at sha
func (c *Client) CreateReference(ctx context.Context, owner, name, ref, sha string) error {
	reference := &github.Reference{
		Ref: github.String(ref),
		Object: &github.GitObject{
			SHA: github.String(sha),
		},
	}

	_, resp, err := c.client.Git.CreateRef(ctx, owner, name, reference)
	c.rate.UpdateLimits(resp)
	if err != nil {
		return WrapGitHubError(err, fmt.Sprintf("reference %s in %s/%s", ref, owner, name))
	}
	return nil
}

// RateLimit returns the rate limit reported on the most recent response
func (c *Client) RateLimit() (RateLimitStatus, bool) {
	return c.rate.Status()
}

// authenticatedLogin resolves and caches the login of the token owner
func (c *Client) authenticatedLogin(ctx context.Context) (string, error) {
	if c.login != "" {
		return c.login, nil
	}

	user, resp, err := c.client.Users.Get(ctx, "")
	c.rate.UpdateLimits(resp)
	if err != nil {
		return "", WrapGitHubError(err, "authenticated user")
	}

	c.login = user.GetLogin()
	return c.login, nil
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func convertGitHubRepository(repo *github.Repository) Repository {
	return Repository{
		Name:        repo.GetName(),
		Owner:       repo.GetOwner().GetLogin(),
		URL:         repo.GetURL(),
		HTMLURL:     repo.GetHTMLURL(),
		BranchesURL: repo.GetBranchesURL(),
		Permissions: repo.Permissions,
	}
}

// convertGitHubBranch converts a GitHub API branch to our internal type
func convertGitHubBranch(branch *github.Branch) Branch {
	return Branch{
		Name: branch.GetName(),
		SHA:  branch.GetCommit().GetSHA(),
	}
}
