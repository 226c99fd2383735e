package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// branchPlaceholder is the URI template suffix of a repository's branches_url
const branchPlaceholder = "{/branch}"

// OrganizationClient reads organization listings with direct HTTP calls.
// The underlying HTTP client carries the token as a bearer Authorization header.
type OrganizationClient struct {
	httpClient *http.Client
	baseURL    *url.URL
}

func newOrganizationClient(httpClient *http.Client, baseURL *url.URL) *OrganizationClient {
	base := *baseURL
	return &OrganizationClient{
		httpClient: httpClient,
		baseURL:    &base,
	}
}

// OrganizationReposURL turns an organization link such as
// https://github.com/acme into the API listing URL <base>/orgs/acme/repos.
// With the public API base this is https://api.github.com/orgs/acme/repos.
func OrganizationReposURL(baseURL, link string) (string, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return "", err
	}

	org, err := organizationFromLink(link)
	if err != nil {
		return "", err
	}

	return base.JoinPath("orgs", org, "repos").String(), nil
}

// BranchesURL removes the {/branch} placeholder from a branches_url template
func BranchesURL(template string) string {
	return strings.ReplaceAll(template, branchPlaceholder, "")
}

// ListOrganizationRepositories lists the repositories of the organization behind link
func (c *OrganizationClient) ListOrganizationRepositories(ctx context.Context, link string) ([]Repository, error) {
	listURL, err := OrganizationReposURL(c.baseURL.String(), link)
	if err != nil {
		return nil, err
	}

	var repos []*github.Repository
	if err := c.getJSON(ctx, listURL, fmt.Sprintf("organization %s", link), &repos); err != nil {
		return nil, err
	}

	result := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, convertGitHubRepository(repo))
	}
	return result, nil
}

// ListBranches lists the branches behind a repository's branches_url
func (c *OrganizationClient) ListBranches(ctx context.Context, branchesURL string) ([]Branch, error) {
	var branches []*github.Branch
	if err := c.getJSON(ctx, BranchesURL(branchesURL), fmt.Sprintf("branches at %s", BranchesURL(branchesURL)), &branches); err != nil {
		return nil, err
	}

	result := make([]Branch, 0, len(branches))
	for _, branch := range branches {
		result = append(result, convertGitHubBranch(branch))
	}
	return result, nil
}

func (c *OrganizationClient) getJSON(ctx context.Context, rawURL, resource string, target any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	query := u.Query()
	if query.Get("per_page") == "" {
		query.Set("per_page", "100")
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapGitHubError(err, resource)
	}
	defer resp.Body.Close()

	if err := github.CheckResponse(resp); err != nil {
		return WrapGitHubError(err, resource)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return WrapGitHubError(fmt.Errorf("failed to decode response: %w", err), resource)
	}
	return nil
}

func organizationFromLink(link string) (string, error) {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return "", fmt.Errorf("organization link cannot be empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid organization link %q: %w", link, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", fmt.Errorf("invalid organization link %q: no organization name", link)
	}
	if segments[0] == "orgs" && len(segments) > 1 {
		return segments[1], nil
	}
	return segments[0], nil
}
