// Package github provides the GitHub access used by branchsync.
// It wraps the REST API for the authenticated user's repositories, branches
// and references, and reads organization listings with plain HTTP calls.
//
// The package includes:
// - APIClient interface and a go-github backed Client
// - OrganizationAPIClient interface and an HTTP backed OrganizationClient
// - AuthManager for building authenticated clients from a stored token
// - Structured errors classifying GitHub API failures
// - Rate limit tracking and push access checks on fetched repositories
package github
