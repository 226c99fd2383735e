package github

import "context"

// APIClient defines the GitHub operations available to the authenticated user
type APIClient interface {
	// Repository operations
	ListRepositories(ctx context.Context) ([]Repository, error)
	GetRepository(ctx context.Context, name string) (*Repository, error)

	// Branch operations
	ListBranches(ctx context.Context, owner, name string) ([]Branch, error)
	GetBranch(ctx context.Context, owner, name, branch string) (*Branch, error)

	// Reference operations
	CreateReference(ctx context.Context, owner, name, ref, sha string) error
}

// OrganizationAPIClient defines the calls used to mirror an organization
type OrganizationAPIClient interface {
	ListOrganizationRepositories(ctx context.Context, link string) ([]Repository, error)
	ListBranches(ctx context.Context, branchesURL string) ([]Branch, error)
}
