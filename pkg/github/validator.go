package github

import "fmt"

// ValidatePushAccess checks the permissions GitHub reported for repo before
// a reference is created in it. Repositories returned without permission
// data pass, and the API has the final say.
func ValidatePushAccess(repo *Repository) error {
	if len(repo.Permissions) == 0 {
		return nil
	}

	for _, permission := range []string{"push", "maintain", "admin"} {
		if repo.Permissions[permission] {
			return nil
		}
	}

	return &GitHubError{
		Type:     ErrorTypePermission,
		Message:  "Insufficient permissions: push access is required to create branches",
		Resource: fmt.Sprintf("repository %s/%s", repo.Owner, repo.Name),
	}
}
