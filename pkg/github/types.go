package github

// Repository is the subset of a GitHub repository branchsync relies on
type Repository struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	URL         string `json:"url"`
	HTMLURL     string `json:"html_url"`
	BranchesURL string `json:"branches_url"`

	// Permissions of the token on the repository, when GitHub reports them
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// Branch is a branch name and the commit it points at
type Branch struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
}
