package mirror

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"branchsync/pkg/cache"
	"branchsync/pkg/github"
)

// fakeAPIClient serves canned repositories and branches and records calls
type fakeAPIClient struct {
	repos      []github.Repository
	branches   map[string][]github.Branch
	listErr    error
	branchErr  error
	createErr  error
	verifyName string
	calls      []string
	created    []string
}

func (f *fakeAPIClient) ListRepositories(_ context.Context) ([]github.Repository, error) {
	f.calls = append(f.calls, "ListRepositories")
	return f.repos, f.listErr
}

func (f *fakeAPIClient) GetRepository(_ context.Context, name string) (*github.Repository, error) {
	f.calls = append(f.calls, "GetRepository "+name)
	for _, repo := range f.repos {
		if repo.Name == name {
			r := repo
			return &r, nil
		}
	}
	return nil, &github.GitHubError{Type: github.ErrorTypeNotFound, Message: "Repository not found"}
}

func (f *fakeAPIClient) ListBranches(_ context.Context, owner, name string) ([]github.Branch, error) {
	f.calls = append(f.calls, fmt.Sprintf("ListBranches %s/%s", owner, name))
	if f.branchErr != nil {
		return nil, f.branchErr
	}
	return f.branches[name], nil
}

func (f *fakeAPIClient) GetBranch(_ context.Context, owner, name, branch string) (*github.Branch, error) {
	f.calls = append(f.calls, fmt.Sprintf("GetBranch %s/%s %s", owner, name, branch))
	for _, b := range f.branches[name] {
		if b.Name == branch {
			found := b
			if f.verifyName != "" && contains(f.created, branch) {
				found.Name = f.verifyName
			}
			return &found, nil
		}
	}
	return nil, &github.GitHubError{Type: github.ErrorTypeNotFound, Message: "Branch not found"}
}

func (f *fakeAPIClient) CreateReference(_ context.Context, owner, name, ref, sha string) error {
	f.calls = append(f.calls, fmt.Sprintf("CreateReference %s/%s %s %s", owner, name, ref, sha))
	if f.createErr != nil {
		return f.createErr
	}
	branch := ref[len("refs/heads/"):]
	f.created = append(f.created, branch)
	if f.branches == nil {
		f.branches = map[string][]github.Branch{}
	}
	f.branches[name] = append(f.branches[name], github.Branch{Name: branch, SHA: sha})
	return nil
}

// fakeOrganizationClient serves one organization's repositories keyed by branches URL
type fakeOrganizationClient struct {
	repos     []github.Repository
	branches  map[string][]github.Branch
	listErr   error
	branchErr error
	calls     []string
}

func (f *fakeOrganizationClient) ListOrganizationRepositories(_ context.Context, link string) ([]github.Repository, error) {
	f.calls = append(f.calls, "ListOrganizationRepositories "+link)
	return f.repos, f.listErr
}

func (f *fakeOrganizationClient) ListBranches(_ context.Context, branchesURL string) ([]github.Branch, error) {
	f.calls = append(f.calls, "ListBranches "+branchesURL)
	if f.branchErr != nil {
		return nil, f.branchErr
	}
	return f.branches[github.BranchesURL(branchesURL)], nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func accountRepo(owner, name string) github.Repository {
	return github.Repository{
		Name:        name,
		Owner:       owner,
		URL:         "https://api.github.com/repos/" + owner + "/" + name,
		HTMLURL:     "https://github.com/" + owner + "/" + name,
		BranchesURL: "https://api.github.com/repos/" + owner + "/" + name + "/branches{/branch}",
	}
}

func newTestStore(t *testing.T, content string) *cache.Store {
	t.Helper()
	filesystem := memfs.New()
	if content != "" {
		require.NoError(t, util.WriteFile(filesystem, cache.DefaultFileName, []byte(content), 0644))
	}
	return cache.NewStore(filesystem, cache.DefaultFileName)
}

func readStore(t *testing.T, store *cache.Store) *cache.Record {
	t.Helper()
	record, err := store.Load()
	require.NoError(t, err)
	return record
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}
