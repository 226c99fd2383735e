package cache

import (
	"errors"
	"fmt"
)

// TokenKey is the top-level key holding the stored credential.
const TokenKey = "token"

// ErrReservedName is returned when a repository name collides with TokenKey.
var ErrReservedName = errors.New("repository name is reserved for the stored token")

// Repository is a cached repository entry
type Repository struct {
	Name     string
	URL      string
	Branches []string
}

// Record is the in-memory form of the settings file. Repositories keep
// insertion order, which is also the order they are written in.
type Record struct {
	Token        string
	Repositories []Repository
}

// NewRecord creates an empty record holding the given token
func NewRecord(token string) *Record {
	return &Record{Token: token}
}

// Lookup returns the cached repository with the given name
func (r *Record) Lookup(name string) (*Repository, bool) {
	for i := range r.Repositories {
		if r.Repositories[i].Name == name {
			return &r.Repositories[i], true
		}
	}
	return nil, false
}

// Put sets or overwrites a repository entry. Existing entries keep their
// position; new entries are appended.
func (r *Record) Put(repo Repository) error {
	if repo.Name == TokenKey {
		return fmt.Errorf("%w: %q", ErrReservedName, repo.Name)
	}
	if repo.Name == "" {
		return fmt.Errorf("repository name cannot be empty")
	}

	if existing, ok := r.Lookup(repo.Name); ok {
		*existing = repo
		return nil
	}

	r.Repositories = append(r.Repositories, repo)
	return nil
}

// HasBranch reports whether the repository is cached with the given branch
func (r *Record) HasBranch(repository, branch string) bool {
	repo, ok := r.Lookup(repository)
	if !ok {
		return false
	}

	for _, b := range repo.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// Names returns the cached repository names in file order
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.Repositories))
	for _, repo := range r.Repositories {
		names = append(names, repo.Name)
	}
	return names
}
