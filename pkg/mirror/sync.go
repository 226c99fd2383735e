package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"branchsync/pkg/cache"
	"branchsync/pkg/github"
)

// Store loads and saves the settings record
type Store interface {
	Load() (*cache.Record, error)
	Save(record *cache.Record) error
}

// CloneURL derives a clone URL from a repository API URL:
// https://api.github.com/repos/acme/tool becomes https://github.com/acme/tool.git
func CloneURL(apiURL string) string {
	cloneURL := strings.ReplaceAll(apiURL, "api.", "")
	cloneURL = strings.ReplaceAll(cloneURL, "repos/", "")
	return cloneURL + ".git"
}

// Syncer rebuilds or extends the settings file from GitHub
type Syncer struct {
	store  Store
	logger *zap.Logger
}

// NewSyncer creates a syncer writing to store
func NewSyncer(store Store, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{store: store, logger: logger}
}

// SyncAccount replaces the settings file with every repository visible to
// the token, together with the token itself. Nothing is written unless the
// whole listing succeeds.
func (s *Syncer) SyncAccount(ctx context.Context, client github.APIClient, token string) (*cache.Record, error) {
	s.logger.Debug("listing repositories of the authenticated user")
	repos, err := client.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	record := cache.NewRecord(token)
	for _, repo := range repos {
		branches, err := client.ListBranches(ctx, repo.Owner, repo.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches of %s: %w", repo.Name, err)
		}

		entry := cache.Repository{
			Name:     repo.Name,
			URL:      CloneURL(repo.URL),
			Branches: branchNames(branches),
		}
		if err := s.put(record, entry); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("settings replaced from account",
		zap.Int("repositories", len(record.Repositories)))
	return record, nil
}

// SyncOrganization merges the repositories of the organization behind link
// into the existing settings file. The stored token and repositories that
// are not part of the organization are kept.
func (s *Syncer) SyncOrganization(ctx context.Context, client github.OrganizationAPIClient, link string) (*cache.Record, error) {
	record, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	s.logger.Debug("listing organization repositories", zap.String("link", link))
	repos, err := client.ListOrganizationRepositories(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization repositories: %w", err)
	}

	for _, repo := range repos {
		branches, err := client.ListBranches(ctx, repo.BranchesURL)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches of %s: %w", repo.Name, err)
		}

		entry := cache.Repository{
			Name:     repo.Name,
			URL:      repo.HTMLURL + ".git",
			Branches: branchNames(branches),
		}
		if err := s.put(record, entry); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("settings merged from organization",
		zap.String("link", link),
		zap.Int("organization_repositories", len(repos)),
		zap.Int("repositories", len(record.Repositories)))
	return record, nil
}

// put stores entry, skipping names that would overwrite the stored token
func (s *Syncer) put(record *cache.Record, entry cache.Repository) error {
	err := record.Put(entry)
	if errors.Is(err, cache.ErrReservedName) {
		s.logger.Warn("skipping repository whose name collides with the token key",
			zap.String("repository", entry.Name))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Debug("mapped repository",
		zap.String("repository", entry.Name),
		zap.Int("branches", len(entry.Branches)))
	return nil
}

func branchNames(branches []github.Branch) []string {
	names := make([]string, 0, len(branches))
	for _, branch := range branches {
		names = append(names, branch.Name)
	}
	return names
}
