package mirror

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"branchsync/pkg/github"
)

// ErrVerificationFailed is returned when the branch read back after creation
// does not carry the requested name.
var ErrVerificationFailed = errors.New("created branch could not be verified")

// Outcome is the result of a branch creation request
type Outcome string

const (
	// OutcomeCreated means the branch was created and read back.
	OutcomeCreated Outcome = "created"
	// OutcomeUnavailable means the repository or source branch is not in
	// the settings file. No GitHub call was made.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeFailed means a GitHub call failed or the result did not verify.
	OutcomeFailed Outcome = "failed"
)

// BranchRequest names the branch to create and where it starts from
type BranchRequest struct {
	Repository string
	Source     string
	Target     string
}

// Complete reports whether all three names are set
func (r BranchRequest) Complete() bool {
	return r.Repository != "" && r.Source != "" && r.Target != ""
}

// Reference returns the git reference of the target branch
func (r BranchRequest) Reference() string {
	return "refs/heads/" + r.Target
}

// BranchCreator creates branches for repositories present in the settings file
type BranchCreator struct {
	store  Store
	logger *zap.Logger
}

// NewBranchCreator creates a branch creator reading from store
func NewBranchCreator(store Store, logger *zap.Logger) *BranchCreator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BranchCreator{store: store, logger: logger}
}

// Verify reports whether the repository and its source branch are cached
func (c *BranchCreator) Verify(repository, source string) (bool, error) {
	record, err := c.store.Load()
	if err != nil {
		return false, fmt.Errorf("failed to load settings: %w", err)
	}

	return record.HasBranch(repository, source), nil
}

// Create checks the request against the settings file and, when both the
// repository and source branch are cached, creates the target branch at
// the source branch's current commit.
func (c *BranchCreator) Create(ctx context.Context, client github.APIClient, req BranchRequest) (Outcome, error) {
	if !req.Complete() {
		return OutcomeFailed, fmt.Errorf("repository, source and target branch are all required")
	}

	available, err := c.Verify(req.Repository, req.Source)
	if err != nil {
		return OutcomeFailed, err
	}
	if !available {
		c.logger.Info("repository or branch not in settings",
			zap.String("repository", req.Repository),
			zap.String("source", req.Source))
		return OutcomeUnavailable, nil
	}

	repo, err := client.GetRepository(ctx, req.Repository)
	if err != nil {
		return OutcomeFailed, err
	}
	if err := github.ValidatePushAccess(repo); err != nil {
		return OutcomeFailed, err
	}

	source, err := client.GetBranch(ctx, repo.Owner, repo.Name, req.Source)
	if err != nil {
		return OutcomeFailed, err
	}

	c.logger.Debug("creating reference",
		zap.String("repository", repo.Owner+"/"+repo.Name),
		zap.String("ref", req.Reference()),
		zap.String("sha", source.SHA))

	if err := client.CreateReference(ctx, repo.Owner, repo.Name, req.Reference(), source.SHA); err != nil {
		return OutcomeFailed, err
	}

	created, err := client.GetBranch(ctx, repo.Owner, repo.Name, req.Target)
	if err != nil {
		return OutcomeFailed, err
	}
	if created.Name != req.Target {
		return OutcomeFailed, fmt.Errorf("%w: expected %q, got %q", ErrVerificationFailed, req.Target, created.Name)
	}

	c.logger.Info("branch created",
		zap.String("repository", repo.Owner+"/"+repo.Name),
		zap.String("branch", req.Target),
		zap.String("sha", source.SHA))
	return OutcomeCreated, nil
}
