package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"branchsync/pkg/fuzzy"
	"branchsync/pkg/mirror"
)

var errBranchUnavailable = errors.New("repository and/or branch not available in settings file")

func runCreateBranch(ctx context.Context, out io.Writer, env *environment, req mirror.BranchRequest) error {
	authManager, _, err := login(ctx, out, env)
	if err != nil {
		reportError(out, err)
		return err
	}

	client, err := authManager.Client()
	if err != nil {
		reportError(out, err)
		return err
	}
	defer warnRateLimit(out, env, client)

	fmt.Fprintf(out, "\n🔍 Verifying that %s and branch %s are available...\n", req.Repository, req.Source)
	outcome, err := mirror.NewBranchCreator(env.store, env.logger).Create(ctx, client, req)
	switch outcome {
	case mirror.OutcomeCreated:
		fmt.Fprintf(out, "✅ Branch %s created in %s from %s\n", req.Target, req.Repository, req.Source)
		return nil
	case mirror.OutcomeUnavailable:
		fmt.Fprintf(out, "❌ %s\n", errBranchUnavailable)
		if hint := suggest(env, req); hint != "" {
			fmt.Fprintf(out, "💡 Did you mean %s?\n", hint)
		}
		fmt.Fprintf(out, "💡 Try updating the settings file with 'branchsync -u' or 'branchsync --link=<organization>'\n")
		return errBranchUnavailable
	default:
		env.logger.Error("branch creation failed",
			zap.String("repository", req.Repository),
			zap.String("target", req.Target),
			zap.Error(err))
		fmt.Fprintf(out, "❌ Branch creation failed\n")
		reportError(out, err)
		return err
	}
}

// suggest names cached values close to the repository or source branch
// that was not found
func suggest(env *environment, req mirror.BranchRequest) string {
	record, err := env.store.Load()
	if err != nil {
		return ""
	}

	repo, ok := record.Lookup(req.Repository)
	if !ok {
		return strings.Join(fuzzy.NewFromValues(record.Names()).Suggest(req.Repository, 3), ", ")
	}

	branches := fuzzy.NewFromValues(repo.Branches).Suggest(req.Source, 3)
	if len(branches) == 0 {
		return ""
	}
	return "branch " + strings.Join(branches, ", ")
}
