package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"branchsync/pkg/github"
	"branchsync/pkg/mirror"
)

// login reads the stored token and prepares an authenticated API session
func login(ctx context.Context, out io.Writer, env *environment) (*github.AuthManager, string, error) {
	fmt.Fprintf(out, "\n🔑 Logging in using token from %s...\n", env.store.Path())

	authManager, err := github.NewAuthManager(env.config.GitHub.APIURL)
	if err != nil {
		return nil, "", err
	}

	token, err := authManager.AuthenticateFromSource(ctx, env.store)
	if err != nil {
		return nil, "", err
	}

	return authManager, token, nil
}

func runUpdate(ctx context.Context, out io.Writer, env *environment) error {
	authManager, token, err := login(ctx, out, env)
	if err != nil {
		reportError(out, err)
		return err
	}

	tokenInfo, err := authManager.ValidateToken(ctx)
	if err != nil {
		reportError(out, err)
		return err
	}
	fmt.Fprintf(out, "✓ Authenticated as %s\n", tokenInfo.User)

	client, err := authManager.Client()
	if err != nil {
		reportError(out, err)
		return err
	}
	defer warnRateLimit(out, env, client)

	fmt.Fprintf(out, "🔍 Fetching repositories and branches...\n")
	record, err := mirror.NewSyncer(env.store, env.logger).SyncAccount(ctx, client, token)
	if err != nil {
		env.logger.Error("account sync failed", zap.Error(err))
		reportError(out, err)
		return err
	}

	fmt.Fprintf(out, "✅ %s updated successfully (%d repositories)\n", env.store.Path(), len(record.Repositories))
	return nil
}

func runLink(ctx context.Context, out io.Writer, env *environment, link string) error {
	authManager, _, err := login(ctx, out, env)
	if err != nil {
		reportError(out, err)
		return err
	}

	client, err := authManager.OrganizationClient()
	if err != nil {
		reportError(out, err)
		return err
	}

	fmt.Fprintf(out, "🔍 Fetching repositories of %s...\n", link)
	record, err := mirror.NewSyncer(env.store, env.logger).SyncOrganization(ctx, client, link)
	if err != nil {
		env.logger.Error("organization sync failed", zap.String("link", link), zap.Error(err))
		reportError(out, err)
		return err
	}

	fmt.Fprintf(out, "✅ %s updated successfully (%d repositories)\n", env.store.Path(), len(record.Repositories))
	return nil
}

// warnRateLimit tells the user when few API requests are left
func warnRateLimit(out io.Writer, env *environment, client *github.Client) {
	status, ok := client.RateLimit()
	if !ok {
		return
	}

	env.logger.Debug("GitHub rate limit",
		zap.Int("limit", status.Limit),
		zap.Int("remaining", status.Remaining),
		zap.Time("reset", status.ResetTime))

	if status.Low() {
		fmt.Fprintf(out, "⚠️  Only %d GitHub API requests left until %s\n",
			status.Remaining, status.ResetTime.Local().Format(time.Kitchen))
	}
}
