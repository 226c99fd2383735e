package cmd

import (
	"errors"
	"fmt"
	"io"

	"branchsync/pkg/cache"
	"branchsync/pkg/github"
)

// reportError prints a failure and what the user can do about it
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "❌ %v\n", err)

	switch {
	case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrTokenMissing):
		fmt.Fprintf(w, "\n%s\n", github.GetAuthInstructions())
		return
	case cache.IsMalformed(err):
		fmt.Fprintf(w, "💡 Fix the settings file by hand, or recreate it with 'branchsync init --token <token> --force' followed by 'branchsync -u'\n")
		return
	}

	switch github.ErrorTypeOf(err) {
	case github.ErrorTypeAuth:
		fmt.Fprintf(w, "\n%s\n", github.GetAuthInstructions())
	case github.ErrorTypePermission:
		fmt.Fprintf(w, "💡 Check that the token has the repo scope\n")
	}

	var ghErr *github.GitHubError
	if errors.As(err, &ghErr) && ghErr.IsRetryable() {
		fmt.Fprintf(w, "🔄 This error is usually temporary. Please retry in a moment\n")
	}
}
