package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"branchsync/internal/auth"
	"branchsync/pkg/cache"
)

// newBrowserOpener is replaced in tests
var newBrowserOpener = func() auth.BrowserOpener {
	return auth.NewBrowserOpener()
}

type initOptions struct {
	token string
	force bool
	open  bool
}

func newInitCmd(root *rootOptions) *cobra.Command {
	opts := &initOptions{}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file holding your GitHub token",
		Long: `Create a settings file that holds only the GitHub token, so that
'branchsync -u' has a credential to read. An existing settings file is kept
unless --force is given or you confirm the overwrite.

With --open the GitHub token page is opened in your browser with the repo
scope preselected.`,
		Example: `  branchsync init --open
  branchsync init --token ghp_xxxxxxxxxxxx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, root, opts)
		},
	}

	initCmd.Flags().StringVar(&opts.token, "token", "", "GitHub personal access token to store")
	initCmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing settings file without asking")
	initCmd.Flags().BoolVar(&opts.open, "open", false, "Open the GitHub token creation page in your browser")

	return initCmd
}

func runInit(cmd *cobra.Command, root *rootOptions, opts *initOptions) error {
	out := cmd.OutOrStdout()
	token := strings.TrimSpace(opts.token)

	if opts.open {
		tokenURL := auth.TokenCreationURL("branchsync")
		if err := newBrowserOpener().Open(tokenURL); err != nil {
			fmt.Fprintf(out, "⚠️  Could not open a browser: %v\n", err)
		}
		fmt.Fprintf(out, "🌐 Create a token at: %s\n", tokenURL)
		if token == "" {
			fmt.Fprintln(out, "📝 Then store it with 'branchsync init --token <token>'.")
			return nil
		}
	}

	if token == "" {
		return fmt.Errorf("--token is required and cannot be empty")
	}

	env, err := loadEnvironment(root)
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
		return &exitError{code: exitUsage, err: err}
	}
	defer func() { _ = env.logger.Sync() }()

	path := env.store.Path()

	exists, err := env.store.Exists()
	if err != nil {
		return fmt.Errorf("failed to check settings file: %w", err)
	}

	if exists && !opts.force {
		fmt.Fprintf(out, "⚠️  Settings file already exists at: %s\n", path)
		fmt.Fprint(out, "Do you want to overwrite it? Cached repositories will be removed. (y/N): ")

		var response string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Settings initialization cancelled.")
			return nil
		}
	}

	if err := env.store.Save(cache.NewRecord(token)); err != nil {
		return fmt.Errorf("failed to save settings file: %w", err)
	}

	fmt.Fprintf(out, "✅ Settings file created at: %s\n", path)
	fmt.Fprintln(out, "📝 Run 'branchsync -u' to fetch your repositories and branches.")

	return nil
}
