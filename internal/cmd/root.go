package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"branchsync/pkg/cache"
	"branchsync/pkg/config"
	"branchsync/pkg/logging"
	"branchsync/pkg/mirror"
)

// Process exit codes
const (
	exitOK          = 0
	exitUsage       = 1
	exitBranch      = 2
	exitSyncFailure = 3
)

// rootOptions holds the flag values of one invocation
type rootOptions struct {
	update     bool
	link       string
	source     string
	target     string
	repository string

	settingsPath string
	configPath   string
}

func (o *rootOptions) branchRequest() mirror.BranchRequest {
	return mirror.BranchRequest{
		Repository: o.repository,
		Source:     o.source,
		Target:     o.target,
	}
}

// exitError carries the exit code for a failure that was already reported
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// NewRootCmd builds the branchsync command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "branchsync",
		Short: "Mirror GitHub repositories into settings.yaml and create branches from it",
		Long: `Branchsync keeps a local settings.yaml with the repositories and branch names
your GitHub token can see, and uses it to guard branch creation: a branch is only
created when the repository and source branch are present in the settings file.`,
		Example: `  # Rebuild settings.yaml from every repository of the token owner
  branchsync -u

  # Merge the repositories of an organization into settings.yaml
  branchsync --link=https://github.com/acme

  # Create feature-x from dev in repository tool
  branchsync -r tool -s dev -t feature-x`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, opts)
		},
	}

	rootCmd.Flags().BoolVarP(&opts.update, "update", "u", false, "Rebuild the settings file from every repository the token can see")
	rootCmd.Flags().StringVarP(&opts.link, "link", "l", "", "Merge the repositories of the organization at this GitHub link into the settings file")
	rootCmd.Flags().StringVarP(&opts.source, "src", "s", "", "Source branch to create the new branch from")
	rootCmd.Flags().StringVarP(&opts.target, "trg", "t", "", "Name of the branch to create")
	rootCmd.Flags().StringVarP(&opts.repository, "repo", "r", "", "Repository to create the branch in")

	rootCmd.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "Path to the settings file (default \"settings.yaml\")")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", fmt.Sprintf("Path to the branchsync configuration file (default %s or ./branchsync.yaml)", config.GetConfigPath()))

	rootCmd.AddCommand(newInitCmd(opts))

	return rootCmd
}

// Execute runs branchsync with the process arguments and returns the exit code
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if args == nil {
		args = []string{}
	}

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	fmt.Fprintf(errOut, "Error: %v\n", err)
	fmt.Fprint(errOut, cmd.UsageString())
	return exitUsage
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	if cmd.Flags().NFlag() == 0 {
		return cmd.Help()
	}

	env, err := loadEnvironment(opts)
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
		return &exitError{code: exitUsage, err: err}
	}
	defer func() { _ = env.logger.Sync() }()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if opts.update {
		if err := runUpdate(ctx, out, env); err != nil {
			return &exitError{code: exitSyncFailure, err: err}
		}
	}

	if opts.link != "" {
		if err := runLink(ctx, out, env, opts.link); err != nil {
			return &exitError{code: exitSyncFailure, err: err}
		}
	}

	req := opts.branchRequest()
	if !req.Complete() {
		fmt.Fprintf(out, "\nℹ️  Program will exit now.\n")
		return nil
	}

	if err := runCreateBranch(ctx, out, env, req); err != nil {
		return &exitError{code: exitBranch, err: err}
	}
	return nil
}

// environment is what every action needs once flags and configuration are resolved
type environment struct {
	config *config.Config
	logger *zap.Logger
	store  *cache.Store
}

func loadEnvironment(opts *rootOptions) (*environment, error) {
	cfg, err := config.LoadConfigFromPath(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.settingsPath != "" {
		cfg.SettingsFile = opts.settingsPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(level, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &environment{
		config: cfg,
		logger: logger,
		store:  cache.NewFileStore(cfg.SettingsFile),
	}, nil
}
