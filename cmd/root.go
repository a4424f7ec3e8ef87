package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/revio/cmd/ask"
	reviewpath "github.com/scan-io-git/revio/cmd/review-path"
	reviewpr "github.com/scan-io-git/revio/cmd/review-pr"
	reviewsnippet "github.com/scan-io-git/revio/cmd/review-snippet"
	"github.com/scan-io-git/revio/cmd/version"
	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "revio [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Revio is a code review assistant for Python projects.",
		Long: `Revio merges ruff style issues, radon complexity grades and syntax tree heuristics
into one severity-ranked report, optionally adds an AI narrative, and reviews
GitHub pull requests or GitLab merge requests from their changed files.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the YAML config file (default is $REVIO_CONFIG, otherwise built-in defaults).")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return reviewerrors.NewCommandError(err, 2)
	})

	rootCmd.AddCommand(
		reviewpath.ReviewPathCmd,
		reviewsnippet.ReviewSnippetCmd,
		reviewpr.ReviewPRCmd,
		ask.AskCmd,
		version.NewVersionCmd(),
	)
}

// Execute runs the root command and returns the process exit code.
// Errors are printed once, as "Error: <message>", without usage or stack traces.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return reviewerrors.ExitCode(err)
	}
	return 0
}

func initConfig(_ *cobra.Command, _ []string) error {
	// a missing .env is fine
	_ = godotenv.Load()

	var err error
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		return reviewerrors.NewCommandError(err, 1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return reviewerrors.NewCommandError(err, 1)
	}

	reviewpath.Init(AppConfig)
	reviewsnippet.Init(AppConfig)
	reviewpr.Init(AppConfig)
	ask.Init(AppConfig)
	version.Init(AppConfig)
	return nil
}
