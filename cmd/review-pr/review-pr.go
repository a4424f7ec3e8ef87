package reviewpr

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/revio/internal/output"
	"github.com/scan-io-git/revio/internal/review"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/logger"
)

// RunOptionsReviewPR holds the arguments for the review-pr command.
type RunOptionsReviewPR struct {
	URL        string
	Provider   string
	Repository string
	PRNumber   int
	Format     string
	OutputPath string
	UseAI      bool
	Upload     bool
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	reviewPROptions      RunOptionsReviewPR
	exampleReviewPRUsage = `  # Reviewing a GitHub pull request by URL
  revio review-pr https://github.com/acme/api/pull/42 --use-ai

  # Reviewing a GitLab merge request by repository and number
  revio review-pr --provider gitlab --repo group/subgroup/service --pr-number 7 --use-ai

  # Reviewing the merge request of the current GitLab CI pipeline
  revio review-pr --use-ai --format sarif --output gl-code-review.sarif

  # Reviewing a merge request on a self-hosted GitLab
  revio review-pr --provider gitlab https://git.example.com/team/service/-/merge_requests/12`
)

// ReviewPRCmd represents the review-pr command.
var ReviewPRCmd = &cobra.Command{
	Use:                   "review-pr [URL | --repo NAMESPACE/NAME --pr-number N] [--provider github|gitlab] [--use-ai] [--format/-f markdown|json|sarif] [--output/-o PATH] [--upload]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReviewPRUsage,
	Short:                 "Review the changed files of a pull or merge request",
	Long: `Fetches the changed files of a GitHub pull request or a GitLab merge request and,
with --use-ai, summarizes them. The code is not checked out, so no static analysis runs.
Inside a GitHub Actions pull request workflow or a GitLab merge request pipeline the
change request is detected from the environment when no URL or repository is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReviewPRCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runReviewPRCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-review-pr")

	ref, err := validateReviewPRArgs(&reviewPROptions, args, AppConfig.VCS)
	if err != nil {
		logger.Debug("invalid review-pr arguments", "error", err)
		return err
	}

	reviewID := uuid.New().String()
	engine := review.NewEngine(logger, AppConfig)
	report, err := engine.ReviewPullRequest(cmd.Context(), ref, review.Options{
		ReviewID: reviewID,
		UseAI:    reviewPROptions.UseAI,
	})
	if err != nil {
		return err
	}

	return output.New(logger, cmd.OutOrStdout(), AppConfig).Deliver(cmd.Context(), report, reviewID, output.Options{
		Format:     reviewPROptions.Format,
		OutputPath: reviewPROptions.OutputPath,
		Upload:     reviewPROptions.Upload,
	})
}

// Initialize flags for the review-pr command.
func init() {
	ReviewPRCmd.Flags().StringVar(&reviewPROptions.URL, "url", "", "Web URL of the pull or merge request.")
	ReviewPRCmd.Flags().StringVar(&reviewPROptions.Provider, "provider", "", "VCS provider: github or gitlab. Detected from the URL when omitted, github for --repo.")
	ReviewPRCmd.Flags().StringVar(&reviewPROptions.Repository, "repo", "", "Repository as NAMESPACE/NAME.")
	ReviewPRCmd.Flags().IntVar(&reviewPROptions.PRNumber, "pr-number", 0, "Pull or merge request number, used with --repo.")
	ReviewPRCmd.Flags().StringVarP(&reviewPROptions.Format, "format", "f", "markdown", "Report format: markdown, json or sarif.")
	ReviewPRCmd.Flags().StringVarP(&reviewPROptions.OutputPath, "output", "o", "", "Also write the report to this file. Parent folders are created.")
	ReviewPRCmd.Flags().BoolVar(&reviewPROptions.UseAI, "use-ai", false, "Summarize the changed files with the configured LLM.")
	ReviewPRCmd.Flags().BoolVar(&reviewPROptions.Upload, "upload", false, "Upload the rendered report to the configured S3 bucket.")
	ReviewPRCmd.Flags().BoolP("help", "h", false, "Show help for the review-pr command.")
}
