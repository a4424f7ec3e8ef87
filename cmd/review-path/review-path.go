package reviewpath

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/revio/internal/output"
	"github.com/scan-io-git/revio/internal/review"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/logger"
)

// RunOptionsReviewPath holds the arguments for the review-path command.
type RunOptionsReviewPath struct {
	Path                string
	Format              string
	OutputPath          string
	ComplexityThreshold string
	UseAI               bool
	Upload              bool
	BaselinePath        string
	NewOnly             bool
}

// Global variables for configuration and command arguments
var (
	AppConfig              *config.Config
	reviewPathOptions      RunOptionsReviewPath
	exampleReviewPathUsage = `  # Reviewing the current directory
  revio review-path

  # Reviewing a specific project with an AI summary
  revio review-path --path /path/to/my_project --use-ai

  # Reporting only blocks graded D or worse, as SARIF saved to a file
  revio review-path /path/to/my_project --complexity-threshold D --format sarif --output /path/to/results/report.sarif

  # Showing only findings introduced since an earlier JSON report
  revio review-path /path/to/my_project --baseline /path/to/results/main.json --new-only

  # Uploading the JSON report to the configured S3 bucket
  revio review-path /path/to/my_project --format json --upload`
)

// ReviewPathCmd represents the review-path command.
var ReviewPathCmd = &cobra.Command{
	Use:                   "review-path [--path PATH | PATH] [--format/-f markdown|json|sarif] [--output/-o PATH] [--complexity-threshold A-F] [--use-ai] [--upload] [--baseline PATH [--new-only]]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReviewPathUsage,
	Short:                 "Review a local Python file or directory",
	Long: `Runs ruff, radon and the syntax tree heuristics against a local file or directory
and prints one severity-ranked report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReviewPathCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runReviewPathCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-review-path")

	if err := validateReviewPathArgs(&reviewPathOptions, args); err != nil {
		logger.Debug("invalid review-path arguments", "error", err)
		return err
	}

	baseline, err := loadBaseline(reviewPathOptions.BaselinePath)
	if err != nil {
		return err
	}

	reviewID := uuid.New().String()
	engine := review.NewEngine(logger, AppConfig)
	report, err := engine.ReviewLocalPath(cmd.Context(), reviewPathOptions.Path, review.Options{
		ReviewID:            reviewID,
		ComplexityThreshold: reviewPathOptions.ComplexityThreshold,
		UseAI:               reviewPathOptions.UseAI,
		Baseline:            baseline,
		NewOnly:             reviewPathOptions.NewOnly,
	})
	if err != nil {
		return err
	}

	return output.New(logger, cmd.OutOrStdout(), AppConfig).Deliver(cmd.Context(), report, reviewID, output.Options{
		Format:     reviewPathOptions.Format,
		OutputPath: reviewPathOptions.OutputPath,
		Upload:     reviewPathOptions.Upload,
	})
}

// Initialize flags for the review-path command.
func init() {
	ReviewPathCmd.Flags().StringVar(&reviewPathOptions.Path, "path", "", "Path to the file or directory to review (default is the current directory).")
	ReviewPathCmd.Flags().StringVarP(&reviewPathOptions.Format, "format", "f", "markdown", "Report format: markdown, json or sarif.")
	ReviewPathCmd.Flags().StringVarP(&reviewPathOptions.OutputPath, "output", "o", "", "Also write the report to this file. Parent folders are created.")
	ReviewPathCmd.Flags().StringVar(&reviewPathOptions.ComplexityThreshold, "complexity-threshold", "", "Lowest radon grade (A-F) reported as a finding (default from config, C).")
	ReviewPathCmd.Flags().BoolVar(&reviewPathOptions.UseAI, "use-ai", false, "Add an AI narrative to the report.")
	ReviewPathCmd.Flags().BoolVar(&reviewPathOptions.Upload, "upload", false, "Upload the rendered report to the configured S3 bucket.")
	ReviewPathCmd.Flags().StringVar(&reviewPathOptions.BaselinePath, "baseline", "", "Earlier JSON report of the same target to compare against.")
	ReviewPathCmd.Flags().BoolVar(&reviewPathOptions.NewOnly, "new-only", false, "Report only findings absent from the baseline.")
	ReviewPathCmd.Flags().BoolP("help", "h", false, "Show help for the review-path command.")
}
