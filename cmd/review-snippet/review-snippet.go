package reviewsnippet

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/revio/internal/output"
	"github.com/scan-io-git/revio/internal/review"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/logger"
)

// RunOptionsReviewSnippet holds the arguments for the review-snippet command.
type RunOptionsReviewSnippet struct {
	InputFile           string
	Filename            string
	Format              string
	OutputPath          string
	ComplexityThreshold string
	UseAI               bool
	Upload              bool
}

// Global variables for configuration and command arguments
var (
	AppConfig                 *config.Config
	reviewSnippetOptions      RunOptionsReviewSnippet
	exampleReviewSnippetUsage = `  # Reviewing code piped through stdin
  cat handler.py | revio review-snippet

  # Reviewing a file as a pasted snippet with a custom name
  revio review-snippet --input-file /tmp/paste.txt --filename handler.py

  # Asking for an AI summary and a JSON report
  pbpaste | revio review-snippet --use-ai --format json --output /path/to/results/snippet.json`
)

// ReviewSnippetCmd represents the review-snippet command.
var ReviewSnippetCmd = &cobra.Command{
	Use:                   "review-snippet [--input-file/-i PATH | -] [--filename NAME] [--format/-f markdown|json|sarif] [--output/-o PATH] [--complexity-threshold A-F] [--use-ai] [--upload]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReviewSnippetUsage,
	Short:                 "Review a pasted Python snippet",
	Long: `Reviews Python source read from a file or stdin. The code is written to a temporary
directory that is removed when the review ends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReviewSnippetCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runReviewSnippetCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-review-snippet")

	if err := validateReviewSnippetArgs(&reviewSnippetOptions, args); err != nil {
		logger.Debug("invalid review-snippet arguments", "error", err)
		return err
	}

	code, err := readSnippet(&reviewSnippetOptions, cmd.InOrStdin())
	if err != nil {
		return err
	}

	reviewID := uuid.New().String()
	engine := review.NewEngine(logger, AppConfig)
	report, err := engine.ReviewSnippet(cmd.Context(), code, reviewSnippetOptions.Filename, review.Options{
		ReviewID:            reviewID,
		ComplexityThreshold: reviewSnippetOptions.ComplexityThreshold,
		UseAI:               reviewSnippetOptions.UseAI,
	})
	if err != nil {
		return err
	}

	return output.New(logger, cmd.OutOrStdout(), AppConfig).Deliver(cmd.Context(), report, reviewID, output.Options{
		Format:     reviewSnippetOptions.Format,
		OutputPath: reviewSnippetOptions.OutputPath,
		Upload:     reviewSnippetOptions.Upload,
	})
}

// Initialize flags for the review-snippet command.
func init() {
	ReviewSnippetCmd.Flags().StringVarP(&reviewSnippetOptions.InputFile, "input-file", "i", "", "Read the snippet from this file instead of stdin.")
	ReviewSnippetCmd.Flags().StringVar(&reviewSnippetOptions.Filename, "filename", "", "File name the snippet is reviewed under (default is the .py input file name, otherwise from config, snippet.py).")
	ReviewSnippetCmd.Flags().StringVarP(&reviewSnippetOptions.Format, "format", "f", "markdown", "Report format: markdown, json or sarif.")
	ReviewSnippetCmd.Flags().StringVarP(&reviewSnippetOptions.OutputPath, "output", "o", "", "Also write the report to this file. Parent folders are created.")
	ReviewSnippetCmd.Flags().StringVar(&reviewSnippetOptions.ComplexityThreshold, "complexity-threshold", "", "Lowest radon grade (A-F) reported as a finding (default from config, C).")
	ReviewSnippetCmd.Flags().BoolVar(&reviewSnippetOptions.UseAI, "use-ai", false, "Add an AI narrative to the report.")
	ReviewSnippetCmd.Flags().BoolVar(&reviewSnippetOptions.Upload, "upload", false, "Upload the rendered report to the configured S3 bucket.")
	ReviewSnippetCmd.Flags().BoolP("help", "h", false, "Show help for the review-snippet command.")
}
