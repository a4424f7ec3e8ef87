package ask

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/revio/internal/aireview"
	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/llm"
	"github.com/scan-io-git/revio/internal/render"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/logger"
)

// RunOptionsAsk holds the arguments for the ask command.
type RunOptionsAsk struct {
	ReportPath string
	Question   string
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	askOptions      RunOptionsAsk
	exampleAskUsage = `  # Asking a follow-up question about a JSON report
  revio review-path ./service -f json -o /tmp/review.json
  revio ask --report /tmp/review.json --question "Which finding should I fix first?"

  # Passing the question as an argument
  revio ask -r /tmp/review.json "How do I split the parse function?"`
)

// reviewBot answers questions about a finished report.
type reviewBot interface {
	AskReviewBot(ctx context.Context, report *findings.ReviewReport, question string) (llm.Completion, error)
}

// AskCmd represents the ask command.
var AskCmd = &cobra.Command{
	Use:                   "ask --report/-r PATH [--question/-q TEXT | TEXT]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAskUsage,
	Short:                 "Ask the review assistant a question about a JSON report",
	Long: `Loads a report previously written with --format json and asks the configured LLM
a question about it. When no model is reachable the answer explains why.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAskCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runAskCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-ask")

	if err := validateAskArgs(&askOptions, args); err != nil {
		logger.Debug("invalid ask arguments", "error", err)
		return err
	}

	bot := aireview.New(logger, llm.NewClient(logger, AppConfig), aireview.LimitsFromConfig(AppConfig.Review))
	return answer(cmd.Context(), cmd.OutOrStdout(), bot, askOptions.ReportPath, askOptions.Question)
}

// answer loads the report at reportPath and prints the bot reply.
func answer(ctx context.Context, w io.Writer, bot reviewBot, reportPath, question string) error {
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	report, err := render.ParseJSON(data)
	if err != nil {
		return err
	}

	completion, err := bot.AskReviewBot(ctx, report, question)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, completion.String())
	return err
}

// Initialize flags for the ask command.
func init() {
	AskCmd.Flags().StringVarP(&askOptions.ReportPath, "report", "r", "", "Path to a report written with --format json.")
	AskCmd.Flags().StringVarP(&askOptions.Question, "question", "q", "", "Question about the report.")
	AskCmd.Flags().BoolP("help", "h", false, "Show help for the ask command.")
}
