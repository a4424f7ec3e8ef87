package ask

import (
	"strings"

	"github.com/scan-io-git/revio/pkg/shared/errors"
	"github.com/scan-io-git/revio/pkg/shared/files"
)

// validateAskArgs validates the arguments provided to the ask command.
func validateAskArgs(options *RunOptionsAsk, args []string) error {
	if len(args) > 0 {
		if options.Question != "" {
			return errors.NewValidationError("question", "you cannot use a 'question' flag and a positional question at the same time")
		}
		options.Question = args[0]
	}

	if strings.TrimSpace(options.Question) == "" {
		return errors.NewValidationError("question", "question is empty")
	}

	if options.ReportPath == "" {
		return errors.NewValidationError("report", "'report' flag must be specified")
	}
	expanded, err := files.ExpandPath(options.ReportPath)
	if err != nil {
		return errors.NewValidationError("report", err.Error())
	}
	if err := files.ValidatePath(expanded); err != nil {
		return errors.NewValidationError("report", err.Error())
	}
	options.ReportPath = expanded
	return nil
}
