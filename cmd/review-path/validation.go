package reviewpath

import (
	"fmt"
	"os"

	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/render"
	"github.com/scan-io-git/revio/pkg/shared/errors"
	"github.com/scan-io-git/revio/pkg/shared/files"
)

// validateReviewPathArgs validates the arguments provided to the review-path command.
func validateReviewPathArgs(options *RunOptionsReviewPath, args []string) error {
	if len(args) > 0 {
		if options.Path != "" {
			return errors.NewValidationError("path", "you cannot use a 'path' flag and a target path at the same time")
		}
		options.Path = args[0]
	}
	if options.Path == "" {
		options.Path = "."
	}

	expanded, err := files.ExpandPath(options.Path)
	if err != nil {
		return errors.NewValidationError("path", err.Error())
	}
	options.Path = expanded

	if _, err := os.Stat(options.Path); os.IsNotExist(err) {
		return errors.NewValidationError("path", fmt.Sprintf("the target path does not exist: %v", options.Path))
	}

	if _, err := render.ParseFormat(options.Format); err != nil {
		return err
	}

	if options.NewOnly && options.BaselinePath == "" {
		return errors.NewValidationError("new-only", "'new-only' requires a 'baseline' report")
	}
	if options.BaselinePath != "" {
		expanded, err := files.ExpandPath(options.BaselinePath)
		if err != nil {
			return errors.NewValidationError("baseline", err.Error())
		}
		if err := files.ValidatePath(expanded); err != nil {
			return errors.NewValidationError("baseline", err.Error())
		}
		options.BaselinePath = expanded
	}
	return nil
}

// loadBaseline reads a JSON report written by an earlier review. An empty path means no baseline.
func loadBaseline(path string) (*findings.ReviewReport, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}
	report, err := render.ParseJSON(data)
	if err != nil {
		return nil, errors.NewValidationError("baseline", err.Error())
	}
	return report, nil
}
