package reviewsnippet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/revio/internal/render"
	"github.com/scan-io-git/revio/pkg/shared/errors"
	"github.com/scan-io-git/revio/pkg/shared/files"
)

// validateReviewSnippetArgs validates the arguments provided to the review-snippet command.
// A single "-" argument means stdin; any other positional argument is treated as the input file.
func validateReviewSnippetArgs(options *RunOptionsReviewSnippet, args []string) error {
	if len(args) > 0 && args[0] != "-" {
		if options.InputFile != "" {
			return errors.NewValidationError("input-file", "you cannot use an 'input-file' flag and a positional file at the same time")
		}
		options.InputFile = args[0]
	}

	if options.InputFile != "" {
		expanded, err := files.ExpandPath(options.InputFile)
		if err != nil {
			return errors.NewValidationError("input-file", err.Error())
		}
		if err := files.ValidatePath(expanded); err != nil {
			return errors.NewValidationError("input-file", err.Error())
		}
		options.InputFile = expanded

		if name := filepath.Base(expanded); options.Filename == "" && strings.HasSuffix(name, ".py") {
			options.Filename = name
		}
	}

	if _, err := render.ParseFormat(options.Format); err != nil {
		return err
	}
	return nil
}

// readSnippet returns the snippet source from the input file or stdin.
func readSnippet(options *RunOptionsReviewSnippet, stdin io.Reader) (string, error) {
	if options.InputFile != "" {
		data, err := os.ReadFile(options.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read snippet: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read snippet from stdin: %w", err)
	}
	return string(data), nil
}
