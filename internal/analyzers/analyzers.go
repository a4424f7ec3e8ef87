package analyzers

import (
	"fmt"
	"os"
	"strings"

	"github.com/scan-io-git/revio/internal/runner"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

// successExitCodes are the exit statuses meaning "clean" or "issues found" for ruff and radon.
var successExitCodes = map[int]struct{}{0: {}, 1: {}}

// CheckTarget fails with ErrPathNotFound when path does not exist.
func CheckTarget(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", reviewerrors.ErrPathNotFound, path)
		}
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return nil
}

// CheckExitStatus turns an exit status outside of the allow-list into a ToolError carrying stderr.
func CheckExitStatus(tool string, res runner.Result) error {
	if _, ok := successExitCodes[res.ExitCode]; ok {
		return nil
	}
	return reviewerrors.NewToolError(tool, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
}

// IsBlank reports whether tool output carries nothing to decode.
func IsBlank(stdout []byte) bool {
	return len(strings.TrimSpace(string(stdout))) == 0
}
