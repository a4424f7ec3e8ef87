package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/revio/internal/analyzers"
	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/vcs"
	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
	"github.com/scan-io-git/revio/pkg/shared/files"
)

const snippetDirPattern = "code_review_snippet_*"

// ReviewLocalPath reviews a file or directory on disk.
func (e *Engine) ReviewLocalPath(ctx context.Context, path string, opts Options) (*findings.ReviewReport, error) {
	logger := e.reviewLogger(opts.ReviewID)

	minGrade, err := e.threshold(opts.ComplexityThreshold)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if err := analyzers.CheckTarget(absPath); err != nil {
		return nil, err
	}

	logger.Info("reviewing local path", "path", absPath, "threshold", minGrade.String(), "use_ai", opts.UseAI)
	fs, err := e.runAnalyzers(ctx, logger, absPath, minGrade)
	if err != nil {
		return nil, err
	}
	report := findings.NewReport(absPath)
	if fs, err = applyBaseline(logger, report, fs, opts); err != nil {
		return nil, err
	}
	if err := report.AddFindings(fs); err != nil {
		return nil, err
	}
	if err := e.attachRepositoryMetadata(logger, report, absPath); err != nil {
		return nil, err
	}
	if opts.UseAI {
		if err := e.summarize(ctx, logger, report, nil); err != nil {
			return nil, err
		}
	}

	logger.Info("review finished", "findings", report.Total())
	return report.Seal(), nil
}

// ReviewSnippet reviews pasted source code by writing it to a throwaway directory.
// The directory is removed on every exit path.
func (e *Engine) ReviewSnippet(ctx context.Context, code, filename string, opts Options) (*findings.ReviewReport, error) {
	if strings.TrimSpace(code) == "" {
		return nil, reviewerrors.NewValidationError("", "Code snippet is empty.")
	}

	filename = config.SetThen(filename, config.SetThen(e.cfg.SnippetFilename, config.DefaultSnippetFilename))
	if err := validateSnippetFilename(filename); err != nil {
		return nil, err
	}

	minGrade, err := e.threshold(opts.ComplexityThreshold)
	if err != nil {
		return nil, err
	}

	logger := e.reviewLogger(opts.ReviewID)

	tmpDir, err := os.MkdirTemp("", snippetDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create snippet directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.Warn("failed to remove snippet directory", "path", tmpDir, "error", err)
		}
	}()

	snippetPath, err := files.EnsureWithinRoot(tmpDir, filepath.Join(tmpDir, filename))
	if err != nil {
		return nil, reviewerrors.NewValidationError("filename", err.Error())
	}
	if err := os.WriteFile(snippetPath, []byte(code), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write snippet: %w", err)
	}

	logger.Info("reviewing snippet", "filename", filename, "bytes", len(code), "use_ai", opts.UseAI)
	fs, err := e.runAnalyzers(ctx, logger, snippetPath, minGrade)
	if err != nil {
		return nil, err
	}

	report := findings.NewReport(fmt.Sprintf("in-memory snippet (%s)", filename))
	if err := report.AddFindings(relativeTo(tmpDir, fs)); err != nil {
		return nil, err
	}
	if err := report.SetMetadata("source", "pasted_code"); err != nil {
		return nil, err
	}
	if opts.UseAI {
		if err := e.summarize(ctx, logger, report, nil); err != nil {
			return nil, err
		}
	}

	logger.Info("review finished", "findings", report.Total())
	return report.Seal(), nil
}

// ReviewPullRequest summarizes the changed files of a remote pull or merge request.
// No static analysis runs: the code is never checked out.
func (e *Engine) ReviewPullRequest(ctx context.Context, ref vcs.PullRequestRef, opts Options) (*findings.ReviewReport, error) {
	logger := e.reviewLogger(opts.ReviewID)

	fetcher, err := e.fetchers(ref.Provider)
	if err != nil {
		return nil, err
	}

	logger.Info("reviewing pull request", "provider", ref.Provider.String(), "repository", ref.FullName(), "number", ref.Number)
	changed, err := fetcher.FetchChangedFiles(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch changed files: %w", err)
	}

	report := findings.NewReport(ref.WebURL)
	if err := report.SetMetadata("files_changed", len(changed)); err != nil {
		return nil, err
	}
	if err := report.SetMetadata("provider", ref.Provider.String()); err != nil {
		return nil, err
	}
	if opts.UseAI {
		if err := e.summarize(ctx, logger, report, changed); err != nil {
			return nil, err
		}
	}

	logger.Info("review finished", "files_changed", len(changed))
	return report.Seal(), nil
}

func validateSnippetFilename(name string) error {
	if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return reviewerrors.NewValidationError("filename", fmt.Sprintf("%q must be a plain file name", name))
	}
	return nil
}

// relativeTo rewrites finding paths under dir so reports do not point into a deleted directory.
func relativeTo(dir string, fs []findings.Finding) []findings.Finding {
	out := make([]findings.Finding, len(fs))
	for i, f := range fs {
		if rel, err := filepath.Rel(dir, f.FilePath); err == nil && !strings.HasPrefix(rel, "..") {
			f.FilePath = filepath.ToSlash(rel)
		}
		out[i] = f
	}
	return out
}
