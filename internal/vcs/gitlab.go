package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/xanzy/go-gitlab"

	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

const gitlabPerPage = 100

// GitlabFetcher lists merge request diffs through the GitLab v4 API.
type GitlabFetcher struct {
	logger        hclog.Logger
	client        *gitlab.Client
	maxFiles      int
	maxPatchChars int
}

// NewGitlabFetcher creates a fetcher for gitlab.com or a self-managed instance.
func NewGitlabFetcher(logger hclog.Logger, cfg config.VCS) (*GitlabFetcher, error) {
	baseURL := config.SetThen(cfg.GitLab.BaseURL, config.DefaultGitLabBaseURL)
	client, err := gitlab.NewClient(cfg.GitLab.Token,
		gitlab.WithBaseURL(baseURL),
		gitlab.WithHTTPClient(newHTTPClient("", cfg.Timeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}

	return &GitlabFetcher{
		logger:        logger,
		client:        client,
		maxFiles:      cfg.MaxFiles,
		maxPatchChars: cfg.MaxPatchChars,
	}, nil
}

// FetchChangedFiles pages through the merge request diffs until maxFiles are collected.
func (g *GitlabFetcher) FetchChangedFiles(ctx context.Context, ref PullRequestRef) ([]ChangedFile, error) {
	g.logger.Debug("listing merge request diffs", "project", ref.FullName(), "iid", ref.Number)

	var result []ChangedFile
	opts := &gitlab.ListMergeRequestDiffsOptions{
		ListOptions: gitlab.ListOptions{PerPage: gitlabPerPage, Page: 1},
	}
	for {
		diffs, resp, err := g.client.MergeRequests.ListMergeRequestDiffs(ref.FullName(), ref.Number, opts, gitlab.WithContext(ctx))
		if err != nil {
			code := 0
			if resp != nil {
				code = statusCode(resp.Response)
			}
			return nil, &reviewerrors.RemoteError{Provider: "gitlab", StatusCode: code, Err: err}
		}

		for _, d := range diffs {
			result = append(result, g.toChangedFile(d))
			if g.maxFiles > 0 && len(result) >= g.maxFiles {
				g.logger.Debug("changed files limit reached", "limit", g.maxFiles)
				return result, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.logger.Debug("merge request diffs fetched", "project", ref.FullName(), "files", len(result))
	return result, nil
}

// toChangedFile uses the GitHub status vocabulary so both providers look the same to the reviewer.
func (g *GitlabFetcher) toChangedFile(d *gitlab.MergeRequestDiff) ChangedFile {
	status := "modified"
	switch {
	case d.NewFile:
		status = "added"
	case d.DeletedFile:
		status = "removed"
	case d.RenamedFile:
		status = "renamed"
	}

	additions, deletions := countDiffLines(d.Diff)
	return ChangedFile{
		Filename:  d.NewPath,
		Status:    status,
		Additions: additions,
		Deletions: deletions,
		Changes:   additions + deletions,
		Patch:     CapPatch(d.Diff, g.maxPatchChars),
	}
}

// countDiffLines counts added and removed lines of a diff body. GitLab diffs carry no file headers.
func countDiffLines(diff string) (additions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}
