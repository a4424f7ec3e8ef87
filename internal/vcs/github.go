package vcs

import (
	"context"
	"fmt"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

const githubPerPage = 100

// GithubFetcher lists pull request files through the GitHub REST API.
type GithubFetcher struct {
	logger        hclog.Logger
	client        *github.Client
	maxFiles      int
	maxPatchChars int
}

// NewGithubFetcher creates a fetcher for github.com or a GitHub Enterprise base URL.
func NewGithubFetcher(logger hclog.Logger, cfg config.VCS) (*GithubFetcher, error) {
	httpClient := newHTTPClient(cfg.GitHub.Token, cfg.Timeout)

	client := github.NewClient(httpClient)
	if cfg.GitHub.BaseURL != "" {
		var err error
		client, err = github.NewEnterpriseClient(cfg.GitHub.BaseURL, cfg.GitHub.BaseURL, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create github client: %w", err)
		}
	}

	return &GithubFetcher{
		logger:        logger,
		client:        client,
		maxFiles:      cfg.MaxFiles,
		maxPatchChars: cfg.MaxPatchChars,
	}, nil
}

// FetchChangedFiles pages through the pull request files until maxFiles are collected.
func (g *GithubFetcher) FetchChangedFiles(ctx context.Context, ref PullRequestRef) ([]ChangedFile, error) {
	g.logger.Debug("listing pull request files", "repo", ref.FullName(), "number", ref.Number)

	var result []ChangedFile
	opts := &github.ListOptions{PerPage: githubPerPage}
	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, ref.Namespace, ref.Repository, ref.Number, opts)
		if err != nil {
			code := 0
			if resp != nil {
				code = statusCode(resp.Response)
			}
			return nil, &reviewerrors.RemoteError{Provider: "github", StatusCode: code, Err: err}
		}

		for _, f := range files {
			result = append(result, ChangedFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
				Patch:     CapPatch(f.GetPatch(), g.maxPatchChars),
			})
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

	g.logger.Debug("pull request files fetched", "repo", ref.FullName(), "files", len(result))
	return result, nil
}
