package vcs

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
	"github.com/scan-io-git/revio/pkg/shared/vcsurl"
)

// ChangedFile is one file touched by a pull or merge request.
type ChangedFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch"`
}

// PullRequestRef identifies a pull request on a provider.
type PullRequestRef struct {
	Provider   vcsurl.VCSType
	Namespace  string
	Repository string
	Number     int
	WebURL     string
}

// FullName returns "<namespace>/<repository>".
func (r PullRequestRef) FullName() string {
	return r.Namespace + "/" + r.Repository
}

// Fetcher lists the changed files of a pull request.
type Fetcher interface {
	FetchChangedFiles(ctx context.Context, ref PullRequestRef) ([]ChangedFile, error)
}

// NewFetcher returns the fetcher for the provider of ref.
func NewFetcher(logger hclog.Logger, cfg *config.Config, provider vcsurl.VCSType) (Fetcher, error) {
	switch provider {
	case vcsurl.Github:
		return NewGithubFetcher(logger, cfg.VCS)
	case vcsurl.Gitlab:
		return NewGitlabFetcher(logger, cfg.VCS)
	default:
		return nil, reviewerrors.NewValidationError("provider", fmt.Sprintf("unsupported provider %q", provider))
	}
}

// ParsePullRequestURL builds a reference from a pull or merge request web URL.
func ParsePullRequestURL(raw string, provider vcsurl.VCSType) (PullRequestRef, error) {
	u, err := vcsurl.ParseForVCSType(raw, provider)
	if err != nil {
		return PullRequestRef{}, reviewerrors.NewValidationError("pull request URL", err.Error())
	}
	if u.VCSType != vcsurl.Github && u.VCSType != vcsurl.Gitlab {
		return PullRequestRef{}, reviewerrors.NewValidationError("pull request URL",
			fmt.Sprintf("cannot detect provider of %q, set --provider", raw))
	}
	number, err := u.PullRequestNumber()
	if err != nil {
		return PullRequestRef{}, reviewerrors.NewValidationError("pull request URL", err.Error())
	}
	ref := PullRequestRef{
		Provider:   u.VCSType,
		Namespace:  u.Namespace,
		Repository: u.Repository,
		Number:     number,
	}
	ref.WebURL = webURL(ref, u.HTTPRepoLink)
	return ref, nil
}

// NewPullRequestRef builds a reference from "<namespace>/<name>" and a number.
// webBase is the provider web root, e.g. https://github.com; empty means the public host.
func NewPullRequestRef(provider vcsurl.VCSType, repo string, number int, webBase string) (PullRequestRef, error) {
	repo = strings.Trim(strings.TrimSpace(repo), "/")
	idx := strings.LastIndex(repo, "/")
	if idx <= 0 || idx == len(repo)-1 {
		return PullRequestRef{}, reviewerrors.NewValidationError("repo", fmt.Sprintf("%q is not in owner/name format", repo))
	}
	if number <= 0 {
		return PullRequestRef{}, reviewerrors.NewValidationError("pr-number", "must be a positive integer")
	}
	if provider == vcsurl.Github && strings.Contains(repo[:idx], "/") {
		return PullRequestRef{}, reviewerrors.NewValidationError("repo", fmt.Sprintf("%q is not in owner/name format", repo))
	}

	ref := PullRequestRef{
		Provider:   provider,
		Namespace:  repo[:idx],
		Repository: repo[idx+1:],
		Number:     number,
	}
	if webBase == "" {
		webBase = defaultWebBase(provider)
	}
	ref.WebURL = webURL(ref, strings.TrimSuffix(webBase, "/")+"/"+ref.FullName())
	return ref, nil
}

func defaultWebBase(provider vcsurl.VCSType) string {
	if provider == vcsurl.Gitlab {
		return config.DefaultGitLabBaseURL
	}
	return "https://github.com"
}

// WebBase derives the provider web root from the configured API base URL.
func WebBase(cfg config.VCS, provider vcsurl.VCSType) string {
	switch provider {
	case vcsurl.Github:
		base := strings.TrimSuffix(cfg.GitHub.BaseURL, "/")
		return strings.TrimSuffix(base, "/api/v3")
	case vcsurl.Gitlab:
		base := strings.TrimSuffix(cfg.GitLab.BaseURL, "/")
		return strings.TrimSuffix(base, "/api/v4")
	}
	return ""
}

func webURL(ref PullRequestRef, repoLink string) string {
	if ref.Provider == vcsurl.Gitlab {
		return fmt.Sprintf("%s/-/merge_requests/%d", repoLink, ref.Number)
	}
	return fmt.Sprintf("%s/pull/%d", repoLink, ref.Number)
}

// newHTTPClient returns a client with a bounded timeout, authenticated with a bearer token when one is set.
func newHTTPClient(token string, timeout time.Duration) *http.Client {
	if token == "" {
		return &http.Client{Timeout: timeout}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = timeout
	return client
}

// CapPatch keeps at most limit characters of patch.
func CapPatch(patch string, limit int) string {
	if limit <= 0 {
		return patch
	}
	n := 0
	for i := range patch {
		if n == limit {
			return patch[:i]
		}
		n++
	}
	return patch
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
