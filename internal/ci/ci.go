// Package ci discovers the pull or merge request a CI job runs for.
package ci

import (
	"os"
	"strconv"
	"strings"

	"github.com/scan-io-git/revio/pkg/shared/vcsurl"
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment is the CI metadata needed to review the current change request.
type Environment struct {
	Provider           vcsurl.VCSType // Provider is UnknownVCS outside of a supported CI.
	ServerURL          string         // ServerURL is the scheme and host of the VCS server.
	RepositoryFullName string         // RepositoryFullName is the namespace-qualified repository name.
	CommitHash         string
	PullRequest        int // PullRequest is zero for branch and tag pipelines.
}

// HasPullRequest reports whether the job runs for a pull or merge request.
func (e Environment) HasPullRequest() bool {
	return e.Provider != vcsurl.UnknownVCS && e.RepositoryFullName != "" && e.PullRequest > 0
}

// Detect reads the CI environment with lookup.
func Detect(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch {
	case lookup("GITHUB_REPOSITORY") != "":
		return githubEnvironment(lookup)
	case strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "":
		return gitlabEnvironment(lookup)
	default:
		return Environment{}
	}
}

// githubEnvironment reads GitHub Actions variables. Pull request workflows check out refs/pull/<n>/merge.
// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func githubEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Provider:           vcsurl.Github,
		ServerURL:          lookup("GITHUB_SERVER_URL"),
		RepositoryFullName: lookup("GITHUB_REPOSITORY"),
		CommitHash:         lookup("GITHUB_SHA"),
	}
	parts := strings.Split(lookup("GITHUB_REF"), "/")
	if len(parts) == 4 && parts[0] == "refs" && parts[1] == "pull" {
		env.PullRequest, _ = strconv.Atoi(parts[2])
	}
	return env
}

// gitlabEnvironment reads GitLab CI variables. CI_MERGE_REQUEST_IID is only set in merge request pipelines.
// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func gitlabEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Provider:           vcsurl.Gitlab,
		ServerURL:          lookup("CI_SERVER_URL"),
		RepositoryFullName: lookup("CI_PROJECT_PATH"),
		CommitHash:         lookup("CI_COMMIT_SHA"),
	}
	env.PullRequest, _ = strconv.Atoi(lookup("CI_MERGE_REQUEST_IID"))
	return env
}
